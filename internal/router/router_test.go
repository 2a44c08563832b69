package router

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_PatternPhase_SetVolume(t *testing.T) {
	r := New()
	m := r.Classify("Set volume to 50", nil)
	require.Equal(t, "audio.set_volume", m.ToolName)
	require.Equal(t, ReasonPattern, m.MatchReason)
	require.InDelta(t, 0.95, m.Confidence, 1e-9)
	require.Equal(t, 50, m.Args["level"])
}

func TestClassify_PatternPhase_Mute(t *testing.T) {
	r := New()
	m := r.Classify("Mute", nil)
	require.Equal(t, "audio.mute", m.ToolName)
	require.Equal(t, ReasonPattern, m.MatchReason)
}

func TestClassify_Unknown(t *testing.T) {
	r := New()
	m := r.Classify("Calculate the square root of 5293", nil)
	require.Equal(t, ReasonNone, m.MatchReason)
	require.Equal(t, 0.0, m.Confidence)
	require.Equal(t, "", m.ToolName)
}

func TestClassify_Conversation(t *testing.T) {
	r := New()
	m := r.Classify("What's the meaning of life?", nil)
	require.True(t, m.IsConversation())
	require.InDelta(t, 0.95, m.Confidence, 1e-9)
}

func TestClassify_ConversationYieldsToPattern(t *testing.T) {
	r := New()
	// Contains the conversation trigger "can you" + imperative pattern;
	// pattern phase must win since it runs before the conversation check.
	m := r.Classify("can you lock the computer", nil)
	require.Equal(t, "power.lock", m.ToolName)
	require.False(t, m.IsConversation())
}

func TestClassify_KeywordPhase(t *testing.T) {
	r := New()
	// No regex pattern matches this phrasing directly, but keyword overlap
	// with audio.set_volume's vocabulary should clear the 0.60 threshold.
	m := r.Classify("please adjust the sound level a bit", nil)
	require.Equal(t, ReasonKeyword, m.MatchReason)
	require.Equal(t, "audio.set_volume", m.ToolName)
	require.GreaterOrEqual(t, m.Confidence, Low)
	require.LessOrEqual(t, m.Confidence, High)
}

func TestClassify_FuzzyPhase(t *testing.T) {
	r := New()
	// A noisy near-miss of "mute the volume" with no pattern hit and a
	// keyword score far below threshold should still clear the fuzzy
	// threshold.
	m := r.Classify("mude the volum", nil)
	require.Equal(t, ReasonFuzzy, m.MatchReason)
	if m.MatchReason == ReasonFuzzy {
		require.GreaterOrEqual(t, m.Confidence, Low)
		require.Less(t, m.Confidence, High)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	r := New()
	a := r.Classify("Set volume to 75", nil)
	b := r.Classify("Set volume to 75", nil)
	require.Equal(t, a, b)
}

func TestClassify_PromotedRule_PatternBeatsKeyword(t *testing.T) {
	r := New()
	promoted := []PromotedRule{
		{
			Name:     "good_morning_routine",
			Triggers: []string{"good morning"},
			ToolName: "capability.good_morning_routine",
			Args:     map[string]any{},
		},
	}
	m := r.Classify("good morning", promoted)
	require.Equal(t, "capability.good_morning_routine", m.ToolName)
	require.Equal(t, ReasonPattern, m.MatchReason)
}

func TestClassify_BuiltinShadowsPromoted(t *testing.T) {
	r := New()
	// A promoted rule triggered by a phrase that also matches a builtin
	// pattern must lose: builtins are scanned first in Classify.
	promoted := []PromotedRule{
		{
			Name:     "conflicting_mute_rule",
			Triggers: []string{"mute"},
			ToolName: "capability.conflicting_mute_rule",
			Args:     map[string]any{},
		},
	}
	m := r.Classify("mute", promoted)
	require.Equal(t, "audio.mute", m.ToolName)
}

func TestKeywordScore_Threshold(t *testing.T) {
	tokens := map[string]bool{"volume": true}
	score := keywordScore(tokens, []string{"volume", "sound level", "audio level"})
	// 1 of 5 total keyword-words present.
	require.InDelta(t, 0.2, score, 1e-9)
	require.Less(t, score, keywordThreshold)
}

func TestSimilarity_Identical(t *testing.T) {
	require.Equal(t, 1.0, similarity("mute the volume", "mute the volume"))
}

func TestSimilarity_Empty(t *testing.T) {
	require.Equal(t, 1.0, similarity("", ""))
	require.Equal(t, 0.0, similarity("abc", ""))
}
