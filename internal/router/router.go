package router

import (
	"strings"
)

// Router classifies a raw utterance into an IntentMatch, deterministically
// and without I/O, per original_source/intent_router.py's IntentRouter.
// Construction compiles the builtin entry table once; Classify never
// mutates Router state, so a single instance is safe to share across
// concurrent Orchestrator invocations.
type Router struct {
	entries []entry
}

// New constructs a Router from the fixed builtin routing table. The tool
// Registry is not consulted here: the table is hand-curated per tool and
// independently grounded, not derived from ToolSpec metadata, mirroring the
// original's separately maintained FUNCTION_REGISTRY.
func New() *Router {
	return &Router{entries: builtinEntries()}
}

// Classify runs the pattern → conversation → keyword → fuzzy → none
// cascade: the conversation check applies only when no pattern (builtin or
// promoted) fires. promoted is a flattened view
// of the Capability store, always scanned after the builtin entries so a
// promoted rule can never shadow a builtin of equal or greater specificity.
func (r *Router) Classify(utterance string, promoted []PromotedRule) IntentMatch {
	trimmed := strings.TrimSpace(utterance)
	lower := strings.ToLower(trimmed)

	// Pattern phase runs first so we know whether a high-confidence
	// imperative match exists before falling back to the conversation
	// check; an utterance only goes to conversation if no pattern fires.
	if match, ok := r.patternPhase(trimmed); ok {
		return match
	}
	for _, rule := range promoted {
		if match, ok := promotedPatternPhase(trimmed, rule); ok {
			return match
		}
	}

	if isConversational(lower) {
		return IntentMatch{MatchReason: ReasonConversation, Confidence: 0.95}
	}

	tokens := tokenize(lower)

	if match, ok := r.keywordPhase(tokens); ok {
		return match
	}
	if match, ok := keywordPhasePromoted(tokens, promoted); ok {
		return match
	}

	if match, ok := r.fuzzyPhase(lower); ok {
		return match
	}
	if match, ok := fuzzyPhasePromoted(lower, promoted); ok {
		return match
	}

	return IntentMatch{MatchReason: ReasonNone, Confidence: 0.0}
}

// BuiltinRules exposes the trigger surface (keywords + canonical phrase,
// lowercased) of every builtin entry, for the Orchestrator to hand to
// capability.New so promoted capabilities can be rejected on collision
// against the builtin table without internal/capability importing
// internal/router.
func (r *Router) BuiltinRules() []BuiltinRule {
	out := make([]BuiltinRule, 0, len(r.entries))
	for _, e := range r.entries {
		phrases := make([]string, 0, len(e.keywords)+1)
		for _, kw := range e.keywords {
			phrases = append(phrases, strings.ToLower(kw))
		}
		if e.canonical != "" {
			phrases = append(phrases, strings.ToLower(e.canonical))
		}
		out = append(out, BuiltinRule{ToolName: e.toolName, Phrases: phrases})
	}
	return out
}

func (r *Router) patternPhase(utterance string) (IntentMatch, bool) {
	for _, e := range r.entries {
		for _, p := range e.patterns {
			m := p.FindStringSubmatch(utterance)
			if m == nil {
				continue
			}
			named := namedGroups(p, m)
			args := e.static
			if e.extract != nil {
				args = e.extract(named)
			}
			return IntentMatch{
				ToolName:    e.toolName,
				Args:        args,
				Confidence:  High + 0.10, // 0.95, matching the spec's pattern-phase constant
				MatchReason: ReasonPattern,
			}, true
		}
	}
	return IntentMatch{}, false
}

func promotedPatternPhase(utterance string, rule PromotedRule) (IntentMatch, bool) {
	lower := strings.ToLower(utterance)
	for _, trigger := range rule.Triggers {
		if trigger == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(trigger)) {
			return IntentMatch{
				ToolName:    rule.ToolName,
				Args:        rule.Args,
				Confidence:  High + 0.10,
				MatchReason: ReasonPattern,
			}, true
		}
	}
	return IntentMatch{}, false
}

func namedGroups(p regexpNamer, m []string) map[string]string {
	out := make(map[string]string, len(m))
	for i, name := range p.SubexpNames() {
		if i == 0 || name == "" || i >= len(m) {
			continue
		}
		out[name] = m[i]
	}
	return out
}

// regexpNamer is the subset of *regexp.Regexp used by namedGroups, kept as
// an interface only to document the dependency explicitly.
type regexpNamer interface {
	SubexpNames() []string
}

func isConversational(lower string) bool {
	for _, trigger := range conversationTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

func tokenize(lower string) map[string]bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// keywordThreshold and keywordBoost implement the scored keyword phase's
// fixed formula from SPEC_FULL.md §3: score = |intersection| / |keywords|,
// accepted at or above 0.60, confidence = min(High, score + 0.20).
const (
	keywordThreshold = 0.60
	keywordBoost     = 0.20
)

func (r *Router) keywordPhase(tokens map[string]bool) (IntentMatch, bool) {
	bestScore := 0.0
	var bestEntry *entry
	for i := range r.entries {
		e := &r.entries[i]
		score := keywordScore(tokens, e.keywords)
		if score > bestScore {
			bestScore = score
			bestEntry = e
		}
	}
	if bestEntry == nil || bestScore < keywordThreshold {
		return IntentMatch{}, false
	}
	confidence := bestScore + keywordBoost
	if confidence > High {
		confidence = High
	}
	args := bestEntry.static
	if bestEntry.extract != nil {
		args = bestEntry.extract(map[string]string{})
	}
	return IntentMatch{
		ToolName:    bestEntry.toolName,
		Args:        args,
		Confidence:  confidence,
		MatchReason: ReasonKeyword,
	}, true
}

func keywordPhasePromoted(tokens map[string]bool, promoted []PromotedRule) (IntentMatch, bool) {
	bestScore := 0.0
	var best *PromotedRule
	for i := range promoted {
		rule := &promoted[i]
		score := keywordScore(tokens, rule.Triggers)
		if score > bestScore {
			bestScore = score
			best = rule
		}
	}
	if best == nil || bestScore < keywordThreshold {
		return IntentMatch{}, false
	}
	confidence := bestScore + keywordBoost
	if confidence > High {
		confidence = High
	}
	return IntentMatch{
		ToolName:    best.ToolName,
		Args:        best.Args,
		Confidence:  confidence,
		MatchReason: ReasonKeyword,
	}, true
}

// keywordScore is |tokens ∩ keyword-tokens| / |keyword-tokens|: every word
// of every keyword phrase adds one to the denominator, and each of those
// words found in the utterance's token set adds one to the numerator.
func keywordScore(tokens map[string]bool, keywords []string) float64 {
	total := 0
	hit := 0
	for _, kw := range keywords {
		for _, word := range strings.Fields(kw) {
			total++
			if tokens[word] {
				hit++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}

// fuzzyThreshold and the confidence band implement §3's fuzzy phase: a
// similarity ratio below 0.75 is discarded; at or above it, similarity in
// [0.75, 1.0] maps linearly onto confidence in [Low, High-0.01].
const (
	fuzzyThreshold   = 0.75
	fuzzyConfFloor   = Low
	fuzzyConfCeiling = High - 0.01
)

func (r *Router) fuzzyPhase(lower string) (IntentMatch, bool) {
	bestSim := 0.0
	var bestEntry *entry
	for i := range r.entries {
		e := &r.entries[i]
		sim := similarity(lower, e.canonical)
		if sim > bestSim {
			bestSim = sim
			bestEntry = e
		}
	}
	if bestEntry == nil || bestSim < fuzzyThreshold {
		return IntentMatch{}, false
	}
	args := bestEntry.static
	if bestEntry.extract != nil {
		args = bestEntry.extract(map[string]string{})
	}
	return IntentMatch{
		ToolName:    bestEntry.toolName,
		Args:        args,
		Confidence:  fuzzyConfidence(bestSim),
		MatchReason: ReasonFuzzy,
	}, true
}

func fuzzyPhasePromoted(lower string, promoted []PromotedRule) (IntentMatch, bool) {
	bestSim := 0.0
	var best *PromotedRule
	for i := range promoted {
		rule := &promoted[i]
		for _, trigger := range rule.Triggers {
			sim := similarity(lower, strings.ToLower(trigger))
			if sim > bestSim {
				bestSim = sim
				best = rule
			}
		}
	}
	if best == nil || bestSim < fuzzyThreshold {
		return IntentMatch{}, false
	}
	return IntentMatch{
		ToolName:    best.ToolName,
		Args:        best.Args,
		Confidence:  fuzzyConfidence(bestSim),
		MatchReason: ReasonFuzzy,
	}, true
}

func fuzzyConfidence(sim float64) float64 {
	if sim >= 1.0 {
		return fuzzyConfCeiling
	}
	span := fuzzyConfCeiling - fuzzyConfFloor
	frac := (sim - fuzzyThreshold) / (1.0 - fuzzyThreshold)
	return fuzzyConfFloor + frac*span
}
