// Package session implements the Session Context: per-process,
// single-writer state the Hybrid Orchestrator threads through every
// utterance. Grounded in original_source/core/context.py's LocalContext
// (user_name, last_command/result, session_commands ring buffer, command
// counters) and original_source/core/hybrid_orchestrator.py's self.stats
// dict (layer1_local/layer1_gemini_fallback/layer2_agentic/layer3_healing/
// skills_promoted), merged into the single Session type SPEC_FULL.md's
// data model names.
package session

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// historySize is the ring buffer capacity: the fixed N=20 from the data
// model's "recent_utterances (ring buffer of last N=20)".
const historySize = 20

// Stats mirrors the orchestrator's performance counters from the original's
// self.stats, renamed to the layer vocabulary SPEC_FULL.md §2/§4.1 uses.
type Stats struct {
	LocalCommands       int
	LLMCommands         int
	PlannedCommands     int
	HealingInvocations  int
	SkillsPromoted      int
	TokensSavedEstimate int
}

// Session is the process-wide, single-writer context the Orchestrator reads
// and updates for every utterance. Constructed once in cmd/aura/main.go and
// threaded by parameter, never a package singleton, per §4.A.
type Session struct {
	mu sync.Mutex

	userName      string
	assistantName string

	recent []string // ring buffer, oldest first, capped at historySize

	lastResult      string
	lastError       string
	lastUtteranceID string

	startedAt time.Time
	stats     Stats

	// statsPath and auditFile are set by Open, not New: a bare New is an
	// in-memory-only Session (tests, or a caller that does not want
	// cross-invocation persistence). Empty means persistence is disabled.
	statsPath string

	auditMu   sync.Mutex
	auditFile *os.File
}

// New constructs a Session. userName/assistantName default to "User"/"AURA"
// when empty, matching the original's "Sir" placeholder pattern generalized
// to a configurable, non-presumptuous default.
func New(userName, assistantName string) *Session {
	if userName == "" {
		userName = "User"
	}
	if assistantName == "" {
		assistantName = "AURA"
	}
	return &Session{
		userName:      userName,
		assistantName: assistantName,
		recent:        make([]string, 0, historySize),
		startedAt:     time.Now(),
	}
}

// UserName and AssistantName are read-only identity fields; they are set
// once at construction and never mutated over a session's lifetime.
func (s *Session) UserName() string      { return s.userName }
func (s *Session) AssistantName() string { return s.assistantName }

// RecordUtterance appends utterance to the ring buffer, evicting the oldest
// entry once historySize is exceeded, and returns a fresh ID for it. The ID
// correlates a single utterance's Router → Executor → Self-Healing trace
// and is written as the id of that utterance's audit-log entry.
func (s *Session) RecordUtterance(utterance string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, utterance)
	if len(s.recent) > historySize {
		s.recent = s.recent[len(s.recent)-historySize:]
	}
	s.lastUtteranceID = uuid.NewString()
	return s.lastUtteranceID
}

// LastUtteranceID returns the ID generated for the most recent
// RecordUtterance call, or "" before the first utterance.
func (s *Session) LastUtteranceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUtteranceID
}

// RecentUtterances returns a copy of the ring buffer, oldest first.
func (s *Session) RecentUtterances() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// RecordResult updates the last-result/last-error fields used by
// conversation-layer prompts that need recent context without re-sending
// the whole history.
func (s *Session) RecordResult(result string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastError = err.Error()
		s.lastResult = ""
		return
	}
	s.lastResult = result
	s.lastError = ""
}

// LastResult and LastError expose the most recent outcome.
func (s *Session) LastResult() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// RecordLayer increments the stats counter for the layer that handled an
// utterance, matching the original's stats[key] += 1 per-layer bookkeeping,
// then persists the updated counters to stats.json per §6 if Open set a
// path (a no-op for an in-memory Session built with New).
func (s *Session) RecordLayer(layer Layer) {
	s.mu.Lock()
	switch layer {
	case LayerLocal:
		s.stats.LocalCommands++
		s.stats.TokensSavedEstimate += estimatedTokensPerLLMCall
	case LayerCodeGen, LayerConversation:
		s.stats.LLMCommands++
	case LayerPlanner:
		s.stats.PlannedCommands++
		s.stats.LLMCommands++
	}
	snapshot := s.stats
	s.mu.Unlock()

	s.persistStats(snapshot)
}

// RecordHealing increments the self-healing invocation counter.
func (s *Session) RecordHealing() {
	s.mu.Lock()
	s.stats.HealingInvocations++
	snapshot := s.stats
	s.mu.Unlock()

	s.persistStats(snapshot)
}

// RecordPromotion increments the skills-promoted counter.
func (s *Session) RecordPromotion() {
	s.mu.Lock()
	s.stats.SkillsPromoted++
	snapshot := s.stats
	s.mu.Unlock()

	s.persistStats(snapshot)
}

// Stats returns a copy of the current stats, safe for concurrent readers
// (e.g. `aura status`).
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// StartedAt reports when the Session was constructed.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Layer names the orchestration layer that handled one utterance, mirrored
// from internal/orchestrator to avoid a dependency from session back to
// orchestrator; the Orchestrator converts its own layer enum to this one
// when calling RecordLayer.
type Layer string

const (
	LayerConversation Layer = "conversation"
	LayerLocal        Layer = "local"
	LayerCodeGen      Layer = "codegen"
	LayerPlanner      Layer = "planner"
)

// estimatedTokensPerLLMCall is a fixed heuristic used only for the
// tokens_saved_estimate stat: each Layer-1 hit is credited with the tokens
// an equivalent LLM round trip would have spent, grounded in the original's
// framing of Layer 1 as "0 token" execution.
const estimatedTokensPerLLMCall = 150
