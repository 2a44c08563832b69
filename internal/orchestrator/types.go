// Package orchestrator implements the Hybrid Orchestrator: the single
// decision maker that routes every utterance through exactly one of the
// four layers and returns a uniform Response. Grounded on
// original_source/core/hybrid_orchestrator.py's HybridOrchestrator.process
// branch order (layer1_local -> layer1_gemini_fallback -> layer2_agentic ->
// layer3_healing) and stats dict, re-architected per §9's
// "module-level singleton -> explicit Orchestrator value" note: every
// collaborator below is a constructor parameter, not a package global.
package orchestrator

import (
	"sync"

	"aura/internal/capability"
	"aura/internal/executor"
	"aura/internal/healing"
	"aura/internal/llm"
	"aura/internal/planner"
	"aura/internal/router"
	"aura/internal/sandbox"
	"aura/internal/session"
	"aura/internal/tools"
)

// Response is the uniform result shape every layer ultimately produces,
// from §4.1's contract: process(utterance, session) -> Response { text,
// ok, used_llm, source_layer }.
type Response struct {
	Text        string
	OK          bool
	UsedLLM     bool
	SourceLayer session.Layer
}

// codegenFailureLimit is the fixed threshold from §4.1's escalation
// policy: "Layer 2 is also used when Layer 1.5 fails twice for the same
// utterance within the session."
const codegenFailureLimit = 2

// Orchestrator is the Hybrid Orchestrator: an explicit value constructed
// once in cmd/aura/main.go (per §4.A) and never a package singleton. It is
// the only component that decides which layer handles a given utterance;
// no layer re-routes to another behind its back.
type Orchestrator struct {
	router   *router.Router
	registry *tools.Registry
	exec     *executor.Executor
	sandbox  *sandbox.Sandbox
	planner  *planner.Planner
	healer   *healing.Healer
	caps     *capability.Store
	llmClient llm.Client // nil when no LLM_API_KEY is configured

	mu              sync.Mutex
	codegenFailures map[string]int // utterance -> consecutive Layer 1.5 failures this process
}

// New constructs an Orchestrator from its already-constructed
// collaborators. llmClient may be nil; Layers 1.5/2/conversation then
// return ErrorKind::NoCredentials instead of attempting a network call.
func New(r *router.Router, registry *tools.Registry, exec *executor.Executor, sb *sandbox.Sandbox, pl *planner.Planner, healer *healing.Healer, caps *capability.Store, llmClient llm.Client) *Orchestrator {
	return &Orchestrator{
		router:          r,
		registry:        registry,
		exec:            exec,
		sandbox:         sb,
		planner:         pl,
		healer:          healer,
		caps:            caps,
		llmClient:       llmClient,
		codegenFailures: make(map[string]int),
	}
}
