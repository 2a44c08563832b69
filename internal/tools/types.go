// Package tools implements the Tool Registry: a catalog of named tools with
// typed argument schemas, risk levels, and handler bindings. Registration
// happens only at process start (cmd/aura); Capability promotion
// (internal/healing) stores routing rules in internal/capability rather
// than registering tools. Everything else is read-only against a Registry
// value, matching the Registry contract's "register/lookup/iter/snapshot"
// shape.
package tools

import "context"

// RiskLevel classifies how much latitude a tool has before the Tool
// Executor will run it without an explicit confirmation.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskConfirm RiskLevel = "confirm"
)

// ArgProperty describes one argument slot in a ToolSpec's schema: its type,
// whether it is required, a default when absent, and an optional enum
// constraint. The Registry uses this to coerce and validate args before any
// handler runs, never after.
type ArgProperty struct {
	Type     string // "string", "int", "float", "bool"
	Required bool
	Default  any
	Enum     []any
	Min, Max float64 // bounded-range constraint; both zero means unbounded
}

// HandlerFunc is the signature every tool handler implements. Handlers are
// pure with respect to the Executor: they return a value or fail, and never
// invoke other tools themselves.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// ToolSpec is the Registry's catalog entry: a unique name, a typed argument
// schema, a risk level, the capability tags it requires from the host (e.g.
// "os.audio", "os.window"), and the handler that actually runs it.
type ToolSpec struct {
	Name        string
	Description string
	ArgSchema   map[string]ArgProperty
	RiskLevel   RiskLevel
	Requires    []string
	HandlerID   string
	Handler     HandlerFunc
}

func (t *ToolSpec) validate() error {
	if t.Name == "" {
		return errToolNameEmpty
	}
	if t.Handler == nil {
		return errToolHandlerNil
	}
	return nil
}
