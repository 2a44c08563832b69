// Package builtin wires the OS Boundary's named operations into Tool Specs
// the Registry can catalog and the Executor can invoke. Each tool here is a
// thin adapter: argument coercion already happened in the Registry, so a
// handler's only job is to pull typed args out of the map, call exactly one
// Boundary method, and shape the return value. This mirrors the teacher's
// internal/tools/core/file_ops.go pattern of one constructor function per
// tool returning a *tools.ToolSpec that closes over its dependencies.
package builtin

import (
	"context"

	"github.com/mattn/go-shellwords"

	"aura/internal/errs"
	"aura/internal/osboundary"
	"aura/internal/tools"
)

// All returns every built-in tool, bound to the given OS Boundary. Called
// once in cmd/aura/main.go, which registers each returned spec in the
// Registry.
func All(b *osboundary.Boundary) []*tools.ToolSpec {
	specs := make([]*tools.ToolSpec, 0, 24)
	specs = append(specs, audioTools(b)...)
	specs = append(specs, displayTools(b)...)
	specs = append(specs, powerTools(b)...)
	specs = append(specs, appsTools(b)...)
	specs = append(specs, inputTools(b)...)
	specs = append(specs, clipboardTools(b)...)
	specs = append(specs, filesTools(b)...)
	specs = append(specs, desktopTools(b)...)
	specs = append(specs, timeTools(b)...)
	return specs
}

func argString(args map[string]any, name string) (string, error) {
	s, ok := args[name].(string)
	if !ok {
		return "", errs.New(errs.BadArgs, name+" must be a string")
	}
	return s, nil
}

func argInt(args map[string]any, name string) (int, error) {
	switch v := args[name].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, errs.New(errs.BadArgs, name+" must be an integer")
	}
}

// splitArgString parses the optional "args" field of apps.open into an argv
// slice using shell-word splitting rather than a naive strings.Split, so a
// quoted argument like `"--title=My Doc"` survives intact. Grounded in
// go-shellwords' use elsewhere in the pack for exactly this purpose: turning
// one argument string into an argv slice without shelling out through
// sh -c and its metacharacter risk.
func splitArgString(args map[string]any) ([]string, error) {
	raw, ok := args["args"].(string)
	if !ok || raw == "" {
		return nil, nil
	}
	parser := shellwords.NewParser()
	argv, err := parser.Parse(raw)
	if err != nil {
		return nil, errs.Wrap(errs.BadArgs, "could not parse args string", err)
	}
	return argv, nil
}

func withContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
