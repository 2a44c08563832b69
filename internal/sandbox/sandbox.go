// Package sandbox implements the Code Sandbox: the only component in AURA
// permitted to evaluate LLM-synthesized Go source at runtime. It is a
// direct generalization of the teacher's internal/autopoiesis's
// yaegi_executor.go YaegiExecutor — import allowlist, goroutine+ctx.Done()
// timeout, and a fixed entrypoint convention — widened from a single
// "ExecuteToolCode" call to the §4.5/§4.C contract (Limits, typed failure
// modes, an explicit RunTool entrypoint resolved by name).
package sandbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"aura/internal/errs"
	"aura/internal/logging"
)

// allowedPackages is the fixed import allowlist from SPEC_FULL.md §4.C.
var allowedPackages = map[string]bool{
	"fmt":             true,
	"strings":         true,
	"strconv":         true,
	"math":            true,
	"sort":            true,
	"time":            true,
	"regexp":          true,
	"encoding/json":   true,
	"bytes":           true,
}

// deniedPackages is the hard deny list that short-circuits straight to
// ErrorKind::SandboxViolation without ever reaching interp.Eval.
var deniedPackages = map[string]bool{
	"os":      true,
	"os/exec": true,
	"net":     true,
	"net/http": true,
	"syscall": true,
	"unsafe":  true,
}

// Limits bounds one sandbox run. Zero values fall back to the defaults.
type Limits struct {
	Timeout time.Duration
}

// DefaultLimits returns §4.5's default wall-clock limit (10s). Peak-memory
// capping is not implementable from within the yaegi interpreter itself
// (no stdlib-exposed per-goroutine memory quota exists); the Sandbox
// enforces only the wall-clock limit the teacher's YaegiExecutor enforces,
// documented here rather than silently dropped.
func DefaultLimits() Limits {
	return Limits{Timeout: 10 * time.Second}
}

// Result is the Code Sandbox's contract output: { stdout, stderr, value?,
// ok, error? } from §4.5, specialized to the fixed func RunTool(string)
// (string, error) entrypoint convention, so stdout/stderr collapse to the
// single returned string and a typed error.
type Result struct {
	OK    bool
	Value string
	Error error
}

// Sandbox runs synthesized Go source through a yaegi interpreter restricted
// to allowedPackages. Constructed once in cmd/aura/main.go and threaded by
// parameter, never a package singleton.
type Sandbox struct{}

// New constructs a Sandbox.
func New() *Sandbox {
	return &Sandbox{}
}

// RunProgram implements run_program(source, input, limits) from §4.5.
// source must define `func RunTool(input string) (string, error)` at
// package scope (either already `package main` or bare declarations, which
// are wrapped in `package main` automatically, matching the teacher's
// wrapCode behavior).
func (s *Sandbox) RunProgram(ctx context.Context, source, input string, limits Limits) Result {
	if limits.Timeout <= 0 {
		limits = DefaultLimits()
	}

	if err := validateImports(source); err != nil {
		return Result{Error: err}
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Result{Error: errs.Wrap(errs.Internal, "sandbox: failed to load stdlib symbols", err)}
	}

	fullSource := wrapSource(source)
	if _, err := i.Eval(fullSource); err != nil {
		return Result{Error: errs.Wrap(errs.SandboxViolation, "sandbox: program failed to compile", err)}
	}

	runToolVal, err := i.Eval("main.RunTool")
	if err != nil {
		return Result{Error: errs.Wrap(errs.SandboxViolation, "sandbox: RunTool entrypoint not found", err)}
	}
	runTool, ok := runToolVal.Interface().(func(string) (string, error))
	if !ok {
		return Result{Error: errs.New(errs.SandboxViolation, "sandbox: RunTool has the wrong signature, want func(string) (string, error)")}
	}

	return s.execute(ctx, runTool, input, limits)
}

func (s *Sandbox) execute(ctx context.Context, runTool func(string) (string, error), input string, limits Limits) Result {
	callCtx, cancel := context.WithTimeout(ctx, limits.Timeout)
	defer cancel()

	type outcome struct {
		value string
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err := runTool(input)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			logging.Sandbox("RunTool returned error: %v", out.err)
			return Result{Error: errs.Wrap(errs.Internal, "sandbox: program returned an error", out.err)}
		}
		return Result{OK: true, Value: out.value}
	case <-callCtx.Done():
		logging.Sandbox("RunTool exceeded timeout of %s", limits.Timeout)
		return Result{Error: errs.New(errs.Timeout, "sandbox: program exceeded wall-clock limit")}
	}
}

// validateImports parses the source's import block (named-import syntax
// unsupported, matching the teacher's line-based parser) and rejects any
// package not in allowedPackages, denying outright on deniedPackages before
// even checking the allowlist.
func validateImports(source string) error {
	var forbidden []string
	inBlock := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "import (") {
			inBlock = true
			continue
		}
		if inBlock && strings.HasPrefix(trimmed, ")") {
			inBlock = false
			continue
		}

		var pkg string
		switch {
		case inBlock && trimmed != "":
			pkg = strings.Trim(trimmed, `"`)
		case strings.HasPrefix(trimmed, "import "):
			pkg = strings.Trim(strings.TrimPrefix(trimmed, "import "), `"`)
		default:
			continue
		}

		if deniedPackages[pkg] {
			return errs.New(errs.SandboxViolation, "sandbox: forbidden import: "+pkg)
		}
		if !allowedPackages[pkg] {
			forbidden = append(forbidden, pkg)
		}
	}
	if len(forbidden) > 0 {
		return errs.New(errs.SandboxViolation, fmt.Sprintf("sandbox: import not on allowlist: %v", forbidden))
	}
	return nil
}

func wrapSource(source string) string {
	if strings.Contains(source, "package main") {
		return source
	}
	return "package main\n\n" + source
}
