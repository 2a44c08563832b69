package tools

import (
	"fmt"
	"sort"
	"sync"

	"aura/internal/errs"
	"aura/internal/logging"
)

// Registry holds every tool AURA can invoke. Tools are registered only at
// process start (cmd/aura); Capability promotion stores routing rules in
// internal/capability and registers no tools here. Everything else reads a
// Registry value without mutating it.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*ToolSpec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*ToolSpec)}
}

// Register adds a tool. Duplicate names are a configuration error detected
// at registration time, never silently overwritten.
func (r *Registry) Register(spec *ToolSpec) error {
	if err := spec.validate(); err != nil {
		return fmt.Errorf("invalid tool %q: %w", spec.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[spec.Name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateTool, spec.Name)
	}
	r.tools[spec.Name] = spec
	logging.Get(logging.CategoryExecutor).Info("registered tool %s (risk=%s, requires=%v)", spec.Name, spec.RiskLevel, spec.Requires)
	return nil
}

// MustRegister registers a tool and panics on error; used for the fixed set
// of built-in tools wired at process start in cmd/aura.
func (r *Registry) MustRegister(spec *ToolSpec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Lookup returns a tool by name, or nil if not registered.
func (r *Registry) Lookup(name string) *ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Iter returns every registered tool in deterministic (name-sorted) order.
func (r *Registry) Iter() []*ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]*ToolSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, r.tools[name])
	}
	return specs
}

// Snapshot returns an immutable copy of the registered tool set, keyed by
// name, readable without holding the Registry's lock. The Router does not
// use it: its routing table is fixed in internal/router.
func (r *Registry) Snapshot() map[string]ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]ToolSpec, len(r.tools))
	for name, spec := range r.tools {
		out[name] = *spec
	}
	return out
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// CoerceArgs validates and coerces raw args against a tool's schema: missing
// required args, unknown-type values, out-of-range numbers, and values
// outside an enum constraint all fail here with ErrorKind::BadArgs, before
// the handler ever runs. Defaults are filled in for omitted optional args.
func CoerceArgs(spec *ToolSpec, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(spec.ArgSchema))
	for name, prop := range spec.ArgSchema {
		val, present := args[name]
		if !present {
			if prop.Required {
				return nil, errs.New(errs.BadArgs, "missing required argument: "+name)
			}
			if prop.Default != nil {
				out[name] = prop.Default
			}
			continue
		}

		coerced, err := coerceOne(name, prop, val)
		if err != nil {
			return nil, err
		}
		out[name] = coerced
	}
	// Pass through any args not named in the schema unchanged; a handler
	// that ignores them is the common case for optional free-form args.
	for name, val := range args {
		if _, known := spec.ArgSchema[name]; !known {
			out[name] = val
		}
	}
	return out, nil
}

func coerceOne(name string, prop ArgProperty, val any) (any, error) {
	switch prop.Type {
	case "int":
		n, ok := toInt(val)
		if !ok {
			return nil, errs.New(errs.BadArgs, fmt.Sprintf("%s: expected int, got %T", name, val))
		}
		if (prop.Min != 0 || prop.Max != 0) && (float64(n) < prop.Min || float64(n) > prop.Max) {
			return nil, errs.New(errs.BadArgs, fmt.Sprintf("%s: %d out of range [%g, %g]", name, n, prop.Min, prop.Max))
		}
		return n, nil
	case "float":
		f, ok := toFloat(val)
		if !ok {
			return nil, errs.New(errs.BadArgs, fmt.Sprintf("%s: expected float, got %T", name, val))
		}
		if (prop.Min != 0 || prop.Max != 0) && (f < prop.Min || f > prop.Max) {
			return nil, errs.New(errs.BadArgs, fmt.Sprintf("%s: %g out of range [%g, %g]", name, f, prop.Min, prop.Max))
		}
		return f, nil
	case "bool":
		b, ok := val.(bool)
		if !ok {
			return nil, errs.New(errs.BadArgs, fmt.Sprintf("%s: expected bool, got %T", name, val))
		}
		return b, nil
	default: // "string" and anything unspecified
		s, ok := val.(string)
		if !ok {
			return nil, errs.New(errs.BadArgs, fmt.Sprintf("%s: expected string, got %T", name, val))
		}
		if len(prop.Enum) > 0 && !containsAny(prop.Enum, s) {
			return nil, errs.New(errs.BadArgs, fmt.Sprintf("%s: %q not in %v", name, s, prop.Enum))
		}
		return s, nil
	}
}

func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func containsAny(set []any, s string) bool {
	for _, v := range set {
		if sv, ok := v.(string); ok && sv == s {
			return true
		}
	}
	return false
}
