// Package capability implements the Capability Store: the persisted set of
// promoted routing rules the Self-Healing Loop (internal/healing) adds at
// runtime, grounded on original_source/learning/capability_manager.py's
// CapabilityManager (add_capability/record_execution/_save_capabilities),
// narrowed from that file's broader skill-sharing and AST-introspection
// responsibilities to the promotion/conflict/persistence core named in
// SPEC_FULL.md §4.D. Supermemory/cloud skill-sharing is out of scope per
// the Non-goal on network-exposed RPC.
package capability

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"

	"aura/internal/errs"
	"aura/internal/logging"
)

// Source names where a Capability originated.
type Source string

const (
	SourceBuiltin  Source = "builtin"
	SourcePromoted Source = "promoted"
)

// Capability is the named, promotable routing rule from the data model:
// { name, triggers, tool_name, args_template, source, created_at }.
type Capability struct {
	Name        string         `json:"name"`
	Triggers    []string       `json:"triggers"`
	ToolName    string         `json:"tool_name"`
	ArgsTemplate map[string]any `json:"args_template"`
	Source      Source         `json:"source"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BuiltinTrigger is the minimal view of a built-in Router rule the Store
// needs to reject colliding promotions; populated once at construction by
// cmd/aura from internal/router's BuiltinRules, keeping
// internal/capability from importing internal/router.
type BuiltinTrigger struct {
	ToolName string
	Phrases  []string // patterns/keywords/canonical phrase, lowercased by the caller
}

// Store is the single persisted capability set. It is constructed once in
// cmd/aura/main.go and threaded by parameter; Promote is the only method
// that mutates it at runtime, matching §4.8's "promotion is the only path
// that mutates the Capability store" invariant.
type Store struct {
	mu       sync.RWMutex
	path     string
	builtins []BuiltinTrigger
	promoted map[string]Capability // keyed by name
}

// New constructs an empty Store bound to path, the file capabilities are
// persisted to. Call Load to populate it from disk.
func New(path string, builtins []BuiltinTrigger) *Store {
	return &Store{
		path:     path,
		builtins: builtins,
		promoted: make(map[string]Capability),
	}
}

// Load reads an existing capabilities.json, tolerating a missing file (a
// fresh AURA_DATA_DIR has none yet).
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to read store", err)
	}

	var caps []Capability
	if err := json.Unmarshal(data, &caps); err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to parse store", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range caps {
		s.promoted[c.Name] = c
	}
	return nil
}

// Snapshot returns every promoted capability, name-sorted, for read-only
// callers (the Router, via the Orchestrator's PromotedRule conversion).
func (s *Store) Snapshot() []Capability {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.promoted))
	for name := range s.promoted {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Capability, 0, len(names))
	for _, name := range names {
		out = append(out, s.promoted[name])
	}
	return out
}

// watchDebounce absorbs the burst of events a single external edit of
// capabilities.json produces (the atomic temp-file-then-rename save pattern
// itself fires a Create plus a Rename), mirroring the teacher's
// MangleWatcher debounce window.
const watchDebounce = 200 * time.Millisecond

// Watch starts an fsnotify watch on the store's parent directory and reloads
// from disk whenever capabilities.json changes underneath this process, so
// a hand-edited or externally-synced file takes effect without a restart.
// The watch goroutine runs until ctx is cancelled. A directory that does
// not exist yet is created first, so its absence is not an error.
// The Promote path remains the only in-process writer: Watch only ever
// replaces the in-memory map wholesale from what is on disk.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to create data dir", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to start watcher", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return errs.Wrap(errs.Internal, "capability: failed to watch "+dir, err)
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

// watchLoop is the fsnotify event pump, grounded on
// internal/core/mangle_watcher.go's debounce-then-reload loop, narrowed to
// this store's single file of interest and a reload instead of a repair.
func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var pending bool
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Capability("watch error: %v", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := s.reload(); err != nil {
				logging.Capability("reload after external edit failed: %v", err)
			} else {
				logging.Capability("reloaded %s after external edit", s.path)
			}
		}
	}
}

// reload replaces the in-memory promoted set with what is currently on
// disk, used by Watch to pick up external edits without restarting.
func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.mu.Lock()
		s.promoted = make(map[string]Capability)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to read store", err)
	}

	var caps []Capability
	if err := json.Unmarshal(data, &caps); err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to parse store", err)
	}

	promoted := make(map[string]Capability, len(caps))
	for _, c := range caps {
		promoted[c.Name] = c
	}

	s.mu.Lock()
	s.promoted = promoted
	s.mu.Unlock()
	return nil
}

// Promote adds cap to the store, persisting on success. Re-promoting an
// identical capability (same name, same triggers, same tool, same args) is
// a no-op that still reports success. A trigger collision against a
// built-in rule, or against a different existing promoted capability, is
// rejected.
func (s *Store) Promote(cap Capability) error {
	if cap.Name == "" {
		return errs.New(errs.BadArgs, "capability: name is required")
	}
	if cap.ToolName == "" {
		return errs.New(errs.BadArgs, "capability: tool_name is required")
	}
	cap.Source = SourcePromoted
	if cap.CreatedAt.IsZero() {
		cap.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.promoted[cap.Name]; ok {
		if identical(existing, cap) {
			logging.Capability("capability %q re-promoted identically, no-op", cap.Name)
			return nil
		}
		return errs.New(errs.BadArgs, "capability: "+cap.Name+" already promoted with different definition")
	}

	if conflict := s.findConflict(cap); conflict != "" {
		logging.Capability("capability %q rejected: collides with %s", cap.Name, conflict)
		return errs.New(errs.BadArgs, "capability: trigger collides with "+conflict)
	}

	s.promoted[cap.Name] = cap
	if err := s.save(); err != nil {
		delete(s.promoted, cap.Name)
		return err
	}
	logging.Capability("promoted capability %q -> tool %s", cap.Name, cap.ToolName)
	return nil
}

func identical(a, b Capability) bool {
	if a.ToolName != b.ToolName || len(a.Triggers) != len(b.Triggers) {
		return false
	}
	for i := range a.Triggers {
		if a.Triggers[i] != b.Triggers[i] {
			return false
		}
	}
	// cmp.Equal rather than a map-value != comparison: ArgsTemplate values
	// come from json.Unmarshal and can be slices/maps, a non-comparable
	// kind that != panics on.
	return cmp.Equal(a.ArgsTemplate, b.ArgsTemplate)
}

// findConflict reports the name of the first built-in or existing promoted
// rule whose trigger set overlaps cap's, or "" if none. Triggers are
// checked in order; for each trigger, builtins are checked before promoted
// capabilities, so a builtin collision is named when both match that same
// trigger.
func (s *Store) findConflict(cap Capability) string {
	for _, trigger := range cap.Triggers {
		lowered := strings.ToLower(trigger)
		for _, b := range s.builtins {
			for _, phrase := range b.Phrases {
				if strings.Contains(lowered, phrase) || strings.Contains(phrase, lowered) {
					return "builtin rule " + b.ToolName
				}
			}
		}
		for name, existing := range s.promoted {
			for _, existingTrigger := range existing.Triggers {
				if strings.EqualFold(existingTrigger, trigger) {
					return "promoted capability " + name
				}
			}
		}
	}
	return ""
}

// save persists the full promoted set via a temp-file-then-rename write,
// grounded in cmd/nerd/cmd_init_scan.go's atomic-facts-file write.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to create data dir", err)
	}

	names := make([]string, 0, len(s.promoted))
	for name := range s.promoted {
		names = append(names, name)
	}
	sort.Strings(names)
	caps := make([]Capability, 0, len(names))
	for _, name := range names {
		caps = append(caps, s.promoted[name])
	}

	data, err := json.MarshalIndent(caps, "", "  ")
	if err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to marshal store", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errs.Wrap(errs.Internal, "capability: failed to write temp file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.Internal, "capability: failed to rename temp file", err)
	}
	return nil
}
