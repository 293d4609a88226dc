package rewrite

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Pipeline stages. StageBeforeInference holds the built-in rules.
// StageAfterInference is reserved for rules that read TypeMap and CallTypes;
// no built-in rule is registered there, so running it is a no-op.
const (
	StageBeforeInference = "before-inference"
	StageAfterInference  = "after-inference"
)

// ErrRegistryFrozen is returned when registering after Freeze
var ErrRegistryFrozen = errors.New("rewrite registry is frozen")

// RuleEntry is one registered rule type
type RuleEntry struct {
	Name    string
	Factory Factory
}

// Registry maps a stage name to the ordered rules that run at that stage.
// It is populated during startup, frozen, then only read.
type Registry struct {
	mu     sync.RWMutex
	stages map[string][]RuleEntry
	frozen bool
}

// NewRegistry creates an empty, unfrozen registry
func NewRegistry() *Registry {
	return &Registry{
		stages: make(map[string][]RuleEntry),
	}
}

// Register appends a rule type to stage
func (r *Registry) Register(stage, name string, factory Factory) error {
	if stage == "" {
		return fmt.Errorf("register %q: empty stage name", name)
	}
	if factory == nil {
		return fmt.Errorf("register %q for stage %q: nil factory", name, stage)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register %q for stage %q: %w", name, stage, ErrRegistryFrozen)
	}

	for _, entry := range r.stages[stage] {
		if entry.Name == name {
			return fmt.Errorf("register %q for stage %q: already registered", name, stage)
		}
	}

	r.stages[stage] = append(r.stages[stage], RuleEntry{Name: name, Factory: factory})
	return nil
}

// MustRegister is Register for startup code; it panics on error
func (r *Registry) MustRegister(stage, name string, factory Factory) {
	if err := r.Register(stage, name, factory); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// RulesFor returns the rules of stage in registration order. An unknown
// stage has no rules.
func (r *Registry) RulesFor(stage string) []RuleEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.stages[stage]
	out := make([]RuleEntry, len(entries))
	copy(out, entries)
	return out
}

// HasStage reports whether any rule is registered for stage
func (r *Registry) HasStage(stage string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stages[stage]) > 0
}

// Stages returns every stage with at least one rule, sorted by name
func (r *Registry) Stages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stages))
	for name := range r.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry holding the built-in
// rules. It is initialized on first use and frozen.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		reg := NewRegistry()
		RegisterBuiltinRules(reg)
		reg.Freeze()
		defaultRegistry = reg
	})
	return defaultRegistry
}

// RegisterBuiltinRules registers the built-in rules in the order they must run
func RegisterBuiltinRules(reg *Registry) {
	// getitem runs first so print arguments fed by static indexing can fold
	reg.MustRegister(StageBeforeInference, ConstGetitemRewriteName, NewConstGetitemRewrite)
	reg.MustRegister(StageBeforeInference, PrintCallRewriteName, NewPrintCallRewrite)
	reg.MustRegister(StageBeforeInference, ConstPrintArgumentRewriteName, NewConstPrintArgumentRewrite)
}
