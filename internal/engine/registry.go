package engine

import (
	"fmt"
	"sync"

	"github.com/rxtech-lab/market-pulse/internal/config"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

// Group tags which conflict category a rule belongs to.
type Group string

const (
	// GroupTrend holds the weekly price trend rules
	GroupTrend Group = "trend"
	// GroupBreadth holds the market internals rules
	GroupBreadth Group = "breadth"
	// GroupContext holds the rules outside both conflict groups
	GroupContext Group = "context"
)

// Rule turns a bundle into exactly one signal.
type Rule interface {
	Name() string
	Group() Group
	Evaluate(bundle Bundle, cfg config.Config) (types.Signal, error)
}

// RuleRegistry keeps rules in registration order, which is the signal order.
type RuleRegistry interface {
	RegisterRule(rule Rule) error
	GetRule(name string) (Rule, error)
	ListRules() []string
	Evaluate(bundle Bundle, cfg config.Config) ([]types.Signal, error)
}

// RuleRegistryV1 is the default ordered rule registry.
type RuleRegistryV1 struct {
	rules []Rule
	index map[string]int
	mu    sync.RWMutex
}

// NewRuleRegistry creates an empty rule registry.
func NewRuleRegistry() *RuleRegistryV1 {
	return &RuleRegistryV1{
		rules: nil,
		index: make(map[string]int),
		mu:    sync.RWMutex{},
	}
}

// RegisterRule appends a rule to the registry.
func (r *RuleRegistryV1) RegisterRule(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := rule.Name()
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("RegisterRule: rule with name %s already registered", name)
	}

	r.index[name] = len(r.rules)
	r.rules = append(r.rules, rule)

	return nil
}

// GetRule retrieves a rule by name.
func (r *RuleRegistryV1) GetRule(name string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.index[name]
	if !exists {
		return nil, fmt.Errorf("GetRule: rule with name %s not found", name)
	}

	return r.rules[i], nil
}

// ListRules returns the rule names in evaluation order.
func (r *RuleRegistryV1) ListRules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.Name())
	}

	return names
}

// Evaluate runs every rule in order. Any rule error aborts the pass.
func (r *RuleRegistryV1) Evaluate(bundle Bundle, cfg config.Config) ([]types.Signal, error) {
	r.mu.RLock()
	rules := append([]Rule(nil), r.rules...)
	r.mu.RUnlock()

	signals := make([]types.Signal, 0, len(rules))

	for _, rule := range rules {
		signal, err := rule.Evaluate(bundle, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", rule.Name(), err)
		}

		signals = append(signals, signal)
	}

	return signals, nil
}

// DefaultRegistry returns a registry holding the eight market pulse rules in their fixed order.
func DefaultRegistry() *RuleRegistryV1 {
	registry := NewRuleRegistry()

	for _, rule := range defaultRules() {
		// names are distinct constants
		_ = registry.RegisterRule(rule)
	}

	return registry
}

// GroupOf returns the conflict group of a default rule name, or GroupContext.
func GroupOf(name string) Group {
	rule, err := DefaultRegistry().GetRule(name)
	if err != nil {
		return GroupContext
	}

	return rule.Group()
}
