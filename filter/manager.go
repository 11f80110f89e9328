package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

// Manager holds named filters, typically the presets from configuration
type Manager struct {
	compiler Compiler
	filters  map[string]CompiledFilter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: defaultCompiler,
		filters:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers all filters or none of them
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for name, expr := range filters {
		filter, err := m.compiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns the registered filter names in sorted order
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the filter registered under nameOrExpr, or compiles it as an
// expression when no such name exists. A blank string matches everything.
func (m *Manager) Resolve(nameOrExpr string) (Filter, error) {
	nameOrExpr = strings.TrimSpace(nameOrExpr)
	if filter, ok := m.GetFilter(nameOrExpr); ok {
		return filter, nil
	}
	if nameOrExpr == "" {
		return matchAll{}, nil
	}
	return m.compiler.Compile(nameOrExpr)
}

// EvaluateFilter applies a registered filter to items
func (m *Manager) EvaluateFilter(name string, items []reviews.Review) ([]reviews.Review, error) {
	filter, exists := m.GetFilter(name)
	if !exists {
		return nil, fmt.Errorf("filter '%s' not found", name)
	}
	return Apply(filter, items), nil
}
