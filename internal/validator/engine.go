package validator

import "wohnwert/internal/domain"

// Engine runs every registered rule against a listing and aggregates the
// outcome. It is a pure predicate over the record.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over a populated registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// NewRequiredEngine is the standard configuration: only the required-field
// rules, with the given minimum size.
func NewRequiredEngine(minSizeSQM float64) *Engine {
	reg := NewRegistry()
	for _, rule := range RequiredRules(minSizeSQM) {
		reg.Register(rule)
	}
	return NewEngine(reg)
}

// Validate collects every failure from every rule; a listing passes only
// when no rule reports anything.
func (e *Engine) Validate(l *domain.Listing) domain.ValidationOutcome {
	var failures []domain.ValidationFailure
	for _, rule := range e.registry.All() {
		failures = append(failures, rule.Validate(l)...)
	}
	return domain.ValidationOutcome{
		Valid:    len(failures) == 0,
		Failures: failures,
	}
}
