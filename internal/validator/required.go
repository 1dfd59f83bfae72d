package validator

import (
	"fmt"

	"wohnwert/internal/domain"
)

// requiredFieldRule checks one required-field constraint.
type requiredFieldRule struct {
	ruleKey  string
	ruleName string
	validate func(*domain.Listing) []domain.ValidationFailure
}

func (r *requiredFieldRule) RuleKey() string  { return r.ruleKey }
func (r *requiredFieldRule) RuleName() string { return r.ruleName }

func (r *requiredFieldRule) Validate(l *domain.Listing) []domain.ValidationFailure {
	return r.validate(l)
}

// RequiredRules returns the rules every listing must satisfy before it may
// be scored. minSizeSQM is the configured minimum plausible size.
func RequiredRules(minSizeSQM float64) []Rule {
	return []Rule{
		&requiredFieldRule{
			ruleKey: "required.price.positive", ruleName: "Required: Positive Purchase Price",
			validate: func(l *domain.Listing) []domain.ValidationFailure {
				if l.Costs.Price == nil {
					return []domain.ValidationFailure{{
						RuleKey:   "required.price.positive",
						FieldPath: "costs.price",
						Message:   "missing purchase price",
					}}
				}
				if *l.Costs.Price <= 0 {
					return []domain.ValidationFailure{{
						RuleKey:   "required.price.positive",
						FieldPath: "costs.price",
						Message:   fmt.Sprintf("price %.2f is not positive", *l.Costs.Price),
					}}
				}
				return nil
			},
		},
		&requiredFieldRule{
			ruleKey: "required.size.minimum", ruleName: "Required: Plausible Size",
			validate: func(l *domain.Listing) []domain.ValidationFailure {
				if l.Spec.SizeSQM == nil {
					return []domain.ValidationFailure{{
						RuleKey:   "required.size.minimum",
						FieldPath: "spec.size_sqm",
						Message:   "missing size",
					}}
				}
				if *l.Spec.SizeSQM < minSizeSQM {
					return []domain.ValidationFailure{{
						RuleKey:   "required.size.minimum",
						FieldPath: "spec.size_sqm",
						Message:   fmt.Sprintf("size %.2f m² below minimum plausible value %.2f m²", *l.Spec.SizeSQM, minSizeSQM),
					}}
				}
				return nil
			},
		},
		&requiredFieldRule{
			ruleKey: "required.betriebskosten.positive", ruleName: "Required: Operating Cost Figure",
			validate: func(l *domain.Listing) []domain.ValidationFailure {
				if l.Costs.BetriebskostenMonthly == nil {
					return []domain.ValidationFailure{{
						RuleKey:   "required.betriebskosten.positive",
						FieldPath: "costs.betriebskosten_monthly",
						Message:   "missing operating-cost figure",
					}}
				}
				if *l.Costs.BetriebskostenMonthly <= 0 {
					return []domain.ValidationFailure{{
						RuleKey:   "required.betriebskosten.positive",
						FieldPath: "costs.betriebskosten_monthly",
						Message:   fmt.Sprintf("operating cost %.2f is not positive", *l.Costs.BetriebskostenMonthly),
					}}
				}
				return nil
			},
		},
	}
}
