// Package validator gates listings between extraction and analysis. A
// listing that fails any required rule is rejected with every failing
// reason, so a run log shows the complete diagnosis rather than the first
// problem found.
package validator

import "wohnwert/internal/domain"

// Rule is a single validation rule over a listing. A rule reports zero or
// more failures and must not mutate the record.
type Rule interface {
	RuleKey() string
	RuleName() string
	Validate(l *domain.Listing) []domain.ValidationFailure
}
