package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wohnwert/internal/domain"
	"wohnwert/internal/validator"
)

func validListing() *domain.Listing {
	l := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}
	l.Costs.Price = domain.Float(180000)
	l.Spec.SizeSQM = domain.Float(81)
	l.Costs.BetriebskostenMonthly = domain.Float(150)
	return l
}

func TestValidListingPasses(t *testing.T) {
	engine := validator.NewRequiredEngine(10)
	outcome := engine.Validate(validListing())
	assert.True(t, outcome.Valid)
	assert.Empty(t, outcome.Failures)
}

func TestAllFailuresReported(t *testing.T) {
	l := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}
	l.Costs.Price = domain.Float(-5)
	l.Spec.SizeSQM = domain.Float(4)

	engine := validator.NewRequiredEngine(10)
	outcome := engine.Validate(l)

	require.False(t, outcome.Valid)
	require.Len(t, outcome.Failures, 3)

	keys := make([]string, 0, len(outcome.Failures))
	for _, f := range outcome.Failures {
		keys = append(keys, f.RuleKey)
	}
	assert.Equal(t, []string{
		"required.price.positive",
		"required.size.minimum",
		"required.betriebskosten.positive",
	}, keys)
}

func TestZeroPriceRejected(t *testing.T) {
	l := validListing()
	l.Costs.Price = domain.Float(0)

	outcome := validator.NewRequiredEngine(10).Validate(l)
	require.False(t, outcome.Valid)
	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "costs.price", outcome.Failures[0].FieldPath)
}

func TestSizeBoundaryIsInclusive(t *testing.T) {
	l := validListing()
	l.Spec.SizeSQM = domain.Float(10)
	assert.True(t, validator.NewRequiredEngine(10).Validate(l).Valid)

	l.Spec.SizeSQM = domain.Float(9.99)
	assert.False(t, validator.NewRequiredEngine(10).Validate(l).Valid)
}

func TestConfigurableMinimumSize(t *testing.T) {
	l := validListing()
	l.Spec.SizeSQM = domain.Float(15)

	assert.True(t, validator.NewRequiredEngine(10).Validate(l).Valid)
	assert.False(t, validator.NewRequiredEngine(20).Validate(l).Valid)
}

func TestValidateDoesNotMutate(t *testing.T) {
	l := validListing()
	_ = validator.NewRequiredEngine(10).Validate(l)

	assert.Equal(t, 180000.0, *l.Costs.Price)
	assert.Equal(t, 81.0, *l.Spec.SizeSQM)
	assert.Equal(t, 150.0, *l.Costs.BetriebskostenMonthly)
}
