package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./listings", cfg.Scanner.InputDir)
	assert.Equal(t, 4, cfg.Scanner.Concurrency)
	assert.Equal(t, "willhaben", cfg.Scanner.Portal)

	assert.False(t, cfg.Assisted.Enabled)
	assert.Equal(t, "conservative", cfg.Assisted.TriggerMode)
	assert.Equal(t, 180, cfg.Assisted.ExtractionTimeoutSecs)
	assert.Equal(t, "http://localhost:11434", cfg.Assisted.BaseURL)
	assert.True(t, cfg.Assisted.QualityCheckEnabled)

	assert.Equal(t, 3.5, cfg.Analysis.MortgageRate)
	assert.Equal(t, 0.30, cfg.Analysis.DownPaymentFraction)
	assert.Equal(t, 25, cfg.Analysis.LoanTermYears)
	assert.Equal(t, 12.0, cfg.Analysis.RentRateTable["default"])
	assert.Equal(t, 16.0, cfg.Analysis.RentRateTable["vienna_inner"])

	assert.Equal(t, 5.0, cfg.Scoring.BaseScore)
	assert.Equal(t, 8.0, cfg.Scoring.StrongBuyMin)
	assert.Equal(t, 0.25, cfg.Scoring.MRGPenalty)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WOHNWERT_SCANNER_CONCURRENCY", "8")
	t.Setenv("WOHNWERT_ASSISTED_ENABLED", "true")
	t.Setenv("WOHNWERT_ASSISTED_TRIGGER_MODE", "aggressive")
	t.Setenv("WOHNWERT_ANALYSIS_MORTGAGE_RATE", "4.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scanner.Concurrency)
	assert.True(t, cfg.Assisted.Enabled)
	assert.Equal(t, "aggressive", cfg.Assisted.TriggerMode)
	assert.Equal(t, 4.25, cfg.Analysis.MortgageRate)
}

func TestLoadScoringEnvOverrides(t *testing.T) {
	t.Setenv("WOHNWERT_SCORING_BASE_SCORE", "4.0")
	t.Setenv("WOHNWERT_SCORING_MRG_PENALTY", "0.75")
	t.Setenv("WOHNWERT_SCORING_FEATURE_COUNT_MIN", "6")
	t.Setenv("WOHNWERT_SCORING_STRONG_BUY_MIN", "9.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4.0, cfg.Scoring.BaseScore)
	assert.Equal(t, 0.75, cfg.Scoring.MRGPenalty)
	assert.Equal(t, 6, cfg.Scoring.FeatureCountMin)
	assert.Equal(t, 9.0, cfg.Scoring.StrongBuyMin)

	// untouched keys keep their defaults
	assert.Equal(t, 1.5, cfg.Scoring.YieldExcellentBonus)
	assert.Equal(t, 6.5, cfg.Scoring.BuyMin)
}

func TestLoadRentRateTableOverride(t *testing.T) {
	t.Setenv("WOHNWERT_ANALYSIS_RENT_RATE_TABLE", `{"Graz": 11.5, "linz": 10.0}`)

	cfg, err := Load()
	require.NoError(t, err)

	// override keys are lowercased; built-in entries survive
	assert.Equal(t, 11.5, cfg.Analysis.RentRateTable["graz"])
	assert.Equal(t, 10.0, cfg.Analysis.RentRateTable["linz"])
	assert.Equal(t, 12.0, cfg.Analysis.RentRateTable["default"])
}

func TestLoadRentRateTableMalformed(t *testing.T) {
	t.Setenv("WOHNWERT_ANALYSIS_RENT_RATE_TABLE", `{not json`)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rent_rate_table")
}

func TestLoadUnknownTriggerMode(t *testing.T) {
	t.Setenv("WOHNWERT_ASSISTED_TRIGGER_MODE", "eager")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trigger_mode")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("loaded defaults pass", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("zero concurrency", func(t *testing.T) {
		cfg := valid()
		cfg.Scanner.Concurrency = 0
		assert.ErrorContains(t, cfg.Validate(), "concurrency")
	})

	t.Run("down payment fraction of one", func(t *testing.T) {
		cfg := valid()
		cfg.Analysis.DownPaymentFraction = 1.0
		assert.ErrorContains(t, cfg.Validate(), "down_payment_fraction")
	})

	t.Run("missing default rent rate", func(t *testing.T) {
		cfg := valid()
		delete(cfg.Analysis.RentRateTable, "default")
		assert.ErrorContains(t, cfg.Validate(), `"default"`)
	})

	t.Run("non-descending thresholds", func(t *testing.T) {
		cfg := valid()
		cfg.Scoring.BuyMin = cfg.Scoring.StrongBuyMin
		assert.ErrorContains(t, cfg.Validate(), "strictly descending")
	})

	t.Run("collects every failure", func(t *testing.T) {
		cfg := valid()
		cfg.Scanner.Concurrency = 0
		cfg.Assisted.ExtractionTimeoutSecs = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "concurrency")
		assert.Contains(t, err.Error(), "extraction_timeout_secs")
	})
}
