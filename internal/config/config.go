package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"wohnwert/internal/domain"
)

// Config holds all application configuration. A malformed configuration is
// fatal at startup; nothing here is revalidated per listing.
type Config struct {
	Scanner  ScannerConfig
	Assisted AssistedConfig
	Analysis AnalysisConfig
	Scoring  ScoringConfig
	Log      LogConfig
}

// ScannerConfig holds settings for the document runner.
type ScannerConfig struct {
	InputDir    string `mapstructure:"input_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	Concurrency int    `mapstructure:"concurrency"`
	Portal      string `mapstructure:"portal"`
}

// AssistedConfig holds settings for the optional inference-backed
// extraction stage.
type AssistedConfig struct {
	Enabled                 bool   `mapstructure:"enabled"`
	TriggerMode             string `mapstructure:"trigger_mode"` // conservative | aggressive | always
	ExtractionTimeoutSecs   int    `mapstructure:"extraction_timeout_secs"`
	InferenceTimeoutSecs    int    `mapstructure:"inference_timeout_secs"`
	AvailabilityTimeoutSecs int    `mapstructure:"availability_timeout_secs"`
	HTMLMaxChars            int    `mapstructure:"html_max_chars"`
	QualityCheckEnabled     bool   `mapstructure:"quality_check_enabled"`
	BaseURL                 string `mapstructure:"base_url"`
	Model                   string `mapstructure:"model"`
}

// ExtractionTimeout is the hard wall-clock ceiling for one assisted call.
func (a *AssistedConfig) ExtractionTimeout() time.Duration {
	return time.Duration(a.ExtractionTimeoutSecs) * time.Second
}

// InferenceTimeout is the read timeout for the inference request itself.
func (a *AssistedConfig) InferenceTimeout() time.Duration {
	return time.Duration(a.InferenceTimeoutSecs) * time.Second
}

// AvailabilityTimeout bounds the availability probe.
func (a *AssistedConfig) AvailabilityTimeout() time.Duration {
	return time.Duration(a.AvailabilityTimeoutSecs) * time.Second
}

// AnalysisConfig holds the financial model parameters and the rent table.
type AnalysisConfig struct {
	MortgageRate            float64 `mapstructure:"mortgage_rate"`             // annual %, e.g. 3.5
	DownPaymentFraction     float64 `mapstructure:"down_payment_fraction"`     // e.g. 0.30
	TransactionCostFraction float64 `mapstructure:"transaction_cost_fraction"` // e.g. 0.09
	LoanTermYears           int     `mapstructure:"loan_term_years"`
	MinSizeSQM              float64 `mapstructure:"min_size_sqm"`

	// RentRateTable maps locality keys to €/m² monthly rent. Vienna is
	// resolved through the vienna_inner/vienna_outer bands instead of a
	// "wien" key. "default" is required.
	RentRateTable map[string]float64 `mapstructure:"rent_rate_table"`
}

// ScoringConfig holds the bonus magnitudes and recommendation thresholds.
// Penalties are stored as positive magnitudes and subtracted by the analyzer.
type ScoringConfig struct {
	BaseScore float64 `mapstructure:"base_score"`

	YieldExcellentMin    float64 `mapstructure:"yield_excellent_min"`
	YieldExcellentBonus  float64 `mapstructure:"yield_excellent_bonus"`
	YieldGoodMin         float64 `mapstructure:"yield_good_min"`
	YieldGoodBonus       float64 `mapstructure:"yield_good_bonus"`
	YieldAcceptableMin   float64 `mapstructure:"yield_acceptable_min"`
	YieldAcceptableBonus float64 `mapstructure:"yield_acceptable_bonus"`
	YieldPoorMax         float64 `mapstructure:"yield_poor_max"`
	YieldPoorPenalty     float64 `mapstructure:"yield_poor_penalty"`

	PriceUnderMarketRatio  float64 `mapstructure:"price_under_market_ratio"`
	PriceUnderMarketBonus  float64 `mapstructure:"price_under_market_bonus"`
	PriceCompetitiveRatio  float64 `mapstructure:"price_competitive_ratio"`
	PriceCompetitiveBonus  float64 `mapstructure:"price_competitive_bonus"`
	PriceOverMarketRatio   float64 `mapstructure:"price_over_market_ratio"`
	PriceOverMarketPenalty float64 `mapstructure:"price_over_market_penalty"`

	LowCostPerSQMMax  float64 `mapstructure:"low_cost_per_sqm_max"`
	LowCostBonus      float64 `mapstructure:"low_cost_bonus"`
	HighCostPerSQMMin float64 `mapstructure:"high_cost_per_sqm_min"`
	HighCostPenalty   float64 `mapstructure:"high_cost_penalty"`
	MissingCostPenalty float64 `mapstructure:"missing_cost_penalty"`

	ConditionBonus    float64 `mapstructure:"condition_bonus"`
	RenovationPenalty float64 `mapstructure:"renovation_penalty"`
	EnergyBonus       float64 `mapstructure:"energy_bonus"`
	EnergyPenalty     float64 `mapstructure:"energy_penalty"`

	FeatureCountMin int     `mapstructure:"feature_count_min"`
	FeatureBonus    float64 `mapstructure:"feature_bonus"`

	CashFlowStrongMin       float64 `mapstructure:"cash_flow_strong_min"`
	CashFlowStrongBonus     float64 `mapstructure:"cash_flow_strong_bonus"`
	CashFlowPositiveBonus   float64 `mapstructure:"cash_flow_positive_bonus"`
	CashFlowNegativeMax     float64 `mapstructure:"cash_flow_negative_max"`
	CashFlowNegativePenalty float64 `mapstructure:"cash_flow_negative_penalty"`

	MRGPenalty                 float64 `mapstructure:"mrg_penalty"`
	CommissionFreeBonus        float64 `mapstructure:"commission_free_bonus"`
	HighFloorNoElevatorPenalty float64 `mapstructure:"high_floor_no_elevator_penalty"`

	StrongBuyMin float64 `mapstructure:"strong_buy_min"`
	BuyMin       float64 `mapstructure:"buy_min"`
	ConsiderMin  float64 `mapstructure:"consider_min"`
	WeakMin      float64 `mapstructure:"weak_min"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from environment variables with the WOHNWERT_
// prefix, applies defaults, and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WOHNWERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Bind environment variables explicitly for nested keys
	for _, key := range []string{
		"scanner.input_dir", "scanner.output_dir", "scanner.concurrency", "scanner.portal",
		"assisted.enabled", "assisted.trigger_mode", "assisted.extraction_timeout_secs",
		"assisted.inference_timeout_secs", "assisted.availability_timeout_secs",
		"assisted.html_max_chars", "assisted.quality_check_enabled",
		"assisted.base_url", "assisted.model",
		"analysis.mortgage_rate", "analysis.down_payment_fraction",
		"analysis.transaction_cost_fraction", "analysis.loan_term_years",
		"analysis.min_size_sqm",
		"scoring.base_score",
		"scoring.yield_excellent_min", "scoring.yield_excellent_bonus",
		"scoring.yield_good_min", "scoring.yield_good_bonus",
		"scoring.yield_acceptable_min", "scoring.yield_acceptable_bonus",
		"scoring.yield_poor_max", "scoring.yield_poor_penalty",
		"scoring.price_under_market_ratio", "scoring.price_under_market_bonus",
		"scoring.price_competitive_ratio", "scoring.price_competitive_bonus",
		"scoring.price_over_market_ratio", "scoring.price_over_market_penalty",
		"scoring.low_cost_per_sqm_max", "scoring.low_cost_bonus",
		"scoring.high_cost_per_sqm_min", "scoring.high_cost_penalty",
		"scoring.missing_cost_penalty",
		"scoring.condition_bonus", "scoring.renovation_penalty",
		"scoring.energy_bonus", "scoring.energy_penalty",
		"scoring.feature_count_min", "scoring.feature_bonus",
		"scoring.cash_flow_strong_min", "scoring.cash_flow_strong_bonus",
		"scoring.cash_flow_positive_bonus",
		"scoring.cash_flow_negative_max", "scoring.cash_flow_negative_penalty",
		"scoring.mrg_penalty", "scoring.commission_free_bonus",
		"scoring.high_floor_no_elevator_penalty",
		"scoring.strong_buy_min", "scoring.buy_min",
		"scoring.consider_min", "scoring.weak_min",
		"log.level",
	} {
		env := "WOHNWERT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.Scanner = ScannerConfig{
		InputDir:    v.GetString("scanner.input_dir"),
		OutputDir:   v.GetString("scanner.output_dir"),
		Concurrency: v.GetInt("scanner.concurrency"),
		Portal:      v.GetString("scanner.portal"),
	}
	cfg.Assisted = AssistedConfig{
		Enabled:                 v.GetBool("assisted.enabled"),
		TriggerMode:             v.GetString("assisted.trigger_mode"),
		ExtractionTimeoutSecs:   v.GetInt("assisted.extraction_timeout_secs"),
		InferenceTimeoutSecs:    v.GetInt("assisted.inference_timeout_secs"),
		AvailabilityTimeoutSecs: v.GetInt("assisted.availability_timeout_secs"),
		HTMLMaxChars:            v.GetInt("assisted.html_max_chars"),
		QualityCheckEnabled:     v.GetBool("assisted.quality_check_enabled"),
		BaseURL:                 v.GetString("assisted.base_url"),
		Model:                   v.GetString("assisted.model"),
	}
	cfg.Analysis = AnalysisConfig{
		MortgageRate:            v.GetFloat64("analysis.mortgage_rate"),
		DownPaymentFraction:     v.GetFloat64("analysis.down_payment_fraction"),
		TransactionCostFraction: v.GetFloat64("analysis.transaction_cost_fraction"),
		LoanTermYears:           v.GetInt("analysis.loan_term_years"),
		MinSizeSQM:              v.GetFloat64("analysis.min_size_sqm"),
	}
	// Read each scoring key individually; UnmarshalKey would bypass the
	// env bindings and freeze the defaults.
	cfg.Scoring = ScoringConfig{
		BaseScore:                  v.GetFloat64("scoring.base_score"),
		YieldExcellentMin:          v.GetFloat64("scoring.yield_excellent_min"),
		YieldExcellentBonus:        v.GetFloat64("scoring.yield_excellent_bonus"),
		YieldGoodMin:               v.GetFloat64("scoring.yield_good_min"),
		YieldGoodBonus:             v.GetFloat64("scoring.yield_good_bonus"),
		YieldAcceptableMin:         v.GetFloat64("scoring.yield_acceptable_min"),
		YieldAcceptableBonus:       v.GetFloat64("scoring.yield_acceptable_bonus"),
		YieldPoorMax:               v.GetFloat64("scoring.yield_poor_max"),
		YieldPoorPenalty:           v.GetFloat64("scoring.yield_poor_penalty"),
		PriceUnderMarketRatio:      v.GetFloat64("scoring.price_under_market_ratio"),
		PriceUnderMarketBonus:      v.GetFloat64("scoring.price_under_market_bonus"),
		PriceCompetitiveRatio:      v.GetFloat64("scoring.price_competitive_ratio"),
		PriceCompetitiveBonus:      v.GetFloat64("scoring.price_competitive_bonus"),
		PriceOverMarketRatio:       v.GetFloat64("scoring.price_over_market_ratio"),
		PriceOverMarketPenalty:     v.GetFloat64("scoring.price_over_market_penalty"),
		LowCostPerSQMMax:           v.GetFloat64("scoring.low_cost_per_sqm_max"),
		LowCostBonus:               v.GetFloat64("scoring.low_cost_bonus"),
		HighCostPerSQMMin:          v.GetFloat64("scoring.high_cost_per_sqm_min"),
		HighCostPenalty:            v.GetFloat64("scoring.high_cost_penalty"),
		MissingCostPenalty:         v.GetFloat64("scoring.missing_cost_penalty"),
		ConditionBonus:             v.GetFloat64("scoring.condition_bonus"),
		RenovationPenalty:          v.GetFloat64("scoring.renovation_penalty"),
		EnergyBonus:                v.GetFloat64("scoring.energy_bonus"),
		EnergyPenalty:              v.GetFloat64("scoring.energy_penalty"),
		FeatureCountMin:            v.GetInt("scoring.feature_count_min"),
		FeatureBonus:               v.GetFloat64("scoring.feature_bonus"),
		CashFlowStrongMin:          v.GetFloat64("scoring.cash_flow_strong_min"),
		CashFlowStrongBonus:        v.GetFloat64("scoring.cash_flow_strong_bonus"),
		CashFlowPositiveBonus:      v.GetFloat64("scoring.cash_flow_positive_bonus"),
		CashFlowNegativeMax:        v.GetFloat64("scoring.cash_flow_negative_max"),
		CashFlowNegativePenalty:    v.GetFloat64("scoring.cash_flow_negative_penalty"),
		MRGPenalty:                 v.GetFloat64("scoring.mrg_penalty"),
		CommissionFreeBonus:        v.GetFloat64("scoring.commission_free_bonus"),
		HighFloorNoElevatorPenalty: v.GetFloat64("scoring.high_floor_no_elevator_penalty"),
		StrongBuyMin:               v.GetFloat64("scoring.strong_buy_min"),
		BuyMin:                     v.GetFloat64("scoring.buy_min"),
		ConsiderMin:                v.GetFloat64("scoring.consider_min"),
		WeakMin:                    v.GetFloat64("scoring.weak_min"),
	}
	cfg.Log = LogConfig{Level: v.GetString("log.level")}

	rates, err := loadRentRateTable(v)
	if err != nil {
		return nil, err
	}
	cfg.Analysis.RentRateTable = rates

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Scanner defaults
	v.SetDefault("scanner.input_dir", "./listings")
	v.SetDefault("scanner.output_dir", "./results")
	v.SetDefault("scanner.concurrency", 4)
	v.SetDefault("scanner.portal", "willhaben")

	// Assisted extraction defaults
	v.SetDefault("assisted.enabled", false)
	v.SetDefault("assisted.trigger_mode", "conservative")
	v.SetDefault("assisted.extraction_timeout_secs", 180)
	v.SetDefault("assisted.inference_timeout_secs", 120)
	v.SetDefault("assisted.availability_timeout_secs", 5)
	v.SetDefault("assisted.html_max_chars", 50000)
	v.SetDefault("assisted.quality_check_enabled", true)
	v.SetDefault("assisted.base_url", "http://localhost:11434")
	v.SetDefault("assisted.model", "qwen3:8b")

	// Analysis defaults
	v.SetDefault("analysis.mortgage_rate", 3.5)
	v.SetDefault("analysis.down_payment_fraction", 0.30)
	v.SetDefault("analysis.transaction_cost_fraction", 0.09)
	v.SetDefault("analysis.loan_term_years", 25)
	v.SetDefault("analysis.min_size_sqm", 10.0)

	// Scoring defaults
	v.SetDefault("scoring.base_score", 5.0)
	v.SetDefault("scoring.yield_excellent_min", 5.5)
	v.SetDefault("scoring.yield_excellent_bonus", 1.5)
	v.SetDefault("scoring.yield_good_min", 4.5)
	v.SetDefault("scoring.yield_good_bonus", 1.0)
	v.SetDefault("scoring.yield_acceptable_min", 3.5)
	v.SetDefault("scoring.yield_acceptable_bonus", 0.5)
	v.SetDefault("scoring.yield_poor_max", 2.5)
	v.SetDefault("scoring.yield_poor_penalty", 1.0)
	v.SetDefault("scoring.price_under_market_ratio", 0.85)
	v.SetDefault("scoring.price_under_market_bonus", 1.0)
	v.SetDefault("scoring.price_competitive_ratio", 0.95)
	v.SetDefault("scoring.price_competitive_bonus", 0.5)
	v.SetDefault("scoring.price_over_market_ratio", 1.15)
	v.SetDefault("scoring.price_over_market_penalty", 0.5)
	v.SetDefault("scoring.low_cost_per_sqm_max", 2.0)
	v.SetDefault("scoring.low_cost_bonus", 0.5)
	v.SetDefault("scoring.high_cost_per_sqm_min", 4.0)
	v.SetDefault("scoring.high_cost_penalty", 0.5)
	v.SetDefault("scoring.missing_cost_penalty", 0.5)
	v.SetDefault("scoring.condition_bonus", 0.5)
	v.SetDefault("scoring.renovation_penalty", 1.0)
	v.SetDefault("scoring.energy_bonus", 0.5)
	v.SetDefault("scoring.energy_penalty", 0.5)
	v.SetDefault("scoring.feature_count_min", 4)
	v.SetDefault("scoring.feature_bonus", 0.5)
	v.SetDefault("scoring.cash_flow_strong_min", 200.0)
	v.SetDefault("scoring.cash_flow_strong_bonus", 0.5)
	v.SetDefault("scoring.cash_flow_positive_bonus", 0.25)
	v.SetDefault("scoring.cash_flow_negative_max", -300.0)
	v.SetDefault("scoring.cash_flow_negative_penalty", 0.5)
	v.SetDefault("scoring.mrg_penalty", 0.25)
	v.SetDefault("scoring.commission_free_bonus", 0.25)
	v.SetDefault("scoring.high_floor_no_elevator_penalty", 0.25)
	v.SetDefault("scoring.strong_buy_min", 8.0)
	v.SetDefault("scoring.buy_min", 6.5)
	v.SetDefault("scoring.consider_min", 5.0)
	v.SetDefault("scoring.weak_min", 3.5)

	// Log defaults
	v.SetDefault("log.level", "info")
}

// loadRentRateTable returns the built-in rate table, optionally overridden
// by a JSON object in WOHNWERT_ANALYSIS_RENT_RATE_TABLE.
func loadRentRateTable(v *viper.Viper) (map[string]float64, error) {
	rates := make(map[string]float64, len(domain.DefaultRentRates))
	for k, r := range domain.DefaultRentRates {
		rates[k] = r
	}

	_ = v.BindEnv("analysis.rent_rate_table", "WOHNWERT_ANALYSIS_RENT_RATE_TABLE")
	raw := v.GetString("analysis.rent_rate_table")
	if raw == "" {
		return rates, nil
	}

	var override map[string]float64
	if err := json.Unmarshal([]byte(raw), &override); err != nil {
		return nil, fmt.Errorf("parsing rent_rate_table override: %w", err)
	}
	for k, r := range override {
		rates[strings.ToLower(k)] = r
	}
	return rates, nil
}

// Validate checks the configuration invariants that must hold before any
// listing is processed.
func (c *Config) Validate() error {
	var errs []string

	switch c.Assisted.TriggerMode {
	case "conservative", "aggressive", "always":
	default:
		errs = append(errs, fmt.Sprintf("assisted.trigger_mode %q (want conservative, aggressive or always)", c.Assisted.TriggerMode))
	}
	if c.Assisted.ExtractionTimeoutSecs <= 0 {
		errs = append(errs, "assisted.extraction_timeout_secs must be positive")
	}
	if c.Assisted.InferenceTimeoutSecs <= 0 {
		errs = append(errs, "assisted.inference_timeout_secs must be positive")
	}
	if c.Assisted.HTMLMaxChars <= 0 {
		errs = append(errs, "assisted.html_max_chars must be positive")
	}

	if c.Analysis.DownPaymentFraction < 0 || c.Analysis.DownPaymentFraction >= 1 {
		errs = append(errs, "analysis.down_payment_fraction must be in [0, 1)")
	}
	if c.Analysis.TransactionCostFraction < 0 || c.Analysis.TransactionCostFraction >= 1 {
		errs = append(errs, "analysis.transaction_cost_fraction must be in [0, 1)")
	}
	if c.Analysis.LoanTermYears <= 0 {
		errs = append(errs, "analysis.loan_term_years must be positive")
	}
	if c.Analysis.MinSizeSQM <= 0 {
		errs = append(errs, "analysis.min_size_sqm must be positive")
	}
	if _, ok := c.Analysis.RentRateTable["default"]; !ok {
		errs = append(errs, `analysis.rent_rate_table must contain a "default" rate`)
	}
	for key, rate := range c.Analysis.RentRateTable {
		if rate <= 0 {
			errs = append(errs, fmt.Sprintf("analysis.rent_rate_table[%q] must be positive", key))
		}
	}

	s := c.Scoring
	if !(s.StrongBuyMin > s.BuyMin && s.BuyMin > s.ConsiderMin && s.ConsiderMin > s.WeakMin) {
		errs = append(errs, "scoring thresholds must be strictly descending (strong_buy > buy > consider > weak)")
	}

	if c.Scanner.Concurrency <= 0 {
		errs = append(errs, "scanner.concurrency must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
