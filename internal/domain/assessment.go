package domain

// ValidationFailure is one named reason a listing was rejected.
type ValidationFailure struct {
	RuleKey   string `json:"rule_key"`
	FieldPath string `json:"field_path"`
	Message   string `json:"message"`
}

// ValidationOutcome is the result of the critical-field gate. On failure it
// carries every failing reason, not just the first.
type ValidationOutcome struct {
	Valid    bool                `json:"valid"`
	Failures []ValidationFailure `json:"failures,omitempty"`
}

// Reasons returns the failure messages in rule order.
func (o ValidationOutcome) Reasons() []string {
	out := make([]string, 0, len(o.Failures))
	for _, f := range o.Failures {
		out = append(out, f.Message)
	}
	return out
}

// Assessment is the derived investment view of a validated listing. It is
// computed once, deterministically, and never mutated afterward.
type Assessment struct {
	PricePerSQM            float64 `json:"price_per_sqm"`
	BetriebskostenPerSQM   float64 `json:"betriebskosten_per_sqm,omitempty"`
	EstimatedRentMonthly   float64 `json:"estimated_rent_monthly"`
	GrossYield             float64 `json:"gross_yield"`
	NetYield               float64 `json:"net_yield"`
	MortgagePaymentMonthly float64 `json:"mortgage_payment_monthly"`
	CashFlowMonthly        float64 `json:"cash_flow_monthly"`
	MRGApplicable          bool    `json:"mrg_applicable"`

	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`

	// Ordered audit trail of factors that fired during scoring; as
	// important as the score itself and reproducible from the same inputs.
	PositiveFactors []string `json:"positive_factors"`
	RiskFactors     []string `json:"risk_factors"`
}
