// Package analyzer turns a validated listing into an investment
// assessment: derived financial metrics, a 0-10 score and a categorical
// recommendation with the factor strings that explain both. The whole
// computation is a pure function of the listing and the configuration.
package analyzer

import (
	"fmt"
	"math"

	"wohnwert/internal/config"
	"wohnwert/internal/domain"
)

// Analyzer scores validated listings.
type Analyzer struct {
	analysis *config.AnalysisConfig
	scoring  *config.ScoringConfig
}

func New(analysis *config.AnalysisConfig, scoring *config.ScoringConfig) *Analyzer {
	return &Analyzer{analysis: analysis, scoring: scoring}
}

// Analyze computes the assessment. The listing must already have passed
// validation; price and size are assumed present and positive.
func (a *Analyzer) Analyze(l *domain.Listing) *domain.Assessment {
	as := &domain.Assessment{}

	price := *l.Costs.Price
	size := *l.Spec.SizeSQM

	as.PricePerSQM = round2(price / size)

	var bk float64
	bkKnown := l.Costs.BetriebskostenMonthly != nil
	if bkKnown {
		bk = *l.Costs.BetriebskostenMonthly
		as.BetriebskostenPerSQM = round2(bk / size)
	}

	rate := resolveRentRate(l.Address, a.analysis.RentRateTable)
	as.EstimatedRentMonthly = round2(rate * size)

	annualRent := as.EstimatedRentMonthly * 12
	as.GrossYield = round2(annualRent / price * 100)
	as.NetYield = round2((annualRent - bk*12) / price * 100)

	as.MortgagePaymentMonthly = round2(a.mortgagePayment(price))
	as.CashFlowMonthly = round2(as.EstimatedRentMonthly - as.MortgagePaymentMonthly - bk)

	if l.Spec.YearBuilt != nil && *l.Spec.YearBuilt < domain.MRGCutoffYear {
		as.MRGApplicable = true
	}

	a.score(l, as, bkKnown)
	return as
}

// mortgagePayment models the monthly annuity on the financed share of the
// purchase. Transaction costs are financed along with the price, so the
// loan base is price plus the configured surcharge.
func (a *Analyzer) mortgagePayment(price float64) float64 {
	loanBase := price * (1 + a.analysis.TransactionCostFraction)
	loan := loanBase * (1 - a.analysis.DownPaymentFraction)
	n := float64(a.analysis.LoanTermYears * 12)

	if a.analysis.MortgageRate <= 0 {
		return loan / n
	}
	r := a.analysis.MortgageRate / 100 / 12
	pow := math.Pow(1+r, n)
	return loan * (r * pow) / (pow - 1)
}

func (a *Analyzer) score(l *domain.Listing, as *domain.Assessment, bkKnown bool) {
	s := a.scoring
	score := s.BaseScore

	positive := func(delta float64, format string, args ...any) {
		score += delta
		as.PositiveFactors = append(as.PositiveFactors, fmt.Sprintf(format, args...))
	}
	risk := func(delta float64, format string, args ...any) {
		score -= delta
		as.RiskFactors = append(as.RiskFactors, fmt.Sprintf(format, args...))
	}

	// Yield
	switch {
	case as.GrossYield >= s.YieldExcellentMin:
		positive(s.YieldExcellentBonus, "Ausgezeichnete Rendite: %.1f%%", as.GrossYield)
	case as.GrossYield >= s.YieldGoodMin:
		positive(s.YieldGoodBonus, "Gute Rendite: %.1f%%", as.GrossYield)
	case as.GrossYield >= s.YieldAcceptableMin:
		positive(s.YieldAcceptableBonus, "Akzeptable Rendite: %.1f%%", as.GrossYield)
	case as.GrossYield < s.YieldPoorMax:
		risk(s.YieldPoorPenalty, "Niedrige Rendite: %.1f%%", as.GrossYield)
	}

	// Price vs district market baseline
	if l.Address.DistrictNumber != nil {
		if market, ok := domain.ViennaPricePerSQM[*l.Address.DistrictNumber]; ok {
			ratio := as.PricePerSQM / market
			switch {
			case ratio < s.PriceUnderMarketRatio:
				positive(s.PriceUnderMarketBonus, "Unter Marktpreis (%.0f%% vom Durchschnitt)", ratio*100)
			case ratio < s.PriceCompetitiveRatio:
				positive(s.PriceCompetitiveBonus, "Wettbewerbsfähiger Preis")
			case ratio > s.PriceOverMarketRatio:
				risk(s.PriceOverMarketPenalty, "Über Marktpreis (%.0f%% vom Durchschnitt)", ratio*100)
			}
		}
	}

	// Operating costs
	if !bkKnown {
		risk(s.MissingCostPenalty, "Betriebskosten nicht verfügbar - manuelle Prüfung erforderlich")
	} else {
		switch {
		case as.BetriebskostenPerSQM < s.LowCostPerSQMMax:
			positive(s.LowCostBonus, "Niedrige Betriebskosten")
		case as.BetriebskostenPerSQM > s.HighCostPerSQMMin:
			risk(s.HighCostPenalty, "Hohe Betriebskosten (%.2f EUR/m²)", as.BetriebskostenPerSQM)
		}
	}

	// Condition
	if l.Spec.Condition != "" {
		if domain.GoodConditions[l.Spec.Condition] {
			positive(s.ConditionBonus, "Guter Zustand: %s", l.Spec.Condition)
		} else if l.Spec.Condition == domain.ConditionRenovierungsbeduerftig {
			risk(s.RenovationPenalty, "Renovierung erforderlich")
		}
	}

	// Energy efficiency
	if l.Energy.Rating != "" {
		if domain.EfficientEnergyRatings[l.Energy.Rating] {
			positive(s.EnergyBonus, "Energieeffizient (%s)", l.Energy.Rating)
		} else if domain.PoorEnergyRatings[l.Energy.Rating] {
			risk(s.EnergyPenalty, "Schlechte Energieeffizienz (%s)", l.Energy.Rating)
		}
	}

	// Feature count
	count := featureCount(l)
	if count >= s.FeatureCountMin {
		positive(s.FeatureBonus, "Gut ausgestattet (%d Ausstattungsmerkmale)", count)
	} else if count == 0 {
		as.RiskFactors = append(as.RiskFactors, "Keine besonderen Ausstattungsmerkmale")
	}

	// Cash flow
	switch {
	case as.CashFlowMonthly > s.CashFlowStrongMin:
		positive(s.CashFlowStrongBonus, "Positiver Cashflow (+%.0f EUR/Monat)", as.CashFlowMonthly)
	case as.CashFlowMonthly > 0:
		positive(s.CashFlowPositiveBonus, "Leicht positiver Cashflow")
	case as.CashFlowMonthly < s.CashFlowNegativeMax:
		risk(s.CashFlowNegativePenalty, "Negativer Cashflow (%.0f EUR/Monat)", as.CashFlowMonthly)
	}

	// Rent-control exposure for pre-war buildings
	if as.MRGApplicable {
		risk(s.MRGPenalty, "MRG-Mietpreisbindung könnte gelten (Vorkriegsbau)")
	}

	if l.Costs.CommissionFree != nil && *l.Costs.CommissionFree {
		positive(s.CommissionFreeBonus, "Provisionsfrei")
	}

	if l.Spec.Floor != nil && *l.Spec.Floor >= 3 && (l.Features.Elevator == nil || !*l.Features.Elevator) {
		risk(s.HighFloorNoElevatorPenalty, "Hohe Etage ohne Aufzug")
	}

	as.Score = math.Max(0, math.Min(10, round1(score)))
	as.Recommendation = a.recommendation(as.Score)
}

func featureCount(l *domain.Listing) int {
	count := 0
	for _, f := range []*bool{
		l.Features.Elevator, l.Features.Balcony, l.Features.Terrace,
		l.Features.Garden, l.Features.Cellar,
	} {
		if f != nil && *f {
			count++
		}
	}
	if l.Features.Parking != "" {
		count++
	}
	return count
}

// recommendation maps the score onto the ordered threshold bands;
// boundaries are inclusive from below.
func (a *Analyzer) recommendation(score float64) domain.Recommendation {
	s := a.scoring
	switch {
	case score >= s.StrongBuyMin:
		return domain.RecommendStrongBuy
	case score >= s.BuyMin:
		return domain.RecommendBuy
	case score >= s.ConsiderMin:
		return domain.RecommendConsider
	case score >= s.WeakMin:
		return domain.RecommendWeak
	default:
		return domain.RecommendAvoid
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
