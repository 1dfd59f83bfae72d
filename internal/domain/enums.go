package domain

// FieldSource identifies which extraction stage produced a field value.
// Trust order is structured > pattern > assisted; merging never lets a
// lower-trust source replace a field set by a higher-trust one.
type FieldSource string

const (
	SourceStructured FieldSource = "structured"
	SourcePattern    FieldSource = "pattern"
	SourceAssisted   FieldSource = "assisted"
)

// Condition is the building/apartment condition category (German vocabulary
// as it appears on Austrian portals).
type Condition string

const (
	ConditionErstbezug             Condition = "erstbezug"
	ConditionErstbezugNachSanierung Condition = "erstbezug_nach_sanierung"
	ConditionSaniert               Condition = "saniert"
	ConditionRenovierungsbeduerftig Condition = "renovierungsbeduerftig"
	ConditionNeuwertig             Condition = "neuwertig"
	ConditionSehrGut               Condition = "sehr_gut"
	ConditionGut                   Condition = "gut"
	ConditionGepflegt              Condition = "gepflegt"
)

// GoodConditions are the categories that earn the condition bonus.
var GoodConditions = map[Condition]bool{
	ConditionErstbezug: true,
	ConditionSaniert:   true,
	ConditionNeuwertig: true,
	ConditionSehrGut:   true,
}

// BuildingType classifies the building era.
type BuildingType string

const (
	BuildingAltbau       BuildingType = "altbau"
	BuildingNeubau       BuildingType = "neubau"
	BuildingGruenderzeit BuildingType = "gruenderzeit"
)

// HeatingType is the heating system category.
type HeatingType string

const (
	HeatingFernwaerme      HeatingType = "fernwaerme"
	HeatingGas             HeatingType = "gas"
	HeatingZentral         HeatingType = "zentralheizung"
	HeatingEtagen          HeatingType = "etagenheizung"
	HeatingFussboden       HeatingType = "fussbodenheizung"
	HeatingElektro         HeatingType = "elektro"
	HeatingWaermepumpe     HeatingType = "waermepumpe"
)

// ParkingType is the parking facility category.
type ParkingType string

const (
	ParkingTiefgarage ParkingType = "tiefgarage"
	ParkingGarage     ParkingType = "garage"
	ParkingStellplatz ParkingType = "stellplatz"
	ParkingCarport    ParkingType = "carport"
	ParkingParkplatz  ParkingType = "parkplatz"
)

// Recommendation is the categorical investment verdict.
type Recommendation string

const (
	RecommendStrongBuy Recommendation = "STRONG BUY"
	RecommendBuy       Recommendation = "BUY"
	RecommendConsider  Recommendation = "CONSIDER"
	RecommendWeak      Recommendation = "WEAK"
	RecommendAvoid     Recommendation = "AVOID"
)

// EfficientEnergyRatings earn the energy bonus; PoorEnergyRatings the penalty.
var (
	EfficientEnergyRatings = map[string]bool{"A++": true, "A+": true, "A": true, "B": true}
	PoorEnergyRatings      = map[string]bool{"F": true, "G": true}
)
