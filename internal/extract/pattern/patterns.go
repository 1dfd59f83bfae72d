package pattern

import (
	"regexp"

	"wohnwert/internal/domain"
)

// num matches a German-formatted number; numOrRange additionally allows a
// range expression whose lower bound is taken by the caller.
const (
	num        = `[\d.,]+`
	numOrRange = num + `(?:\s*(?:[-–~]|bis|to)\s*` + num + `)?`
)

// numericSpec is one target field: an ordered pattern list plus the
// plausibility bounds a match must fall inside to be accepted.
type numericSpec struct {
	path     string
	patterns []*regexp.Regexp
	min, max float64
}

var sizeSpec = numericSpec{
	path: "spec.size_sqm",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(` + numOrRange + `)\s*m[²2]`),
		regexp.MustCompile(`(?i)Wohnfläche[:\s]*(` + numOrRange + `)`),
		regexp.MustCompile(`(?i)Nutzfläche[:\s]*(` + numOrRange + `)`),
		regexp.MustCompile(`(?i)Fläche[:\s]*(` + numOrRange + `)`),
	},
	min: 10, max: 1000,
}

var roomsSpec = numericSpec{
	path: "spec.rooms",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(` + numOrRange + `)\s*Zimmer`),
		regexp.MustCompile(`(?i)(` + numOrRange + `)\s*Zi\.?`),
		regexp.MustCompile(`(?i)(` + numOrRange + `)\s*Räume`),
	},
	min: 0.5, max: 20,
}

var priceSpec = numericSpec{
	path: "costs.price",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)€\s*(` + numOrRange + `)`),
		regexp.MustCompile(`(?i)(` + numOrRange + `)\s*€`),
		regexp.MustCompile(`(?i)EUR\s*(` + numOrRange + `)`),
		regexp.MustCompile(`(?i)(` + numOrRange + `)\s*EUR`),
		regexp.MustCompile(`(?i)Kaufpreis[:\s]*(` + numOrRange + `)`),
	},
	min: 5000, max: 50_000_000,
}

var betriebskostenSpec = numericSpec{
	path: "costs.betriebskosten_monthly",
	patterns: []*regexp.Regexp{
		// label adjacent to value
		regexp.MustCompile(`(?i)Betriebskosten[:\s]*€?\s*(` + num + `)`),
		regexp.MustCompile(`(?i)Nebenkosten[:\s]*€?\s*(` + num + `)`),
		regexp.MustCompile(`(?i)\bBK[:\s]*€?\s*(` + num + `)`),
		regexp.MustCompile(`(?i)\bNK[:\s]*€?\s*(` + num + `)`),
		regexp.MustCompile(`(?i)monatl\.?\s*(?:Betriebs|Neben)kosten[:\s]*€?\s*(` + num + `)`),
		// label and value separated by markup
		regexp.MustCompile(`(?is)(?:Betriebs|Neben)kosten.*?€\s*(` + num + `)`),
		regexp.MustCompile(`(?is)\b(?:BK|NK)\b.*?€\s*(` + num + `)`),
		// table cells
		regexp.MustCompile(`(?i)<td[^>]*>(?:Betriebs|Neben)kosten</td>\s*<td[^>]*>€?\s*(` + num + `)`),
		regexp.MustCompile(`(?is)>(?:Betriebs|Neben)kosten<.*?>€\s*(` + num + `)<`),
	},
	min: 10, max: 2000,
}

var reparaturSpec = numericSpec{
	path: "costs.reparaturruecklage",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)Reparaturrücklage[:\s]*€?\s*(` + num + `)`),
		regexp.MustCompile(`(?i)Rep\.?\s*Rücklage[:\s]*€?\s*(` + num + `)`),
		regexp.MustCompile(`(?i)Rücklage[:\s]*€?\s*(` + num + `)`),
	},
	min: 10, max: 500,
}

var hwbSpec = numericSpec{
	path: "energy.hwb",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)HWB[:\s]*(` + num + `)\s*kWh`),
		regexp.MustCompile(`(?i)Heizwärmebedarf[:\s]*(` + num + `)`),
	},
	min: 5, max: 1000,
}

var fgeeSpec = numericSpec{
	path: "energy.fgee",
	patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)fGEE[:\s]*(` + num + `)`),
	},
	min: 0.1, max: 5,
}

var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Baujahr[:\s]*(\d{4})`),
	regexp.MustCompile(`(?i)(?:erbaut|gebaut)[:\s]*(?:im\s+)?(?:Jahr\s+)?(\d{4})`),
	regexp.MustCompile(`(?i)aus\s+(?:dem\s+Jahr\s+)?(\d{4})`),
}

const (
	yearBuiltMin = 1800
	yearBuiltMax = 2030
)

var floorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\.\s*(?:Stock|OG|Obergeschoss)`),
	regexp.MustCompile(`(?i)(?:Stock|Etage)[:\s]*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\.\s*Etage`),
}

const (
	floorMin = 0
	floorMax = 25
)

// floorSpecials map non-numeric floor vocabulary to a floor number. Short
// abbreviations require word boundaries so "eg" does not fire inside
// ordinary words.
var floorSpecials = []struct {
	re    *regexp.Regexp
	floor int
	text  string
}{
	{regexp.MustCompile(`(?i)\bErdgeschoss\b|\bErdgeschoß\b|\bEG\b`), 0, "EG"},
	{regexp.MustCompile(`(?i)\bHochparterre\b|\bHP\b`), 0, "Hochparterre"},
	{regexp.MustCompile(`(?i)\bParterre\b`), 0, "Parterre"},
	{regexp.MustCompile(`(?i)\bSouterrain\b|\bUntergeschoss\b|\bKellergeschoss\b|\bUG\b`), -1, "Souterrain"},
	{regexp.MustCompile(`(?i)\bMezzanin\b`), 1, "Mezzanin"},
}

// Dachgeschoss carries no usable floor number, only the textual marker.
var dachgeschossPattern = regexp.MustCompile(`(?i)\bDG\b|Dachgeschoss|Dachgeschoß`)

// conditionChecks are ordered: "Erstbezug nach Sanierung" must be tested
// before plain "Erstbezug" since the latter matches inside the former.
var conditionChecks = []struct {
	cond domain.Condition
	re   *regexp.Regexp
}{
	{domain.ConditionErstbezugNachSanierung, regexp.MustCompile(`(?i)Erstbezug\s+nach\s+(?:Sanierung|Renovierung)`)},
	{domain.ConditionErstbezug, regexp.MustCompile(`(?i)Erstbezug`)},
	{domain.ConditionSaniert, regexp.MustCompile(`(?i)(?:frisch\s+)?(?:saniert|renoviert)\b`)},
	{domain.ConditionRenovierungsbeduerftig, regexp.MustCompile(`(?i)(?:renovierung|sanierung)s?bedürftig`)},
	{domain.ConditionNeuwertig, regexp.MustCompile(`(?i)neuwertig`)},
	{domain.ConditionSehrGut, regexp.MustCompile(`(?i)sehr\s+gut(?:er)?\s+Zustand`)},
	{domain.ConditionGut, regexp.MustCompile(`(?i)gut(?:er)?\s+Zustand`)},
	{domain.ConditionGepflegt, regexp.MustCompile(`(?i)gepflegt`)},
}

var buildingTypeChecks = []struct {
	bt domain.BuildingType
	re *regexp.Regexp
}{
	{domain.BuildingAltbau, regexp.MustCompile(`(?i)Altbau`)},
	{domain.BuildingNeubau, regexp.MustCompile(`(?i)Neubau`)},
	{domain.BuildingGruenderzeit, regexp.MustCompile(`(?i)Gründerzeit`)},
}

var heatingChecks = []struct {
	ht domain.HeatingType
	re *regexp.Regexp
}{
	{domain.HeatingFernwaerme, regexp.MustCompile(`(?i)Fernwärme`)},
	{domain.HeatingGas, regexp.MustCompile(`(?i)Gas(?:heizung|therme)?`)},
	{domain.HeatingZentral, regexp.MustCompile(`(?i)Zentralheizung`)},
	{domain.HeatingEtagen, regexp.MustCompile(`(?i)Etagenheizung`)},
	{domain.HeatingFussboden, regexp.MustCompile(`(?i)Fußbodenheizung`)},
	{domain.HeatingElektro, regexp.MustCompile(`(?i)Elektro(?:heizung)?`)},
	{domain.HeatingWaermepumpe, regexp.MustCompile(`(?i)Wärmepumpe`)},
}

var energyRatingPattern = regexp.MustCompile(`(?i)Energieklasse[:\s]*([A-G]\+?\+?)`)

var featureChecks = map[string]*regexp.Regexp{
	"elevator":     regexp.MustCompile(`(?i)Aufzug|Lift|Fahrstuhl`),
	"balcony":      regexp.MustCompile(`(?i)Balkon`),
	"terrace":      regexp.MustCompile(`(?i)Terrasse`),
	"loggia":       regexp.MustCompile(`(?i)Loggia`),
	"garden":       regexp.MustCompile(`(?i)\bGarten\b|Gartenanteil|Eigengarten`),
	"cellar":       regexp.MustCompile(`(?i)Keller(?:abteil)?`),
	"storage":      regexp.MustCompile(`(?i)(?:Abstell|Lager)raum`),
	"parking":      regexp.MustCompile(`(?i)Garage|Tiefgarage|Stellplatz|Parkplatz|Carport`),
	"furnished":    regexp.MustCompile(`(?i)möbliert|eingerichtet`),
	"barrier_free": regexp.MustCompile(`(?i)barrierefrei`),
}

// parkingChecks are ordered: Tiefgarage before the word-boundary Garage
// check, which cannot match inside "Tiefgarage".
var parkingChecks = []struct {
	pt domain.ParkingType
	re *regexp.Regexp
}{
	{domain.ParkingTiefgarage, regexp.MustCompile(`(?i)Tiefgarage`)},
	{domain.ParkingGarage, regexp.MustCompile(`(?i)\bGarage`)},
	{domain.ParkingStellplatz, regexp.MustCompile(`(?i)Stellplatz`)},
	{domain.ParkingCarport, regexp.MustCompile(`(?i)Carport`)},
	{domain.ParkingParkplatz, regexp.MustCompile(`(?i)Parkplatz`)},
}

var (
	commissionFreePattern    = regexp.MustCompile(`(?i)provision(?:s)?frei|keine\s+(?:Makler)?provision`)
	commissionPercentPattern = regexp.MustCompile(`(?i)(?:Makler)?provision[:\s]*(` + num + `)\s*%`)
)

const (
	commissionPercentMin = 0.5
	commissionPercentMax = 10
)
