package domain

// District describes one Vienna district with its rent multiplier relative
// to the inner/outer base rate (1.0 = average).
type District struct {
	Name       string
	Multiplier float64
}

// ViennaDistricts maps district number (1-23) to name and rent multiplier.
var ViennaDistricts = map[int]District{
	1:  {"Innere Stadt", 1.40},
	2:  {"Leopoldstadt", 1.10},
	3:  {"Landstraße", 1.15},
	4:  {"Wieden", 1.20},
	5:  {"Margareten", 1.05},
	6:  {"Mariahilf", 1.15},
	7:  {"Neubau", 1.20},
	8:  {"Josefstadt", 1.20},
	9:  {"Alsergrund", 1.15},
	10: {"Favoriten", 0.85},
	11: {"Simmering", 0.80},
	12: {"Meidling", 0.90},
	13: {"Hietzing", 1.10},
	14: {"Penzing", 0.95},
	15: {"Rudolfsheim-Fünfhaus", 0.85},
	16: {"Ottakring", 0.90},
	17: {"Hernals", 0.90},
	18: {"Währing", 1.10},
	19: {"Döbling", 1.15},
	20: {"Brigittenau", 0.85},
	21: {"Floridsdorf", 0.85},
	22: {"Donaustadt", 0.90},
	23: {"Liesing", 0.90},
}

// ViennaPricePerSQM is the approximate market purchase price per m² by
// district, used as the regional baseline for the price-vs-market bonus.
var ViennaPricePerSQM = map[int]float64{
	1: 12000, 2: 5500, 3: 6000, 4: 6500, 5: 5000,
	6: 6000, 7: 6500, 8: 6500, 9: 6000, 10: 3800,
	11: 3500, 12: 4200, 13: 6000, 14: 4500, 15: 4000,
	16: 4200, 17: 4500, 18: 5500, 19: 6000, 20: 4000,
	21: 4000, 22: 4200, 23: 4500,
}

// DefaultRentRates is the default €/m² monthly rent table. "default" is the
// fallback rate when the resolved locality has no entry; "vienna_inner"
// covers districts 1-9 and "vienna_outer" districts 10-23.
var DefaultRentRates = map[string]float64{
	"default":      12.0,
	"vienna_inner": 16.0,
	"vienna_outer": 13.0,
	"graz":         11.0,
	"linz":         10.5,
	"salzburg":     14.0,
	"innsbruck":    15.0,
	"klagenfurt":   9.5,
	"st_poelten":   9.0,
	"eisenstadt":   8.5,
}

// MRGCutoffYear: buildings completed before this year typically fall under
// the Austrian MRG rent-control regime.
const MRGCutoffYear = 1945

// PostalCodeRanges maps Austrian states to their 4-digit postal code ranges.
var PostalCodeRanges = []struct {
	State    string
	Lo, Hi   int
}{
	{"Wien", 1010, 1239},
	{"Niederösterreich", 2000, 3999},
	{"Oberösterreich", 4000, 4999},
	{"Salzburg", 5000, 5999},
	{"Vorarlberg", 6800, 6999},
	{"Tirol", 6000, 6799},
	{"Burgenland", 7000, 7999},
	{"Steiermark", 8000, 8999},
	{"Kärnten", 9000, 9999},
}
