package analyzer

import (
	"strings"

	"wohnwert/internal/domain"
)

// resolveRentRate returns the €/m² monthly rent basis for a listing's
// location. Vienna is split into an inner band (districts 1-9) and an
// outer band, then scaled by the district multiplier; other cities use
// their table entry or the declared default.
func resolveRentRate(addr domain.Address, table map[string]float64) float64 {
	var base float64

	city := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(addr.City)), " ", "_")
	switch {
	case city == "wien":
		if addr.DistrictNumber != nil && *addr.DistrictNumber <= 9 {
			base = table["vienna_inner"]
		} else {
			base = table["vienna_outer"]
		}
	case city != "":
		if rate, ok := table[city]; ok {
			base = rate
		} else {
			base = table["default"]
		}
	default:
		base = table["default"]
	}

	if addr.DistrictNumber != nil {
		if d, ok := domain.ViennaDistricts[*addr.DistrictNumber]; ok {
			base *= d.Multiplier
		}
	}
	return base
}
