package assisted

import (
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"

	"wohnwert/internal/domain"
)

// Gate bounds for assisted values. Deliberately looser than the pattern
// stage's bounds: this stage only runs when everything else came up empty,
// so a small but plausible figure beats no figure.
type bounds struct{ min, max float64 }

var gateBounds = map[string]bounds{
	"size_sqm":               {10, 1000},
	"rooms":                  {0.5, 20},
	"bedrooms":               {0, 19},
	"bathrooms":              {0, 9},
	"floor":                  {-2, 25},
	"year_built":             {1700, 2030},
	"hwb_value":              {5, 1000},
	"fgee_value":             {0.1, 5},
	"betriebskosten_monthly": {5, 2000},
	"reparaturruecklage":     {5, 500},
}

var knownConditions = map[string]domain.Condition{
	"erstbezug":                domain.ConditionErstbezug,
	"erstbezug_nach_sanierung": domain.ConditionErstbezugNachSanierung,
	"saniert":                  domain.ConditionSaniert,
	"renovierungsbeduerftig":   domain.ConditionRenovierungsbeduerftig,
	"renovierungsbedurftig":    domain.ConditionRenovierungsbeduerftig,
	"neuwertig":                domain.ConditionNeuwertig,
	"sehr_gut":                 domain.ConditionSehrGut,
	"gut":                      domain.ConditionGut,
	"gepflegt":                 domain.ConditionGepflegt,
}

var knownBuildingTypes = map[string]domain.BuildingType{
	"altbau":       domain.BuildingAltbau,
	"neubau":       domain.BuildingNeubau,
	"gruenderzeit": domain.BuildingGruenderzeit,
	"grunderzeit":  domain.BuildingGruenderzeit,
}

var knownHeatingTypes = map[string]domain.HeatingType{
	"fernwaerme":       domain.HeatingFernwaerme,
	"fernwarme":        domain.HeatingFernwaerme,
	"gas":              domain.HeatingGas,
	"zentralheizung":   domain.HeatingZentral,
	"etagenheizung":    domain.HeatingEtagen,
	"fussbodenheizung": domain.HeatingFussboden,
	"elektro":          domain.HeatingElektro,
	"waermepumpe":      domain.HeatingWaermepumpe,
	"warmepumpe":       domain.HeatingWaermepumpe,
}

var knownParkingTypes = map[string]domain.ParkingType{
	"tiefgarage": domain.ParkingTiefgarage,
	"garage":     domain.ParkingGarage,
	"stellplatz": domain.ParkingStellplatz,
	"carport":    domain.ParkingCarport,
	"parkplatz":  domain.ParkingParkplatz,
}

// applyGate converts the parsed response into a partial listing, dropping
// individual fields that fail coercion or, when checkBounds is set, the
// plausibility bounds. A dropped field never rejects the whole response.
func applyGate(fields map[string]any, checkBounds bool, logger *log.Logger) *domain.Listing {
	l := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}

	numeric := func(key string) (float64, bool) {
		raw, present := fields[key]
		if !present || raw == nil {
			return 0, false
		}
		v, ok := toFloat(raw)
		if !ok {
			logger.Printf("assisted.Extractor: dropping %s=%v (not numeric)", key, raw)
			return 0, false
		}
		if checkBounds {
			if b, bounded := gateBounds[key]; bounded && (v < b.min || v > b.max) {
				logger.Printf("assisted.Extractor: dropping %s=%v (outside [%g, %g])", key, v, b.min, b.max)
				return 0, false
			}
		}
		return v, true
	}
	integer := func(key string) (int, bool) {
		v, ok := numeric(key)
		if !ok {
			return 0, false
		}
		return int(math.Round(v)), true
	}
	boolean := func(key string) (bool, bool) {
		raw, present := fields[key]
		if !present || raw == nil {
			return false, false
		}
		switch v := raw.(type) {
		case bool:
			return v, true
		case string:
			s := strings.ToLower(strings.TrimSpace(v))
			return s == "true" || s == "yes" || s == "ja" || s == "1", true
		}
		logger.Printf("assisted.Extractor: dropping %s=%v (not boolean)", key, raw)
		return false, false
	}
	str := func(key string) (string, bool) {
		raw, present := fields[key]
		if !present || raw == nil {
			return "", false
		}
		s, ok := raw.(string)
		if !ok {
			return "", false
		}
		s = strings.TrimSpace(s)
		switch strings.ToLower(s) {
		case "", "null", "none", "n/a":
			return "", false
		}
		return s, true
	}

	if v, ok := numeric("price"); ok && v > 0 {
		l.Costs.Price = domain.Float(v)
	}
	if v, ok := numeric("size_sqm"); ok {
		l.Spec.SizeSQM = domain.Float(v)
	}
	if v, ok := numeric("rooms"); ok {
		l.Spec.Rooms = domain.Float(v)
	}
	if v, ok := integer("bedrooms"); ok {
		l.Spec.Bedrooms = domain.Int(v)
	}
	if v, ok := integer("bathrooms"); ok {
		l.Spec.Bathrooms = domain.Int(v)
	}
	if v, ok := integer("floor"); ok {
		l.Spec.Floor = domain.Int(v)
	}
	if v, ok := integer("year_built"); ok {
		l.Spec.YearBuilt = domain.Int(v)
	}
	if v, ok := numeric("betriebskosten_monthly"); ok {
		l.Costs.BetriebskostenMonthly = domain.Float(v)
	}
	if v, ok := numeric("reparaturruecklage"); ok {
		l.Costs.Reparaturruecklage = domain.Float(v)
	}
	if v, ok := numeric("hwb_value"); ok {
		l.Energy.HWB = domain.Float(v)
	}
	if v, ok := numeric("fgee_value"); ok {
		l.Energy.FGEE = domain.Float(v)
	}

	if s, ok := str("title"); ok {
		l.Spec.Title = s
	}
	if s, ok := str("condition"); ok {
		if c, known := knownConditions[normalizeKey(s)]; known {
			l.Spec.Condition = c
		} else {
			logger.Printf("assisted.Extractor: dropping condition=%q (unknown category)", s)
		}
	}
	if s, ok := str("building_type"); ok {
		if bt, known := knownBuildingTypes[normalizeKey(s)]; known {
			l.Spec.BuildingType = bt
		}
	}
	if s, ok := str("heating_type"); ok {
		if ht, known := knownHeatingTypes[normalizeKey(s)]; known {
			l.Energy.Heating = ht
		}
	}
	if s, ok := str("parking"); ok {
		if pt, known := knownParkingTypes[normalizeKey(s)]; known {
			l.Features.Parking = pt
		}
	}
	if s, ok := str("energy_rating"); ok {
		l.Energy.Rating = strings.ToUpper(s)
	}

	if v, ok := boolean("elevator"); ok {
		l.Features.Elevator = domain.Bool(v)
	}
	if v, ok := boolean("balcony"); ok {
		l.Features.Balcony = domain.Bool(v)
	}
	if v, ok := boolean("terrace"); ok {
		l.Features.Terrace = domain.Bool(v)
	}
	if v, ok := boolean("loggia"); ok {
		l.Features.Loggia = domain.Bool(v)
	}
	if v, ok := boolean("garden"); ok {
		l.Features.Garden = domain.Bool(v)
	}
	if v, ok := boolean("cellar"); ok {
		l.Features.Cellar = domain.Bool(v)
	}
	if v, ok := boolean("commission_free"); ok {
		l.Costs.CommissionFree = domain.Bool(v)
	}

	return l
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		// German formatting from a model that echoed the source verbatim
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
