// Package pattern extracts listing attributes from raw HTML using a fixed
// German real-estate vocabulary. Every numeric pattern is bounded by a
// plausibility range and guarded against matching fragments of larger
// numbers; the package never fails, a field that cannot be matched simply
// stays unset.
package pattern

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wohnwert/internal/domain"
)

const rangeNote = "lower bound of range"

// Extractor applies the pattern vocabulary to one HTML document.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns a partial listing with every field the vocabulary could
// recover from the document. The caller merges it into the aggregate record
// so that higher-trust values are never overwritten.
func (e *Extractor) Extract(html string) *domain.Listing {
	l := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}

	e.numeric(l, html, sizeSpec, func(v float64) { l.Spec.SizeSQM = domain.Float(v) })
	e.numeric(l, html, roomsSpec, func(v float64) { l.Spec.Rooms = domain.Float(v) })
	e.numeric(l, html, priceSpec, func(v float64) { l.Costs.Price = domain.Float(v) })
	e.numeric(l, html, betriebskostenSpec, func(v float64) { l.Costs.BetriebskostenMonthly = domain.Float(v) })
	e.numeric(l, html, reparaturSpec, func(v float64) { l.Costs.Reparaturruecklage = domain.Float(v) })
	e.numeric(l, html, hwbSpec, func(v float64) { l.Energy.HWB = domain.Float(v) })
	e.numeric(l, html, fgeeSpec, func(v float64) { l.Energy.FGEE = domain.Float(v) })

	if l.Costs.BetriebskostenMonthly == nil {
		if v, ok := betriebskostenFromDOM(html); ok {
			l.Costs.BetriebskostenMonthly = domain.Float(v)
		}
	}

	if year, ok := extractYear(html); ok {
		l.Spec.YearBuilt = domain.Int(year)
	}

	floor, floorText := extractFloor(html)
	l.Spec.Floor = floor
	l.Spec.FloorText = floorText

	for _, c := range conditionChecks {
		if c.re.MatchString(html) {
			l.Spec.Condition = c.cond
			break
		}
	}
	for _, b := range buildingTypeChecks {
		if b.re.MatchString(html) {
			l.Spec.BuildingType = b.bt
			break
		}
	}
	for _, h := range heatingChecks {
		if h.re.MatchString(html) {
			l.Energy.Heating = h.ht
			break
		}
	}
	if m := energyRatingPattern.FindStringSubmatch(html); m != nil {
		l.Energy.Rating = strings.ToUpper(m[1])
	}

	setFlag := func(dst **bool, key string) {
		if featureChecks[key].MatchString(html) {
			*dst = domain.Bool(true)
		}
	}
	setFlag(&l.Features.Elevator, "elevator")
	setFlag(&l.Features.Balcony, "balcony")
	setFlag(&l.Features.Terrace, "terrace")
	setFlag(&l.Features.Loggia, "loggia")
	setFlag(&l.Features.Garden, "garden")
	setFlag(&l.Features.Cellar, "cellar")
	setFlag(&l.Features.Storage, "storage")
	setFlag(&l.Features.Furnished, "furnished")
	setFlag(&l.Features.BarrierFree, "barrier_free")

	for _, p := range parkingChecks {
		if p.re.MatchString(html) {
			l.Features.Parking = p.pt
			break
		}
	}

	if commissionFreePattern.MatchString(html) {
		l.Costs.CommissionFree = domain.Bool(true)
	} else if m := commissionPercentPattern.FindStringSubmatch(html); m != nil {
		if pct, ok := parseGermanNumber(m[1]); ok && pct >= commissionPercentMin && pct <= commissionPercentMax {
			l.Costs.CommissionFree = domain.Bool(false)
			l.Costs.CommissionPercent = domain.Float(pct)
		}
	}

	return l
}

// numeric runs one spec's patterns in order and stores the first candidate
// that survives the fragment guard and the plausibility bounds.
func (e *Extractor) numeric(l *domain.Listing, text string, spec numericSpec, set func(float64)) {
	for _, re := range spec.patterns {
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := idx[2], idx[3]
			if start < 0 {
				continue
			}
			raw := text[start:end]
			if precededByNumberFragment(text, start) || !plausibleIntegerPart(raw) {
				continue
			}
			v, ranged, ok := parseNumberOrRange(raw)
			if !ok || v < spec.min || v > spec.max {
				continue
			}
			set(v)
			if ranged {
				l.Notes[spec.path] = rangeNote
			}
			return
		}
	}
}

func extractYear(text string) (int, bool) {
	for _, re := range yearPatterns {
		for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := idx[2], idx[3]
			if start < 0 || precededByNumberFragment(text, start) {
				continue
			}
			year, err := strconv.Atoi(text[start:end])
			if err != nil || year < yearBuiltMin || year > yearBuiltMax {
				continue
			}
			return year, true
		}
	}
	return 0, false
}

// extractFloor resolves the floor number and its textual form. Special
// vocabulary (Erdgeschoss, Souterrain, Mezzanin) wins over numeric
// patterns; a Dachgeschoss mention yields only the text.
func extractFloor(text string) (*int, string) {
	for _, s := range floorSpecials {
		if s.re.MatchString(text) {
			f := s.floor
			return &f, s.text
		}
	}
	if dachgeschossPattern.MatchString(text) {
		return nil, "DG"
	}
	for _, re := range floorPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			f, err := strconv.Atoi(m[1])
			if err != nil || f < floorMin || f > floorMax {
				continue
			}
			return &f, strconv.Itoa(f) + ". OG"
		}
	}
	return nil, ""
}

var domValuePattern = regexp.MustCompile(num)

// betriebskostenFromDOM walks label/value element pairs for an operating
// cost figure the inline patterns missed. willhaben renders the label and
// the amount in sibling cells, which a flat regex over minified HTML can
// pair up wrongly.
func betriebskostenFromDOM(html string) (float64, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, false
	}

	var found float64
	var ok bool
	doc.Find("tr, dl, div").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td, th, dt, dd, span, div")
		if cells.Length() < 2 {
			return true
		}
		var prevLabel string
		cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			text := strings.TrimSpace(cell.Text())
			if prevLabel != "" {
				if m := domValuePattern.FindString(text); m != "" {
					if v, parsed := parseGermanNumber(m); parsed && v >= betriebskostenSpec.min && v < betriebskostenSpec.max {
						found, ok = v, true
						return false
					}
				}
			}
			lower := strings.ToLower(text)
			if strings.Contains(lower, "betriebskosten") || strings.Contains(lower, "nebenkosten") {
				prevLabel = lower
			} else {
				prevLabel = ""
			}
			return true
		})
		return !ok
	})
	return found, ok
}
