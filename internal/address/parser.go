// Package address parses Austrian address strings and enriches listings
// with the district and state derived from the postal code.
package address

import (
	"regexp"
	"strconv"
	"strings"

	"wohnwert/internal/domain"
)

// Common formats:
//
//	"Margaretenstraße 12/3/4, 1050 Wien"
//	"Hauptplatz 1, 8010 Graz"
//	"Rathausplatz 3 Top 5, 1010 Wien"
var (
	fullPattern = regexp.MustCompile(
		`(?i)([A-Za-zäöüÄÖÜß\s\-\.]+?)\s*(\d+[a-zA-Z]?)(?:\s*[/\-]\s*(\d+)?(?:\s*[/\-]\s*)?(\d+|Top\s*\d+)?)?\s*[,\s]\s*(\d{4})\s+([A-Za-zäöüÄÖÜß\s\-]+)`)
	postalCityPattern = regexp.MustCompile(`(\d{4})\s+([A-Za-zäöüÄÖÜß\s\-]+)`)
	cityOnlyPattern   = regexp.MustCompile(`^([A-Za-zäöüÄÖÜß\s\-]+?)(?:\s*,\s*([A-Za-zäöüÄÖÜß\s\-]+))?$`)
)

// Parse decomposes an Austrian address string. Unrecognized parts stay
// empty; the raw input is kept as FullAddress.
func Parse(text string) domain.Address {
	addr := domain.Address{FullAddress: strings.TrimSpace(text)}
	if addr.FullAddress == "" {
		return addr
	}

	if m := fullPattern.FindStringSubmatch(text); m != nil {
		addr.Street = strings.TrimSpace(m[1])
		addr.HouseNumber = m[2]
		addr.PostalCode = m[5]
		addr.City = strings.TrimSpace(m[6])

		stair, door := m[3], m[4]
		switch {
		case stair != "" && door != "":
			addr.DoorNumber = stair + "/" + door
		case door != "":
			addr.DoorNumber = strings.TrimSpace(strings.TrimPrefix(door, "Top"))
		case stair != "":
			addr.DoorNumber = stair
		}
	} else if m := postalCityPattern.FindStringSubmatch(text); m != nil {
		addr.PostalCode = m[1]
		addr.City = strings.TrimSpace(m[2])
	} else if m := cityOnlyPattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		addr.City = strings.TrimSpace(m[1])
		addr.State = strings.TrimSpace(m[2])
	}

	Enrich(&addr)
	return addr
}

// Enrich fills state, district number and district name from the postal
// code. Vienna codes (1010-1239) encode the district in the middle digits.
func Enrich(addr *domain.Address) {
	if addr.PostalCode == "" {
		return
	}
	if state := stateFromPostal(addr.PostalCode); state != "" {
		addr.State = state
	}
	if d := ViennaDistrict(addr.PostalCode); d != nil {
		addr.DistrictNumber = d
		addr.City = "Wien"
		if info, ok := domain.ViennaDistricts[*d]; ok {
			addr.District = info.Name
		}
	}
}

// ViennaDistrict returns the district number encoded in a Vienna postal
// code, or nil when the code is not a Vienna one.
func ViennaDistrict(postalCode string) *int {
	code, err := strconv.Atoi(postalCode)
	if err != nil || code < 1010 || code > 1239 {
		return nil
	}
	district := (code % 1000) / 10
	if district < 1 || district > 23 {
		return nil
	}
	return &district
}

func stateFromPostal(postalCode string) string {
	code, err := strconv.Atoi(postalCode)
	if err != nil {
		return ""
	}
	for _, r := range domain.PostalCodeRanges {
		if code >= r.Lo && code <= r.Hi {
			return r.State
		}
	}
	return ""
}
