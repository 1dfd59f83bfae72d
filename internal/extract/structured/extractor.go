// Package structured parses schema.org JSON-LD blocks embedded in listing
// pages. It is the highest-trust extraction source: values taken here are
// never overwritten by a later stage. Parsing failures are silent, a page
// without usable structured data just yields an empty partial record.
package structured

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wohnwert/internal/domain"
)

// entity mirrors the subset of a schema.org Product / RealEstateListing
// node the pipeline consumes. Price may arrive as a JSON number or string.
type entity struct {
	Type   string          `json:"@type"`
	Name   string          `json:"name"`
	URL    string          `json:"url"`
	Offers *offer          `json:"offers"`
	Addr   *postalAddress  `json:"address"`
	Loc    *entityLocation `json:"location"`
}

type entityLocation struct {
	Addr *postalAddress `json:"address"`
}

type offer struct {
	Price         flexNumber     `json:"price"`
	PriceCurrency string         `json:"priceCurrency"`
	AvailableAt   *availableFrom `json:"availableAtOrFrom"`
}

// flexNumber accepts both JSON number and string representations; portals
// are not consistent about which one they emit for offer prices.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	var n json.Number = json.Number(s)
	v, err := n.Float64()
	if err != nil {
		return nil
	}
	*f = flexNumber(v)
	return nil
}

type availableFrom struct {
	Addr *postalAddress `json:"address"`
}

type postalAddress struct {
	StreetAddress   string `json:"streetAddress"`
	PostalCode      string `json:"postalCode"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
}

// Extractor scans a document for product/offer structured data.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns a partial listing with whatever subset of title, price,
// currency and address the structured data declares. It never fails.
func (e *Extractor) Extract(html string) *domain.Listing {
	l := &domain.Listing{
		Provenance: make(map[string]domain.FieldSource),
		Notes:      make(map[string]string),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return l
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, ent := range decodeEntities(s.Text()) {
			if !isListingEntity(ent.Type) {
				continue
			}
			apply(l, ent)
			return false
		}
		return true
	})
	return l
}

func isListingEntity(t string) bool {
	switch t {
	case "Product", "RealEstateListing", "Offer", "Apartment", "Residence":
		return true
	}
	return false
}

// decodeEntities parses one script payload, which may be a single object,
// an array of objects, or an @graph wrapper. Malformed JSON yields nil.
func decodeEntities(payload string) []entity {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil
	}

	var single entity
	if err := json.Unmarshal([]byte(payload), &single); err == nil && single.Type != "" {
		return []entity{single}
	}

	var list []entity
	if err := json.Unmarshal([]byte(payload), &list); err == nil {
		return list
	}

	var graph struct {
		Graph []entity `json:"@graph"`
	}
	if err := json.Unmarshal([]byte(payload), &graph); err == nil {
		return graph.Graph
	}
	return nil
}

var houseNumberPattern = regexp.MustCompile(`^(.*?)\s+(\d+[a-zA-Z]?(?:[-/]\d+[a-zA-Z]?)?)$`)

func apply(l *domain.Listing, ent entity) {
	if ent.Name != "" {
		l.Spec.Title = ent.Name
	}

	var addr *postalAddress
	if ent.Offers != nil {
		if p := float64(ent.Offers.Price); p > 0 {
			l.Costs.Price = domain.Float(p)
		}
		if ent.Offers.PriceCurrency != "" {
			l.Costs.Currency = ent.Offers.PriceCurrency
		}
		if ent.Offers.AvailableAt != nil {
			addr = ent.Offers.AvailableAt.Addr
		}
	}
	if addr == nil {
		addr = ent.Addr
	}
	if addr == nil && ent.Loc != nil {
		addr = ent.Loc.Addr
	}
	if addr == nil {
		return
	}

	l.Address.PostalCode = addr.PostalCode
	l.Address.City = addr.AddressLocality
	l.Address.State = addr.AddressRegion
	if addr.StreetAddress != "" {
		if m := houseNumberPattern.FindStringSubmatch(addr.StreetAddress); m != nil {
			l.Address.Street = m[1]
			l.Address.HouseNumber = m[2]
		} else {
			l.Address.Street = addr.StreetAddress
		}
		l.Address.FullAddress = addr.StreetAddress
	}
}
