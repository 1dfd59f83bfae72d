package domain

import "time"

// Identity carries the immutable identifiers of a listing.
type Identity struct {
	ListingID    string    `json:"listing_id"`
	SourceURL    string    `json:"source_url"`
	SourcePortal string    `json:"source_portal"`
	ScrapedAt    time.Time `json:"scraped_at"`
}

// Address holds the parsed location of a listing. DistrictNumber is the
// Vienna district (1-23) derived from a 1XXX postal code.
type Address struct {
	Street         string `json:"street,omitempty"`
	HouseNumber    string `json:"house_number,omitempty"`
	DoorNumber     string `json:"door_number,omitempty"`
	PostalCode     string `json:"postal_code,omitempty"`
	City           string `json:"city,omitempty"`
	District       string `json:"district,omitempty"`
	DistrictNumber *int   `json:"district_number,omitempty"`
	State          string `json:"state,omitempty"`
	FullAddress    string `json:"full_address,omitempty"`
}

// Costs holds the purchase price and the recurring cost figures.
type Costs struct {
	Price                    *float64 `json:"price,omitempty"`
	Currency                 string   `json:"currency,omitempty"`
	BetriebskostenMonthly    *float64 `json:"betriebskosten_monthly,omitempty"`
	Reparaturruecklage       *float64 `json:"reparaturruecklage,omitempty"`
	CommissionFree           *bool    `json:"commission_free,omitempty"`
	CommissionPercent        *float64 `json:"commission_percent,omitempty"`
}

// Specification holds the physical attributes of the apartment.
type Specification struct {
	Title        string       `json:"title,omitempty"`
	Description  string       `json:"description,omitempty"`
	SizeSQM      *float64     `json:"size_sqm,omitempty"`
	Rooms        *float64     `json:"rooms,omitempty"`
	Bedrooms     *int         `json:"bedrooms,omitempty"`
	Bathrooms    *int         `json:"bathrooms,omitempty"`
	Floor        *int         `json:"floor,omitempty"`
	FloorText    string       `json:"floor_text,omitempty"`
	YearBuilt    *int         `json:"year_built,omitempty"`
	Condition    Condition    `json:"condition,omitempty"`
	BuildingType BuildingType `json:"building_type,omitempty"`
}

// Features holds the boolean amenity flags plus the parking category.
type Features struct {
	Elevator    *bool       `json:"elevator,omitempty"`
	Balcony     *bool       `json:"balcony,omitempty"`
	Terrace     *bool       `json:"terrace,omitempty"`
	Loggia      *bool       `json:"loggia,omitempty"`
	Garden      *bool       `json:"garden,omitempty"`
	Cellar      *bool       `json:"cellar,omitempty"`
	Storage     *bool       `json:"storage,omitempty"`
	Furnished   *bool       `json:"furnished,omitempty"`
	BarrierFree *bool       `json:"barrier_free,omitempty"`
	Parking     ParkingType `json:"parking,omitempty"`
}

// Energy holds the energy-certificate attributes.
type Energy struct {
	Rating  string      `json:"rating,omitempty"`
	HWB     *float64    `json:"hwb,omitempty"`
	FGEE    *float64    `json:"fgee,omitempty"`
	Heating HeatingType `json:"heating,omitempty"`
}

// Listing is the aggregate record for one apartment, built incrementally
// across the extraction stages and frozen once validation passes.
//
// Provenance maps field paths ("costs.price") to the extraction stage that
// produced the value; Notes carries per-field normalization remarks such as
// "lower bound of range".
type Listing struct {
	Identity Identity      `json:"identity"`
	Address  Address       `json:"address"`
	Costs    Costs         `json:"costs"`
	Spec     Specification `json:"spec"`
	Features Features      `json:"features"`
	Energy   Energy        `json:"energy"`

	Provenance map[string]FieldSource `json:"provenance,omitempty"`
	Notes      map[string]string      `json:"notes,omitempty"`
}

// NewListing creates an empty listing for one document.
func NewListing(doc RawDocument) *Listing {
	return &Listing{
		Identity: Identity{
			ListingID:    doc.ListingID,
			SourceURL:    doc.SourceURL,
			SourcePortal: doc.Portal,
			ScrapedAt:    doc.FetchedAt,
		},
		Provenance: make(map[string]FieldSource),
		Notes:      make(map[string]string),
	}
}

// Float returns a pointer to v; shorthand for building partial listings.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
