package domain

// Merge copies every field that is set in src and still unset in dst into
// dst, tagging each copied field with src's extraction source. Calling Merge
// once per stage in trust order (structured, pattern, assisted) gives the
// fixed precedence: a field set by an earlier stage is never replaced.
func Merge(dst, src *Listing, from FieldSource) {
	m := merger{dst: dst, src: src, from: from}

	// Spec
	m.str(&dst.Spec.Title, src.Spec.Title, "spec.title")
	m.str(&dst.Spec.Description, src.Spec.Description, "spec.description")
	m.f64(&dst.Spec.SizeSQM, src.Spec.SizeSQM, "spec.size_sqm")
	m.f64(&dst.Spec.Rooms, src.Spec.Rooms, "spec.rooms")
	m.i(&dst.Spec.Bedrooms, src.Spec.Bedrooms, "spec.bedrooms")
	m.i(&dst.Spec.Bathrooms, src.Spec.Bathrooms, "spec.bathrooms")
	m.i(&dst.Spec.Floor, src.Spec.Floor, "spec.floor")
	m.str(&dst.Spec.FloorText, src.Spec.FloorText, "spec.floor_text")
	m.i(&dst.Spec.YearBuilt, src.Spec.YearBuilt, "spec.year_built")
	m.cond(&dst.Spec.Condition, src.Spec.Condition, "spec.condition")
	m.btype(&dst.Spec.BuildingType, src.Spec.BuildingType, "spec.building_type")

	// Costs
	m.f64(&dst.Costs.Price, src.Costs.Price, "costs.price")
	m.str(&dst.Costs.Currency, src.Costs.Currency, "costs.currency")
	m.f64(&dst.Costs.BetriebskostenMonthly, src.Costs.BetriebskostenMonthly, "costs.betriebskosten_monthly")
	m.f64(&dst.Costs.Reparaturruecklage, src.Costs.Reparaturruecklage, "costs.reparaturruecklage")
	m.b(&dst.Costs.CommissionFree, src.Costs.CommissionFree, "costs.commission_free")
	m.f64(&dst.Costs.CommissionPercent, src.Costs.CommissionPercent, "costs.commission_percent")

	// Address
	m.str(&dst.Address.Street, src.Address.Street, "address.street")
	m.str(&dst.Address.HouseNumber, src.Address.HouseNumber, "address.house_number")
	m.str(&dst.Address.DoorNumber, src.Address.DoorNumber, "address.door_number")
	m.str(&dst.Address.PostalCode, src.Address.PostalCode, "address.postal_code")
	m.str(&dst.Address.City, src.Address.City, "address.city")
	m.str(&dst.Address.District, src.Address.District, "address.district")
	m.i(&dst.Address.DistrictNumber, src.Address.DistrictNumber, "address.district_number")
	m.str(&dst.Address.State, src.Address.State, "address.state")
	m.str(&dst.Address.FullAddress, src.Address.FullAddress, "address.full_address")

	// Features
	m.b(&dst.Features.Elevator, src.Features.Elevator, "features.elevator")
	m.b(&dst.Features.Balcony, src.Features.Balcony, "features.balcony")
	m.b(&dst.Features.Terrace, src.Features.Terrace, "features.terrace")
	m.b(&dst.Features.Loggia, src.Features.Loggia, "features.loggia")
	m.b(&dst.Features.Garden, src.Features.Garden, "features.garden")
	m.b(&dst.Features.Cellar, src.Features.Cellar, "features.cellar")
	m.b(&dst.Features.Storage, src.Features.Storage, "features.storage")
	m.b(&dst.Features.Furnished, src.Features.Furnished, "features.furnished")
	m.b(&dst.Features.BarrierFree, src.Features.BarrierFree, "features.barrier_free")
	m.parking(&dst.Features.Parking, src.Features.Parking, "features.parking")

	// Energy
	m.str(&dst.Energy.Rating, src.Energy.Rating, "energy.rating")
	m.f64(&dst.Energy.HWB, src.Energy.HWB, "energy.hwb")
	m.f64(&dst.Energy.FGEE, src.Energy.FGEE, "energy.fgee")
	m.heating(&dst.Energy.Heating, src.Energy.Heating, "energy.heating")
}

type merger struct {
	dst  *Listing
	src  *Listing
	from FieldSource
}

func (m merger) took(path string) {
	if m.dst.Provenance == nil {
		m.dst.Provenance = make(map[string]FieldSource)
	}
	m.dst.Provenance[path] = m.from
	if note, ok := m.src.Notes[path]; ok {
		if m.dst.Notes == nil {
			m.dst.Notes = make(map[string]string)
		}
		m.dst.Notes[path] = note
	}
}

func (m merger) str(dst *string, src string, path string) {
	if *dst == "" && src != "" {
		*dst = src
		m.took(path)
	}
}

func (m merger) f64(dst **float64, src *float64, path string) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
		m.took(path)
	}
}

func (m merger) i(dst **int, src *int, path string) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
		m.took(path)
	}
}

func (m merger) b(dst **bool, src *bool, path string) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
		m.took(path)
	}
}

func (m merger) cond(dst *Condition, src Condition, path string) {
	if *dst == "" && src != "" {
		*dst = src
		m.took(path)
	}
}

func (m merger) btype(dst *BuildingType, src BuildingType, path string) {
	if *dst == "" && src != "" {
		*dst = src
		m.took(path)
	}
}

func (m merger) parking(dst *ParkingType, src ParkingType, path string) {
	if *dst == "" && src != "" {
		*dst = src
		m.took(path)
	}
}

func (m merger) heating(dst *HeatingType, src HeatingType, path string) {
	if *dst == "" && src != "" {
		*dst = src
		m.took(path)
	}
}
