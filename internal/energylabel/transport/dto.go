// Package transport provides DTOs for the energy label domain.
package transport

import "time"

// Address is a normalised Dutch address as EP-Online expects it.
type Address struct {
	Postcode    string `json:"postcode"`
	HouseNumber string `json:"house_number"`
	HouseLetter string `json:"house_letter,omitempty"`
	Addition    string `json:"addition,omitempty"`
}

// EnergyLabel is a registered energy label.
type EnergyLabel struct {
	EnergyClass  string     `json:"energy_class"` // A++++ .. G
	EnergyIndex  *float64   `json:"energy_index,omitempty"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	BuildingType string     `json:"building_type,omitempty"`
	YearBuilt    int        `json:"year_built,omitempty"`
	Postcode     string     `json:"postcode,omitempty"`
	HouseNumber  int        `json:"house_number,omitempty"`
	HouseLetter  string     `json:"house_letter,omitempty"`
	Addition     string     `json:"addition,omitempty"`
	BAGObjectID  string     `json:"bag_object_id,omitempty"`
}

// LookupRequest is the query for an address lookup.
type LookupRequest struct {
	Postcode    string `json:"postcode" form:"postcode" validate:"required,min=6,max=8"`
	HouseNumber string `json:"house_number" form:"house_number" validate:"required,max=10"`
}

// LookupResponse wraps a lookup result. Label is nil when none is registered.
type LookupResponse struct {
	Address Address      `json:"address"`
	Found   bool         `json:"found"`
	Label   *EnergyLabel `json:"label,omitempty"`
}
