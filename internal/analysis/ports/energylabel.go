// Package ports defines the interfaces the analysis domain needs from other
// domains. Implementations live in internal/adapters.
package ports

import "context"

// LabelLookupParams identifies a Dutch address.
type LabelLookupParams struct {
	Postcode    string
	HouseNumber string
}

// PropertyEnergyData is the part of a registered energy label the analysis
// domain uses for scoring.
type PropertyEnergyData struct {
	EnergyLabel string
	YearBuilt   int
}

// EnergyLabelProvider looks up the registered energy label of an address.
// Returns nil, nil when no label is registered.
type EnergyLabelProvider interface {
	LookupEnergyLabel(ctx context.Context, params LabelLookupParams) (*PropertyEnergyData, error)
}
