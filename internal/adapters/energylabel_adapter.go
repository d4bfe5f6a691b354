package adapters

import (
	"context"

	"propscout_backend/internal/analysis/ports"
	"propscout_backend/internal/energylabel"
)

// EnergyLabelAdapter adapts the energylabel service for use by the analysis domain.
// It implements the analysis/ports.EnergyLabelProvider interface.
type EnergyLabelAdapter struct {
	svc energylabel.EnergyLabelService
}

// NewEnergyLabelAdapter creates a new adapter that wraps the energylabel service.
func NewEnergyLabelAdapter(svc energylabel.EnergyLabelService) *EnergyLabelAdapter {
	return &EnergyLabelAdapter{svc: svc}
}

// LookupEnergyLabel translates the analysis domain's lookup params into an
// energylabel service call and maps the response back to PropertyEnergyData.
func (a *EnergyLabelAdapter) LookupEnergyLabel(ctx context.Context, params ports.LabelLookupParams) (*ports.PropertyEnergyData, error) {
	if a == nil || a.svc == nil {
		return nil, nil // Graceful degradation when disabled
	}

	resp, err := a.svc.Lookup(ctx, params.Postcode, params.HouseNumber)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Label == nil {
		return nil, nil
	}

	return &ports.PropertyEnergyData{
		EnergyLabel: resp.Label.EnergyClass,
		YearBuilt:   resp.Label.YearBuilt,
	}, nil
}

// Compile-time check that EnergyLabelAdapter implements ports.EnergyLabelProvider
var _ ports.EnergyLabelProvider = (*EnergyLabelAdapter)(nil)
