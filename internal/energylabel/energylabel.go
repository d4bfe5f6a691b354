// Package energylabel provides the energy label bounded context.
// This file defines the public interfaces exposed to other domains.
package energylabel

import (
	"context"

	"propscout_backend/internal/energylabel/transport"
)

// EnergyLabelService defines the public interface for energy label lookups.
// Other domains should depend on this interface, not the concrete implementation.
type EnergyLabelService interface {
	// Lookup normalises a free-form postcode and house number and returns the
	// registered label, if any.
	Lookup(ctx context.Context, postcode, houseNumber string) (*transport.LookupResponse, error)
}
