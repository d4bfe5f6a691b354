// Package service provides business logic for energy label lookups.
package service

import (
	"context"
	"time"

	"propscout_backend/internal/energylabel/transport"
	"propscout_backend/platform/apperr"
	"propscout_backend/platform/cache"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/metrics"
)

// Lookup outcomes recorded in metrics.
const (
	resultHit      = "hit"
	resultMiss     = "miss"
	resultNotFound = "not_found"
	resultError    = "error"
)

// Fetcher retrieves labels from EP-Online.
type Fetcher interface {
	GetByAddress(ctx context.Context, addr transport.Address) ([]transport.EnergyLabel, error)
}

// Service handles energy label lookups with caching.
type Service struct {
	fetcher  Fetcher
	cache    *cache.Cache[[]transport.EnergyLabel]
	cacheTTL time.Duration
	metrics  *metrics.Registry
	log      *logger.Logger
}

// New creates a new energy label service. Energy labels rarely change, so
// results (including "no label") are cached for cacheTTL.
func New(fetcher Fetcher, c *cache.Cache[[]transport.EnergyLabel], cacheTTL time.Duration, m *metrics.Registry, log *logger.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
		log:      log,
	}
}

// Lookup normalises the address and returns its label, or nil if none is
// registered.
func (s *Service) Lookup(ctx context.Context, postcode, houseNumber string) (*transport.LookupResponse, error) {
	addr, ok := NormalizeAddress(postcode, houseNumber)
	if !ok {
		return nil, apperr.Validation("invalid address").WithDetails(map[string]string{
			"postcode":     postcode,
			"house_number": houseNumber,
		})
	}

	label, err := s.GetByAddress(ctx, addr)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "energy label lookup failed", err).WithOp("energylabel.Lookup")
	}

	return &transport.LookupResponse{
		Address: addr,
		Found:   label != nil,
		Label:   label,
	}, nil
}

// GetByAddress fetches the label for a normalised address, using the cache
// when available.
func (s *Service) GetByAddress(ctx context.Context, addr transport.Address) (*transport.EnergyLabel, error) {
	key := cacheKey(addr)

	if labels, ok := s.cache.Get(ctx, key); ok {
		s.metrics.ObserveLabelLookup(resultHit)
		return first(labels), nil
	}

	labels, err := s.fetcher.GetByAddress(ctx, addr)
	if err != nil {
		s.metrics.ObserveLabelLookup(resultError)
		s.log.WithContext(ctx).UpstreamError("ep-online", "get_by_address", err)
		return nil, err
	}

	s.cache.Set(ctx, key, labels, s.cacheTTL)
	if len(labels) == 0 {
		s.metrics.ObserveLabelLookup(resultNotFound)
		return nil, nil
	}
	s.metrics.ObserveLabelLookup(resultMiss)
	return first(labels), nil
}

// ClearCache drops locally cached entries.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

func first(labels []transport.EnergyLabel) *transport.EnergyLabel {
	if len(labels) == 0 {
		return nil
	}
	label := labels[0]
	return &label
}

func cacheKey(addr transport.Address) string {
	return "addr:" + addr.Postcode + ":" + addr.HouseNumber + ":" + addr.HouseLetter + ":" + addr.Addition
}
