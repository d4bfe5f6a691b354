// Package scoring implements the deterministic property investment scoring
// engine for Dutch rental properties: rent estimation, monthly costs, the
// simplified WWS point system and the weighted sub-scores.
//
// The package holds no mutable state. Every function is safe for concurrent use.
package scoring

import (
	"errors"
	"math"
)

// ScoringVersion tracks the scoring model stored alongside persisted results.
// Bump this when changing scoring logic.
const ScoringVersion = "1.0.0"

// Defaults applied when optional listing attributes are missing.
const (
	DefaultSquareMeters = 50.0
	DefaultRooms        = 2
	DefaultYearBuilt    = 1970
)

var (
	ErrNonPositivePrice = errors.New("price must be greater than zero")
	ErrNonPositiveArea  = errors.New("square meters must be greater than zero")
	ErrNonPositiveRooms = errors.New("rooms must be greater than zero")
)

// PropertyInput is the listing data the engine scores. Nil pointers mean the
// attribute is unknown.
type PropertyInput struct {
	Price         float64
	SquareMeters  *float64
	Rooms         *int
	City          string
	PropertyType  *string
	YearBuilt     *int
	EnergyLabel   *string
	EstimatedRent *int // caller override, used when > 0
}

// Validate checks the input constraints the engine relies on. Score is only
// meaningful for inputs that pass.
func (in PropertyInput) Validate() error {
	if !(in.Price > 0) || math.IsInf(in.Price, 0) {
		return ErrNonPositivePrice
	}
	if in.SquareMeters != nil && !(*in.SquareMeters > 0) {
		return ErrNonPositiveArea
	}
	if in.Rooms != nil && *in.Rooms <= 0 {
		return ErrNonPositiveRooms
	}
	return nil
}

// resolved holds the input after default resolution.
type resolved struct {
	price         float64
	sqm           float64
	rooms         int
	city          string
	yearBuilt     int
	energyLabel   string // empty when unknown
	estimatedRent int
}

func resolveDefaults(in PropertyInput) resolved {
	r := resolved{
		price:     in.Price,
		sqm:       DefaultSquareMeters,
		rooms:     DefaultRooms,
		city:      in.City,
		yearBuilt: DefaultYearBuilt,
	}
	if in.SquareMeters != nil {
		r.sqm = *in.SquareMeters
	}
	if in.Rooms != nil {
		r.rooms = *in.Rooms
	}
	if in.YearBuilt != nil {
		r.yearBuilt = *in.YearBuilt
	}
	if in.EnergyLabel != nil {
		r.energyLabel = *in.EnergyLabel
	}
	if in.EstimatedRent != nil {
		r.estimatedRent = *in.EstimatedRent
	}
	return r
}

// MonthlyCosts is the monthly cost breakdown of owning the property.
// Total is always the sum of the other fields.
type MonthlyCosts struct {
	Mortgage    int
	ServiceFee  int // VvE contribution
	Maintenance int
	Insurance   int
	Management  int
	Total       int
}

// RentCap is the outcome of the WWS rent regulation check. A liberalized
// (free market) property has Regulated == false and no MaxRent.
type RentCap struct {
	Regulated bool
	MaxRent   int
}

// WireValue returns the maximum rent as exposed to clients and storage, where
// 0 marks the free market segment.
func (c RentCap) WireValue() int {
	if !c.Regulated {
		return 0
	}
	return c.MaxRent
}

// WWSAssessment is the WWS point total and the resulting rent cap.
type WWSAssessment struct {
	Points float64
	Cap    RentCap
}

// RoundedPoints returns the point total as a whole number.
func (a WWSAssessment) RoundedPoints() int {
	return int(roundHalfUp(a.Points))
}

// Result is the full analysis of one property.
type Result struct {
	OverallScore         int
	InvestmentScore      int
	ValueScore           int
	NeighborhoodScore    int
	WWS                  WWSAssessment
	EstimatedMonthlyRent int
	GrossYieldPct        float64
	NetYieldPct          float64
	MonthlyCosts         MonthlyCosts
	MonthlyCashflow      int
	RentVsCapRatio       float64 // 0 when the rent is not capped
	Tier                 Tier
	Version              string
}

// roundHalfUp rounds to the nearest integer with ties going towards +Inf,
// including for negative values (-2.5 becomes -2).
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// RoundTo2 rounds half up to two decimals.
func RoundTo2(x float64) float64 {
	return roundHalfUp(x*100) / 100
}

func clampScore(x float64) int {
	return int(roundHalfUp(math.Min(100, math.Max(0, x))))
}
