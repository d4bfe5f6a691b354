package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("analysis not found")

// Analysis is one stored scoring run.
type Analysis struct {
	ID                   uuid.UUID
	City                 string
	Price                float64
	SquareMeters         *float64
	Rooms                *int
	PropertyType         *string
	ListingURL           *string
	Input                json.RawMessage
	OverallScore         int
	InvestmentScore      int
	ValueScore           int
	NeighborhoodScore    int
	EstimatedMonthlyRent int
	GrossYieldPct        float64
	NetYieldPct          float64
	MonthlyCashflow      int
	WWSPoints            int
	WWSRegulated         bool
	WWSMaxRent           int
	RentVsWWSRatio       float64
	MonthlyCosts         json.RawMessage
	ScoringVersion       string
	CreatedAt            time.Time
}

// ListParams filters and pages stored analyses.
type ListParams struct {
	Cities          []string
	PropertyTypes   []string
	MinScore        *int
	MinPrice        *float64
	MaxPrice        *float64
	MinRooms        *int
	MaxRooms        *int
	MinSquareMeters *float64
	MaxSquareMeters *float64
	Offset          int
	Limit           int
}

// Stats aggregates stored analyses.
type Stats struct {
	Total               int
	HighScore           int
	AvgOverallScore     float64
	AvgGrossYieldPct    float64
	RegulatedPercentage float64
}

// Repository is the analysis store.
type Repository interface {
	Create(ctx context.Context, a Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (Analysis, error)
	List(ctx context.Context, params ListParams) ([]Analysis, int, error)
	Stats(ctx context.Context, highScoreMin int) (Stats, error)
}
