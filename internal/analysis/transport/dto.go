// Package transport provides DTOs for the analysis domain.
// Field names follow the snake_case scoring wire contract.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// MaxBatchSize caps the number of properties in one batch request.
const MaxBatchSize = 100

// EnergyLabelSource tells where the label used for scoring came from.
type EnergyLabelSource string

const (
	EnergyLabelFromInput    EnergyLabelSource = "input"
	EnergyLabelFromEPOnline EnergyLabelSource = "ep_online"
	EnergyLabelUnknown      EnergyLabelSource = "unknown"
)

// Request DTOs

// ScoreRequest is one property to score. Postcode and house number are only
// used to look up a missing energy label.
type ScoreRequest struct {
	Price         float64  `json:"price" yaml:"price" validate:"required,gt=0"`
	SquareMeters  *float64 `json:"square_meters" yaml:"square_meters" validate:"omitempty,gt=0,lte=100000"`
	Rooms         *int     `json:"rooms" yaml:"rooms" validate:"omitempty,gt=0,lte=500"`
	City          string   `json:"city" yaml:"city" validate:"required,max=100"`
	PropertyType  *string  `json:"property_type" yaml:"property_type" validate:"omitempty,max=50"`
	YearBuilt     *int     `json:"year_built" yaml:"year_built" validate:"omitempty,gte=1000,lte=2100"`
	EnergyLabel   *string  `json:"energy_label" yaml:"energy_label" validate:"omitempty,energylabel"`
	EstimatedRent *int     `json:"estimated_rent,omitempty" yaml:"estimated_rent" validate:"omitempty,gte=0"`
	Postcode      string   `json:"postcode,omitempty" yaml:"postcode" validate:"omitempty,max=8"`
	HouseNumber   string   `json:"house_number,omitempty" yaml:"house_number" validate:"omitempty,max=10"`
	ListingURL    string   `json:"listing_url,omitempty" yaml:"listing_url" validate:"omitempty,url,listingurl"`
}

// BatchScoreRequest scores several properties at once.
type BatchScoreRequest struct {
	Items []ScoreRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

// ListAnalysesRequest filters stored analyses. Cities and PropertyTypes match
// any of the given values; repeated query keys and comma separated values are
// both accepted.
type ListAnalysesRequest struct {
	Cities          []string `json:"cities" form:"city" validate:"max=50,dive,max=100"`
	PropertyTypes   []string `json:"property_types" form:"property_type" validate:"max=20,dive,max=50"`
	MinScore        *int     `json:"min_score" form:"min_score" validate:"omitempty,gte=0,lte=100"`
	MinPrice        *float64 `json:"min_price" form:"min_price" validate:"omitempty,gte=0"`
	MaxPrice        *float64 `json:"max_price" form:"max_price" validate:"omitempty,gte=0"`
	MinRooms        *int     `json:"min_rooms" form:"min_rooms" validate:"omitempty,gte=0,lte=50"`
	MaxRooms        *int     `json:"max_rooms" form:"max_rooms" validate:"omitempty,gte=0,lte=50"`
	MinSquareMeters *float64 `json:"min_sqm" form:"min_sqm" validate:"omitempty,gte=0"`
	MaxSquareMeters *float64 `json:"max_sqm" form:"max_sqm" validate:"omitempty,gte=0"`
	Page            int      `json:"page" form:"page" validate:"omitempty,min=1"`
	PageSize        int      `json:"page_size" form:"page_size" validate:"omitempty,min=1,max=100"`
}

// Response DTOs

// MonthlyCostsResponse is the monthly cost breakdown.
type MonthlyCostsResponse struct {
	Mortgage    int `json:"mortgage"`
	VvE         int `json:"vve"`
	Maintenance int `json:"maintenance"`
	Insurance   int `json:"insurance"`
	Management  int `json:"management"`
	Total       int `json:"total"`
}

// AnalysisResult is the scoring output. WWSMaxRent and RentVsWWSRatio are 0
// for properties in the free market segment.
type AnalysisResult struct {
	OverallScore          int                  `json:"overall_score"`
	InvestmentScore       int                  `json:"investment_score"`
	ValueScore            int                  `json:"value_score"`
	NeighborhoodScore     int                  `json:"neighborhood_score"`
	WWSScore              int                  `json:"wws_score"`
	WWSMaxRent            int                  `json:"wws_max_rent"`
	EstimatedMonthlyRent  int                  `json:"estimated_monthly_rent"`
	GrossYieldPct         float64              `json:"gross_yield_pct"`
	NetYieldPct           float64              `json:"net_yield_pct"`
	EstimatedMonthlyCosts MonthlyCostsResponse `json:"estimated_monthly_costs"`
	MonthlyCashflow       int                  `json:"monthly_cashflow"`
	RentVsWWSRatio        float64              `json:"rent_vs_wws_ratio"`
	NeighborhoodTier      string               `json:"neighborhood_tier"`
	ScoreBand             string               `json:"score_band"`
	ScoringVersion        string               `json:"scoring_version"`
}

// PropertySummary echoes the scored property with the label actually used.
type PropertySummary struct {
	Price             float64           `json:"price"`
	SquareMeters      *float64          `json:"square_meters"`
	Rooms             *int              `json:"rooms"`
	City              string            `json:"city"`
	PropertyType      *string           `json:"property_type"`
	YearBuilt         *int              `json:"year_built"`
	EnergyLabel       *string           `json:"energy_label"`
	EnergyLabelSource EnergyLabelSource `json:"energy_label_source"`
	ListingURL        string            `json:"listing_url,omitempty"`
}

// ScoreResponse is returned for a single scoring request. AnalysisID is set
// when the analysis was stored.
type ScoreResponse struct {
	AnalysisID *uuid.UUID      `json:"analysis_id,omitempty"`
	Property   PropertySummary `json:"property"`
	Analysis   AnalysisResult  `json:"analysis"`
}

// BatchScoreResponse holds results in request order.
type BatchScoreResponse struct {
	Results []ScoreResponse `json:"results"`
	Count   int             `json:"count"`
}

// StoredAnalysis is a persisted analysis.
type StoredAnalysis struct {
	ID        uuid.UUID       `json:"id"`
	Property  PropertySummary `json:"property"`
	Analysis  AnalysisResult  `json:"analysis"`
	CreatedAt time.Time       `json:"created_at"`
}

// AnalysisListResponse is one page of stored analyses.
type AnalysisListResponse struct {
	Items      []StoredAnalysis `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// StatsResponse summarises stored analyses.
type StatsResponse struct {
	AnalysesTotal        int     `json:"analyses_total"`
	HighScoreDeals       int     `json:"high_score_deals"`
	AverageOverallScore  float64 `json:"average_overall_score"`
	AverageGrossYieldPct float64 `json:"average_gross_yield_pct"`
	RegulatedShare       float64 `json:"regulated_share"`
}
