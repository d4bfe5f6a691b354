// Package service provides the analysis application service: validation,
// energy label enrichment, scoring, and optional persistence.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"propscout_backend/internal/analysis/ports"
	"propscout_backend/internal/analysis/repository"
	"propscout_backend/internal/analysis/scoring"
	"propscout_backend/internal/analysis/transport"
	"propscout_backend/platform/apperr"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/metrics"
	"propscout_backend/platform/sanitize"
	"propscout_backend/platform/validator"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// HighScoreThreshold is the overall score from which an analysis counts as a deal.
	HighScoreThreshold = 75

	defaultPageSize      = 20
	maxPageSize          = 100
	defaultConcurrency   = 8
	enrichmentTimeout    = 5 * time.Second
	msgValidationFailed  = "validation failed"
	msgStorageNotEnabled = "analysis storage is not configured"
)

// Service scores properties and manages stored analyses.
type Service struct {
	repo        repository.Repository
	labels      ports.EnergyLabelProvider
	val         *validator.Validator
	metrics     *metrics.Registry
	log         *logger.Logger
	concurrency int
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRepository enables persistence of analyses.
func WithRepository(repo repository.Repository) Option {
	return func(s *Service) { s.repo = repo }
}

// WithEnergyLabels enables EP-Online enrichment of missing energy labels.
func WithEnergyLabels(p ports.EnergyLabelProvider) Option {
	return func(s *Service) { s.labels = p }
}

// WithMetrics records scoring metrics.
func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) { s.metrics = m }
}

// WithConcurrency bounds the number of batch items scored in parallel.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates the analysis service. Without options it scores only.
func New(val *validator.Validator, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		val:         val,
		log:         log,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StorageEnabled reports whether analyses are persisted.
func (s *Service) StorageEnabled() bool {
	return s.repo != nil
}

// Score validates, enriches and scores a single property.
func (s *Service) Score(ctx context.Context, req transport.ScoreRequest) (*transport.ScoreResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	resp := s.score(ctx, req)
	s.persist(ctx, req, resp)
	return resp, nil
}

// ScoreBatch scores up to transport.MaxBatchSize properties in parallel.
// Results keep request order. The batch is rejected as a whole when any item is invalid.
func (s *Service) ScoreBatch(ctx context.Context, req transport.BatchScoreRequest) (*transport.BatchScoreResponse, error) {
	if len(req.Items) > transport.MaxBatchSize {
		return nil, apperr.Validation(fmt.Sprintf("batch may contain at most %d items", transport.MaxBatchSize))
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	for i := range req.Items {
		if err := req.Items[i].ToInput().Validate(); err != nil {
			return nil, apperr.Validation(fmt.Sprintf("items[%d]: %s", i, err.Error()))
		}
	}

	results := make([]transport.ScoreResponse, len(req.Items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range req.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp := s.score(gctx, req.Items[i])
			s.persist(gctx, req.Items[i], resp)
			results[i] = *resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "batch scoring cancelled", err)
	}

	s.metrics.ObserveBatch(len(results))
	return &transport.BatchScoreResponse{Results: results, Count: len(results)}, nil
}

// GetAnalysis returns a stored analysis.
func (s *Service) GetAnalysis(ctx context.Context, id uuid.UUID) (*transport.StoredAnalysis, error) {
	if s.repo == nil {
		return nil, apperr.Unavailable(msgStorageNotEnabled)
	}

	rec, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("analysis not found")
	}
	if err != nil {
		return nil, s.storageError("analysis.GetAnalysis", err)
	}

	out, err := toStoredAnalysis(rec)
	if err != nil {
		return nil, s.storageError("analysis.GetAnalysis", err)
	}
	return &out, nil
}

// ListAnalyses returns a page of stored analyses, newest first.
func (s *Service) ListAnalyses(ctx context.Context, req transport.ListAnalysesRequest) (*transport.AnalysisListResponse, error) {
	if s.repo == nil {
		return nil, apperr.Unavailable(msgStorageNotEnabled)
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if err := checkRanges(req); err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)
	recs, total, err := s.repo.List(ctx, repository.ListParams{
		Cities:          splitValues(req.Cities),
		PropertyTypes:   splitValues(req.PropertyTypes),
		MinScore:        req.MinScore,
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		MinRooms:        req.MinRooms,
		MaxRooms:        req.MaxRooms,
		MinSquareMeters: req.MinSquareMeters,
		MaxSquareMeters: req.MaxSquareMeters,
		Offset:          (page - 1) * pageSize,
		Limit:           pageSize,
	})
	if err != nil {
		return nil, s.storageError("analysis.ListAnalyses", err)
	}

	items := make([]transport.StoredAnalysis, 0, len(recs))
	for _, rec := range recs {
		item, err := toStoredAnalysis(rec)
		if err != nil {
			return nil, s.storageError("analysis.ListAnalyses", err)
		}
		items = append(items, item)
	}

	return &transport.AnalysisListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Stats summarises stored analyses.
func (s *Service) Stats(ctx context.Context) (*transport.StatsResponse, error) {
	if s.repo == nil {
		return nil, apperr.Unavailable(msgStorageNotEnabled)
	}

	st, err := s.repo.Stats(ctx, HighScoreThreshold)
	if err != nil {
		return nil, s.storageError("analysis.Stats", err)
	}

	return &transport.StatsResponse{
		AnalysesTotal:        st.Total,
		HighScoreDeals:       st.HighScore,
		AverageOverallScore:  scoring.RoundTo2(st.AvgOverallScore),
		AverageGrossYieldPct: scoring.RoundTo2(st.AvgGrossYieldPct),
		RegulatedShare:       scoring.RoundTo2(st.RegulatedPercentage),
	}, nil
}

func (s *Service) validate(req interface{}) error {
	if err := s.val.Struct(req); err != nil {
		return apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err))
	}
	if r, ok := req.(transport.ScoreRequest); ok {
		if err := r.ToInput().Validate(); err != nil {
			return apperr.Validation(err.Error())
		}
	}
	return nil
}

// score runs enrichment and the engine. It never fails: enrichment problems
// degrade to scoring without a label.
func (s *Service) score(ctx context.Context, req transport.ScoreRequest) *transport.ScoreResponse {
	in := req.ToInput()
	in.City = sanitize.Text(in.City)
	in.PropertyType = sanitize.TextPtr(in.PropertyType)
	in.EnergyLabel = normalizeLabel(in.EnergyLabel)

	source := transport.EnergyLabelUnknown
	if in.EnergyLabel != nil {
		source = transport.EnergyLabelFromInput
	} else if data := s.lookupLabel(ctx, req); data != nil {
		if label := normalizeLabel(&data.EnergyLabel); label != nil && scoring.IsKnownEnergyLabel(*label) {
			in.EnergyLabel = label
			source = transport.EnergyLabelFromEPOnline
		}
		if in.YearBuilt == nil && data.YearBuilt > 0 {
			year := data.YearBuilt
			in.YearBuilt = &year
		}
	}

	result := scoring.Score(in)
	s.metrics.ObserveScore(result.Tier.String(), result.WWS.Cap.Regulated, result.OverallScore)
	s.log.WithContext(ctx).PropertyScored(in.City, result.OverallScore, result.Tier.String(), result.WWS.Cap.Regulated)

	return &transport.ScoreResponse{
		Property: transport.NewPropertySummary(in, source, strings.TrimSpace(req.ListingURL)),
		Analysis: transport.NewAnalysisResult(result),
	}
}

func (s *Service) lookupLabel(ctx context.Context, req transport.ScoreRequest) *ports.PropertyEnergyData {
	if s.labels == nil || strings.TrimSpace(req.Postcode) == "" || strings.TrimSpace(req.HouseNumber) == "" {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, enrichmentTimeout)
	defer cancel()

	data, err := s.labels.LookupEnergyLabel(lookupCtx, ports.LabelLookupParams{
		Postcode:    req.Postcode,
		HouseNumber: req.HouseNumber,
	})
	if err != nil {
		s.log.WithContext(ctx).UpstreamError("ep-online", "lookup_energy_label", err)
		return nil
	}
	return data
}

// persist stores the analysis when a repository is configured. Failures are
// logged and counted but never fail the scoring call.
func (s *Service) persist(ctx context.Context, req transport.ScoreRequest, resp *transport.ScoreResponse) {
	if s.repo == nil {
		return
	}

	rec, err := toRecord(resp, s.now().UTC())
	if err == nil {
		err = s.repo.Create(ctx, rec)
	}
	if err != nil {
		s.metrics.IncPersistFailure()
		s.log.WithContext(ctx).DatabaseError("create_analysis", err)
		return
	}

	id := rec.ID
	resp.AnalysisID = &id
}

func (s *Service) storageError(op string, err error) error {
	s.log.DatabaseError(op, err)
	return apperr.Wrap(apperr.KindInternal, "analysis storage failed", err).WithOp(op)
}

func normalizeLabel(label *string) *string {
	if label == nil {
		return nil
	}
	cleaned := strings.ToUpper(strings.TrimSpace(*label))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// splitValues expands comma separated query values.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func checkRanges(req transport.ListAnalysesRequest) error {
	details := make(map[string]string)
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		details["max_price"] = "gtefield"
	}
	if req.MinRooms != nil && req.MaxRooms != nil && *req.MinRooms > *req.MaxRooms {
		details["max_rooms"] = "gtefield"
	}
	if req.MinSquareMeters != nil && req.MaxSquareMeters != nil && *req.MinSquareMeters > *req.MaxSquareMeters {
		details["max_sqm"] = "gtefield"
	}
	if len(details) == 0 {
		return nil
	}
	return apperr.Validation(msgValidationFailed).WithDetails(details)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func toRecord(resp *transport.ScoreResponse, createdAt time.Time) (repository.Analysis, error) {
	input, err := json.Marshal(resp.Property)
	if err != nil {
		return repository.Analysis{}, fmt.Errorf("encode property: %w", err)
	}
	costs, err := json.Marshal(resp.Analysis.EstimatedMonthlyCosts)
	if err != nil {
		return repository.Analysis{}, fmt.Errorf("encode costs: %w", err)
	}

	var listingURL *string
	if resp.Property.ListingURL != "" {
		u := resp.Property.ListingURL
		listingURL = &u
	}

	a := resp.Analysis
	return repository.Analysis{
		ID:                   uuid.New(),
		City:                 resp.Property.City,
		Price:                resp.Property.Price,
		SquareMeters:         resp.Property.SquareMeters,
		Rooms:                resp.Property.Rooms,
		PropertyType:         resp.Property.PropertyType,
		ListingURL:           listingURL,
		Input:                input,
		OverallScore:         a.OverallScore,
		InvestmentScore:      a.InvestmentScore,
		ValueScore:           a.ValueScore,
		NeighborhoodScore:    a.NeighborhoodScore,
		EstimatedMonthlyRent: a.EstimatedMonthlyRent,
		GrossYieldPct:        a.GrossYieldPct,
		NetYieldPct:          a.NetYieldPct,
		MonthlyCashflow:      a.MonthlyCashflow,
		WWSPoints:            a.WWSScore,
		WWSRegulated:         a.WWSMaxRent > 0,
		WWSMaxRent:           a.WWSMaxRent,
		RentVsWWSRatio:       a.RentVsWWSRatio,
		MonthlyCosts:         costs,
		ScoringVersion:       a.ScoringVersion,
		CreatedAt:            createdAt,
	}, nil
}

func toStoredAnalysis(rec repository.Analysis) (transport.StoredAnalysis, error) {
	var property transport.PropertySummary
	if err := json.Unmarshal(rec.Input, &property); err != nil {
		return transport.StoredAnalysis{}, fmt.Errorf("decode property: %w", err)
	}
	var costs transport.MonthlyCostsResponse
	if err := json.Unmarshal(rec.MonthlyCosts, &costs); err != nil {
		return transport.StoredAnalysis{}, fmt.Errorf("decode costs: %w", err)
	}

	return transport.StoredAnalysis{
		ID:       rec.ID,
		Property: property,
		Analysis: transport.AnalysisResult{
			OverallScore:          rec.OverallScore,
			InvestmentScore:       rec.InvestmentScore,
			ValueScore:            rec.ValueScore,
			NeighborhoodScore:     rec.NeighborhoodScore,
			WWSScore:              rec.WWSPoints,
			WWSMaxRent:            rec.WWSMaxRent,
			EstimatedMonthlyRent:  rec.EstimatedMonthlyRent,
			GrossYieldPct:         rec.GrossYieldPct,
			NetYieldPct:           rec.NetYieldPct,
			EstimatedMonthlyCosts: costs,
			MonthlyCashflow:       rec.MonthlyCashflow,
			RentVsWWSRatio:        rec.RentVsWWSRatio,
			NeighborhoodTier:      scoring.CityTier(rec.City).String(),
			ScoreBand:             scoring.Band(rec.OverallScore),
			ScoringVersion:        rec.ScoringVersion,
		},
		CreatedAt: rec.CreatedAt,
	}, nil
}
