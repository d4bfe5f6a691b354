package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const analysisColumns = `
	id, city, price, square_meters, rooms, property_type, listing_url, input,
	overall_score, investment_score, value_score, neighborhood_score,
	estimated_monthly_rent, gross_yield_pct, net_yield_pct, monthly_cashflow,
	wws_points, wws_regulated, wws_max_rent, rent_vs_wws_ratio,
	monthly_costs, scoring_version, created_at`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, a Analysis) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO property_analyses (
			id, city, price, square_meters, rooms, property_type, listing_url, input,
			overall_score, investment_score, value_score, neighborhood_score,
			estimated_monthly_rent, gross_yield_pct, net_yield_pct, monthly_cashflow,
			wws_points, wws_regulated, wws_max_rent, rent_vs_wws_ratio,
			monthly_costs, scoring_version, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23
		)`,
		a.ID, a.City, a.Price, a.SquareMeters, a.Rooms, a.PropertyType, a.ListingURL, a.Input,
		a.OverallScore, a.InvestmentScore, a.ValueScore, a.NeighborhoodScore,
		a.EstimatedMonthlyRent, a.GrossYieldPct, a.NetYieldPct, a.MonthlyCashflow,
		a.WWSPoints, a.WWSRegulated, a.WWSMaxRent, a.RentVsWWSRatio,
		a.MonthlyCosts, a.ScoringVersion, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Analysis, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+analysisColumns+` FROM property_analyses WHERE id = $1`, id)

	a, err := scanAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Analysis, int, error) {
	where, args := buildListFilter(params)
	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM property_analyses
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`, analysisColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	items := make([]Analysis, 0, params.Limit)
	total := 0
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(append(analysisDest(&a), &total)...); err != nil {
			return nil, 0, fmt.Errorf("scan analysis: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}

	// Past the last page the window function returns no rows.
	if len(items) == 0 && params.Offset > 0 {
		countArgs := args[:len(args)-2]
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM property_analyses `+where, countArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count analyses: %w", err)
		}
	}

	return items, total, nil
}

func (r *Repo) Stats(ctx context.Context, highScoreMin int) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE overall_score >= $1),
			COALESCE(AVG(overall_score), 0)::float8,
			COALESCE(AVG(gross_yield_pct), 0)::float8,
			COALESCE(AVG(CASE WHEN wws_regulated THEN 1 ELSE 0 END), 0)::float8
		FROM property_analyses`, highScoreMin,
	).Scan(&s.Total, &s.HighScore, &s.AvgOverallScore, &s.AvgGrossYieldPct, &s.RegulatedPercentage)
	if err != nil {
		return Stats{}, fmt.Errorf("analysis stats: %w", err)
	}
	return s, nil
}

func buildListFilter(params ListParams) (string, []interface{}) {
	clauses := make([]string, 0, 9)
	args := make([]interface{}, 0, 11)

	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if cities := normalizeValues(params.Cities); len(cities) > 0 {
		add("lower(city) = ANY($%d)", cities)
	}
	if types := normalizeValues(params.PropertyTypes); len(types) > 0 {
		add("lower(property_type) = ANY($%d)", types)
	}
	if params.MinScore != nil {
		add("overall_score >= $%d", *params.MinScore)
	}
	if params.MinPrice != nil {
		add("price >= $%d", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		add("price <= $%d", *params.MaxPrice)
	}
	if params.MinRooms != nil {
		add("rooms >= $%d", *params.MinRooms)
	}
	if params.MaxRooms != nil {
		add("rooms <= $%d", *params.MaxRooms)
	}
	if params.MinSquareMeters != nil {
		add("square_meters >= $%d", *params.MinSquareMeters)
	}
	if params.MaxSquareMeters != nil {
		add("square_meters <= $%d", *params.MaxSquareMeters)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// normalizeValues lowercases, trims and dedupes filter values.
func normalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func analysisDest(a *Analysis) []interface{} {
	return []interface{}{
		&a.ID, &a.City, &a.Price, &a.SquareMeters, &a.Rooms, &a.PropertyType, &a.ListingURL, &a.Input,
		&a.OverallScore, &a.InvestmentScore, &a.ValueScore, &a.NeighborhoodScore,
		&a.EstimatedMonthlyRent, &a.GrossYieldPct, &a.NetYieldPct, &a.MonthlyCashflow,
		&a.WWSPoints, &a.WWSRegulated, &a.WWSMaxRent, &a.RentVsWWSRatio,
		&a.MonthlyCosts, &a.ScoringVersion, &a.CreatedAt,
	}
}

func scanAnalysis(row pgx.Row) (Analysis, error) {
	var a Analysis
	err := row.Scan(analysisDest(&a)...)
	return a, err
}

var _ Repository = (*Repo)(nil)
