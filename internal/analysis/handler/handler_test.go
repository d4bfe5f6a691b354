package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"propscout_backend/internal/analysis/repository"
	"propscout_backend/internal/analysis/service"
	"propscout_backend/internal/analysis/transport"
	"propscout_backend/platform/httpkit"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	items    []repository.Analysis
	lastList repository.ListParams
}

func (m *memoryRepo) Create(_ context.Context, a repository.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, a)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return repository.Analysis{}, repository.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, params repository.ListParams) ([]repository.Analysis, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = params
	return append([]repository.Analysis(nil), m.items...), len(m.items), nil
}

func (m *memoryRepo) Stats(_ context.Context, highScoreMin int) (repository.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := repository.Stats{Total: len(m.items)}
	for _, a := range m.items {
		if a.OverallScore >= highScoreMin {
			st.HighScore++
		}
	}
	return st, nil
}

func newEngine(t *testing.T, opts ...service.Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	val := validator.New()
	require.NoError(t, transport.RegisterValidations(val))
	h := New(service.New(val, logger.Discard(), opts...))

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1/analysis"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestScoreEndpoint(t *testing.T) {
	engine := newEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/analysis/score", map[string]interface{}{
		"price":         300000,
		"square_meters": 70,
		"rooms":         3,
		"city":          "Utrecht",
		"property_type": "apartment",
		"year_built":    2010,
		"energy_label":  "B",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp transport.ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.AnalysisID)
	assert.Equal(t, 1540, resp.Analysis.EstimatedMonthlyRent)
	assert.Equal(t, 6.16, resp.Analysis.GrossYieldPct)
	assert.Equal(t, 175, resp.Analysis.EstimatedMonthlyCosts.VvE)
}

func TestScoreEndpointNullFields(t *testing.T) {
	engine := newEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/analysis/score",
		`{"price":450000,"square_meters":null,"rooms":null,"city":"Amsterdam","property_type":null,"year_built":null,"energy_label":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp transport.ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1400, resp.Analysis.EstimatedMonthlyRent)
	assert.Equal(t, 115, resp.Analysis.WWSScore)
	assert.Equal(t, 627, resp.Analysis.WWSMaxRent)
}

func TestScoreEndpointErrors(t *testing.T) {
	engine := newEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/analysis/score", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/analysis/score", map[string]interface{}{"price": 0, "city": "Delft"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Details, "price")
}

func TestScoreBatchEndpoint(t *testing.T) {
	engine := newEngine(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/analysis/score/batch", map[string]interface{}{
		"items": []map[string]interface{}{
			{"price": 200000, "city": "Unknownville", "square_meters": 60},
			{"price": 450000, "city": "Amsterdam"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp transport.BatchScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, 45, resp.Results[0].Analysis.NeighborhoodScore)
	assert.Equal(t, 1400, resp.Results[1].Analysis.EstimatedMonthlyRent)
}

func TestStorageEndpointsWithoutStore(t *testing.T) {
	engine := newEngine(t)

	for _, path := range []string{
		"/api/v1/analysis/analyses",
		"/api/v1/analysis/analyses/" + uuid.NewString(),
		"/api/v1/analysis/stats",
	} {
		w := doJSON(t, engine, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}

	w := doJSON(t, engine, http.MethodGet, "/api/v1/analysis/analyses/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoredAnalysisRoundTrip(t *testing.T) {
	repo := &memoryRepo{}
	engine := newEngine(t, service.WithRepository(repo))

	w := doJSON(t, engine, http.MethodPost, "/api/v1/analysis/score", map[string]interface{}{
		"price":       450000,
		"city":        "Amsterdam",
		"listing_url": "https://www.pararius.nl/appartement-te-koop/amsterdam/abc",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created transport.ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.AnalysisID)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/analysis/analyses/"+created.AnalysisID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored transport.StoredAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, *created.AnalysisID, stored.ID)
	assert.Equal(t, created.Analysis, stored.Analysis)
	assert.Equal(t, "https://www.pararius.nl/appartement-te-koop/amsterdam/abc", stored.Property.ListingURL)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/analysis/analyses/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/analysis/analyses?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list transport.AnalysisListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 10, list.PageSize)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/analysis/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats transport.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.AnalysesTotal)
}

func TestListAnalysesQueryFilters(t *testing.T) {
	repo := &memoryRepo{}
	engine := newEngine(t, service.WithRepository(repo))

	w := doJSON(t, engine, http.MethodGet, "/api/v1/analysis/analyses?city=Utrecht&city=Delft,Breda"+
		"&property_type=apartment&min_price=150000&max_price=400000&min_rooms=2&max_rooms=4"+
		"&min_sqm=45&max_sqm=110&min_score=60", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	repo.mu.Lock()
	got := repo.lastList
	repo.mu.Unlock()
	assert.Equal(t, []string{"Utrecht", "Delft", "Breda"}, got.Cities)
	assert.Equal(t, []string{"apartment"}, got.PropertyTypes)
	require.NotNil(t, got.MinPrice)
	require.NotNil(t, got.MaxPrice)
	assert.Equal(t, 150000.0, *got.MinPrice)
	assert.Equal(t, 400000.0, *got.MaxPrice)
	require.NotNil(t, got.MinRooms)
	require.NotNil(t, got.MaxRooms)
	assert.Equal(t, 2, *got.MinRooms)
	assert.Equal(t, 4, *got.MaxRooms)
	require.NotNil(t, got.MinSquareMeters)
	require.NotNil(t, got.MaxSquareMeters)
	assert.Equal(t, 45.0, *got.MinSquareMeters)
	assert.Equal(t, 110.0, *got.MaxSquareMeters)
	require.NotNil(t, got.MinScore)
	assert.Equal(t, 60, *got.MinScore)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/analysis/analyses?min_price=500000&max_price=100", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "max_price")
}
