package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"propscout_backend/internal/analysis/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreSingleYAML(t *testing.T) {
	path := writeFile(t, "listing.yaml", `
price: 300000
square_meters: 70
rooms: 3
city: Utrecht
property_type: apartment
year_built: 2010
energy_label: B
`)

	out, err := run(t, "", "score", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Utrecht")
	assert.Contains(t, out, "HOOD")
	assert.Contains(t, out, "1540")
	assert.Contains(t, out, "6.16")
}

func TestScoreBatchJSON(t *testing.T) {
	path := writeFile(t, "batch.json", `{"items": [`+
		`{"price": 450000, "city": "Amsterdam"}, `+
		`{"price": 200000, "square_meters": 60, "city": "Unknownville"}]}`)

	out, err := run(t, "", "score", "--file", path, "--format", "json")
	require.NoError(t, err)

	var resp transport.BatchScoreResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, 1400, resp.Results[0].Analysis.EstimatedMonthlyRent)
	assert.Equal(t, 627, resp.Results[0].Analysis.WWSMaxRent)
	assert.Equal(t, "other", resp.Results[1].Analysis.NeighborhoodTier)
}

func TestScoreLargeFile(t *testing.T) {
	var b strings.Builder
	b.WriteString("items:\n")
	for i := 0; i < transport.MaxBatchSize+50; i++ {
		fmt.Fprintf(&b, "  - price: %d\n    city: Amsterdam\n", 300000+i)
	}
	path := writeFile(t, "many.yaml", b.String())

	out, err := run(t, "", "score", "--file", path, "--format", "json")
	require.NoError(t, err)

	var resp transport.BatchScoreResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, transport.MaxBatchSize+50, resp.Count)
	require.Len(t, resp.Results, transport.MaxBatchSize+50)
	assert.Equal(t, float64(300000), resp.Results[0].Property.Price)
	assert.Equal(t, float64(300149), resp.Results[149].Property.Price)
}

func TestScoreLargeFileReportsChunk(t *testing.T) {
	var b strings.Builder
	b.WriteString("items:\n")
	for i := 0; i < transport.MaxBatchSize+10; i++ {
		price := 300000
		if i == transport.MaxBatchSize+3 {
			price = 0
		}
		fmt.Fprintf(&b, "  - price: %d\n    city: Delft\n", price)
	}

	_, err := run(t, "", "score", "--file", writeFile(t, "bad-many.yaml", b.String()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items 101-110")
	assert.Contains(t, err.Error(), "items[3].price")
}

func TestScoreFromStdin(t *testing.T) {
	out, err := run(t, `{"price": 450000, "city": "Amsterdam"}`, "score", "--file", "-", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"estimated_monthly_rent": 1400`)
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	path := writeFile(t, "bad.yaml", "items:\n  - price: 0\n    city: Delft\n")

	_, err := run(t, "", "score", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[0].price")

	_, err = run(t, "", "score", "--file", path, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "", "score", "--file", writeFile(t, "empty.yaml", "{}"))
	assert.ErrorContains(t, err, "no properties")

	_, err = run(t, "", "score")
	assert.Error(t, err)
}

func TestTables(t *testing.T) {
	out, err := run(t, "", "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "CITY")
	assert.Contains(t, out, "amsterdam")
	assert.Contains(t, out, "tier1")
}
