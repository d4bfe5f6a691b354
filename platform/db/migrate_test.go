package db

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	raw, err := fs.ReadFile(embeddedMigrations, "migrations/"+name)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	return string(raw)
}

func columnType(t *testing.T, sql, column string) string {
	t.Helper()
	re := regexp.MustCompile(`(?m)^\s+` + column + `\s+([A-Z]+(?: PRECISION)?(?:\(\d+,\s*\d+\))?)`)
	m := re.FindStringSubmatch(sql)
	if m == nil {
		t.Fatalf("column %s not found", column)
	}
	return m[1]
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, "migrations")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for _, e := range entries {
		sql := readMigration(t, e.Name())
		if !strings.Contains(sql, "-- +goose Up") || !strings.Contains(sql, "-- +goose Down") {
			t.Fatalf("%s: missing goose annotations", e.Name())
		}
	}
}

func TestAnalysisColumnsHoldUnboundedRatios(t *testing.T) {
	sql := readMigration(t, "00001_property_analyses.sql")

	// Tiny prices produce yields far beyond any fixed-precision NUMERIC.
	for _, col := range []string{"price", "gross_yield_pct", "net_yield_pct", "rent_vs_wws_ratio"} {
		if got := columnType(t, sql, col); got != "DOUBLE PRECISION" {
			t.Fatalf("%s: expected DOUBLE PRECISION, got %s", col, got)
		}
	}
	if got := columnType(t, sql, "monthly_cashflow"); got != "BIGINT" {
		t.Fatalf("monthly_cashflow: expected BIGINT, got %s", got)
	}
}

func TestAnalysisColumnsSupportListFilters(t *testing.T) {
	sql := readMigration(t, "00001_property_analyses.sql")

	for col, want := range map[string]string{
		"square_meters": "DOUBLE PRECISION",
		"rooms":         "SMALLINT",
		"property_type": "TEXT",
	} {
		if got := columnType(t, sql, col); got != want {
			t.Fatalf("%s: expected %s, got %s", col, want, got)
		}
	}
}
