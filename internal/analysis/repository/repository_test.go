package repository

import (
	"reflect"
	"testing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBuildListFilter(t *testing.T) {
	tests := []struct {
		name      string
		params    ListParams
		wantWhere string
		wantArgs  int
	}{
		{"no filters", ListParams{}, "", 0},
		{"city only", ListParams{Cities: []string{" Utrecht "}}, "WHERE lower(city) = ANY($1)", 1},
		{"blank cities ignored", ListParams{Cities: []string{" ", ""}}, "", 0},
		{"score only", ListParams{MinScore: intPtr(75)}, "WHERE overall_score >= $1", 1},
		{"city and score", ListParams{Cities: []string{"Delft"}, MinScore: intPtr(50)}, "WHERE lower(city) = ANY($1) AND overall_score >= $2", 2},
		{"property types", ListParams{PropertyTypes: []string{"Apartment", "house"}}, "WHERE lower(property_type) = ANY($1)", 1},
		{"price range", ListParams{MinPrice: floatPtr(200000), MaxPrice: floatPtr(350000)}, "WHERE price >= $1 AND price <= $2", 2},
		{"rooms range", ListParams{MinRooms: intPtr(2), MaxRooms: intPtr(4)}, "WHERE rooms >= $1 AND rooms <= $2", 2},
		{"max sqm only", ListParams{MaxSquareMeters: floatPtr(90)}, "WHERE square_meters <= $1", 1},
		{
			"all filters",
			ListParams{
				Cities:          []string{"Utrecht"},
				PropertyTypes:   []string{"apartment"},
				MinScore:        intPtr(60),
				MinPrice:        floatPtr(100000),
				MaxPrice:        floatPtr(500000),
				MinRooms:        intPtr(1),
				MaxRooms:        intPtr(5),
				MinSquareMeters: floatPtr(40),
				MaxSquareMeters: floatPtr(150),
			},
			"WHERE lower(city) = ANY($1) AND lower(property_type) = ANY($2) AND overall_score >= $3" +
				" AND price >= $4 AND price <= $5 AND rooms >= $6 AND rooms <= $7" +
				" AND square_meters >= $8 AND square_meters <= $9",
			9,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			where, args := buildListFilter(tc.params)
			if where != tc.wantWhere {
				t.Fatalf("expected %q, got %q", tc.wantWhere, where)
			}
			if len(args) != tc.wantArgs {
				t.Fatalf("expected %d args, got %d", tc.wantArgs, len(args))
			}
		})
	}

	_, args := buildListFilter(ListParams{Cities: []string{" Utrecht ", "utrecht", "DELFT"}})
	if want := []string{"utrecht", "delft"}; !reflect.DeepEqual(args[0], want) {
		t.Fatalf("expected normalized cities %v, got %v", want, args[0])
	}

	_, args = buildListFilter(ListParams{MinPrice: floatPtr(200000), MaxRooms: intPtr(3)})
	if args[0] != 200000.0 || args[1] != 3 {
		t.Fatalf("expected filter values in clause order, got %v", args)
	}
}
