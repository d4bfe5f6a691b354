package scoring

import "testing"

func TestCalculateWWSEnergyLabels(t *testing.T) {
	// Without a label: 50 + 10 + 10 + 0 + 25 + 10 (100k) = 105.
	base := PropertyInput{Price: 100000, City: "Breda"}

	tests := []struct {
		label *string
		want  float64
	}{
		{nil, 105},
		{ptrString(""), 105},
		{ptrString("A++++"), 147},
		{ptrString("a+++"), 143},
		{ptrString("A"), 131},
		{ptrString("C"), 113},
		{ptrString("D"), 105},
		{ptrString("F"), 95},
		{ptrString("G"), 90},
		{ptrString("Z"), 105},
	}

	for _, tc := range tests {
		in := base
		in.EnergyLabel = tc.label
		if got := CalculateWWS(in).Points; got != tc.want {
			name := "<nil>"
			if tc.label != nil {
				name = *tc.label
			}
			t.Fatalf("label %q: expected %v points, got %v", name, tc.want, got)
		}
	}
}

func TestCalculateWWSConstructionYear(t *testing.T) {
	tests := map[int]float64{
		1890: 0,
		1979: 0,
		1980: 4,
		1999: 4,
		2000: 8,
		2014: 8,
		2015: 12,
		2024: 12,
	}
	for year, bonus := range tests {
		in := PropertyInput{Price: 100000, City: "Breda", YearBuilt: ptrInt(year)}
		if got := CalculateWWS(in).Points; got != 105+bonus {
			t.Fatalf("year %d: expected %v points, got %v", year, 105+bonus, got)
		}
	}
}

func TestCalculateWWSWOZComponentIsCapped(t *testing.T) {
	tests := map[float64]float64{
		9999:     0,
		10000:    1,
		199999:   19,
		200000:   20,
		10000000: 20,
	}
	for price, woz := range tests {
		in := PropertyInput{Price: price, City: "Breda"}
		if got := CalculateWWS(in).Points; got != 95+woz {
			t.Fatalf("price %.0f: expected %v points, got %v", price, 95+woz, got)
		}
	}
}

func TestCalculateWWSThreshold(t *testing.T) {
	// 50 + 10 + 52 + 0 + 25 + 10 = 147 points: still regulated.
	below := PropertyInput{Price: 100000, City: "Breda", EnergyLabel: ptrString("A++++")}
	got := CalculateWWS(below)
	if !got.Cap.Regulated {
		t.Fatalf("expected 147 points to be regulated, got %+v", got)
	}
	// round(147 * 5.45) = round(801.15)
	if got.Cap.MaxRent != 801 {
		t.Fatalf("expected max rent 801, got %d", got.Cap.MaxRent)
	}

	atThreshold := below
	atThreshold.SquareMeters = ptrFloat(51)
	got = CalculateWWS(atThreshold)
	if got.Points != 148 || got.Cap.Regulated {
		t.Fatalf("expected 148 points in the free market, got %+v", got)
	}
	if got.Cap.WireValue() != 0 {
		t.Fatalf("expected wire value 0, got %d", got.Cap.WireValue())
	}
}

func TestWWSRoundedPoints(t *testing.T) {
	in := PropertyInput{Price: 100000, City: "Breda", SquareMeters: ptrFloat(42.5)}
	got := CalculateWWS(in)
	if got.Points != 97.5 {
		t.Fatalf("expected 97.5 points, got %v", got.Points)
	}
	if got.RoundedPoints() != 98 {
		t.Fatalf("expected rounded 98, got %d", got.RoundedPoints())
	}
}
