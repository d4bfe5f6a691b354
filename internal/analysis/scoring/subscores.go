package scoring

import "math"

// InvestmentScore rates yield and cashflow on a 0-100 scale. Gross yield is
// worth up to 40 points, net yield 35 and cashflow 25.
func InvestmentScore(grossYield, netYield float64, monthlyCashflow int) int {
	score := grossYieldPoints(grossYield) + netYieldPoints(netYield) + cashflowPoints(float64(monthlyCashflow))
	return clampScore(score)
}

func grossYieldPoints(y float64) float64 {
	switch {
	case y >= 8:
		return 40
	case y >= 6:
		return 30 + (y-6)*5
	case y >= 4:
		return 15 + (y-4)*7.5
	default:
		return math.Max(0, y*3.75)
	}
}

func netYieldPoints(y float64) float64 {
	switch {
	case y >= 5:
		return 35
	case y >= 3:
		return 17.5 + (y-3)*8.75
	default:
		return math.Max(0, y*5.83)
	}
}

func cashflowPoints(cf float64) float64 {
	switch {
	case cf >= 500:
		return 25
	case cf >= 200:
		return 12.5 + (cf-200)/300*12.5
	case cf > 0:
		return cf / 200 * 12.5
	default:
		return 0
	}
}

// valueBands maps the price/m² ratio against the city average to a score.
// Cheaper than average scores higher.
var valueBands = []struct {
	maxRatio float64
	score    int
}{
	{0.70, 95},
	{0.85, 80},
	{0.95, 65},
	{1.05, 50},
	{1.15, 35},
	{1.30, 20},
}

const overpricedScore = 10

// ValueScore compares the asking price per m² with the city average.
func ValueScore(in PropertyInput) int {
	return valueScore(resolveDefaults(in))
}

func valueScore(r resolved) int {
	ratio := (r.price / r.sqm) / AvgPricePerSqm(r.city)
	for _, band := range valueBands {
		if ratio <= band.maxRatio {
			return band.score
		}
	}
	return overpricedScore
}

// NeighborhoodScore scores a city by its tier.
func NeighborhoodScore(city string) int {
	switch CityTier(city) {
	case TierPrime:
		return 85
	case TierStrong:
		return 70
	case TierRegional:
		return 55
	default:
		return 45
	}
}

// Band classifies a 0-100 score for display and reporting.
func Band(score int) string {
	switch {
	case score >= 70:
		return "strong"
	case score >= 50:
		return "average"
	default:
		return "weak"
	}
}
