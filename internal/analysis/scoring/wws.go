package scoring

import (
	"math"
	"strings"
)

const (
	// liberalizationThreshold is the point total from which a dwelling falls in
	// the free market segment.
	liberalizationThreshold = 148

	// rentPerPoint approximates the official maximum rent table.
	rentPerPoint = 5.45
)

const (
	pointsPerSqm      = 1
	pointsPerRoom     = 5
	kitchenBathPoints = 25
	wozPointsDivisor  = 10000
	wozPointsCap      = 20
)

// CalculateWWS computes the simplified WWS (woningwaarderingsstelsel) points
// and the resulting maximum rent.
func CalculateWWS(in PropertyInput) WWSAssessment {
	return calculateWWS(resolveDefaults(in))
}

func calculateWWS(r resolved) WWSAssessment {
	var points float64

	points += r.sqm * pointsPerSqm
	points += float64(r.rooms * pointsPerRoom)
	points += labelPoints(r.energyLabel)
	points += constructionYearPoints(r.yearBuilt)
	points += kitchenBathPoints
	// WOZ value is not available, the asking price stands in for it.
	points += math.Min(math.Floor(r.price/wozPointsDivisor), wozPointsCap)

	if points >= liberalizationThreshold {
		return WWSAssessment{Points: points, Cap: RentCap{Regulated: false}}
	}
	return WWSAssessment{
		Points: points,
		Cap: RentCap{
			Regulated: true,
			MaxRent:   int(roundHalfUp(points * rentPerPoint)),
		},
	}
}

func labelPoints(label string) float64 {
	if label == "" {
		return unknownLabelPoints
	}
	if p, ok := energyLabelPoints[strings.ToUpper(label)]; ok {
		return p
	}
	return unknownLabelPoints
}

func constructionYearPoints(year int) float64 {
	switch {
	case year >= 2015:
		return 12
	case year >= 2000:
		return 8
	case year >= 1980:
		return 4
	default:
		return 0
	}
}
