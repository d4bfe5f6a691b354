package transport

import "propscout_backend/internal/analysis/scoring"

// ToInput converts the request into engine input.
func (r ScoreRequest) ToInput() scoring.PropertyInput {
	return scoring.PropertyInput{
		Price:         r.Price,
		SquareMeters:  r.SquareMeters,
		Rooms:         r.Rooms,
		City:          r.City,
		PropertyType:  r.PropertyType,
		YearBuilt:     r.YearBuilt,
		EnergyLabel:   r.EnergyLabel,
		EstimatedRent: r.EstimatedRent,
	}
}

// NewAnalysisResult maps an engine result onto the wire contract. This is
// where a free market rent cap becomes the 0 sentinel.
func NewAnalysisResult(res scoring.Result) AnalysisResult {
	return AnalysisResult{
		OverallScore:         res.OverallScore,
		InvestmentScore:      res.InvestmentScore,
		ValueScore:           res.ValueScore,
		NeighborhoodScore:    res.NeighborhoodScore,
		WWSScore:             res.WWS.RoundedPoints(),
		WWSMaxRent:           res.WWS.Cap.WireValue(),
		EstimatedMonthlyRent: res.EstimatedMonthlyRent,
		GrossYieldPct:        res.GrossYieldPct,
		NetYieldPct:          res.NetYieldPct,
		EstimatedMonthlyCosts: MonthlyCostsResponse{
			Mortgage:    res.MonthlyCosts.Mortgage,
			VvE:         res.MonthlyCosts.ServiceFee,
			Maintenance: res.MonthlyCosts.Maintenance,
			Insurance:   res.MonthlyCosts.Insurance,
			Management:  res.MonthlyCosts.Management,
			Total:       res.MonthlyCosts.Total,
		},
		MonthlyCashflow:  res.MonthlyCashflow,
		RentVsWWSRatio:   res.RentVsCapRatio,
		NeighborhoodTier: res.Tier.String(),
		ScoreBand:        scoring.Band(res.OverallScore),
		ScoringVersion:   res.Version,
	}
}

// NewPropertySummary echoes the input together with the label used.
func NewPropertySummary(in scoring.PropertyInput, source EnergyLabelSource, listingURL string) PropertySummary {
	return PropertySummary{
		Price:             in.Price,
		SquareMeters:      in.SquareMeters,
		Rooms:             in.Rooms,
		City:              in.City,
		PropertyType:      in.PropertyType,
		YearBuilt:         in.YearBuilt,
		EnergyLabel:       in.EnergyLabel,
		EnergyLabelSource: source,
		ListingURL:        listingURL,
	}
}
