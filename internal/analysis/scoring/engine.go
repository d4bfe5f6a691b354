package scoring

// Weights of the sub-scores in the overall score.
const (
	investmentWeight   = 0.45
	valueWeight        = 0.30
	neighborhoodWeight = 0.25
)

// Score runs the full analysis for a listing. The input must pass Validate;
// for other inputs the numbers are meaningless but Score does not panic.
func Score(in PropertyInput) Result {
	r := resolveDefaults(in)

	rent := estimateRent(r)
	costs := CalculateMonthlyCosts(r.price, r.sqm)

	grossYield := float64(rent*12) / r.price * 100
	netYield := float64((rent-costs.Total)*12) / r.price * 100
	cashflow := rent - costs.Total

	investment := InvestmentScore(grossYield, netYield, cashflow)
	value := valueScore(r)
	neighborhood := NeighborhoodScore(r.city)
	wws := calculateWWS(r)

	overall := clampScore(float64(investment)*investmentWeight +
		float64(value)*valueWeight +
		float64(neighborhood)*neighborhoodWeight)

	return Result{
		OverallScore:         overall,
		InvestmentScore:      investment,
		ValueScore:           value,
		NeighborhoodScore:    neighborhood,
		WWS:                  wws,
		EstimatedMonthlyRent: rent,
		GrossYieldPct:        RoundTo2(grossYield),
		NetYieldPct:          RoundTo2(netYield),
		MonthlyCosts:         costs,
		MonthlyCashflow:      cashflow,
		RentVsCapRatio:       rentVsCapRatio(rent, wws.Cap),
		Tier:                 CityTier(r.city),
		Version:              ScoringVersion,
	}
}

func rentVsCapRatio(rent int, rc RentCap) float64 {
	if !rc.Regulated || rc.MaxRent <= 0 {
		return 0
	}
	return RoundTo2(float64(rent) / float64(rc.MaxRent))
}
