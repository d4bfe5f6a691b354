package scoring

// Cost model constants. The mortgage is interest only.
const (
	loanToValue        = 0.70
	mortgageInterest   = 0.045
	maintenanceReserve = 0.004 // of property value, per year
	serviceFeePerSqm   = 2.5
	insurancePerMonth  = 40
	managementPerMonth = 0 // self managed
)

// EstimateRent returns the monthly rent for a listing. A positive caller
// supplied estimate wins over the city average.
func EstimateRent(in PropertyInput) int {
	return estimateRent(resolveDefaults(in))
}

func estimateRent(r resolved) int {
	if r.estimatedRent > 0 {
		return r.estimatedRent
	}
	return int(roundHalfUp(r.sqm * AvgRentPerSqm(r.city)))
}

// CalculateMonthlyCosts returns the monthly cost breakdown for a purchase
// price and floor area.
func CalculateMonthlyCosts(price, sqm float64) MonthlyCosts {
	c := MonthlyCosts{
		Mortgage:    int(roundHalfUp(price * loanToValue * mortgageInterest / 12)),
		ServiceFee:  int(roundHalfUp(sqm * serviceFeePerSqm)),
		Maintenance: int(roundHalfUp(price * maintenanceReserve / 12)),
		Insurance:   insurancePerMonth,
		Management:  managementPerMonth,
	}
	c.Total = c.Mortgage + c.ServiceFee + c.Maintenance + c.Insurance + c.Management
	return c
}
