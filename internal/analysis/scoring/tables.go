package scoring

import (
	"sort"
	"strings"
)

const defaultCityKey = "default"

// Average purchase price per square meter by city (2024-2025, approximate).
var cityPricePerSqm = map[string]float64{
	"amsterdam":  7200,
	"rotterdam":  4100,
	"den haag":   4300,
	"the hague":  4300,
	"utrecht":    5500,
	"eindhoven":  4000,
	"groningen":  3500,
	"tilburg":    3400,
	"almere":     3800,
	"breda":      3600,
	"nijmegen":   3700,
	"arnhem":     3200,
	"haarlem":    5800,
	"enschede":   2800,
	"apeldoorn":  3100,
	"amersfoort": 4500,
	"leiden":     5200,
	"delft":      4800,
	"zaandam":    4200,
	"default":    4000,
}

// Average monthly rent per square meter by city.
var cityRentPerSqm = map[string]float64{
	"amsterdam": 28,
	"rotterdam": 18,
	"den haag":  19,
	"the hague": 19,
	"utrecht":   22,
	"eindhoven": 17,
	"groningen": 16,
	"tilburg":   15,
	"almere":    16,
	"breda":     16,
	"nijmegen":  17,
	"arnhem":    15,
	"haarlem":   24,
	"leiden":    21,
	"delft":     20,
	"default":   17,
}

// Tier groups cities by rental demand and location quality.
type Tier int

const (
	TierOther Tier = iota
	TierPrime
	TierStrong
	TierRegional
)

func (t Tier) String() string {
	switch t {
	case TierPrime:
		return "tier1"
	case TierStrong:
		return "tier2"
	case TierRegional:
		return "tier3"
	default:
		return "other"
	}
}

var cityTiers = map[string]Tier{
	"amsterdam": TierPrime,
	"utrecht":   TierPrime,
	"haarlem":   TierPrime,
	"leiden":    TierPrime,

	"rotterdam":  TierStrong,
	"den haag":   TierStrong,
	"the hague":  TierStrong,
	"eindhoven":  TierStrong,
	"delft":      TierStrong,
	"amersfoort": TierStrong,

	"groningen": TierRegional,
	"tilburg":   TierRegional,
	"breda":     TierRegional,
	"nijmegen":  TierRegional,
	"arnhem":    TierRegional,
	"almere":    TierRegional,
}

// WWS points per energy label. Labels missing here score unknownLabelPoints.
var energyLabelPoints = map[string]float64{
	"A++++": 52,
	"A+++":  48,
	"A++":   44,
	"A+":    40,
	"A":     36,
	"B":     28,
	"C":     18,
	"D":     10,
	"E":     4,
	"F":     0,
	"G":     -5,
}

const unknownLabelPoints = 10

func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func lookupCity(table map[string]float64, city string) float64 {
	if v, ok := table[cityKey(city)]; ok {
		return v
	}
	return table[defaultCityKey]
}

// AvgPricePerSqm returns the city's average purchase price per m², falling back
// to the default entry for unknown cities.
func AvgPricePerSqm(city string) float64 {
	return lookupCity(cityPricePerSqm, city)
}

// AvgRentPerSqm returns the city's average monthly rent per m².
func AvgRentPerSqm(city string) float64 {
	return lookupCity(cityRentPerSqm, city)
}

// CityTier returns the neighborhood tier of a city. Unlisted cities are TierOther.
func CityTier(city string) Tier {
	return cityTiers[cityKey(city)]
}

// IsKnownEnergyLabel reports whether label has an explicit WWS point value.
func IsKnownEnergyLabel(label string) bool {
	_, ok := energyLabelPoints[strings.ToUpper(strings.TrimSpace(label))]
	return ok
}

// CityReference is one row of the reference tables, used for listings and the CLI.
type CityReference struct {
	City        string
	PricePerSqm float64
	RentPerSqm  float64
	Tier        Tier
	HasOwnPrice bool
	HasOwnRent  bool
}

// ReferenceTable returns every city known to any table, sorted by name, with
// fallbacks resolved.
func ReferenceTable() []CityReference {
	seen := make(map[string]struct{})
	names := make([]string, 0, len(cityPricePerSqm))
	collect := func(key string) {
		if key == defaultCityKey {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		names = append(names, key)
	}
	for key := range cityPricePerSqm {
		collect(key)
	}
	for key := range cityRentPerSqm {
		collect(key)
	}
	for key := range cityTiers {
		collect(key)
	}
	sort.Strings(names)

	rows := make([]CityReference, 0, len(names))
	for _, name := range names {
		_, ownPrice := cityPricePerSqm[name]
		_, ownRent := cityRentPerSqm[name]
		rows = append(rows, CityReference{
			City:        name,
			PricePerSqm: AvgPricePerSqm(name),
			RentPerSqm:  AvgRentPerSqm(name),
			Tier:        CityTier(name),
			HasOwnPrice: ownPrice,
			HasOwnRent:  ownRent,
		})
	}
	return rows
}
