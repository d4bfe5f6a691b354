package transport

import (
	"net/url"
	"strings"

	"propscout_backend/internal/analysis/scoring"
	"propscout_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// allowedListingHosts are the listing sites whose URLs may be attached to an analysis.
var allowedListingHosts = map[string]bool{
	"pararius.com":     true,
	"www.pararius.com": true,
	"pararius.nl":      true,
	"www.pararius.nl":  true,
	"funda.nl":         true,
	"www.funda.nl":     true,
}

// RegisterValidations adds the analysis rules "energylabel" and "listingurl".
func RegisterValidations(val *validator.Validator) error {
	if err := val.RegisterValidation("energylabel", validateEnergyLabel); err != nil {
		return err
	}
	return val.RegisterValidation("listingurl", validateListingURL)
}

// validateEnergyLabel accepts the A++++..G vocabulary, case-insensitively.
func validateEnergyLabel(fl playground.FieldLevel) bool {
	return scoring.IsKnownEnergyLabel(fl.Field().String())
}

func validateListingURL(fl playground.FieldLevel) bool {
	return IsAllowedListingURL(fl.Field().String())
}

// IsAllowedListingURL reports whether raw is an http(s) URL on a supported listing site.
func IsAllowedListingURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return false
	}
	return allowedListingHosts[strings.ToLower(parsed.Hostname())]
}
