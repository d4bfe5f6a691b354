package service

import (
	"strings"
	"unicode"

	"propscout_backend/internal/energylabel/transport"
)

// NormalizeAddress turns free-form postcode and house number input into the
// components EP-Online expects. Returns false when either part is unusable.
func NormalizeAddress(postcode, houseNumber string) (transport.Address, bool) {
	pc := sanitizePostcode(postcode)
	if !isDutchPostcode(pc) {
		return transport.Address{}, false
	}

	number, letter, addition := splitHouseComponents(houseNumber)
	if number == "" {
		return transport.Address{}, false
	}

	return transport.Address{
		Postcode:    pc,
		HouseNumber: number,
		HouseLetter: letter,
		Addition:    addition,
	}, true
}

func sanitizePostcode(value string) string {
	upper := strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	upper = strings.ReplaceAll(upper, "-", "")
	return strings.TrimSpace(upper)
}

// isDutchPostcode checks the 1234AB shape.
func isDutchPostcode(pc string) bool {
	if len(pc) != 6 || pc[0] == '0' {
		return false
	}
	for i := 0; i < 4; i++ {
		if pc[i] < '0' || pc[i] > '9' {
			return false
		}
	}
	return pc[4] >= 'A' && pc[4] <= 'Z' && pc[5] >= 'A' && pc[5] <= 'Z'
}

func splitHouseComponents(raw string) (number string, letter string, addition string) {
	cleaned := strings.TrimSpace(strings.ToUpper(raw))
	if cleaned == "" {
		return "", "", ""
	}

	idx := 0
	for idx < len(cleaned) && unicode.IsDigit(rune(cleaned[idx])) {
		idx++
	}
	number = cleaned[:idx]
	if number == "" {
		return "", "", ""
	}

	remainder := strings.TrimLeft(cleaned[idx:], " -/")
	if remainder == "" {
		return number, "", ""
	}

	// 46B, 46 B, 46-B
	if unicode.IsLetter(rune(remainder[0])) {
		return number, remainder[:1], strings.TrimLeft(remainder[1:], " -/")
	}

	// 46-2, 46 II
	return number, "", remainder
}
