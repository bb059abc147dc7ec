package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

var postcodeRegex = regexp.MustCompile(`(\d{4})[, ]+Australia`)

// AddressCandidate is one geocoder match, coordinates in degrees.
type AddressCandidate struct {
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
}

// Postcode extracts the four-digit postcode that precedes "Australia" in the display name.
func (a AddressCandidate) Postcode() (int, error) {
	m := postcodeRegex.FindStringSubmatch(a.DisplayName)
	if m == nil {
		return 0, fmt.Errorf("%q: %w", a.DisplayName, ErrPostcodeNotFound)
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("parse postcode %q: %w", m[1], ErrPostcodeNotFound)
	}
	return code, nil
}
