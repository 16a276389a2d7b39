package valueobject

import (
	"strings"
)

// Country is an ISO 3166-1 alpha-2 country code
type Country string

// Belgium is the home jurisdiction for VAT purposes
const Belgium Country = "BE"

// euMembers lists the EU member states by ISO code
var euMembers = map[Country]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {},
	"EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {},
	"IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {},
	"PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
}

// countryAliases maps names and legacy codes seen in imported data to ISO codes
var countryAliases = map[string]Country{
	"BELGIUM":     "BE",
	"BELGIE":      "BE",
	"BELGIQUE":    "BE",
	"NETHERLANDS": "NL",
	"NEDERLAND":   "NL",
	"GERMANY":     "DE",
	"FRANCE":      "FR",
	"EL":          "GR",
	"UK":          "GB",
}

// NewCountry normalises a country code or well-known name. Unknown input
// yields an empty Country.
func NewCountry(s string) Country {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if c, ok := countryAliases[s]; ok {
		return c
	}
	if len(s) != 2 {
		return ""
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return Country(s)
}

// IsEmpty reports whether the country is unknown
func (c Country) IsEmpty() bool {
	return c == ""
}

// IsBelgium reports whether the country is Belgium
func (c Country) IsBelgium() bool {
	return c == Belgium
}

// IsEU reports whether the country is an EU member state (Belgium included)
func (c Country) IsEU() bool {
	_, ok := euMembers[c]
	return ok
}

// String returns the ISO code
func (c Country) String() string {
	return string(c)
}
