package storage

import "strings"

// Region tags where an image is stored or which bucket should serve a read.
type Region string

const (
	RegionUS    Region = "us"
	RegionEU    Region = "eu"
	RegionLocal Region = "local"
)

// euCountries holds the 27 EU member states plus the UK, Iceland, Norway,
// and Switzerland.
var euCountries = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {},
	"EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {},
	"IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {},
	"PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
	"GB": {}, "IS": {}, "NO": {}, "CH": {},
}

// SelectRegion maps a two-letter country code to a delivery region. Anything
// that is not a recognized EU code, including empty or malformed input,
// falls back to US.
func SelectRegion(countryCode string) Region {
	if len(countryCode) != 2 {
		return RegionUS
	}
	if _, ok := euCountries[strings.ToUpper(countryCode)]; ok {
		return RegionEU
	}
	return RegionUS
}
