package normalize

import "strings"

// iso3to2 maps the 3-letter country codes banks print in location fields
// to 2-letter codes. The table is deliberately small and fixed: unmapped
// 3+-letter tokens pass through unchanged rather than being guessed at.
var iso3to2 = map[string]string{
	"TWN": "TW", "USA": "US", "JPN": "JP", "KOR": "KR",
	"HKG": "HK", "SGP": "SG", "GBR": "GB", "CHN": "CN",
	"IRL": "IE", "DEU": "DE", "FRA": "FR", "AUS": "AU",
	"VNM": "VN", "THA": "TH", "MYS": "MY", "IDN": "ID",
}

// Country maps a free-text location token to a 2-letter country code.
// Empty input means a domestic transaction and yields the home country.
// "JPN CHIYODA-KU" reduces to its first token before lookup. Tokens the
// table does not know are returned cleaned but unnormalized.
func Country(token, home string) string {
	s := strings.TrimSpace(token)
	if s == "" {
		return home
	}

	clean := strings.ToUpper(s)
	if i := strings.IndexByte(clean, ' '); i >= 0 {
		clean = clean[:i]
	}

	if mapped, ok := iso3to2[clean]; ok {
		return mapped
	}
	return clean
}
