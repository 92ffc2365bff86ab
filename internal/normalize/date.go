package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateSeparators = regexp.MustCompile(`[/-]`)

// placeholder tokens banks emit for "no date".
func isPlaceholder(s string) bool {
	switch strings.ToLower(s) {
	case "", "(null)", "nan", "null":
		return true
	}
	return false
}

// ResolveDate resolves a partial date token against the statement's
// billing year and month. A two-part token is month/day with the year
// filled in from the billing period; the year shifts across the December
// and January statement boundaries. A three-part token is a full date.
// Anything else resolves to not-ok. Never panics.
func ResolveDate(token string, billYear, billMonth int) (time.Time, bool) {
	s := strings.TrimSpace(token)
	if isPlaceholder(s) {
		return time.Time{}, false
	}

	parts := dateSeparators.Split(s, -1)
	switch len(parts) {
	case 2:
		month, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		day, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return time.Time{}, false
		}

		year := billYear
		// A January statement listing December charges belongs to the
		// prior year; the December/January counterpart is symmetric.
		if billMonth == 1 && month == 12 {
			year--
		}
		if billMonth == 12 && month == 1 {
			year++
		}
		return makeDate(year, month, day)
	case 3:
		year, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		day, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return time.Time{}, false
		}
		return makeDate(year, month, day)
	default:
		return time.Time{}, false
	}
}

// makeDate builds a calendar date, rejecting values time.Date would
// silently normalize (month 13, day 32).
func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
