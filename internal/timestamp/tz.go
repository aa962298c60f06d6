// internal/timestamp/tz.go
package timestamp

import "time"

// tzOffsetMinutes maps timezone abbreviations to fixed UTC offsets in
// minutes. Abbreviations like "CST" are ambiguous across host timezone
// databases, so a static table is used to guarantee that the same
// abbreviation resolves identically on every runtime.
var tzOffsetMinutes = map[string]int{
	"UTC": 0,
	"GMT": 0,
	"EST": -5 * 60,
	"EDT": -4 * 60,
	"CST": -6 * 60,
	"CDT": -5 * 60,
	"MST": -7 * 60,
	"MDT": -6 * 60,
	"PST": -8 * 60,
	"PDT": -7 * 60,
	"AKST": -9 * 60,
	"AKDT": -8 * 60,
	"HST": -10 * 60,
	"BST": 1 * 60,
	"CET": 1 * 60,
	"CEST": 2 * 60,
	"EET": 2 * 60,
	"EEST": 3 * 60,
	"MSK": 3 * 60,
	"IST": 5*60 + 30,
	"JST": 9 * 60,
	"KST": 9 * 60,
	"AEST": 10 * 60,
	"AEDT": 11 * 60,
	"NZST": 12 * 60,
	"NZDT": 13 * 60,
}

// lookupZoneOffset returns the fixed offset for a timezone abbreviation.
func lookupZoneOffset(abbr string) (int, bool) {
	offset, ok := tzOffsetMinutes[abbr]
	return offset, ok
}

// toUTC converts a wall-clock reading taken in a zone with the given
// offset (minutes east of UTC) to the equivalent UTC instant.
func toUTC(year int, month time.Month, day, hour, min, sec, offsetMinutes int) time.Time {
	local := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
	return local.Add(-time.Duration(offsetMinutes) * time.Minute)
}
