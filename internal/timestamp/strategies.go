// internal/timestamp/strategies.go
package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chronoview/watchparser/pkg/types"
)

// Strategy identifiers, in cascade order.
const (
	StrategyFullTZ       = "full_tz"
	StrategyFullNoTZ     = "full_no_tz"
	StrategyNumericSlash = "numeric_slash"
	StrategyIntlDotted   = "intl_dotted"
	StrategyISOLike      = "iso_like"
	StrategyLocaleWords  = "locale_words"
)

// rawMatch is a strategy's result before the plausibility gate runs.
type rawMatch struct {
	instant time.Time
	offset  int
	text    string
	quality types.QualityFlags
}

// strategy is one stage of the extraction cascade. The scan function is
// pure: it receives only the fragment's normalized text and returns the
// first calendar-valid match, keeping no state between invocations.
type strategy struct {
	id         string
	confidence int
	scan       func(text string) (rawMatch, bool)
}

// Package-level compiled patterns. Go's regexp values retain no match
// position or capture state between calls, so sharing them across
// fragments cannot leak one entry's result into another.
var (
	reFullTZ = regexp.MustCompile(
		`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{1,2}), (\d{4}), (\d{1,2}):(\d{2}):(\d{2}) (AM|PM) ([A-Z]{2,5})\b`)
	reFullNoTZ = regexp.MustCompile(
		`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{1,2}), (\d{4}), (\d{1,2}):(\d{2}):(\d{2}) (AM|PM)\b`)
	reNumericSlash = regexp.MustCompile(
		`\b(\d{1,2})/(\d{1,2})/(\d{4}),? (\d{1,2}):(\d{2}):(\d{2})(?: (AM|PM))?\b`)
	reIntlDotted = regexp.MustCompile(
		`\b(\d{1,2})\.(\d{1,2})\.(\d{4}),? (\d{1,2}):(\d{2}):(\d{2})\b`)
	reISOLike = regexp.MustCompile(
		`\b(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2}):(\d{2})\b`)
	reLocaleWords = regexp.MustCompile(
		`\b(\d{1,2})\.?(?: de)? ([\p{L}]{3,}\.?)(?: de)? (\d{4})(?:,? (\d{1,2}):(\d{2})(?::(\d{2}))?)?`)
)

var englishMonths = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// localeMonths resolves non-English month names for the locale-word
// fallback. Keys are lowercase; diacritics stay as the locale writes them.
var localeMonths = map[string]time.Month{
	// German
	"januar": time.January, "februar": time.February, "märz": time.March,
	"april": time.April, "mai": time.May, "juni": time.June,
	"juli": time.July, "august": time.August, "september": time.September,
	"oktober": time.October, "november": time.November, "dezember": time.December,
	// Spanish
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
	// French
	"janvier": time.January, "février": time.February, "mars": time.March,
	"avril": time.April, "juin": time.June, "juillet": time.July,
	"août": time.August, "septembre": time.September, "octobre": time.October,
	"novembre": time.November, "décembre": time.December,
	// Portuguese
	"janeiro": time.January, "fevereiro": time.February, "março": time.March,
	"maio": time.May, "junho": time.June, "julho": time.July,
	"setembro": time.September, "outubro": time.October, "novembro": time.November,
	"dezembro": time.December,
	// Italian
	"gennaio": time.January, "febbraio": time.February, "aprile": time.April,
	"maggio": time.May, "giugno": time.June, "luglio": time.July,
	"settembre": time.September, "ottobre": time.October, "dicembre": time.December,
}

// strategies is the fixed cascade order. Confidence values are heuristic
// trust scores, not probabilities.
var strategies = []strategy{
	{id: StrategyFullTZ, confidence: 85, scan: scanFullTZ},
	{id: StrategyFullNoTZ, confidence: 75, scan: scanFullNoTZ},
	{id: StrategyNumericSlash, confidence: 70, scan: scanNumericSlash},
	{id: StrategyIntlDotted, confidence: 65, scan: scanIntlDotted},
	{id: StrategyISOLike, confidence: 70, scan: scanISOLike},
	{id: StrategyLocaleWords, confidence: 60, scan: scanLocaleWords},
}

// validDate reports whether the components form a real calendar date.
// time.Date normalizes out-of-range values (Feb 30 becomes Mar 2), so the
// check is a round-trip comparison.
func validDate(year int, month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return y == year && m == month && d == day
}

// clock12 converts a 12-hour reading to 24-hour. Returns false for hours
// outside 1..12.
func clock12(hour int, meridiem string) (int, bool) {
	if hour < 1 || hour > 12 {
		return 0, false
	}
	switch meridiem {
	case "AM":
		if hour == 12 {
			return 0, true
		}
		return hour, true
	case "PM":
		if hour == 12 {
			return 12, true
		}
		return hour + 12, true
	}
	return 0, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func scanFullTZ(text string) (rawMatch, bool) {
	for _, idx := range reFullTZ.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string { return text[idx[2*i]:idx[2*i+1]] }
		month, ok := englishMonths[group(1)]
		if !ok {
			continue
		}
		day, year := atoi(group(2)), atoi(group(3))
		if !validDate(year, month, day) {
			continue
		}
		hour, ok := clock12(atoi(group(4)), group(7))
		if !ok {
			continue
		}
		min, sec := atoi(group(5)), atoi(group(6))
		if min > 59 || sec > 59 {
			continue
		}
		offset, ok := lookupZoneOffset(group(8))
		if !ok {
			continue
		}
		return rawMatch{
			instant: toUTC(year, month, day, hour, min, sec, offset),
			offset:  idx[0],
			text:    text[idx[0]:idx[1]],
			quality: types.QualityFlags{
				HasTimezone:      true,
				HasFullDateTime:  true,
				FormatRecognized: true,
			},
		}, true
	}
	return rawMatch{}, false
}

func scanFullNoTZ(text string) (rawMatch, bool) {
	for _, idx := range reFullNoTZ.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string { return text[idx[2*i]:idx[2*i+1]] }
		month, ok := englishMonths[group(1)]
		if !ok {
			continue
		}
		day, year := atoi(group(2)), atoi(group(3))
		if !validDate(year, month, day) {
			continue
		}
		hour, ok := clock12(atoi(group(4)), group(7))
		if !ok {
			continue
		}
		min, sec := atoi(group(5)), atoi(group(6))
		if min > 59 || sec > 59 {
			continue
		}
		// No zone present: the reading is kept as UTC-naive. This mirrors
		// the export's own ambiguity instead of guessing a local zone.
		return rawMatch{
			instant: time.Date(year, month, day, hour, min, sec, 0, time.UTC),
			offset:  idx[0],
			text:    text[idx[0]:idx[1]],
			quality: types.QualityFlags{
				HasFullDateTime:  true,
				FormatRecognized: true,
			},
		}, true
	}
	return rawMatch{}, false
}

func scanNumericSlash(text string) (rawMatch, bool) {
	for _, idx := range reNumericSlash.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string {
			if idx[2*i] < 0 {
				return ""
			}
			return text[idx[2*i]:idx[2*i+1]]
		}
		month := time.Month(atoi(group(1)))
		day, year := atoi(group(2)), atoi(group(3))
		if !validDate(year, month, day) {
			continue
		}
		hour := atoi(group(4))
		if meridiem := group(7); meridiem != "" {
			var ok bool
			hour, ok = clock12(hour, meridiem)
			if !ok {
				continue
			}
		} else if hour > 23 {
			continue
		}
		min, sec := atoi(group(5)), atoi(group(6))
		if min > 59 || sec > 59 {
			continue
		}
		return rawMatch{
			instant: time.Date(year, month, day, hour, min, sec, 0, time.UTC),
			offset:  idx[0],
			text:    text[idx[0]:idx[1]],
			quality: types.QualityFlags{HasFullDateTime: true},
		}, true
	}
	return rawMatch{}, false
}

func scanIntlDotted(text string) (rawMatch, bool) {
	for _, idx := range reIntlDotted.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string { return text[idx[2*i]:idx[2*i+1]] }
		// Day first: D.M.YYYY is the dotted convention.
		day, year := atoi(group(1)), atoi(group(3))
		month := time.Month(atoi(group(2)))
		if !validDate(year, month, day) {
			continue
		}
		hour, min, sec := atoi(group(4)), atoi(group(5)), atoi(group(6))
		if hour > 23 || min > 59 || sec > 59 {
			continue
		}
		return rawMatch{
			instant: time.Date(year, month, day, hour, min, sec, 0, time.UTC),
			offset:  idx[0],
			text:    text[idx[0]:idx[1]],
			quality: types.QualityFlags{HasFullDateTime: true},
		}, true
	}
	return rawMatch{}, false
}

func scanISOLike(text string) (rawMatch, bool) {
	for _, idx := range reISOLike.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string { return text[idx[2*i]:idx[2*i+1]] }
		year := atoi(group(1))
		month := time.Month(atoi(group(2)))
		day := atoi(group(3))
		if !validDate(year, month, day) {
			continue
		}
		hour, min, sec := atoi(group(4)), atoi(group(5)), atoi(group(6))
		if hour > 23 || min > 59 || sec > 59 {
			continue
		}
		return rawMatch{
			instant: time.Date(year, month, day, hour, min, sec, 0, time.UTC),
			offset:  idx[0],
			text:    text[idx[0]:idx[1]],
			quality: types.QualityFlags{HasFullDateTime: true},
		}, true
	}
	return rawMatch{}, false
}

func scanLocaleWords(text string) (rawMatch, bool) {
	for _, idx := range reLocaleWords.FindAllStringSubmatchIndex(text, -1) {
		group := func(i int) string {
			if idx[2*i] < 0 {
				return ""
			}
			return text[idx[2*i]:idx[2*i+1]]
		}
		word := strings.ToLower(strings.TrimSuffix(group(2), "."))
		month, ok := localeMonths[word]
		if !ok {
			continue
		}
		day, year := atoi(group(1)), atoi(group(3))
		if !validDate(year, month, day) {
			continue
		}
		hour, min, sec := 0, 0, 0
		haveSeconds := false
		if group(4) != "" {
			hour, min = atoi(group(4)), atoi(group(5))
			if hour > 23 || min > 59 {
				continue
			}
			if group(6) != "" {
				sec = atoi(group(6))
				if sec > 59 {
					continue
				}
				haveSeconds = true
			}
		}
		return rawMatch{
			instant: time.Date(year, month, day, hour, min, sec, 0, time.UTC),
			offset:  idx[0],
			text:    text[idx[0]:idx[1]],
			quality: types.QualityFlags{HasFullDateTime: haveSeconds},
		}, true
	}
	return rawMatch{}, false
}
