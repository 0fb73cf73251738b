// =============================================================================
// Todoist to Reminders Converter - Date Parser
// =============================================================================
//
// Todoist exports due dates as free text in the language of the account, for
// example "15 June 2024", "3 Mai" or "every monday". This package recognises
// the absolute ones: a day, a month name and an optional year, in any order.
// Everything else (recurring or relative expressions) is reported as a parse
// failure so the caller can flag the task for manual adjustment.
//
// TOKEN RULES (checked in this order for every whitespace-separated token):
//   1. full month name, one trailing "." removed   "Juni", "Juni."
//   2. first 4 letters of a month name             "Sept", "Janu"
//   3. first 3 letters of a month name             "Jun", "Dez"
//   4. exactly 4 digits                            year
//   5. 1 or 2 digits                               day
//
// =============================================================================

package dateparse

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// OutputLayout is the timestamp layout of the export document.
const OutputLayout = "2006-01-02T15:04:05.000Z"

var (
	// ErrUnsupportedLanguage is returned for a DATE_LANG without a month
	// vocabulary. There is no safe fallback, callers treat it as fatal.
	ErrUnsupportedLanguage = errors.New("date language not supported")

	// ErrInvalidToken is returned when a token is neither a month, a year nor a day.
	ErrInvalidToken = errors.New("invalid date part")

	// ErrIncomplete is returned when no day or no month was found.
	ErrIncomplete = errors.New("could not parse date string")
)

// months holds the month names per language, January first.
var months = map[string][12]string{
	"de": {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

// Languages returns the supported DATE_LANG codes in sorted order.
func Languages() []string {
	langs := make([]string, 0, len(months))
	for lang := range months {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Options controls how a recognised date is anchored.
type Options struct {
	// Location is the timezone of the resulting midnight. Nil means time.Local.
	Location *time.Location

	// Now supplies the year used when the date has none. Nil means time.Now.
	Now func() time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Parse reads value as an absolute date using the month names of lang.
//
// The result is midnight of that day in opts.Location. When value carries no
// year, the current year in opts.Location is used. A day of 0 counts as
// missing, so "0 Mai" fails with ErrIncomplete.
func Parse(value, lang string, opts Options) (time.Time, error) {
	names, ok := months[lang]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLanguage, lang, strings.Join(Languages(), ", "))
	}

	day, month, year := 0, -1, 0
	for _, token := range strings.Fields(value) {
		if m := matchMonth(names, token); m >= 0 {
			month = m
			continue
		}
		if isDigits(token, 4, 4) {
			year, _ = strconv.Atoi(token)
			continue
		}
		if isDigits(token, 1, 2) {
			day, _ = strconv.Atoi(token)
			continue
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}

	if day == 0 || month < 0 {
		return time.Time{}, fmt.Errorf("%w: %q day: %d month: %d year: %d", ErrIncomplete, value, day, month, year)
	}

	loc := opts.location()
	if year == 0 {
		year = opts.now().In(loc).Year()
	}

	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, loc), nil
}

// Format renders t in the export document's timestamp form (UTC, milliseconds).
func Format(t time.Time) string {
	return t.UTC().Format(OutputLayout)
}

// matchMonth returns the 0-based month index of token, or -1.
func matchMonth(names [12]string, token string) int {
	token = strings.TrimSuffix(token, ".")

	for _, width := range []int{0, 4, 3} {
		for i, name := range names {
			if prefix(name, width) == token {
				return i
			}
		}
	}
	return -1
}

// prefix returns the first n runes of s, or s itself when n is 0 or s is shorter.
func prefix(s string, n int) string {
	if n == 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func isDigits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
