// point_views contains the views of a single trip point: the edit form and the helpers it renders with.
package point_views

import (
	"time"
	"unicode"
	"unicode/utf8"

	"tripedit/models"
)

// DateTimeLongLayout is the layout of dates in the edit form's time inputs, e.g. 18/03/19 12:25.
const DateTimeLongLayout = "02/01/06 15:04"

// FormatDateTimeLong formats t for the edit form's time inputs.
func FormatDateTimeLong(t time.Time) string {
	return t.Format(DateTimeLongLayout)
}

// ParseDateTimeLong parses a value produced by FormatDateTimeLong as a time in loc.
func ParseDateTimeLong(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeLongLayout, s, loc)
}

// DisplayID returns the key used in element ids, icons and css modifiers for an event type:
// the name with its first character lowercased. "Check-in" yields "check-in".
func DisplayID(t models.EventType) string {
	s := string(t)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
