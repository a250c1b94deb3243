// Package expiry turns human-entered expiration expressions into
// absolute UTC instants and computes remaining time-to-live.
//
// Expressions use a single fixed pattern, "2006-01-02 03:04 PM",
// interpreted in the caller's IANA timezone. All comparisons happen on
// the resolved UTC instant; the display rendering exists only for
// humans and is never parsed back.
package expiry

import (
	"time"

	"github.com/pkg/errors"
)

// Pattern is the only accepted input layout: calendar date, 12-hour
// clock, meridiem indicator.
const Pattern = "2006-01-02 03:04 PM"

// ErrBadExpression is returned when an expiration string does not match
// Pattern or names an impossible calendar instant.
var ErrBadExpression = errors.New("expiration does not match pattern \"YYYY-MM-DD hh:mm AM/PM\"")

// LoadZone resolves an IANA zone name, falling back to fallbackZone
// when name is empty or unknown, and to UTC when both fail.
func LoadZone(name, fallbackZone string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallbackZone != "" {
		if loc, err := time.LoadLocation(fallbackZone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Resolve parses expr in loc and returns the absolute UTC instant it
// denotes. ParseInLocation applies real tzdata rules, so DST
// transitions are honored rather than a fixed offset.
func Resolve(expr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(Pattern, expr, loc)
	if err != nil {
		return time.Time{}, errors.Wrap(ErrBadExpression, err.Error())
	}
	return t.UTC(), nil
}

// SecondsRemaining is floor((expiry-now)/1s). A value <= 0 means the
// instant has passed; callers treat that as expired.
func SecondsRemaining(expiry, now time.Time) int64 {
	d := expiry.Sub(now)
	secs := d / time.Second
	if d%time.Second < 0 {
		secs--
	}
	return int64(secs)
}

// FormatDisplay renders an instant in loc using Pattern. Display only:
// never feed the result back into Resolve for comparisons.
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(Pattern)
}
