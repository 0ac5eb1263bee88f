package models

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is an opaque calendar day key in YYYY-MM-DD form. The service never
// re-derives timezones from it; callers decide which calendar day a moment
// belongs to before handing it over. Lexicographic order on the string form
// matches chronological order, which the storage layer relies on.
type Day string

// ParseDay validates s as a YYYY-MM-DD day key.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

// DayOf truncates t to its calendar day in t's location.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

func (d Day) String() string { return string(d) }

// Valid reports whether d is a well-formed day key.
func (d Day) Valid() bool {
	_, err := time.Parse(dayLayout, string(d))
	return err == nil
}

func (d Day) time() time.Time {
	t, _ := time.Parse(dayLayout, string(d))
	return t
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day(d.time().AddDate(0, 0, n).Format(dayLayout))
}

// DaysSince returns d - other in whole days. Positive when d is later.
func (d Day) DaysSince(other Day) int {
	return int(d.time().Sub(other.time()).Hours() / 24)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return string(d) < string(other)
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return string(d) > string(other)
}
