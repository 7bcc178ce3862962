// Package daterange turns shop calendar days into half-open UTC instants.
package daterange

import (
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
)

const Layout = "2006-01-02"

// ParseDay returns the first instant of day s in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid_date", "date", "invalid date "+s)
	}
	return t, nil
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// NextDay is midnight of the following calendar day, DST safe.
func NextDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location())
}

// Range is [From, To) in UTC. A nil bound is open.
type Range struct {
	From *time.Time
	To   *time.Time
}

// Resolve combines an exact day with an inclusive from/to pair. All given
// constraints apply together.
func Resolve(date, from, to string, loc *time.Location) (Range, error) {
	var r Range
	narrowFrom := func(t time.Time) {
		t = t.UTC()
		if r.From == nil || t.After(*r.From) {
			r.From = &t
		}
	}
	narrowTo := func(t time.Time) {
		t = t.UTC()
		if r.To == nil || t.Before(*r.To) {
			r.To = &t
		}
	}

	if date != "" {
		d, err := ParseDay(date, loc)
		if err != nil {
			return r, err
		}
		narrowFrom(d)
		narrowTo(NextDay(d))
	}
	if from != "" {
		d, err := ParseDay(from, loc)
		if err != nil {
			return r, err
		}
		narrowFrom(d)
	}
	if to != "" {
		d, err := ParseDay(to, loc)
		if err != nil {
			return r, err
		}
		narrowTo(NextDay(d))
	}
	return r, nil
}

// Days lists calendar days from..to inclusive, formatted with Layout.
func Days(from, to time.Time) []string {
	days := []string{}
	for d := from; !d.After(to); d = NextDay(d) {
		days = append(days, d.Format(Layout))
	}
	return days
}
