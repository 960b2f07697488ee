package handlers

import (
	"time"

	"github.com/dmitrymomot/saasgate"
)

// relativeTime describes t relative to now in the request locale: "just
// now", then minutes, hours and days ago. Anything older than a week is
// shown as a date.
func relativeTime(c saasgate.Context, t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return c.T("time.just_now")
	case d < time.Hour:
		return c.Tn("time.minutes_ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return c.Tn("time.hours_ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return c.Tn("time.days_ago", int(d/(24*time.Hour)))
	default:
		return t.Format(time.DateOnly)
	}
}
