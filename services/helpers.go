package services

import (
	"fmt"
	"time"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// parseClock converts an "HH:MM" wall-clock string into minutes since
// midnight. All schedule comparisons in the services operate on these
// minute values.
func parseClock(value string) (int, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// sameDate reports whether two instants fall on the same calendar day,
// ignoring the time component.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
