package allocation

import "time"

// Deadline computes the review deadline: now plus the configured lead time,
// shifted off weekends. Saturday pushes to Monday (+2 days), Sunday to
// Monday (+1 day); the time of day is preserved.
func Deadline(now time.Time, lead time.Duration) time.Time {
	d := now.Add(lead)
	switch d.Weekday() {
	case time.Saturday:
		d = d.AddDate(0, 0, 2)
	case time.Sunday:
		d = d.AddDate(0, 0, 1)
	}
	return d
}
