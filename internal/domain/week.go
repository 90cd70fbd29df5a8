package domain

import "time"

// WeekNumber identifies an ISO week as year*100 + week, e.g. 202634 for
// week 34 of 2026. Sorting numerically equals sorting chronologically.
type WeekNumber int

// WeekOf returns the WeekNumber containing t (ISO 8601 week rules, so the
// year component can differ from t's calendar year around January 1st).
func WeekOf(t time.Time) WeekNumber {
	year, week := t.ISOWeek()
	return WeekNumber(year*100 + week)
}

// Year returns the ISO year component.
func (w WeekNumber) Year() int { return int(w) / 100 }

// Week returns the ISO week component (1–53).
func (w WeekNumber) Week() int { return int(w) % 100 }
