package loadstats

import (
	"fmt"
	"math"
	"time"
)

const DayLayout = "2006/01/02"

var dayLayouts = []string{DayLayout, "2006-01-02"}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the formatted keys of every calendar day in the window.
func (w Window) Days() []string {
	var days []string
	for d := DayStart(w.Start); d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDay(d))
	}
	return days
}

func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay accepts both YYYY/MM/DD and YYYY-MM-DD.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid day: %q", value)
}

// StartOfWeek returns Monday 00:00 of t's week.
func StartOfWeek(t time.Time) time.Time {
	day := DayStart(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// EndOfWeek returns the last instant of Sunday in t's week.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

func WeekWindow(t time.Time) Window {
	start := StartOfWeek(t)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// RollingWindow covers the given number of calendar days ending with ref's day.
// Day arithmetic goes through AddDate so DST transitions keep whole days.
func RollingWindow(ref time.Time, days int) Window {
	end := DayStart(ref).AddDate(0, 0, 1)
	if days <= 0 {
		return Window{Start: end, End: end}
	}
	return Window{Start: end.AddDate(0, 0, -days), End: end}
}

// TrailingWeeks is the window of the given number of whole weeks before weekStart.
func TrailingWeeks(weekStart time.Time, weeks int) Window {
	return Window{Start: weekStart.AddDate(0, 0, -7*weeks), End: weekStart}
}

// Round rounds half up, the way the mobile apps display values.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

func roundInt(v float64) int {
	return int(Round(v))
}
