package loadstats

import (
	"fmt"
	"time"
)

const (
	EffortWeeks    = 12
	BenchmarkWeeks = 12

	benchmarkRangeLow  = 0.75
	benchmarkRangeHigh = 1.25
)

type DayLoad struct {
	Load       float64 `json:"load"`
	IsMatchday bool    `json:"isMatchday"`
}

type WeekDays struct {
	Monday    DayLoad `json:"monday"`
	Tuesday   DayLoad `json:"tuesday"`
	Wednesday DayLoad `json:"wednesday"`
	Thursday  DayLoad `json:"thursday"`
	Friday    DayLoad `json:"friday"`
	Saturday  DayLoad `json:"saturday"`
	Sunday    DayLoad `json:"sunday"`
}

// Day returns the bucket for a weekday.
func (d *WeekDays) Day(weekday time.Weekday) *DayLoad {
	switch weekday {
	case time.Monday:
		return &d.Monday
	case time.Tuesday:
		return &d.Tuesday
	case time.Wednesday:
		return &d.Wednesday
	case time.Thursday:
		return &d.Thursday
	case time.Friday:
		return &d.Friday
	case time.Saturday:
		return &d.Saturday
	default:
		return &d.Sunday
	}
}

type WeeklyEffortData struct {
	WeekStart       time.Time `json:"weekStart"`
	Title           string    `json:"title"`
	Days            WeekDays  `json:"days"`
	TotalWeeklyLoad float64   `json:"totalWeeklyLoad"`
	Benchmark       float64   `json:"benchmark"`
	BenchmarkRange  [2]int    `json:"benchMarkRange"`
	IsInRange       bool      `json:"isInRange"`
	Description     string    `json:"description"`
}

// WeeklyEffort buckets finished sessions into the 12 calendar weeks ending with
// the week of now. Index 0 is the current week.
func WeeklyEffort(sessions []Session, playerID string, now time.Time) []WeeklyEffortData {
	finished := finishedOnly(sessions)
	loc := now.Location()
	currentWeek := StartOfWeek(now)

	weeks := make([]WeeklyEffortData, EffortWeeks)
	for i := range weeks {
		week := &weeks[i]
		week.WeekStart = currentWeek.AddDate(0, 0, -7*i)
		week.Title = weekTitle(week.WeekStart)

		window := Window{Start: week.WeekStart, End: week.WeekStart.AddDate(0, 0, 7)}
		for _, s := range finished {
			start := s.Base().Start
			if !window.Contains(start) {
				continue
			}
			load := ExtractLoad(s, playerID)
			day := week.Days.Day(start.In(loc).Weekday())
			day.Load += load
			if s.Kind() == KindMatch {
				day.IsMatchday = true
			}
			week.TotalWeeklyLoad += load
		}

		week.Benchmark = windowLoad(finished, TrailingWeeks(week.WeekStart, BenchmarkWeeks), playerID) / BenchmarkWeeks
		week.BenchmarkRange = BenchmarkRange(week.Benchmark)
		week.IsInRange = InBenchmarkRange(week.TotalWeeklyLoad, week.BenchmarkRange)
		week.Description = weekDescription(week.TotalWeeklyLoad, week.Benchmark, week.BenchmarkRange)
	}
	return weeks
}

func BenchmarkRange(benchmark float64) [2]int {
	return [2]int{
		roundInt(benchmark * benchmarkRangeLow),
		roundInt(benchmark * benchmarkRangeHigh),
	}
}

// InBenchmarkRange is false for a week without load, even if the range starts at 0.
func InBenchmarkRange(load float64, r [2]int) bool {
	if load == 0 {
		return false
	}
	return load >= float64(r[0]) && load <= float64(r[1])
}

func weekTitle(weekStart time.Time) string {
	return fmt.Sprintf("%s - %s", FormatDay(weekStart), FormatDay(weekStart.AddDate(0, 0, 6)))
}

func weekDescription(load, benchmark float64, r [2]int) string {
	switch {
	case benchmark == 0:
		return "Not enough history for a weekly benchmark yet."
	case load == 0:
		return "No load recorded this week."
	case InBenchmarkRange(load, r):
		return fmt.Sprintf("Weekly load %.0f is within the benchmark range %d-%d.", load, r[0], r[1])
	case load > float64(r[1]):
		return fmt.Sprintf("Weekly load %.0f is above the benchmark range %d-%d.", load, r[0], r[1])
	default:
		return fmt.Sprintf("Weekly load %.0f is below the benchmark range %d-%d.", load, r[0], r[1])
	}
}
