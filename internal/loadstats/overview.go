package loadstats

import "time"

const OverviewWeeks = 13

type WeekOverviewData struct {
	WeekStart                   time.Time `json:"weekStart"`
	Title                       string    `json:"title"`
	TotalLoad                   float64   `json:"totalLoad"`
	PastTwelveWeeksTotalLoad    float64   `json:"pastTwelveWeeksTotalLoad"`
	PastTwelveWeeksTotalAverage int       `json:"pastTwelveWeeksTotalAverage"`
	PercentageOfAverage         int       `json:"percentageOfAverage"`
	HasAverage                  bool      `json:"hasAverage"`
	PercentageOfPrevWeek        int       `json:"percentageOfPrevWeek"`
	HasPrevWeek                 bool      `json:"hasPrevWeek"`
	// Placeholder marks padding for seasons younger than twelve weeks.
	Placeholder bool `json:"placeholder"`
}

// TwelveWeekOverview returns 13 weeks, oldest first, the last one being the
// week of startOfWeek. Sessions are matched to weeks by formatted day.
func TwelveWeekOverview(sessions []Session, startOfWeek time.Time, playerID string) []WeekOverviewData {
	finished := finishedOnly(sessions)
	loc := startOfWeek.Location()
	lastWeek := StartOfWeek(startOfWeek)

	dayLoads := make(map[string]float64)
	for _, s := range finished {
		dayLoads[FormatDay(s.Base().Start.In(loc))] += ExtractLoad(s, playerID)
	}
	sumDays := func(w Window) float64 {
		var total float64
		for _, day := range w.Days() {
			total += dayLoads[day]
		}
		return total
	}

	firstWeek := lastWeek.AddDate(0, 0, -7*(OverviewWeeks-1))
	prevLoad := sumDays(Window{Start: firstWeek.AddDate(0, 0, -7), End: firstWeek})

	weeks := make([]WeekOverviewData, OverviewWeeks)
	for i := range weeks {
		weekStart := firstWeek.AddDate(0, 0, 7*i)
		week := WeekOverviewData{
			WeekStart: weekStart,
			Title:     weekTitle(weekStart),
			TotalLoad: sumDays(Window{Start: weekStart, End: weekStart.AddDate(0, 0, 7)}),
		}
		week.PastTwelveWeeksTotalLoad = sumDays(TrailingWeeks(weekStart, BenchmarkWeeks))
		week.PastTwelveWeeksTotalAverage = roundInt(week.PastTwelveWeeksTotalLoad / BenchmarkWeeks)
		week.PercentageOfAverage, week.HasAverage = percentageChange(week.TotalLoad, float64(week.PastTwelveWeeksTotalAverage))
		week.PercentageOfPrevWeek, week.HasPrevWeek = percentageChange(week.TotalLoad, prevLoad)

		prevLoad = week.TotalLoad
		weeks[i] = week
	}

	_, weekNo := lastWeek.ISOWeek()
	if weekNo < BenchmarkWeeks {
		for i := 0; i < OverviewWeeks-weekNo; i++ {
			weeks[i] = WeekOverviewData{Placeholder: true}
		}
	}
	return weeks
}

// percentageChange is round((value/base - 1) * 100); ok is false for a zero base.
func percentageChange(value, base float64) (int, bool) {
	if base == 0 {
		return 0, false
	}
	return roundInt((value/base - 1) * 100), true
}
