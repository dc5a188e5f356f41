package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/2beens/loadtrack/internal/loadstats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)

	// ratio zones and benchmark verdicts share "above" and "below"
	zoneColors = map[string]lipgloss.Color{
		string(loadstats.RatioNone):       lipgloss.Color("#8C8C8C"),
		string(loadstats.RatioBelow):      lipgloss.Color("#5B8FF9"),
		string(loadstats.RatioWithin):     lipgloss.Color("#52C41A"),
		string(loadstats.RatioAbove):      lipgloss.Color("#FF4D4F"),
		string(loadstats.VerdictOnTarget): lipgloss.Color("#52C41A"),
		string(loadstats.VerdictInfo):     lipgloss.Color("#8C8C8C"),
		strconv.FormatBool(true):          lipgloss.Color("#52C41A"),
		strconv.FormatBool(false):         lipgloss.Color("#FAAD14"),
	}
)

func newTable(headers []string, rows [][]string, colorColumn int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			if col == colorColumn && row >= 0 && row < len(rows) {
				if color, ok := zoneColors[rows[row][col]]; ok {
					style = style.Foreground(color)
				}
			}
			return style
		})
	return t.String()
}

func title(text string) string {
	return titleStyle.Render(text)
}

func load(v float64) string {
	return strconv.FormatFloat(loadstats.Round(v), 'f', -1, 64)
}

func renderAcuteChronic(records []loadstats.AcuteChronicRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Day,
			load(r.AcuteLoad),
			load(r.ChronicLoad),
			fmt.Sprintf("%.2f", r.Ratio),
			string(r.Zone),
		})
	}
	return newTable([]string{"Date", "Acute", "Chronic", "Ratio", "Zone"}, rows, 4)
}

func renderWeeklyEffort(weeks []loadstats.WeeklyEffortData) string {
	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		days := make([]string, 0, 7)
		for _, d := range []loadstats.DayLoad{
			w.Days.Monday, w.Days.Tuesday, w.Days.Wednesday, w.Days.Thursday,
			w.Days.Friday, w.Days.Saturday, w.Days.Sunday,
		} {
			cell := load(d.Load)
			if d.IsMatchday {
				cell += "*"
			}
			days = append(days, cell)
		}
		rows = append(rows, append(append([]string{w.Title}, days...),
			load(w.TotalWeeklyLoad),
			fmt.Sprintf("%d-%d", w.BenchmarkRange[0], w.BenchmarkRange[1]),
			strconv.FormatBool(w.IsInRange),
		))
	}
	return newTable(
		[]string{"Week", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun", "Total", "Range", "In range"},
		rows, 10,
	)
}

func renderOverview(weeks []loadstats.WeekOverviewData) string {
	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		if w.Placeholder {
			rows = append(rows, []string{"-", "", "", "", ""})
			continue
		}
		vsAverage, vsPrev := "n/a", "n/a"
		if w.HasAverage {
			vsAverage = fmt.Sprintf("%+d%%", w.PercentageOfAverage)
		}
		if w.HasPrevWeek {
			vsPrev = fmt.Sprintf("%+d%%", w.PercentageOfPrevWeek)
		}
		rows = append(rows, []string{
			w.Title,
			load(w.TotalLoad),
			strconv.Itoa(w.PastTwelveWeeksTotalAverage),
			vsAverage,
			vsPrev,
		})
	}
	return newTable([]string{"Week", "Load", "12w avg", "vs avg", "vs prev"}, rows, -1)
}

func renderPlayerStats(stats loadstats.PlayerStats) string {
	b := stats.Benchmark
	rows := [][]string{
		{"Session", stats.SessionID},
		{"Kind", string(b.Kind)},
		{"Load", load(stats.TotalLoad)},
		{"Load / min", load(stats.LoadPerMin)},
		{"Comparable sessions", strconv.Itoa(stats.NumberOfSameTypeEvents)},
		{"Average", load(stats.AverageLoad)},
		{"Lowest", fmt.Sprintf("%s (%s)", load(stats.LowestLoad), stats.LowestSessionID)},
		{"Highest", fmt.Sprintf("%s (%s)", load(stats.HighestLoad), stats.HighestSessionID)},
		{"Benchmark", fmt.Sprintf("%d%%", b.Percentage)},
		{"Verdict", string(b.Verdict)},
	}
	return newTable([]string{"", "Value"}, rows, 1) + "\n" + stats.Tooltip
}
