package loadstats

import (
	"sort"
	"time"
)

const (
	AcuteDays   = 7
	ChronicDays = 28

	OptimalRatioLow  = 0.75
	OptimalRatioHigh = 1.25
)

type RatioZone string

const (
	RatioNone   RatioZone = "none"
	RatioBelow  RatioZone = "below"
	RatioWithin RatioZone = "within"
	RatioAbove  RatioZone = "above"
)

type AcuteChronicRecord struct {
	Date        time.Time `json:"-"`
	Day         string    `json:"date"`
	AcuteLoad   float64   `json:"acuteLoad"`
	ChronicLoad float64   `json:"chronicLoad"`
	Ratio       float64   `json:"acuteChronicRatio"`
	Zone        RatioZone `json:"zone"`
}

// AcuteChronic computes, for every date, the load per calendar day over the
// trailing 7 and 28 day windows and their ratio. Records follow the order of dates.
func AcuteChronic(sessions []Session, dates []time.Time, playerID string) []AcuteChronicRecord {
	finished := finishedOnly(sessions)

	records := make([]AcuteChronicRecord, 0, len(dates))
	for _, d := range dates {
		acute := windowLoad(finished, RollingWindow(d, AcuteDays), playerID) / AcuteDays
		chronic := windowLoad(finished, RollingWindow(d, ChronicDays), playerID) / ChronicDays

		var ratio float64
		if acute != 0 && chronic != 0 {
			ratio = acute / chronic
		}
		records = append(records, AcuteChronicRecord{
			Date:        d,
			Day:         FormatDay(d),
			AcuteLoad:   acute,
			ChronicLoad: chronic,
			Ratio:       ratio,
			Zone:        ClassifyRatio(ratio),
		})
	}
	return records
}

func ClassifyRatio(ratio float64) RatioZone {
	switch {
	case ratio <= 0:
		return RatioNone
	case ratio < OptimalRatioLow:
		return RatioBelow
	case ratio > OptimalRatioHigh:
		return RatioAbove
	default:
		return RatioWithin
	}
}

// SessionDays returns the distinct days with a finished session, oldest first.
func SessionDays(sessions []Session) []time.Time {
	seen := make(map[string]bool)
	var days []time.Time
	for _, s := range finishedOnly(sessions) {
		start := s.Base().Start
		key := FormatDay(start)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, DayStart(start))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func TrainingOnly(sessions []Session) []Session {
	var trainings []Session
	for _, s := range sessions {
		if _, ok := s.(Training); ok {
			trainings = append(trainings, s)
		}
	}
	return trainings
}

func windowLoad(sessions []Session, w Window, playerID string) float64 {
	var total float64
	for _, s := range sessions {
		if w.Contains(s.Base().Start) {
			total += ExtractLoad(s, playerID)
		}
	}
	return total
}
