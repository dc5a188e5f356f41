package loadstats

type ZoneDurations struct {
	Explosive int `json:"explosive"`
	VeryHigh  int `json:"veryHigh"`
	High      int `json:"high"`
	Moderate  int `json:"moderate"`
	Low       int `json:"low"`
	TotalTime int `json:"totalTime"`
}

type IceTime struct {
	Shifts  int     `json:"shifts"`
	Seconds float64 `json:"seconds"`
}

// statsFor returns player stats when playerID is set, team stats otherwise.
func statsFor(s Session, playerID string) (Stats, bool) {
	if s == nil {
		return Stats{}, false
	}
	report := s.Base().Report
	if report == nil {
		return Stats{}, false
	}
	if playerID == "" {
		return report.Stats.Team, true
	}
	stats, ok := report.Stats.Players[playerID]
	return stats, ok
}

func participated(s Session, playerID string) bool {
	_, ok := statsFor(s, playerID)
	return ok
}

func ExtractLoad(s Session, playerID string) float64 {
	stats, _ := statsFor(s, playerID)
	return stats.FullSession.PlayerLoad.Total
}

// ExtractDuration returns the session duration in seconds.
func ExtractDuration(s Session, playerID string) float64 {
	stats, _ := statsFor(s, playerID)
	return stats.FullSession.Duration
}

// ExtractZoneDurations rounds each zone before summing so the total
// matches the displayed zone values.
func ExtractZoneDurations(s Session, playerID string) ZoneDurations {
	stats, _ := statsFor(s, playerID)
	zones := stats.FullSession.IntensityZones

	d := ZoneDurations{
		Explosive: roundInt(zones.Explosive),
		VeryHigh:  roundInt(zones.VeryHigh),
		High:      roundInt(zones.High),
		Moderate:  roundInt(zones.Moderate),
		Low:       roundInt(zones.Low),
	}
	d.TotalTime = d.Explosive + d.VeryHigh + d.High + d.Moderate + d.Low
	return d
}

func LoadPerMinute(s Session, playerID string) float64 {
	minutes := ExtractDuration(s, playerID) / 60
	if minutes <= 0 {
		return 0
	}
	return ExtractLoad(s, playerID) / minutes
}

func ExtractTimeOnIce(s Session, playerID string) IceTime {
	stats, _ := statsFor(s, playerID)

	var ice IceTime
	for _, shift := range stats.FullSession.TimeOnIce {
		if shift.End <= shift.Start {
			continue
		}
		ice.Shifts++
		ice.Seconds += shift.End - shift.Start
	}
	return ice
}

func totalLoad(sessions []Session, playerID string) float64 {
	var total float64
	for _, s := range sessions {
		total += ExtractLoad(s, playerID)
	}
	return total
}
