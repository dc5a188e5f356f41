package loadstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDay(value, time.UTC)
	require.NoError(t, err)
	return d
}

func report(teamLoad float64, playerLoads map[string]float64) *Report {
	r := &Report{Stats: ReportStats{
		Team: Stats{FullSession: FullSession{PlayerLoad: PlayerLoad{Total: teamLoad}}},
	}}
	if len(playerLoads) > 0 {
		r.Stats.Players = make(map[string]Stats, len(playerLoads))
		for id, load := range playerLoads {
			r.Stats.Players[id] = Stats{FullSession: FullSession{PlayerLoad: PlayerLoad{Total: load}}}
		}
	}
	return r
}

func newTraining(id string, start time.Time, indicator string, teamLoad float64, playerLoads map[string]float64) Training {
	return Training{
		SessionBase: SessionBase{
			ID:      id,
			Start:   start,
			IsFinal: true,
			Report:  report(teamLoad, playerLoads),
		},
		Indicator: indicator,
	}
}

func newMatch(id string, start time.Time, result Result, teamLoad float64, playerLoads map[string]float64) Match {
	return Match{
		SessionBase: SessionBase{
			ID:      id,
			Start:   start,
			IsFinal: true,
			Report:  report(teamLoad, playerLoads),
		},
		Result: result,
	}
}

func ids(sessions []Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Base().ID)
	}
	return out
}
