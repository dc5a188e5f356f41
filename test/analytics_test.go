//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/loadtrack/internal/analytics"
	"github.com/2beens/loadtrack/internal/loadstats"
	"github.com/2beens/loadtrack/internal/sessions"
)

func testGame(id, kind string, day time.Time, indicator string, team, p1 float64) sessions.Game {
	g := sessions.Game{
		ID:        id,
		Type:      kind,
		Date:      loadstats.FormatDay(day),
		StartTime: "10:00",
		Status:    sessions.GameStatus{IsFinal: true},
		Report: &loadstats.Report{Stats: loadstats.ReportStats{
			Team: loadstats.Stats{FullSession: loadstats.FullSession{PlayerLoad: loadstats.PlayerLoad{Total: team}, Duration: 3600}},
			Players: map[string]loadstats.Stats{
				"p1": {FullSession: loadstats.FullSession{PlayerLoad: loadstats.PlayerLoad{Total: p1}, Duration: 3600}},
			},
		}},
	}
	if kind == string(loadstats.KindTraining) {
		g.Benchmark = &sessions.GameBenchmark{Indicator: sessions.Indicator(indicator)}
	} else {
		g.Status.ScoreUs, g.Status.ScoreThem = 2, 1
	}
	return g
}

func (s *IntegrationTestSuite) TestAnalytics() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.sessionsCleanup(ctx))
	require.NoError(t, s.redisDataCleanup(ctx))
	token := doLogin(ctx, t, s.httpClient)

	today := loadstats.DayStart(time.Now().UTC())
	games := []sessions.Game{
		testGame("t1", "Training", today.AddDate(0, 0, -6), "-2", 100, 80),
		testGame("m1", "Match", today.AddDate(0, 0, -4), "", 300, 200),
		testGame("t2", "Training", today.AddDate(0, 0, -2), "-2", 200, 120),
	}
	for _, g := range games {
		body, err := json.Marshal(g)
		require.NoError(t, err)
		resp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "POST", "/sessions", token, body))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode, g.ID)
		resp.Body.Close()
	}

	getJSON := func(path string, dst any) {
		resp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "GET", path, token, nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(respBytes, dst), path)
	}

	t.Run("acute chronic", func(t *testing.T) {
		var records []loadstats.AcuteChronicRecord
		getJSON("/analytics/acute-chronic?player=p1", &records)
		require.Len(t, records, 3)
		last := records[2]
		assert.Equal(t, loadstats.FormatDay(today.AddDate(0, 0, -2)), last.Day)
		assert.InDelta(t, 400.0/7, last.AcuteLoad, 0.001)
		assert.InDelta(t, 400.0/28, last.ChronicLoad, 0.001)

		getJSON("/analytics/acute-chronic?player=p1&type=training", &records)
		assert.Len(t, records, 2)
	})

	t.Run("weekly effort", func(t *testing.T) {
		var weeks []loadstats.WeeklyEffortData
		getJSON("/analytics/weekly-effort", &weeks)
		require.Len(t, weeks, loadstats.EffortWeeks)
		var total float64
		for _, w := range weeks {
			total += w.TotalWeeklyLoad
		}
		assert.Equal(t, 600.0, total)
	})

	t.Run("twelve week overview", func(t *testing.T) {
		var weeks []loadstats.WeekOverviewData
		getJSON("/analytics/twelve-week?player=p1", &weeks)
		require.Len(t, weeks, loadstats.OverviewWeeks)
	})

	t.Run("session benchmark", func(t *testing.T) {
		var stats loadstats.PlayerStats
		getJSON("/analytics/sessions/t2/benchmark?player=p1", &stats)
		assert.Equal(t, "t2", stats.SessionID)
		assert.Equal(t, 120.0, stats.TotalLoad)
		assert.Equal(t, 1, stats.NumberOfSameTypeEvents)
		assert.True(t, stats.Benchmark.Available)

		resp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "GET", "/analytics/sessions/missing/benchmark", token, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("filter", func(t *testing.T) {
		body, err := json.Marshal(analytics.FilterRequest{Labels: []string{"Wins"}, Player: "p1"})
		require.NoError(t, err)
		resp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "POST", "/analytics/filter", token, body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var summaries []analytics.SessionSummary
		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(respBytes, &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "m1", summaries[0].ID)
		assert.Equal(t, 200.0, summaries[0].Load)
	})

	t.Run("filter options are public", func(t *testing.T) {
		var options []loadstats.FilterOption
		getJSON("/analytics/filters/matches", &options)
		assert.Len(t, options, 4)
	})

	t.Run("new session invalidates cached views", func(t *testing.T) {
		body, err := json.Marshal(testGame("t3", "Training", today.AddDate(0, 0, -1), "1", 50, 40))
		require.NoError(t, err)
		resp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "POST", "/sessions", token, body))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		var records []loadstats.AcuteChronicRecord
		getJSON("/analytics/acute-chronic?player=p1", &records)
		assert.Len(t, records, 4)
	})

	t.Run("analytics need a token", func(t *testing.T) {
		resp, err := s.httpClient.Do(newAuthedRequest(ctx, t, "GET", "/analytics/weekly-effort", "", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}
