package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/loadtrack/internal/loadstats"
	"github.com/2beens/loadtrack/internal/sessions"
	"github.com/2beens/loadtrack/internal/telemetry/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loadReport(team float64, players map[string]float64) *loadstats.Report {
	r := &loadstats.Report{Stats: loadstats.ReportStats{
		Team: loadstats.Stats{FullSession: loadstats.FullSession{PlayerLoad: loadstats.PlayerLoad{Total: team}}},
	}}
	r.Stats.Players = make(map[string]loadstats.Stats, len(players))
	for id, load := range players {
		r.Stats.Players[id] = loadstats.Stats{FullSession: loadstats.FullSession{PlayerLoad: loadstats.PlayerLoad{Total: load}}}
	}
	return r
}

func testGames() []sessions.Game {
	return []sessions.Game{
		{
			ID: "t1", Type: "Training", Date: "2024/03/04", StartTime: "10:00", Status: sessions.GameStatus{IsFinal: true},
			Benchmark: &sessions.GameBenchmark{Indicator: "-2"},
			Report:    loadReport(100, map[string]float64{"p1": 80}),
		},
		{
			ID: "m1", Type: "Match", Date: "2024/03/06", StartTime: "19:30",
			Status: sessions.GameStatus{IsFinal: true, ScoreUs: 3, ScoreThem: 1},
			Report: loadReport(300, map[string]float64{"p1": 200}),
		},
		{
			ID: "t2", Type: "Training", Date: "2024/03/08", StartTime: "10:00", Status: sessions.GameStatus{IsFinal: true},
			Benchmark: &sessions.GameBenchmark{Indicator: "-2"},
			Report:    loadReport(200, map[string]float64{"p1": 120}),
		},
		{
			ID: "t3", Type: "Training", Date: "2024/03/09", StartTime: "10:00",
			Benchmark: &sessions.GameBenchmark{Indicator: "-2"},
		},
	}
}

func newTestService(t *testing.T) (*Service, *MocksessionsRepo, *metrics.Manager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := NewMocksessionsRepo(ctrl)
	metricsManager := metrics.NewTestManager()
	s := NewService(NewServiceParams{
		Repo:           repo,
		CacheSizeMB:    1,
		CacheTTL:       time.Minute,
		Location:       time.UTC,
		MetricsManager: metricsManager,
	})
	s.nowFunc = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return s, repo, metricsManager
}

func TestNewService_DefaultMetricsManager(t *testing.T) {
	s := NewService(NewServiceParams{})
	require.NotNil(t, s.metricsManager)
	assert.Equal(t, time.UTC, s.loc)

	counter := s.metricsManager.CounterAnalytics.WithLabelValues(viewFilter)
	assert.Contains(t, counter.Desc().String(), `"loadtrack_analytics_analytics_computations"`)
	assert.NotContains(t, counter.Desc().String(), "test_server")

	// each service registers on its own registry
	other := NewService(NewServiceParams{})
	counter.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(counter))
	assert.Equal(t, 0.0, testutil.ToFloat64(other.metricsManager.CounterAnalytics.WithLabelValues(viewFilter)))
}

func TestService_AcuteChronic_CachedUntilInvalidated(t *testing.T) {
	s, repo, metricsManager := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().ListAll(gomock.Any(), sessions.ListAllParams{}).Return(testGames(), nil).Times(2)

	all := sessions.ToSessions(testGames(), time.UTC)
	expected := loadstats.AcuteChronic(all, loadstats.SessionDays(all), "p1")

	records, err := s.AcuteChronic(ctx, "p1", false)
	require.NoError(t, err)
	require.Len(t, records, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].Day, records[i].Day)
		assert.Equal(t, expected[i].AcuteLoad, records[i].AcuteLoad)
		assert.Equal(t, expected[i].ChronicLoad, records[i].ChronicLoad)
		assert.Equal(t, expected[i].Ratio, records[i].Ratio)
		assert.Equal(t, expected[i].Zone, records[i].Zone)
	}

	cached, err := s.AcuteChronic(ctx, "p1", false)
	require.NoError(t, err)
	assert.Equal(t, records, cached)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAnalyticsCacheHits.WithLabelValues(viewAcuteChronic)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAnalytics.WithLabelValues(viewAcuteChronic)))

	s.Invalidate()
	_, err = s.AcuteChronic(ctx, "p1", false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterAnalytics.WithLabelValues(viewAcuteChronic)))
}

func TestService_AcuteChronic_TrainingOnly(t *testing.T) {
	s, repo, _ := newTestService(t)

	repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(testGames(), nil)

	records, err := s.AcuteChronic(context.Background(), "", true)
	require.NoError(t, err)

	days := make([]string, 0, len(records))
	for _, r := range records {
		days = append(days, r.Day)
	}
	assert.NotContains(t, days, "2024/03/06")
	assert.Contains(t, days, "2024/03/04")
}

func TestService_RepoError(t *testing.T) {
	s, repo, _ := newTestService(t)
	repoErr := errors.New("connection refused")

	repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(nil, repoErr).Times(2)

	_, err := s.WeeklyEffort(context.Background(), "p1")
	assert.ErrorIs(t, err, repoErr)
	_, err = s.FilterSessions(context.Background(), loadstats.FilterState{"w": true}, "")
	assert.ErrorIs(t, err, repoErr)
}

func TestService_WeeklyEffort(t *testing.T) {
	s, repo, _ := newTestService(t)

	repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(testGames(), nil)

	weeks, err := s.WeeklyEffort(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, weeks, loadstats.EffortWeeks)
	assert.Equal(t, "2024/03/04 - 2024/03/10", weeks[0].Title)
	assert.Equal(t, 600.0, weeks[0].TotalWeeklyLoad)
	assert.True(t, weeks[0].Days.Wednesday.IsMatchday)
}

func TestService_TwelveWeekOverview(t *testing.T) {
	s, repo, metricsManager := newTestService(t)

	repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(testGames(), nil)

	weeks, err := s.TwelveWeekOverview(context.Background(), "p1", time.Time{})
	require.NoError(t, err)
	require.Len(t, weeks, loadstats.OverviewWeeks)
	last := weeks[loadstats.OverviewWeeks-1]
	assert.Equal(t, "2024/03/04 - 2024/03/10", last.Title)
	assert.Equal(t, 400.0, last.TotalLoad)

	// any day of the same week shares the cache entry
	weeks, err = s.TwelveWeekOverview(context.Background(), "p1", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 400.0, weeks[loadstats.OverviewWeeks-1].TotalLoad)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAnalyticsCacheHits.WithLabelValues(viewTwelveWeek)))
}

func TestService_SessionBenchmark(t *testing.T) {
	s, repo, _ := newTestService(t)

	repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(testGames(), nil).Times(2)

	stats, err := s.SessionBenchmark(context.Background(), "t2", "p1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "t2", stats.SessionID)
	assert.Equal(t, 120.0, stats.TotalLoad)
	assert.Equal(t, loadstats.KindTraining, stats.Benchmark.Kind)

	stats, err = s.SessionBenchmark(context.Background(), "missing", "p1")
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Nil(t, stats)
}

func TestService_FilterSessions(t *testing.T) {
	s, repo, metricsManager := newTestService(t)

	repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(testGames(), nil)

	summaries, err := s.FilterSessions(context.Background(), loadstats.FilterState{"w": true, "-2": true}, "p1")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, SessionSummary{ID: "t1", Kind: loadstats.KindTraining, Day: "2024/03/04", Indicator: "-2", Load: 80}, summaries[0])
	assert.Equal(t, SessionSummary{ID: "m1", Kind: loadstats.KindMatch, Day: "2024/03/06", Result: loadstats.ResultWin, Load: 200}, summaries[1])
	assert.Equal(t, "t2", summaries[2].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterAnalytics.WithLabelValues(viewFilter)))
}
