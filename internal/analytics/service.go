package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/loadtrack/internal/loadstats"
	"github.com/2beens/loadtrack/internal/sessions"
	"github.com/2beens/loadtrack/internal/telemetry/metrics"
	"github.com/2beens/loadtrack/internal/telemetry/tracing"
)

const (
	viewAcuteChronic = "acute_chronic"
	viewWeeklyEffort = "weekly_effort"
	viewTwelveWeek   = "twelve_week"
	viewBenchmark    = "benchmark"
	viewFilter       = "filter"
)

var ErrUnknownSession = errors.New("unknown session")

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=analytics

type sessionsRepo interface {
	ListAll(ctx context.Context, params sessions.ListAllParams) ([]sessions.Game, error)
}

// SessionSummary is a filtered session as shown in progress lists.
type SessionSummary struct {
	ID        string           `json:"id"`
	Kind      loadstats.Kind   `json:"kind"`
	Day       string           `json:"date"`
	Indicator string           `json:"indicator,omitempty"`
	Result    loadstats.Result `json:"result,omitempty"`
	Load      float64          `json:"load"`
}

type Service struct {
	repo           sessionsRepo
	cache          *freecache.Cache
	cacheTTL       time.Duration
	loc            *time.Location
	metricsManager *metrics.Manager
	nowFunc        func() time.Time
}

type NewServiceParams struct {
	Repo           sessionsRepo
	CacheSizeMB    int
	CacheTTL       time.Duration
	Location       *time.Location
	MetricsManager *metrics.Manager
}

func NewService(params NewServiceParams) *Service {
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	sizeMB := params.CacheSizeMB
	if sizeMB <= 0 {
		sizeMB = 1
	}
	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewManager("loadtrack", "analytics", prometheus.NewRegistry())
	}
	return &Service{
		repo:           params.Repo,
		cache:          freecache.NewCache(sizeMB * 1024 * 1024),
		cacheTTL:       params.CacheTTL,
		loc:            loc,
		metricsManager: metricsManager,
		nowFunc:        time.Now,
	}
}

// Invalidate drops every cached view. Called whenever stored sessions change.
func (s *Service) Invalidate() {
	s.cache.Clear()
	log.Trace("analytics cache invalidated")
}

func (s *Service) now() time.Time {
	return s.nowFunc().In(s.loc)
}

func (s *Service) AcuteChronic(ctx context.Context, playerID string, trainingOnly bool) (_ []loadstats.AcuteChronicRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.acuteChronic")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("player", playerID))
	span.SetAttributes(attribute.Bool("training-only", trainingOnly))

	key := fmt.Sprintf("%s|%s|%t", viewAcuteChronic, playerID, trainingOnly)
	var records []loadstats.AcuteChronicRecord
	err = s.cached(ctx, viewAcuteChronic, key, &records, func(all []loadstats.Session) (any, error) {
		if trainingOnly {
			all = loadstats.TrainingOnly(all)
		}
		return loadstats.AcuteChronic(all, loadstats.SessionDays(all), playerID), nil
	})
	return records, err
}

func (s *Service) WeeklyEffort(ctx context.Context, playerID string) (_ []loadstats.WeeklyEffortData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.weeklyEffort")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("player", playerID))

	now := s.now()
	key := fmt.Sprintf("%s|%s|%s", viewWeeklyEffort, playerID, loadstats.FormatDay(now))
	var weeks []loadstats.WeeklyEffortData
	err = s.cached(ctx, viewWeeklyEffort, key, &weeks, func(all []loadstats.Session) (any, error) {
		return loadstats.WeeklyEffort(all, playerID, now), nil
	})
	return weeks, err
}

// TwelveWeekOverview builds the overview ending with week's week, or the current one when week is zero.
func (s *Service) TwelveWeekOverview(ctx context.Context, playerID string, week time.Time) (_ []loadstats.WeekOverviewData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.twelveWeekOverview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if week.IsZero() {
		week = s.now()
	}
	weekStart := loadstats.StartOfWeek(week.In(s.loc))
	span.SetAttributes(attribute.String("player", playerID))
	span.SetAttributes(attribute.String("week", loadstats.FormatDay(weekStart)))

	key := fmt.Sprintf("%s|%s|%s", viewTwelveWeek, playerID, loadstats.FormatDay(weekStart))
	var weeks []loadstats.WeekOverviewData
	err = s.cached(ctx, viewTwelveWeek, key, &weeks, func(all []loadstats.Session) (any, error) {
		return loadstats.TwelveWeekOverview(all, weekStart, playerID), nil
	})
	return weeks, err
}

// SessionBenchmark compares one session against its comparable history.
func (s *Service) SessionBenchmark(ctx context.Context, sessionID, playerID string) (_ *loadstats.PlayerStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.sessionBenchmark")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session", sessionID))
	span.SetAttributes(attribute.String("player", playerID))

	key := fmt.Sprintf("%s|%s|%s", viewBenchmark, sessionID, playerID)
	var stats loadstats.PlayerStats
	err = s.cached(ctx, viewBenchmark, key, &stats, func(all []loadstats.Session) (any, error) {
		for _, ref := range all {
			if ref.Base().ID == sessionID {
				return loadstats.BuildPlayerStats(all, ref, playerID), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// FilterSessions keeps the finished sessions matching any selected filter code, oldest first.
func (s *Service) FilterSessions(ctx context.Context, state loadstats.FilterState, playerID string) (_ []SessionSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.filterSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("filters", len(state)))

	// filter states are too varied to be worth caching
	all, err := s.loadSessions(ctx)
	if err != nil {
		return nil, err
	}
	s.metricsManager.CounterAnalytics.WithLabelValues(viewFilter).Inc()

	filtered := loadstats.ProgressFilterFiltration(state, all)
	summaries := make([]SessionSummary, 0, len(filtered))
	for _, sess := range filtered {
		summary := SessionSummary{
			ID:   sess.Base().ID,
			Kind: sess.Kind(),
			Day:  loadstats.FormatDay(sess.Base().Start),
			Load: loadstats.ExtractLoad(sess, playerID),
		}
		switch v := sess.(type) {
		case loadstats.Match:
			summary.Result = v.Result
		case loadstats.Training:
			summary.Indicator = v.Indicator
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) loadSessions(ctx context.Context) ([]loadstats.Session, error) {
	games, err := s.repo.ListAll(ctx, sessions.ListAllParams{})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions.ToSessions(games, s.loc), nil
}

// cached serves dst from the cache under key, or computes it from all stored sessions and caches it.
func (s *Service) cached(
	ctx context.Context,
	view, key string,
	dst any,
	compute func(all []loadstats.Session) (any, error),
) error {
	if raw, err := s.cache.Get([]byte(key)); err == nil {
		if err := json.Unmarshal(raw, dst); err == nil {
			s.metricsManager.CounterAnalyticsCacheHits.WithLabelValues(view).Inc()
			return nil
		}
		log.Warnf("analytics cache, corrupt entry for [%s], recomputing", key)
	}

	all, err := s.loadSessions(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := compute(all)
	if err != nil {
		return err
	}
	s.metricsManager.HistogramAnalyticsDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	s.metricsManager.CounterAnalytics.WithLabelValues(view).Inc()

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", view, err)
	}
	if err := s.cache.Set([]byte(key), raw, int(s.cacheTTL.Seconds())); err != nil {
		// too large for the cache, still served
		log.Debugf("analytics cache, set [%s]: %s", key, err)
	}
	return json.Unmarshal(raw, dst)
}
