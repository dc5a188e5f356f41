package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/loadtrack/internal/loadstats"
	"github.com/2beens/loadtrack/internal/telemetry/tracing"
	"github.com/2beens/loadtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=analytics_test

type analyticsService interface {
	AcuteChronic(ctx context.Context, playerID string, trainingOnly bool) ([]loadstats.AcuteChronicRecord, error)
	WeeklyEffort(ctx context.Context, playerID string) ([]loadstats.WeeklyEffortData, error)
	TwelveWeekOverview(ctx context.Context, playerID string, week time.Time) ([]loadstats.WeekOverviewData, error)
	SessionBenchmark(ctx context.Context, sessionID, playerID string) (*loadstats.PlayerStats, error)
	FilterSessions(ctx context.Context, state loadstats.FilterState, playerID string) ([]SessionSummary, error)
}

// FilterRequest selects filters either by code (State) or by their UI label (Labels).
type FilterRequest struct {
	State  loadstats.FilterState `json:"state"`
	Labels []string              `json:"labels"`
	Player string                `json:"player"`
}

type Handler struct {
	service analyticsService
	loc     *time.Location
}

func NewHandler(service analyticsService, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		service: service,
		loc:     loc,
	}
}

// SetupRoutes expects a router already prefixed with /analytics.
func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/acute-chronic", handler.HandleAcuteChronic).Methods("GET", "OPTIONS").Name("acute-chronic")
	r.HandleFunc("/weekly-effort", handler.HandleWeeklyEffort).Methods("GET", "OPTIONS").Name("weekly-effort")
	r.HandleFunc("/twelve-week", handler.HandleTwelveWeek).Methods("GET", "OPTIONS").Name("twelve-week")
	r.HandleFunc("/sessions/{id}/benchmark", handler.HandleSessionBenchmark).Methods("GET", "OPTIONS").Name("session-benchmark")
	r.HandleFunc("/filter", handler.HandleFilter).Methods("POST", "OPTIONS").Name("filter-sessions")
	r.HandleFunc("/filters/{kind}", handler.HandleFilterOptions).Methods("GET", "OPTIONS").Name("filter-options")
}

func (handler *Handler) HandleAcuteChronic(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.acuteChronic")
	defer span.End()

	player := r.URL.Query().Get("player")
	trainingOnly := strings.EqualFold(r.URL.Query().Get("type"), "training")

	records, err := handler.service.AcuteChronic(ctx, player, trainingOnly)
	if err != nil {
		log.Errorf("acute chronic for [%s]: %s", player, err)
		http.Error(w, "acute chronic failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func (handler *Handler) HandleWeeklyEffort(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.weeklyEffort")
	defer span.End()

	player := r.URL.Query().Get("player")
	weeks, err := handler.service.WeeklyEffort(ctx, player)
	if err != nil {
		log.Errorf("weekly effort for [%s]: %s", player, err)
		http.Error(w, "weekly effort failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, weeks)
}

func (handler *Handler) HandleTwelveWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.twelveWeek")
	defer span.End()

	player := r.URL.Query().Get("player")
	var week time.Time
	if weekParam := r.URL.Query().Get("week"); weekParam != "" {
		parsed, err := loadstats.ParseDay(weekParam, handler.loc)
		if err != nil {
			http.Error(w, "invalid week", http.StatusBadRequest)
			return
		}
		week = parsed
	}

	weeks, err := handler.service.TwelveWeekOverview(ctx, player, week)
	if err != nil {
		log.Errorf("twelve week overview for [%s]: %s", player, err)
		http.Error(w, "twelve week overview failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, weeks)
}

func (handler *Handler) HandleSessionBenchmark(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.sessionBenchmark")
	defer span.End()

	id := mux.Vars(r)["id"]
	player := r.URL.Query().Get("player")

	stats, err := handler.service.SessionBenchmark(ctx, id, player)
	if err != nil {
		if errors.Is(err, ErrUnknownSession) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("benchmark session %s: %s", id, err)
		http.Error(w, "session benchmark failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

func (handler *Handler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.filter")
	defer span.End()

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("filter sessions, unmarshal json params: %s", err)
		http.Error(w, "invalid filter request", http.StatusBadRequest)
		return
	}

	state := make(loadstats.FilterState, len(req.State)+len(req.Labels))
	for code, selected := range req.State {
		if _, ok := loadstats.FilterLabel(code); !ok {
			http.Error(w, "unknown filter code: "+code, http.StatusBadRequest)
			return
		}
		state[code] = selected
	}
	for _, label := range req.Labels {
		code, ok := loadstats.ResolveFilterCode(label)
		if !ok {
			http.Error(w, "unknown filter: "+label, http.StatusBadRequest)
			return
		}
		state[code] = true
	}

	summaries, err := handler.service.FilterSessions(ctx, state, req.Player)
	if err != nil {
		log.Errorf("filter sessions: %s", err)
		http.Error(w, "filter sessions failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, summaries)
}

func (handler *Handler) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	var options []loadstats.FilterOption
	switch strings.ToLower(mux.Vars(r)["kind"]) {
	case "match", "matches":
		options = loadstats.MatchFilterOptions()
	case "training", "trainings":
		options = loadstats.TrainingFilterOptions()
	default:
		http.Error(w, "unknown filter kind", http.StatusBadRequest)
		return
	}
	writeJSON(w, options)
}

func writeJSON(w http.ResponseWriter, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal analytics response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}
