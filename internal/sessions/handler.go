package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/loadtrack/internal/loadstats"
	"github.com/2beens/loadtrack/internal/telemetry/metrics"
	"github.com/2beens/loadtrack/internal/telemetry/tracing"
	"github.com/2beens/loadtrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=sessions_mocks_test.go -package=sessions_test

type sessionsRepo interface {
	Add(ctx context.Context, game Game) (*Game, error)
	Get(ctx context.Context, id string) (*Game, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) (_ []Game, total int, err error)
	ListPlayers(ctx context.Context) ([]loadstats.Player, error)
}

// cacheInvalidator is notified whenever stored sessions change.
type cacheInvalidator interface {
	Invalidate()
}

type ListResponse struct {
	Sessions []Game `json:"sessions"`
	Total    int    `json:"total"`
}

type DeleteSessionResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo           sessionsRepo
	invalidator    cacheInvalidator
	metricsManager *metrics.Manager
	loc            *time.Location
}

func NewHandler(
	repo sessionsRepo,
	invalidator cacheInvalidator,
	metricsManager *metrics.Manager,
	loc *time.Location,
) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		repo:           repo,
		invalidator:    invalidator,
		metricsManager: metricsManager,
		loc:            loc,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/sessions", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/sessions/list/page/{page}/size/{size}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/sessions/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/sessions/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/players", handler.HandleListPlayers).Methods("GET", "OPTIONS").Name("list-players")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var game Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		log.Tracef("new session, unmarshal json params: %s", err)
		http.Error(w, "add session failed", http.StatusBadRequest)
		return
	}

	// reject documents the analytics could never read
	if _, err := game.ToSession(handler.loc); err != nil {
		log.Tracef("new session, invalid game: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, game)
	if err != nil {
		if errors.Is(err, ErrSessionExists) {
			http.Error(w, "session already exists", http.StatusConflict)
			return
		}
		log.Errorf("add new session failed: %s", err)
		http.Error(w, "add session failed", http.StatusInternalServerError)
		return
	}

	handler.changed()
	if handler.metricsManager != nil {
		handler.metricsManager.CounterSessionsAdded.Inc()
	}

	resp, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added session: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	game, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("get session %s: %s", id, err)
		http.Error(w, "get session failed", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(game)
	if err != nil {
		log.Errorf("marshal session: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete session %s: %s", id, err)
		http.Error(w, "delete session failed", http.StatusInternalServerError)
		return
	}

	handler.changed()
	if handler.metricsManager != nil {
		handler.metricsManager.CounterSessionsDeleted.Inc()
	}

	resp, err := json.Marshal(DeleteSessionResponse{DeletedID: id})
	if err != nil {
		log.Errorf("marshal delete response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}
	if page < 1 || size < 1 {
		http.Error(w, "page and size must be greater than 0", http.StatusBadRequest)
		return
	}

	games, total, err := handler.repo.List(ctx, ListParams{Page: page, Size: size})
	if err != nil {
		log.Errorf("list sessions: %s", err)
		http.Error(w, "list sessions failed", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(ListResponse{Sessions: games, Total: total})
	if err != nil {
		log.Errorf("marshal sessions list: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.players")
	defer span.End()

	players, err := handler.repo.ListPlayers(ctx)
	if err != nil {
		log.Errorf("list players: %s", err)
		http.Error(w, "list players failed", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(players)
	if err != nil {
		log.Errorf("marshal players: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) changed() {
	if handler.invalidator != nil {
		handler.invalidator.Invalidate()
	}
}
