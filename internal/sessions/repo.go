package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/loadtrack/internal/loadstats"
	"github.com/2beens/loadtrack/internal/telemetry/tracing"
	"github.com/2beens/loadtrack/pkg"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

type ListAllParams struct {
	// Type is "Match", "Training" or empty for both.
	Type         string
	From         *time.Time
	To           *time.Time
	FinishedOnly bool
}

type ListParams struct {
	Page int
	Size int
}

type Repo struct {
	db  *pgxpool.Pool
	loc *time.Location
}

// NewRepo creates a repo resolving local game dates in loc.
func NewRepo(db *pgxpool.Pool, loc *time.Location) *Repo {
	if loc == nil {
		loc = time.UTC
	}
	return &Repo{
		db:  db,
		loc: loc,
	}
}

func (r *Repo) Add(ctx context.Context, game Game) (_ *Game, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := game.ToSession(r.loc)
	if err != nil {
		return nil, err
	}
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("session.id", game.ID))

	doc, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("marshal game: %w", err)
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO session (id, type, start_at, finished, doc) VALUES ($1, $2, $3, $4, $5);`,
		game.ID, string(session.Kind()), session.Base().Start, loadstats.Finished(session), doc,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrSessionExists
		}
		return nil, err
	}

	return &game, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Game, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(ctx, `SELECT doc FROM session WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games, err := rows2games(rows)
	if err != nil {
		return nil, err
	}
	if len(games) != 1 {
		return nil, ErrSessionNotFound
	}

	return &games[0], nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM session WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns the games matching params, oldest first.
func (r *Repo) ListAll(ctx context.Context, params ListAllParams) (_ []Game, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("type", params.Type))
	span.SetAttributes(attribute.Bool("finished-only", params.FinishedOnly))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT doc FROM session
				WHERE ($1::text = '' OR type = $1)
				AND ($2::timestamptz IS NULL OR start_at >= $2)
				AND ($3::timestamptz IS NULL OR start_at < $3)
				AND ($4::boolean IS FALSE OR finished)
			ORDER BY start_at ASC, id ASC;`,
		params.Type, params.From, params.To, params.FinishedOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	games, err := rows2games(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2games: %w", err)
	}
	return games, nil
}

// List returns one page of games, newest first, and the total count.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Game, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countAll, err := r.Count(ctx)
	if err != nil {
		return nil, -1, err
	}

	limit, offset := pageBounds(countAll, params)
	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(
		ctx,
		`SELECT doc FROM session ORDER BY start_at DESC, id ASC LIMIT $1 OFFSET $2;`,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	games, err := rows2games(rows)
	if err != nil {
		return nil, -1, err
	}
	return games, countAll, nil
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM session;`).Scan(&count); err != nil {
		return -1, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

func (r *Repo) ListPlayers(ctx context.Context) (_ []loadstats.Player, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.players")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, shirt_number FROM player ORDER BY shirt_number ASC, name ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]loadstats.Player, 0)
	for rows.Next() {
		var p loadstats.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.ShirtNumber); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return players, nil
}

// pageBounds clamps the requested page so the last page is always full.
func pageBounds(countAll int, params ListParams) (limit, offset int) {
	limit = params.Size
	offset = (params.Page - 1) * params.Size
	if countAll <= limit {
		return countAll, 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}
	return limit, offset
}

func rows2games(rows pgx.Rows) ([]Game, error) {
	games := make([]Game, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var g Game
		if err := json.Unmarshal(doc, &g); err != nil {
			return nil, fmt.Errorf("unmarshal game doc: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// EnsureSchema creates the session tables when they are missing.
func (r *Repo) EnsureSchema(ctx context.Context) (created bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.ensureSchema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.Count(ctx)
	if err == nil {
		return false, nil
	}
	if !pkg.IsUndefinedTableError(err) {
		return false, err
	}
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return false, fmt.Errorf("create schema: %w", err)
	}
	return true, nil
}
