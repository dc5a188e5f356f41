// Package snapshot keeps an offline SQLite copy of exported sessions for the loadreport CLI.
package snapshot

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite"

	"github.com/2beens/loadtrack/internal/sessions"
)

var ErrGameNotFound = errors.New("game not found")

type Store struct {
	db  *sql.DB
	loc *time.Location
}

// Open opens or creates the database at path and applies migrations.
func Open(path string, loc *time.Location) (*Store, error) {
	if loc == nil {
		loc = time.UTC
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer keeps sqlite from reporting busy
	db.SetMaxOpenConns(1)

	store := &Store{db: db, loc: loc}
	if err := store.migrate(); err != nil {
		return nil, multierr.Append(fmt.Errorf("migrate: %w", err), db.Close())
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS game (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			start_at INTEGER NOT NULL,
			finished INTEGER NOT NULL,
			doc TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_start_at ON game(start_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveGames upserts every valid game and returns how many were written.
// Games the analytics could not read are skipped.
func (s *Store) SaveGames(ctx context.Context, games []sessions.Game) (saved int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO game (id, type, start_at, finished, doc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			start_at = excluded.start_at,
			finished = excluded.finished,
			doc = excluded.doc
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, game := range games {
		if game.ID == "" {
			log.Warnf("snapshot, skipping game without id (date %s)", game.Date)
			continue
		}
		session, convErr := game.ToSession(s.loc)
		if convErr != nil {
			log.Warnf("snapshot, skipping game [%s]: %s", game.ID, convErr)
			continue
		}

		doc, err := json.Marshal(game)
		if err != nil {
			return 0, fmt.Errorf("marshal game %s: %w", game.ID, err)
		}
		finished := 0
		if session.Base().Report != nil {
			finished = 1
		}
		if _, err := stmt.ExecContext(ctx,
			game.ID, string(session.Kind()), session.Base().Start.Unix(), finished, string(doc),
		); err != nil {
			return 0, fmt.Errorf("upsert game %s: %w", game.ID, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

// ListGames returns every stored game, oldest first.
func (s *Store) ListGames(ctx context.Context) ([]sessions.Game, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM game ORDER BY start_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	games := make([]sessions.Game, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var game sessions.Game
		if err := json.Unmarshal([]byte(doc), &game); err != nil {
			return nil, fmt.Errorf("unmarshal game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return games, nil
}

func (s *Store) GetGame(ctx context.Context, id string) (*sessions.Game, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM game WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		return nil, fmt.Errorf("query game: %w", err)
	}

	var game sessions.Game
	if err := json.Unmarshal([]byte(doc), &game); err != nil {
		return nil, fmt.Errorf("unmarshal game: %w", err)
	}
	return &game, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

// ReadExport decodes an export, either a bare array of games or an object with a "games" array.
func ReadExport(r io.Reader) ([]sessions.Game, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty export")
	}

	if raw[0] == '[' {
		var games []sessions.Game
		if err := json.Unmarshal(raw, &games); err != nil {
			return nil, fmt.Errorf("unmarshal games: %w", err)
		}
		return games, nil
	}

	var wrapped struct {
		Games []sessions.Game `json:"games"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unmarshal export: %w", err)
	}
	return wrapped.Games, nil
}
