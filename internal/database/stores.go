// internal/database/stores.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/matchcards/internal/models"
	"github.com/jason-s-yu/matchcards/internal/theme"
)

// ThemeStore is a theme.BlobStore backed by the themes table.
type ThemeStore struct {
	db DBTX
}

// NewThemeStore wraps a pool or transaction.
func NewThemeStore(db DBTX) *ThemeStore {
	return &ThemeStore{db: db}
}

const getThemesSQL = `SELECT payload FROM themes WHERE storage_key = $1`

const upsertThemesSQL = `
INSERT INTO themes (storage_key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (storage_key) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

// Get implements theme.BlobStore.
func (s *ThemeStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, getThemesSQL, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, theme.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select themes %q: %w", key, err)
	}
	return payload, nil
}

// Set implements theme.BlobStore.
func (s *ThemeStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.Exec(ctx, upsertThemesSQL, key, value); err != nil {
		return fmt.Errorf("upsert themes %q: %w", key, err)
	}
	return nil
}

var _ theme.BlobStore = (*ThemeStore)(nil)

// ResultStore persists finished games.
type ResultStore struct {
	db DBTX
}

// NewResultStore wraps a pool or transaction.
func NewResultStore(db DBTX) *ResultStore {
	return &ResultStore{db: db}
}

const insertResultSQL = `
INSERT INTO game_results (game_id, kind, theme_name, score, sets_found, moves, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (game_id) DO NOTHING`

// RecordResult inserts r; a second result for the same game is ignored.
func (s *ResultStore) RecordResult(ctx context.Context, r models.GameResult) error {
	_, err := s.db.Exec(ctx, insertResultSQL,
		r.GameID, string(r.Kind), r.ThemeName, r.Score, r.SetsFound, r.Moves, r.StartedAt, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert game result %s: %w", r.GameID, err)
	}
	return nil
}

const recentResultsSQL = `
SELECT game_id, kind, theme_name, score, sets_found, moves, started_at, finished_at
FROM game_results
WHERE kind = $1
ORDER BY finished_at DESC
LIMIT $2`

// RecentResults returns the latest limit results of one kind, newest first.
func (s *ResultStore) RecentResults(ctx context.Context, kind models.GameKind, limit int) ([]models.GameResult, error) {
	rows, err := s.db.Query(ctx, recentResultsSQL, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	defer rows.Close()

	var out []models.GameResult
	for rows.Next() {
		var r models.GameResult
		var k string
		if err := rows.Scan(&r.GameID, &k, &r.ThemeName, &r.Score, &r.SetsFound, &r.Moves, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Kind = models.GameKind(k)
		out = append(out, r)
	}
	return out, rows.Err()
}
