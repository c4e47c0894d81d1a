package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// SQLiteSettings configures the SQLite store.
type SQLiteSettings struct {
	Path          string `mapstructure:"path" default:"tunedeck.db" validate:"required"`
	BusyTimeoutMs int    `mapstructure:"busy_timeout_ms" default:"5000" validate:"gte=0"`
}

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	position    INTEGER NOT NULL,
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	artist      TEXT NOT NULL,
	location    TEXT NOT NULL,
	added_at    TEXT NOT NULL,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	last_played TEXT,
	play_count  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_tracks_position ON tracks(position);
`

// SQLiteStore keeps records in a SQLite table ordered by position.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database.
func OpenSQLite(cfg SQLiteSettings) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", cfg.Path, cfg.BusyTimeoutMs)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Load returns all rows ordered by position.
func (s *SQLiteStore) Load(ctx context.Context) ([]track.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, artist, location, added_at, is_favorite, last_played, play_count
		FROM tracks ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tracks")
	}
	defer rows.Close()

	records := make([]track.Record, 0)
	for rows.Next() {
		var (
			r          track.Record
			lastPlayed sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Artist, &r.Location, &r.AddedAt,
			&r.IsFavorite, &lastPlayed, &r.PlayCount); err != nil {
			return nil, errors.Wrap(err, "failed to scan track")
		}
		if lastPlayed.Valid {
			s := lastPlayed.String
			r.LastPlayed = &s
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate tracks")
	}
	return records, nil
}

// Save replaces every row in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []track.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tracks`); err != nil {
		return errors.Wrap(err, "failed to clear tracks")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracks (position, id, title, artist, location, added_at, is_favorite, last_played, play_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for i, r := range records {
		location := r.Location
		if location == "" {
			location = r.FilePath
		}
		var lastPlayed any
		if r.LastPlayed != nil {
			lastPlayed = *r.LastPlayed
		}
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Title, r.Artist, location, r.AddedAt,
			r.IsFavorite, lastPlayed, r.PlayCount); err != nil {
			return errors.Wrapf(err, "failed to insert track %s", r.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit")
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
