package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
	create table if not exists attributes
	  (
		  beatmap text not null,
		  mods integer not null,
		  version integer not null,
		  attrib_id integer not null,
		  value real not null,
		  primary key (beatmap, mods, version, attrib_id)
	  );
	`

// SQLiteStore keeps attributes as one row per attribute id
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
	}

	// sqlite3 allows a single writer, batch workers share one connection
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create attributes table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key Key) (api.Attributes, error) {
	rows, err := s.db.QueryContext(ctx, "select attrib_id, value from attributes where beatmap = ? and mods = ? and version = ?", key.Beatmap, int64(key.Mods), key.Version)
	if err != nil {
		return api.Attributes{}, fmt.Errorf("failed to query attributes: %w", err)
	}
	defer rows.Close()

	values := make(map[int]float64)

	for rows.Next() {
		var id int
		var value float64

		if err := rows.Scan(&id, &value); err != nil {
			return api.Attributes{}, fmt.Errorf("failed to scan attribute: %w", err)
		}

		values[id] = value
	}

	if err := rows.Err(); err != nil {
		return api.Attributes{}, fmt.Errorf("failed to read attributes: %w", err)
	}

	if len(values) == 0 {
		return api.Attributes{}, ErrNotFound
	}

	return api.FromDatabaseAttributes(values), nil
}

func (s *SQLiteStore) Put(ctx context.Context, key Key, attribs api.Attributes) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, "delete from attributes where beatmap = ? and mods = ? and version = ?", key.Beatmap, int64(key.Mods), key.Version); err != nil {
		return fmt.Errorf("failed to clear old attributes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "insert into attributes(beatmap, mods, version, attrib_id, value) values(?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, value := range api.ToDatabaseAttributes(attribs) {
		if _, err = stmt.ExecContext(ctx, key.Beatmap, int64(key.Mods), key.Version, id, value); err != nil {
			return fmt.Errorf("failed to insert attribute %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit attributes: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
