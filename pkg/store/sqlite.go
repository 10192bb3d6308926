package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formlayout/pkg/document"
	"github.com/goliatone/go-formlayout/pkg/model"
)

const schema = `CREATE TABLE IF NOT EXISTS layouts (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	document   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite stores layouts in a SQLite database file. Each layout is kept as its
// JSON interchange document.
type SQLite struct {
	db   *sql.DB
	opts options
}

// OpenSQLite opens (or creates) the database at dsn and prepares the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, dsn string, opts ...Option) (*SQLite, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("store: sqlite dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	s := &SQLite{db: db, opts: buildOptions(opts)}
	s.opts.logger.Debug("sqlite store opened", "dsn", dsn)
	return s, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Add implements Store.
func (s *SQLite) Add(ctx context.Context, name string, t model.Table) (Layout, error) {
	layout := Layout{
		ID:        s.opts.ids(IDPrefix),
		Name:      NormalizeName(name),
		Table:     model.CloneTable(t),
		UpdatedAt: s.opts.now().UTC(),
	}
	payload, err := encodeTable(layout.Table)
	if err != nil {
		return Layout{}, fmt.Errorf("store: add: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO layouts (id, name, document, updated_at) VALUES (?, ?, ?, ?)`,
		layout.ID, layout.Name, payload, layout.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return Layout{}, fmt.Errorf("store: add: %w", err)
	}
	s.opts.logger.Debug("layout added", "id", layout.ID, "name", layout.Name)
	return layout, nil
}

// Update implements Store.
func (s *SQLite) Update(ctx context.Context, id string, t model.Table, name string) (Layout, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Layout{}, fmt.Errorf("store: update: %w", err)
	}
	existing.Table = model.CloneTable(t)
	if strings.TrimSpace(name) != "" {
		existing.Name = NormalizeName(name)
	}
	existing.UpdatedAt = s.opts.now().UTC()
	payload, err := encodeTable(existing.Table)
	if err != nil {
		return Layout{}, fmt.Errorf("store: update: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE layouts SET name = ?, document = ?, updated_at = ? WHERE id = ?`,
		existing.Name, payload, existing.UpdatedAt.UnixMilli(), id,
	)
	if err != nil {
		return Layout{}, fmt.Errorf("store: update: %w", err)
	}
	return existing, nil
}

// Remove implements Store.
func (s *SQLite) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: remove: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: remove: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: remove %s: %w", id, ErrNotFound)
	}
	s.opts.logger.Debug("layout removed", "id", id)
	return nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, id string) (Layout, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, document, updated_at FROM layouts WHERE id = ?`, id)
	layout, err := scanLayout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Layout{}, fmt.Errorf("store: get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return layout, nil
}

// List implements Store.
func (s *SQLite) List(ctx context.Context) ([]Layout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, document, updated_at FROM layouts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []Layout
	for rows.Next() {
		layout, err := scanLayout(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		out = append(out, layout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLayout(row scanner) (Layout, error) {
	var (
		layout  Layout
		payload string
		updated int64
	)
	if err := row.Scan(&layout.ID, &layout.Name, &payload, &updated); err != nil {
		return Layout{}, err
	}
	table, err := document.Decode([]byte(payload), document.FormatJSON)
	if err != nil {
		return Layout{}, err
	}
	layout.Table = table
	layout.UpdatedAt = time.UnixMilli(updated).UTC()
	return layout, nil
}

func encodeTable(t model.Table) (string, error) {
	data, err := document.Encode(t, document.FormatJSON)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
