// Package sqlite provides a SQLite-backed name pool. The schema matches the
// legacy names.db files, so an existing database can be opened as is.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/names"
)

//go:embed schema.sql
var schema string

// NamePool serves random combatant names from a SQLite file.
type NamePool struct {
	db  *sql.DB
	src dice.Source
}

// Open opens or creates the database at path and ensures the Names table.
//
// Precondition: path must be non-blank; src must be non-nil.
// Postcondition: Returns a ready NamePool or a non-nil error.
func Open(path string, src dice.Source) (*NamePool, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &NamePool{db: db, src: src}, nil
}

// Close closes the database handle.
func (p *NamePool) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Name returns a uniformly chosen stored name.
//
// Postcondition: Returns names.ErrEmptyPool when the table has no rows.
func (p *NamePool) Name(ctx context.Context) (string, error) {
	n, err := p.Count(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", names.ErrEmptyPool
	}
	var name string
	err = p.db.QueryRowContext(ctx,
		`SELECT Name FROM Names ORDER BY Id LIMIT 1 OFFSET ?`,
		p.src.Intn(n),
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", names.ErrEmptyPool
	}
	if err != nil {
		return "", fmt.Errorf("select name: %w", err)
	}
	return name, nil
}

// Add inserts the capitalized form of each non-blank name in one
// transaction. Names already stored are ignored by the table's conflict
// clause.
//
// Postcondition: Returns the number of rows actually inserted.
func (p *NamePool) Add(ctx context.Context, list ...string) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO Names (Name) VALUES (?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, n := range list {
		n = names.Capitalize(n)
		if n == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, n)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", n, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		added += int(rows)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// Count returns the number of stored names.
func (p *NamePool) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM Names`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count names: %w", err)
	}
	return n, nil
}

var _ names.Store = (*NamePool)(nil)
