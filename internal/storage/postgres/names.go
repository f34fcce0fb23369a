package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/names"
)

// NamePool serves random combatant names from the names table.
type NamePool struct {
	db  *pgxpool.Pool
	src dice.Source
}

// NewNamePool creates a NamePool backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; src must be non-nil.
func NewNamePool(db *pgxpool.Pool, src dice.Source) *NamePool {
	return &NamePool{db: db, src: src}
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
	err = p.db.QueryRow(ctx,
		`SELECT name FROM names ORDER BY id OFFSET $1 LIMIT 1`,
		p.src.Intn(n),
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", names.ErrEmptyPool
	}
	if err != nil {
		return "", fmt.Errorf("selecting name: %w", err)
	}
	return name, nil
}

// Add inserts the capitalized form of each non-blank name, skipping names
// already stored.
//
// Postcondition: Returns the number of rows actually inserted.
func (p *NamePool) Add(ctx context.Context, list ...string) (int, error) {
	batch := &pgx.Batch{}
	for _, n := range list {
		n = names.Capitalize(n)
		if n == "" {
			continue
		}
		batch.Queue(`INSERT INTO names (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, n)
	}
	if batch.Len() == 0 {
		return 0, nil
	}
	br := p.db.SendBatch(ctx, batch)
	defer br.Close()

	added := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			return added, fmt.Errorf("inserting name %d: %w", i+1, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}

// Count returns the number of stored names.
func (p *NamePool) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRow(ctx, `SELECT count(*) FROM names`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting names: %w", err)
	}
	return n, nil
}

var _ names.Store = (*NamePool)(nil)
