// Package storage opens the name backend selected by configuration.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/rpjamma/internal/config"
	"github.com/cory-johannsen/rpjamma/internal/game/dice"
	"github.com/cory-johannsen/rpjamma/internal/names"
	"github.com/cory-johannsen/rpjamma/internal/storage/postgres"
	"github.com/cory-johannsen/rpjamma/internal/storage/sqlite"
)

// ErrNotWritable is returned by Store for backends that cannot be filled.
var ErrNotWritable = errors.New("storage: static name backend is read-only")

// Names is an opened name backend.
type Names struct {
	// Backend is the configured backend name.
	Backend  string
	provider names.Provider
	store    names.Store
	close    func()
}

// Provider returns the name source for combatant generation.
func (n *Names) Provider() names.Provider { return n.provider }

// Store returns the writable store, or ErrNotWritable for the static backend.
func (n *Names) Store() (names.Store, error) {
	if n.store == nil {
		return nil, ErrNotWritable
	}
	return n.store, nil
}

// Close releases the backend's connections.
func (n *Names) Close() {
	if n.close != nil {
		n.close()
	}
}

// OpenNames opens the backend named by cfg.Names.Backend.
//
// Precondition: cfg has passed Validate; src must be non-nil.
// Postcondition: on nil error the caller owns the returned Names and must Close it.
func OpenNames(ctx context.Context, cfg config.Config, src dice.Source) (*Names, error) {
	switch cfg.Names.Backend {
	case config.BackendStatic, "":
		return &Names{Backend: config.BackendStatic, provider: names.NewStaticPool(src)}, nil

	case config.BackendSQLite:
		pool, err := sqlite.Open(cfg.Names.SQLitePath, src)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite names: %w", err)
		}
		return &Names{
			Backend:  config.BackendSQLite,
			provider: pool,
			store:    pool,
			close:    func() { _ = pool.Close() },
		}, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("opening postgres names: %w", err)
		}
		if err := pool.SchemaReady(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("opening postgres names: %w", err)
		}
		np := postgres.NewNamePool(pool.DB(), src)
		return &Names{
			Backend:  config.BackendPostgres,
			provider: np,
			store:    np,
			close:    pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown names backend %q", cfg.Names.Backend)
	}
}
