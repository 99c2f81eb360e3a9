package store

import (
	"context"
	"errors"
	"fmt"
)

// Record is an entity that can be written to a table.
type Record interface {
	Table() string
	Columns() map[string]any
}

// Keyed is a Record with a natural key that identifies it independently of
// its generated id.
type Keyed interface {
	Record
	NaturalKey() map[string]any
}

// RowStore is the subset of Store the gateway needs.
type RowStore interface {
	Select(ctx context.Context, table string, filter Filter, columns ...string) ([]Row, error)
	Insert(ctx context.Context, table string, rec Row) (Row, error)
}

// Ensured is the outcome of an Ensure call.
type Ensured struct {
	ID      string
	Created bool
}

// Gateway performs idempotent writes: a keyed record is looked up by its
// natural key before it is inserted, so repeated runs never duplicate it.
type Gateway struct {
	rows RowStore
}

// NewGateway creates a Gateway over rows.
func NewGateway(rows RowStore) *Gateway {
	return &Gateway{rows: rows}
}

// Ensure returns the id of the row matching e's natural key, inserting e when
// no such row exists. An existing row is returned unchanged.
func (g *Gateway) Ensure(ctx context.Context, e Keyed) (Ensured, error) {
	return g.EnsureRow(ctx, e.Table(), Filter(e.NaturalKey()), Row(e.Columns()))
}

// EnsureRow is Ensure for an untyped payload.
func (g *Gateway) EnsureRow(ctx context.Context, table string, key Filter, payload Row) (Ensured, error) {
	if len(key) == 0 {
		return Ensured{}, fmt.Errorf("ensure %s: empty natural key", table)
	}

	id, err := g.lookup(ctx, table, key)
	if err != nil {
		return Ensured{}, err
	}
	if id != "" {
		return Ensured{ID: id}, nil
	}

	row, err := g.rows.Insert(ctx, table, payload)
	if err == nil {
		return Ensured{ID: row.ID(), Created: true}, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return Ensured{}, err
	}

	// Lost a race with a concurrent writer; the winner's row is ours.
	id, lookupErr := g.lookup(ctx, table, key)
	if lookupErr != nil {
		return Ensured{}, lookupErr
	}
	if id == "" {
		return Ensured{}, err
	}
	return Ensured{ID: id}, nil
}

// Create inserts an append-only record and returns its id.
func (g *Gateway) Create(ctx context.Context, r Record) (string, error) {
	row, err := g.rows.Insert(ctx, r.Table(), Row(r.Columns()))
	if err != nil {
		return "", err
	}
	return row.ID(), nil
}

func (g *Gateway) lookup(ctx context.Context, table string, key Filter) (string, error) {
	rows, err := g.rows.Select(ctx, table, key, "id")
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", table, err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].ID(), nil
}
