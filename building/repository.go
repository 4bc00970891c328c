package building

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested building does not exist.
var ErrNotFound = errors.New("building: not found")

// Repository provides read access to the building directory.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List fetches all buildings ordered by name ascending.
func (r *Repository) List(ctx context.Context) ([]Building, error) {
	const query = `
		SELECT id, name, address, created_at
		FROM buildings
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("building: list: %w", err)
	}
	defer rows.Close()

	buildings := make([]Building, 0, 8)
	for rows.Next() {
		var b Building
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("building: scan: %w", err)
		}
		buildings = append(buildings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("building: iterate: %w", err)
	}

	return buildings, nil
}

// GetByID fetches a single building by its primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (Building, error) {
	const query = `
		SELECT id, name, address, created_at
		FROM buildings
		WHERE id = $1
	`

	var b Building
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Address, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Building{}, ErrNotFound
		}
		return Building{}, fmt.Errorf("building: query by id: %w", err)
	}

	return b, nil
}
