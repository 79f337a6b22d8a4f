package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/condoverde/recicla/api/internal/models"
	"github.com/jackc/pgx/v5"
)

// BuildingRepository defines the interface for building data access operations.
type BuildingRepository interface {
	// GetByID fetches a building by ID.
	// Returns nil, nil if no building is found (not an error).
	GetByID(ctx context.Context, id int64) (*models.Building, error)

	// First returns the building with the lowest ID, or nil, nil when no
	// buildings exist. Used by the report fallback when no building is given.
	First(ctx context.Context) (*models.Building, error)

	// List returns all buildings ordered by name.
	List(ctx context.Context) ([]models.Building, error)

	// Create inserts a new building and fills in its generated fields.
	Create(ctx context.Context, b *models.Building) error

	// Update rewrites a building's mutable fields.
	// Returns false, nil when the building does not exist.
	Update(ctx context.Context, b *models.Building) (bool, error)

	// Delete removes a building. Returns false, nil when it does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx pgx.Tx) BuildingRepository
}

type buildingRepository struct {
	db DBTX
}

// NewBuildingRepository creates a new instance of BuildingRepository.
func NewBuildingRepository(db DBTX) BuildingRepository {
	return &buildingRepository{db: db}
}

func (r *buildingRepository) WithTx(tx pgx.Tx) BuildingRepository {
	return &buildingRepository{db: tx}
}

const buildingColumns = `id, name, address, unit_count, created_at, updated_at`

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.UnitCount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *buildingRepository) GetByID(ctx context.Context, id int64) (*models.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE id = $1`

	b, err := scanBuilding(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to query building %d: %w", id, err)
	}
	return b, nil
}

func (r *buildingRepository) First(ctx context.Context) (*models.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings ORDER BY id LIMIT 1`

	b, err := scanBuilding(r.db.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("failed to query first building: %w", err)
	}
	return b, nil
}

func (r *buildingRepository) List(ctx context.Context) ([]models.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings ORDER BY name, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query buildings: %w", err)
	}
	defer rows.Close()

	buildings := []models.Building{}
	for rows.Next() {
		var b models.Building
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.UnitCount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan building row: %w", err)
		}
		buildings = append(buildings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating building rows: %w", err)
	}

	return buildings, nil
}

func (r *buildingRepository) Create(ctx context.Context, b *models.Building) error {
	query := `
		INSERT INTO buildings (name, address, unit_count, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, b.Name, b.Address, b.UnitCount).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert building: %w", err)
	}
	return nil
}

func (r *buildingRepository) Update(ctx context.Context, b *models.Building) (bool, error) {
	query := `
		UPDATE buildings
		SET name = $1, address = $2, unit_count = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query, b.Name, b.Address, b.UnitCount, b.ID).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update building %d: %w", b.ID, err)
	}
	return true, nil
}

func (r *buildingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete building %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
