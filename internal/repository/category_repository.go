package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/condoverde/recicla/api/internal/models"
	"github.com/jackc/pgx/v5"
)

// WasteCategoryRepository defines the interface for waste category data access.
type WasteCategoryRepository interface {
	// GetByID fetches a category by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id int64) (*models.WasteCategory, error)

	// GetByName fetches a category by its unique name. Returns nil, nil if not found.
	GetByName(ctx context.Context, name string) (*models.WasteCategory, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]models.WasteCategory, error)

	// Create inserts a new category and fills in its generated fields.
	Create(ctx context.Context, cat *models.WasteCategory) error

	// Update rewrites a category's mutable fields.
	// Returns false, nil when the category does not exist.
	Update(ctx context.Context, cat *models.WasteCategory) (bool, error)

	// Delete removes a category. Returns false, nil when it does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx pgx.Tx) WasteCategoryRepository
}

type wasteCategoryRepository struct {
	db DBTX
}

// NewWasteCategoryRepository creates a new instance of WasteCategoryRepository.
func NewWasteCategoryRepository(db DBTX) WasteCategoryRepository {
	return &wasteCategoryRepository{db: db}
}

func (r *wasteCategoryRepository) WithTx(tx pgx.Tx) WasteCategoryRepository {
	return &wasteCategoryRepository{db: tx}
}

const categoryColumns = `id, name, description, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.WasteCategory, error) {
	var cat models.WasteCategory
	err := row.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *wasteCategoryRepository) GetByID(ctx context.Context, id int64) (*models.WasteCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM waste_categories WHERE id = $1`

	cat, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to query waste category %d: %w", id, err)
	}
	return cat, nil
}

func (r *wasteCategoryRepository) GetByName(ctx context.Context, name string) (*models.WasteCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM waste_categories WHERE name = $1`

	cat, err := scanCategory(r.db.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to query waste category %q: %w", name, err)
	}
	return cat, nil
}

func (r *wasteCategoryRepository) List(ctx context.Context) ([]models.WasteCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM waste_categories ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query waste categories: %w", err)
	}
	defer rows.Close()

	categories := []models.WasteCategory{}
	for rows.Next() {
		var cat models.WasteCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waste category row: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waste category rows: %w", err)
	}

	return categories, nil
}

func (r *wasteCategoryRepository) Create(ctx context.Context, cat *models.WasteCategory) error {
	query := `
		INSERT INTO waste_categories (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, cat.Name, cat.Description).
		Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert waste category: %w", err)
	}
	return nil
}

func (r *wasteCategoryRepository) Update(ctx context.Context, cat *models.WasteCategory) (bool, error) {
	query := `
		UPDATE waste_categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query, cat.Name, cat.Description, cat.ID).Scan(&cat.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update waste category %d: %w", cat.ID, err)
	}
	return true, nil
}

func (r *wasteCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM waste_categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete waste category %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
