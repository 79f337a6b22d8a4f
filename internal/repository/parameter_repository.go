package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/condoverde/recicla/api/internal/models"
	"github.com/jackc/pgx/v5"
)

// ParameterRepository defines the interface for calculation parameter lookups.
//
// Lookups are memoized in an in-process cache because parameters are reference
// data read on every record create/update. Any write for a category drops its
// cache entry so stale values are never served.
type ParameterRepository interface {
	// GetByCategory fetches the calculation parameters for a waste category.
	// Returns nil, nil if the category has no configured parameters.
	GetByCategory(ctx context.Context, categoryID int64) (*models.CalculationParameters, error)

	// Upsert creates or replaces the parameters for a category.
	Upsert(ctx context.Context, p *models.CalculationParameters) error

	// Delete removes the parameters for a category.
	// Returns false, nil when none were configured.
	Delete(ctx context.Context, categoryID int64) (bool, error)

	// Invalidate drops the cached entry for a category.
	Invalidate(categoryID int64)

	// WithTx returns a copy of the repository bound to the given transaction.
	// The cache is shared with the parent repository.
	WithTx(tx pgx.Tx) ParameterRepository
}

type parameterCache struct {
	mu         sync.RWMutex
	byCategory map[int64]models.CalculationParameters
}

func (c *parameterCache) get(categoryID int64) (models.CalculationParameters, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byCategory[categoryID]
	return p, ok
}

func (c *parameterCache) put(p models.CalculationParameters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byCategory[p.CategoryID] = p
}

func (c *parameterCache) drop(categoryID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byCategory, categoryID)
}

type parameterRepository struct {
	db    DBTX
	cache *parameterCache
	inTx  bool
}

// NewParameterRepository creates a new instance of ParameterRepository.
func NewParameterRepository(db DBTX) ParameterRepository {
	return &parameterRepository{
		db:    db,
		cache: &parameterCache{byCategory: make(map[int64]models.CalculationParameters)},
	}
}

func (r *parameterRepository) WithTx(tx pgx.Tx) ParameterRepository {
	return &parameterRepository{db: tx, cache: r.cache, inTx: true}
}

func (r *parameterRepository) GetByCategory(ctx context.Context, categoryID int64) (*models.CalculationParameters, error) {
	// Transactional reads go straight to the database so they see the
	// transaction's own view; caching an uncommitted value would leak it
	// to other requests if the transaction rolls back.
	if !r.inTx {
		if p, ok := r.cache.get(categoryID); ok {
			return &p, nil
		}
	}

	query := `
		SELECT category_id, emission_factor, recycling_efficiency, updated_at
		FROM calculation_parameters
		WHERE category_id = $1
	`

	var p models.CalculationParameters
	err := r.db.QueryRow(ctx, query, categoryID).
		Scan(&p.CategoryID, &p.EmissionFactor, &p.RecyclingEfficiency, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query parameters for category %d: %w", categoryID, err)
	}

	if !r.inTx {
		r.cache.put(p)
	}
	return &p, nil
}

func (r *parameterRepository) Upsert(ctx context.Context, p *models.CalculationParameters) error {
	query := `
		INSERT INTO calculation_parameters (category_id, emission_factor, recycling_efficiency, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (category_id) DO UPDATE
		SET emission_factor = EXCLUDED.emission_factor,
		    recycling_efficiency = EXCLUDED.recycling_efficiency,
		    updated_at = NOW()
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query, p.CategoryID, p.EmissionFactor, p.RecyclingEfficiency).
		Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert parameters for category %d: %w", p.CategoryID, err)
	}

	r.cache.drop(p.CategoryID)
	return nil
}

func (r *parameterRepository) Delete(ctx context.Context, categoryID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM calculation_parameters WHERE category_id = $1`, categoryID)
	if err != nil {
		return false, fmt.Errorf("failed to delete parameters for category %d: %w", categoryID, err)
	}

	r.cache.drop(categoryID)
	return tag.RowsAffected() > 0, nil
}

func (r *parameterRepository) Invalidate(categoryID int64) {
	r.cache.drop(categoryID)
}
