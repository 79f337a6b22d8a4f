package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/condoverde/recicla/api/internal/models"
	"github.com/jackc/pgx/v5"
)

// RecordWithNames is a collection record joined with its building and
// category names for presentation.
type RecordWithNames struct {
	models.CollectionRecord
	BuildingName string `json:"building_name"`
	CategoryName string `json:"category_name"`
}

// RecordFilter narrows record listings. All fields are optional; the date
// bounds are inclusive on collected_at.
type RecordFilter struct {
	BuildingID *int64
	Start      *time.Time
	End        *time.Time
}

// CollectionRecordRepository defines the interface for collection record data access.
type CollectionRecordRepository interface {
	// GetByID fetches a record with its related names. Returns nil, nil if not found.
	GetByID(ctx context.Context, id int64) (*RecordWithNames, error)

	// GetByIDForUpdate fetches a bare record and locks its row for the
	// duration of the enclosing transaction. Returns nil, nil if not found.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.CollectionRecord, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, f RecordFilter) ([]RecordWithNames, error)

	// Insert persists a new record and fills in its generated fields.
	Insert(ctx context.Context, rec *models.CollectionRecord) error

	// Update rewrites a record's mutable fields.
	// Returns false, nil when the record does not exist.
	Update(ctx context.Context, rec *models.CollectionRecord) (bool, error)

	// Delete removes a record. Returns false, nil when it does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx pgx.Tx) CollectionRecordRepository
}

type collectionRecordRepository struct {
	db DBTX
}

// NewCollectionRecordRepository creates a new instance of CollectionRecordRepository.
func NewCollectionRecordRepository(db DBTX) CollectionRecordRepository {
	return &collectionRecordRepository{db: db}
}

func (r *collectionRecordRepository) WithTx(tx pgx.Tx) CollectionRecordRepository {
	return &collectionRecordRepository{db: tx}
}

const recordJoinedColumns = `
	cr.id, cr.building_id, cr.category_id, cr.weight_kg, cr.collected_at,
	cr.current_emission_kg, cr.recycling_emission_kg, cr.carbon_savings_kg,
	cr.disposal_cost, cr.recycling_cost, cr.created_at, cr.updated_at,
	b.name AS building_name, wc.name AS category_name`

const recordJoins = `
	FROM collection_records cr
	JOIN buildings b ON b.id = cr.building_id
	JOIN waste_categories wc ON wc.id = cr.category_id`

func scanRecordWithNames(row pgx.Row) (*RecordWithNames, error) {
	var rec RecordWithNames
	err := row.Scan(
		&rec.ID,
		&rec.BuildingID,
		&rec.CategoryID,
		&rec.WeightKg,
		&rec.CollectedAt,
		&rec.CurrentEmissionKg,
		&rec.RecyclingEmissionKg,
		&rec.CarbonSavingsKg,
		&rec.DisposalCost,
		&rec.RecyclingCost,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.BuildingName,
		&rec.CategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *collectionRecordRepository) GetByID(ctx context.Context, id int64) (*RecordWithNames, error) {
	query := `SELECT` + recordJoinedColumns + recordJoins + ` WHERE cr.id = $1`

	rec, err := scanRecordWithNames(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to query collection record %d: %w", id, err)
	}
	return rec, nil
}

func (r *collectionRecordRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.CollectionRecord, error) {
	query := `
		SELECT id, building_id, category_id, weight_kg, collected_at,
		       current_emission_kg, recycling_emission_kg, carbon_savings_kg,
		       disposal_cost, recycling_cost, created_at, updated_at
		FROM collection_records
		WHERE id = $1
		FOR UPDATE
	`

	var rec models.CollectionRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.BuildingID,
		&rec.CategoryID,
		&rec.WeightKg,
		&rec.CollectedAt,
		&rec.CurrentEmissionKg,
		&rec.RecyclingEmissionKg,
		&rec.CarbonSavingsKg,
		&rec.DisposalCost,
		&rec.RecyclingCost,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock collection record %d: %w", id, err)
	}
	return &rec, nil
}

func (r *collectionRecordRepository) List(ctx context.Context, f RecordFilter) ([]RecordWithNames, error) {
	query := `SELECT` + recordJoinedColumns + recordJoins + ` WHERE 1=1`
	args := []any{}

	if f.BuildingID != nil {
		args = append(args, *f.BuildingID)
		query += fmt.Sprintf(" AND cr.building_id = $%d", len(args))
	}
	if f.Start != nil {
		args = append(args, *f.Start)
		query += fmt.Sprintf(" AND cr.collected_at >= $%d", len(args))
	}
	if f.End != nil {
		args = append(args, *f.End)
		query += fmt.Sprintf(" AND cr.collected_at <= $%d", len(args))
	}

	query += " ORDER BY cr.collected_at DESC, cr.id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection records: %w", err)
	}
	defer rows.Close()

	records := []RecordWithNames{}
	for rows.Next() {
		var rec RecordWithNames
		err := rows.Scan(
			&rec.ID,
			&rec.BuildingID,
			&rec.CategoryID,
			&rec.WeightKg,
			&rec.CollectedAt,
			&rec.CurrentEmissionKg,
			&rec.RecyclingEmissionKg,
			&rec.CarbonSavingsKg,
			&rec.DisposalCost,
			&rec.RecyclingCost,
			&rec.CreatedAt,
			&rec.UpdatedAt,
			&rec.BuildingName,
			&rec.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection record rows: %w", err)
	}

	return records, nil
}

func (r *collectionRecordRepository) Insert(ctx context.Context, rec *models.CollectionRecord) error {
	query := `
		INSERT INTO collection_records (
			building_id, category_id, weight_kg, collected_at,
			current_emission_kg, recycling_emission_kg, carbon_savings_kg,
			disposal_cost, recycling_cost, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rec.BuildingID,
		rec.CategoryID,
		rec.WeightKg,
		rec.CollectedAt,
		rec.CurrentEmissionKg,
		rec.RecyclingEmissionKg,
		rec.CarbonSavingsKg,
		rec.DisposalCost,
		rec.RecyclingCost,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert collection record: %w", err)
	}
	return nil
}

func (r *collectionRecordRepository) Update(ctx context.Context, rec *models.CollectionRecord) (bool, error) {
	query := `
		UPDATE collection_records
		SET building_id = $1, category_id = $2, weight_kg = $3,
		    current_emission_kg = $4, recycling_emission_kg = $5, carbon_savings_kg = $6,
		    disposal_cost = $7, recycling_cost = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rec.BuildingID,
		rec.CategoryID,
		rec.WeightKg,
		rec.CurrentEmissionKg,
		rec.RecyclingEmissionKg,
		rec.CarbonSavingsKg,
		rec.DisposalCost,
		rec.RecyclingCost,
		rec.ID,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update collection record %d: %w", rec.ID, err)
	}
	return true, nil
}

func (r *collectionRecordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM collection_records WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete collection record %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
