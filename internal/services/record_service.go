package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/condoverde/recicla/api/internal/database"
	"github.com/condoverde/recicla/api/internal/logger"
	"github.com/condoverde/recicla/api/internal/models"
	"github.com/condoverde/recicla/api/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Service-level errors shared by the record, report and catalog services.
var (
	ErrBuildingNotFound   = errors.New("building not found")
	ErrCategoryNotFound   = errors.New("waste category not found")
	ErrParametersNotFound = errors.New("no calculation parameters configured for this waste category")
	ErrRecordNotFound     = errors.New("collection record not found")
	ErrDuplicateRecord    = errors.New("a collection record already exists for this building, category and collection time")
	ErrInvalidWeight      = errors.New("weight must be non-negative")
)

// CreateRecordInput carries the caller-supplied fields for a new record.
// Emission figures are never part of the input; they are always computed.
type CreateRecordInput struct {
	BuildingID    int64
	CategoryID    int64
	WeightKg      float64
	DisposalCost  *float64
	RecyclingCost *float64
}

// UpdateRecordInput carries a partial update. Nil fields are left untouched.
// Emissions are recomputed only when CategoryID or WeightKg is present.
type UpdateRecordInput struct {
	BuildingID    *int64
	CategoryID    *int64
	WeightKg      *float64
	DisposalCost  *float64
	RecyclingCost *float64
}

// CollectionRecordService orchestrates the lifecycle of collection records:
// it resolves calculation parameters, computes emission figures and persists
// the result, all inside one transaction per operation.
type CollectionRecordService interface {
	// Create validates the referenced building and category, computes the
	// emission figures from the category's parameters and persists the
	// record atomically.
	// Returns ErrBuildingNotFound, ErrCategoryNotFound, ErrParametersNotFound,
	// ErrInvalidWeight or ErrDuplicateRecord for client-correctable failures.
	Create(ctx context.Context, in CreateRecordInput) (*models.CollectionRecord, error)

	// Get fetches a record with its building and category names.
	// Returns ErrRecordNotFound if it does not exist.
	Get(ctx context.Context, id int64) (*repository.RecordWithNames, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, f repository.RecordFilter) ([]repository.RecordWithNames, error)

	// Update applies a partial update. Emission figures are recomputed only
	// when the category or weight changes, using the effective (new-else-stored)
	// values; otherwise the stored figures are left bit-identical.
	// Same error contract as Create, plus ErrRecordNotFound.
	Update(ctx context.Context, id int64, in UpdateRecordInput) (*models.CollectionRecord, error)

	// Delete removes a record. Returns ErrRecordNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
}

type collectionRecordService struct {
	tx         database.TxRunner
	records    repository.CollectionRecordRepository
	buildings  repository.BuildingRepository
	categories repository.WasteCategoryRepository
	params     repository.ParameterRepository
	log        *logger.Logger
}

// NewCollectionRecordService creates a new instance of CollectionRecordService.
func NewCollectionRecordService(
	tx database.TxRunner,
	records repository.CollectionRecordRepository,
	buildings repository.BuildingRepository,
	categories repository.WasteCategoryRepository,
	params repository.ParameterRepository,
	log *logger.Logger,
) CollectionRecordService {
	return &collectionRecordService{
		tx:         tx,
		records:    records,
		buildings:  buildings,
		categories: categories,
		params:     params,
		log:        log,
	}
}

func (s *collectionRecordService) Create(ctx context.Context, in CreateRecordInput) (*models.CollectionRecord, error) {
	if in.WeightKg < 0 {
		s.log.Warn("Rejected negative weight", map[string]interface{}{
			"building_id": in.BuildingID,
			"category_id": in.CategoryID,
			"weight_kg":   in.WeightKg,
		})
		return nil, ErrInvalidWeight
	}

	var rec *models.CollectionRecord

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		building, err := s.buildings.WithTx(tx).GetByID(ctx, in.BuildingID)
		if err != nil {
			return fmt.Errorf("failed to resolve building: %w", err)
		}
		if building == nil {
			return ErrBuildingNotFound
		}

		category, err := s.categories.WithTx(tx).GetByID(ctx, in.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to resolve waste category: %w", err)
		}
		if category == nil {
			return ErrCategoryNotFound
		}

		params, err := s.params.WithTx(tx).GetByCategory(ctx, in.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to resolve calculation parameters: %w", err)
		}
		if params == nil {
			return ErrParametersNotFound
		}

		result := ComputeEmissions(in.WeightKg, params.EmissionFactor, params.RecyclingEfficiency)

		rec = &models.CollectionRecord{
			BuildingID:          in.BuildingID,
			CategoryID:          in.CategoryID,
			WeightKg:            in.WeightKg,
			CollectedAt:         time.Now().UTC(),
			CurrentEmissionKg:   result.CurrentKg,
			RecyclingEmissionKg: result.RecyclingKg,
			CarbonSavingsKg:     result.SavingsKg,
			DisposalCost:        in.DisposalCost,
			RecyclingCost:       in.RecyclingCost,
		}

		if err := s.records.WithTx(tx).Insert(ctx, rec); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrDuplicateRecord
			}
			return fmt.Errorf("failed to persist collection record: %w", err)
		}
		return nil
	})
	if err != nil {
		if isClientError(err) {
			s.log.Warn("Collection record create rejected", map[string]interface{}{
				"building_id": in.BuildingID,
				"category_id": in.CategoryID,
				"reason":      err.Error(),
			})
		} else {
			s.log.Error("Failed to create collection record", err, map[string]interface{}{
				"building_id": in.BuildingID,
				"category_id": in.CategoryID,
			})
		}
		return nil, err
	}

	s.log.Info("Collection record created", map[string]interface{}{
		"record_id":         rec.ID,
		"building_id":       rec.BuildingID,
		"category_id":       rec.CategoryID,
		"weight_kg":         rec.WeightKg,
		"carbon_savings_kg": rec.CarbonSavingsKg,
	})

	return rec, nil
}

func (s *collectionRecordService) Get(ctx context.Context, id int64) (*repository.RecordWithNames, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to fetch collection record", err, map[string]interface{}{
			"record_id": id,
		})
		return nil, fmt.Errorf("failed to fetch collection record: %w", err)
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (s *collectionRecordService) List(ctx context.Context, f repository.RecordFilter) ([]repository.RecordWithNames, error) {
	records, err := s.records.List(ctx, f)
	if err != nil {
		s.log.Error("Failed to list collection records", err, nil)
		return nil, fmt.Errorf("failed to list collection records: %w", err)
	}
	return records, nil
}

func (s *collectionRecordService) Update(ctx context.Context, id int64, in UpdateRecordInput) (*models.CollectionRecord, error) {
	if in.WeightKg != nil && *in.WeightKg < 0 {
		return nil, ErrInvalidWeight
	}

	var rec *models.CollectionRecord

	err := s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		records := s.records.WithTx(tx)

		existing, err := records.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load collection record: %w", err)
		}
		if existing == nil {
			return ErrRecordNotFound
		}

		if in.BuildingID != nil && *in.BuildingID != existing.BuildingID {
			building, err := s.buildings.WithTx(tx).GetByID(ctx, *in.BuildingID)
			if err != nil {
				return fmt.Errorf("failed to resolve building: %w", err)
			}
			if building == nil {
				return ErrBuildingNotFound
			}
			existing.BuildingID = *in.BuildingID
		}

		// Recalculation is triggered only when the payload names the
		// category or the weight; otherwise the stored emission figures
		// stay untouched.
		recompute := in.CategoryID != nil || in.WeightKg != nil

		if in.CategoryID != nil && *in.CategoryID != existing.CategoryID {
			category, err := s.categories.WithTx(tx).GetByID(ctx, *in.CategoryID)
			if err != nil {
				return fmt.Errorf("failed to resolve waste category: %w", err)
			}
			if category == nil {
				return ErrCategoryNotFound
			}
			existing.CategoryID = *in.CategoryID
		}
		if in.WeightKg != nil {
			existing.WeightKg = *in.WeightKg
		}
		if in.DisposalCost != nil {
			existing.DisposalCost = in.DisposalCost
		}
		if in.RecyclingCost != nil {
			existing.RecyclingCost = in.RecyclingCost
		}

		if recompute {
			params, err := s.params.WithTx(tx).GetByCategory(ctx, existing.CategoryID)
			if err != nil {
				return fmt.Errorf("failed to resolve calculation parameters: %w", err)
			}
			if params == nil {
				return ErrParametersNotFound
			}

			result := ComputeEmissions(existing.WeightKg, params.EmissionFactor, params.RecyclingEfficiency)
			existing.CurrentEmissionKg = result.CurrentKg
			existing.RecyclingEmissionKg = result.RecyclingKg
		}

		// The derived delta is re-established on every save, whichever
		// path produced the emission figures.
		existing.CarbonSavingsKg = existing.CurrentEmissionKg - existing.RecyclingEmissionKg

		found, err := records.Update(ctx, existing)
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrDuplicateRecord
			}
			return fmt.Errorf("failed to persist collection record: %w", err)
		}
		if !found {
			return ErrRecordNotFound
		}

		rec = existing
		return nil
	})
	if err != nil {
		if isClientError(err) {
			s.log.Warn("Collection record update rejected", map[string]interface{}{
				"record_id": id,
				"reason":    err.Error(),
			})
		} else {
			s.log.Error("Failed to update collection record", err, map[string]interface{}{
				"record_id": id,
			})
		}
		return nil, err
	}

	s.log.Info("Collection record updated", map[string]interface{}{
		"record_id":         rec.ID,
		"building_id":       rec.BuildingID,
		"category_id":       rec.CategoryID,
		"weight_kg":         rec.WeightKg,
		"carbon_savings_kg": rec.CarbonSavingsKg,
	})

	return rec, nil
}

func (s *collectionRecordService) Delete(ctx context.Context, id int64) error {
	found, err := s.records.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete collection record", err, map[string]interface{}{
			"record_id": id,
		})
		return fmt.Errorf("failed to delete collection record: %w", err)
	}
	if !found {
		return ErrRecordNotFound
	}

	s.log.Info("Collection record deleted", map[string]interface{}{
		"record_id": id,
	})
	return nil
}

// isClientError reports whether err maps to a 4xx response rather than an
// internal fault.
func isClientError(err error) bool {
	return errors.Is(err, ErrBuildingNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrParametersNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrDuplicateRecord) ||
		errors.Is(err, ErrInvalidWeight)
}
