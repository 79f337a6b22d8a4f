package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/condoverde/recicla/api/internal/logger"
	"github.com/condoverde/recicla/api/internal/models"
	"github.com/condoverde/recicla/api/internal/repository"
)

// Catalog-specific errors.
var (
	ErrInvalidUnitCount      = errors.New("unit count must be at least 1")
	ErrDuplicateCategory     = errors.New("a waste category with this name already exists")
	ErrInvalidEmissionFactor = errors.New("emission factor must be non-negative")
	ErrInvalidEfficiency     = errors.New("recycling efficiency must be between 0 and 100")
	ErrReferencedEntity      = errors.New("entity is referenced by existing collection records")
)

// BuildingInput carries the caller-supplied fields for a building.
type BuildingInput struct {
	Name      string
	Address   string
	UnitCount int
}

// CategoryInput carries the caller-supplied fields for a waste category.
type CategoryInput struct {
	Name        string
	Description *string
}

// ParametersInput carries the caller-supplied calculation parameters.
// Range validation happens here, on the configuration path; the calculator
// itself accepts whatever it is given.
type ParametersInput struct {
	EmissionFactor      float64
	RecyclingEfficiency float64
}

// CatalogService manages the reference data the calculation depends on:
// buildings, waste categories and their calculation parameters.
type CatalogService interface {
	CreateBuilding(ctx context.Context, in BuildingInput) (*models.Building, error)
	GetBuilding(ctx context.Context, id int64) (*models.Building, error)
	ListBuildings(ctx context.Context) ([]models.Building, error)
	UpdateBuilding(ctx context.Context, id int64, in BuildingInput) (*models.Building, error)
	DeleteBuilding(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, in CategoryInput) (*models.WasteCategory, error)
	GetCategory(ctx context.Context, id int64) (*models.WasteCategory, error)
	ListCategories(ctx context.Context) ([]models.WasteCategory, error)
	UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*models.WasteCategory, error)
	DeleteCategory(ctx context.Context, id int64) error

	// GetParameters returns ErrParametersNotFound when the category exists
	// but has no configured parameters.
	GetParameters(ctx context.Context, categoryID int64) (*models.CalculationParameters, error)
	// PutParameters creates or replaces the parameters for a category.
	PutParameters(ctx context.Context, categoryID int64, in ParametersInput) (*models.CalculationParameters, error)
}

type catalogService struct {
	buildings  repository.BuildingRepository
	categories repository.WasteCategoryRepository
	params     repository.ParameterRepository
	log        *logger.Logger
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	buildings repository.BuildingRepository,
	categories repository.WasteCategoryRepository,
	params repository.ParameterRepository,
	log *logger.Logger,
) CatalogService {
	return &catalogService{
		buildings:  buildings,
		categories: categories,
		params:     params,
		log:        log,
	}
}

func (s *catalogService) CreateBuilding(ctx context.Context, in BuildingInput) (*models.Building, error) {
	if in.UnitCount < 1 {
		return nil, ErrInvalidUnitCount
	}

	building := &models.Building{
		Name:      in.Name,
		Address:   in.Address,
		UnitCount: in.UnitCount,
	}
	if err := s.buildings.Create(ctx, building); err != nil {
		s.log.Error("Failed to create building", err, map[string]interface{}{"name": in.Name})
		return nil, fmt.Errorf("failed to create building: %w", err)
	}

	s.log.Info("Building created", map[string]interface{}{
		"building_id": building.ID,
		"name":        building.Name,
	})
	return building, nil
}

func (s *catalogService) GetBuilding(ctx context.Context, id int64) (*models.Building, error) {
	building, err := s.buildings.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to fetch building", err, map[string]interface{}{"building_id": id})
		return nil, fmt.Errorf("failed to fetch building: %w", err)
	}
	if building == nil {
		return nil, ErrBuildingNotFound
	}
	return building, nil
}

func (s *catalogService) ListBuildings(ctx context.Context) ([]models.Building, error) {
	buildings, err := s.buildings.List(ctx)
	if err != nil {
		s.log.Error("Failed to list buildings", err, nil)
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

func (s *catalogService) UpdateBuilding(ctx context.Context, id int64, in BuildingInput) (*models.Building, error) {
	if in.UnitCount < 1 {
		return nil, ErrInvalidUnitCount
	}

	building := &models.Building{
		ID:        id,
		Name:      in.Name,
		Address:   in.Address,
		UnitCount: in.UnitCount,
	}
	found, err := s.buildings.Update(ctx, building)
	if err != nil {
		s.log.Error("Failed to update building", err, map[string]interface{}{"building_id": id})
		return nil, fmt.Errorf("failed to update building: %w", err)
	}
	if !found {
		return nil, ErrBuildingNotFound
	}

	s.log.Info("Building updated", map[string]interface{}{"building_id": id})
	return building, nil
}

func (s *catalogService) DeleteBuilding(ctx context.Context, id int64) error {
	found, err := s.buildings.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrReferencedEntity
		}
		s.log.Error("Failed to delete building", err, map[string]interface{}{"building_id": id})
		return fmt.Errorf("failed to delete building: %w", err)
	}
	if !found {
		return ErrBuildingNotFound
	}

	s.log.Info("Building deleted", map[string]interface{}{"building_id": id})
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.WasteCategory, error) {
	existing, err := s.categories.GetByName(ctx, in.Name)
	if err != nil {
		s.log.Error("Failed to check waste category name", err, map[string]interface{}{"name": in.Name})
		return nil, fmt.Errorf("failed to check waste category name: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateCategory
	}

	category := &models.WasteCategory{
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		// Concurrent creates can still race past the name check.
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateCategory
		}
		s.log.Error("Failed to create waste category", err, map[string]interface{}{"name": in.Name})
		return nil, fmt.Errorf("failed to create waste category: %w", err)
	}

	s.log.Info("Waste category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*models.WasteCategory, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to fetch waste category", err, map[string]interface{}{"category_id": id})
		return nil, fmt.Errorf("failed to fetch waste category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.WasteCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.log.Error("Failed to list waste categories", err, nil)
		return nil, fmt.Errorf("failed to list waste categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*models.WasteCategory, error) {
	category := &models.WasteCategory{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
	}
	found, err := s.categories.Update(ctx, category)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateCategory
		}
		s.log.Error("Failed to update waste category", err, map[string]interface{}{"category_id": id})
		return nil, fmt.Errorf("failed to update waste category: %w", err)
	}
	if !found {
		return nil, ErrCategoryNotFound
	}

	s.log.Info("Waste category updated", map[string]interface{}{"category_id": id})
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	found, err := s.categories.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrReferencedEntity
		}
		s.log.Error("Failed to delete waste category", err, map[string]interface{}{"category_id": id})
		return fmt.Errorf("failed to delete waste category: %w", err)
	}
	if !found {
		return ErrCategoryNotFound
	}

	// Drop any cached parameters for the removed category.
	s.params.Invalidate(id)

	s.log.Info("Waste category deleted", map[string]interface{}{"category_id": id})
	return nil
}

func (s *catalogService) GetParameters(ctx context.Context, categoryID int64) (*models.CalculationParameters, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		s.log.Error("Failed to fetch waste category", err, map[string]interface{}{"category_id": categoryID})
		return nil, fmt.Errorf("failed to fetch waste category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	params, err := s.params.GetByCategory(ctx, categoryID)
	if err != nil {
		s.log.Error("Failed to fetch calculation parameters", err, map[string]interface{}{"category_id": categoryID})
		return nil, fmt.Errorf("failed to fetch calculation parameters: %w", err)
	}
	if params == nil {
		return nil, ErrParametersNotFound
	}
	return params, nil
}

func (s *catalogService) PutParameters(ctx context.Context, categoryID int64, in ParametersInput) (*models.CalculationParameters, error) {
	if in.EmissionFactor < 0 {
		return nil, ErrInvalidEmissionFactor
	}
	if in.RecyclingEfficiency < 0 || in.RecyclingEfficiency > 100 {
		return nil, ErrInvalidEfficiency
	}

	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		s.log.Error("Failed to fetch waste category", err, map[string]interface{}{"category_id": categoryID})
		return nil, fmt.Errorf("failed to fetch waste category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	params := &models.CalculationParameters{
		CategoryID:          categoryID,
		EmissionFactor:      in.EmissionFactor,
		RecyclingEfficiency: in.RecyclingEfficiency,
	}
	if err := s.params.Upsert(ctx, params); err != nil {
		s.log.Error("Failed to store calculation parameters", err, map[string]interface{}{"category_id": categoryID})
		return nil, fmt.Errorf("failed to store calculation parameters: %w", err)
	}

	s.log.Info("Calculation parameters stored", map[string]interface{}{
		"category_id":          categoryID,
		"emission_factor":      params.EmissionFactor,
		"recycling_efficiency": params.RecyclingEfficiency,
	})
	return params, nil
}
