package handlers

import (
	"context"

	"github.com/condoverde/recicla/api/internal/models"
	"github.com/condoverde/recicla/api/internal/repository"
	"github.com/condoverde/recicla/api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockCollectionRecordService is a mock implementation of services.CollectionRecordService.
type MockCollectionRecordService struct {
	mock.Mock
}

func (m *MockCollectionRecordService) Create(ctx context.Context, in services.CreateRecordInput) (*models.CollectionRecord, error) {
	args := m.Called(ctx, in)
	rec, _ := args.Get(0).(*models.CollectionRecord)
	return rec, args.Error(1)
}

func (m *MockCollectionRecordService) Get(ctx context.Context, id int64) (*repository.RecordWithNames, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*repository.RecordWithNames)
	return rec, args.Error(1)
}

func (m *MockCollectionRecordService) List(ctx context.Context, f repository.RecordFilter) ([]repository.RecordWithNames, error) {
	args := m.Called(ctx, f)
	records, _ := args.Get(0).([]repository.RecordWithNames)
	return records, args.Error(1)
}

func (m *MockCollectionRecordService) Update(ctx context.Context, id int64, in services.UpdateRecordInput) (*models.CollectionRecord, error) {
	args := m.Called(ctx, id, in)
	rec, _ := args.Get(0).(*models.CollectionRecord)
	return rec, args.Error(1)
}

func (m *MockCollectionRecordService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportService is a mock implementation of services.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) SavingsReport(ctx context.Context, q services.ReportQuery) (*services.ReportResult, error) {
	args := m.Called(ctx, q)
	result, _ := args.Get(0).(*services.ReportResult)
	return result, args.Error(1)
}

// MockCatalogService is a mock implementation of services.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateBuilding(ctx context.Context, in services.BuildingInput) (*models.Building, error) {
	args := m.Called(ctx, in)
	building, _ := args.Get(0).(*models.Building)
	return building, args.Error(1)
}

func (m *MockCatalogService) GetBuilding(ctx context.Context, id int64) (*models.Building, error) {
	args := m.Called(ctx, id)
	building, _ := args.Get(0).(*models.Building)
	return building, args.Error(1)
}

func (m *MockCatalogService) ListBuildings(ctx context.Context) ([]models.Building, error) {
	args := m.Called(ctx)
	buildings, _ := args.Get(0).([]models.Building)
	return buildings, args.Error(1)
}

func (m *MockCatalogService) UpdateBuilding(ctx context.Context, id int64, in services.BuildingInput) (*models.Building, error) {
	args := m.Called(ctx, id, in)
	building, _ := args.Get(0).(*models.Building)
	return building, args.Error(1)
}

func (m *MockCatalogService) DeleteBuilding(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, in services.CategoryInput) (*models.WasteCategory, error) {
	args := m.Called(ctx, in)
	category, _ := args.Get(0).(*models.WasteCategory)
	return category, args.Error(1)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, id int64) (*models.WasteCategory, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*models.WasteCategory)
	return category, args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]models.WasteCategory, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.WasteCategory)
	return categories, args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, id int64, in services.CategoryInput) (*models.WasteCategory, error) {
	args := m.Called(ctx, id, in)
	category, _ := args.Get(0).(*models.WasteCategory)
	return category, args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) GetParameters(ctx context.Context, categoryID int64) (*models.CalculationParameters, error) {
	args := m.Called(ctx, categoryID)
	params, _ := args.Get(0).(*models.CalculationParameters)
	return params, args.Error(1)
}

func (m *MockCatalogService) PutParameters(ctx context.Context, categoryID int64, in services.ParametersInput) (*models.CalculationParameters, error) {
	args := m.Called(ctx, categoryID, in)
	params, _ := args.Get(0).(*models.CalculationParameters)
	return params, args.Error(1)
}
