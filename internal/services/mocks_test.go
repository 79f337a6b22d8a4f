package services

import (
	"context"

	"github.com/condoverde/recicla/api/internal/models"
	"github.com/condoverde/recicla/api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner runs the transactional closure directly, without a database.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

// MockBuildingRepository is a mock implementation of repository.BuildingRepository.
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) GetByID(ctx context.Context, id int64) (*models.Building, error) {
	args := m.Called(ctx, id)
	building, _ := args.Get(0).(*models.Building)
	return building, args.Error(1)
}

func (m *MockBuildingRepository) First(ctx context.Context) (*models.Building, error) {
	args := m.Called(ctx)
	building, _ := args.Get(0).(*models.Building)
	return building, args.Error(1)
}

func (m *MockBuildingRepository) List(ctx context.Context) ([]models.Building, error) {
	args := m.Called(ctx)
	buildings, _ := args.Get(0).([]models.Building)
	return buildings, args.Error(1)
}

func (m *MockBuildingRepository) Create(ctx context.Context, b *models.Building) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBuildingRepository) Update(ctx context.Context, b *models.Building) (bool, error) {
	args := m.Called(ctx, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockBuildingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBuildingRepository) WithTx(_ pgx.Tx) repository.BuildingRepository {
	return m
}

// MockWasteCategoryRepository is a mock implementation of repository.WasteCategoryRepository.
type MockWasteCategoryRepository struct {
	mock.Mock
}

func (m *MockWasteCategoryRepository) GetByID(ctx context.Context, id int64) (*models.WasteCategory, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*models.WasteCategory)
	return category, args.Error(1)
}

func (m *MockWasteCategoryRepository) GetByName(ctx context.Context, name string) (*models.WasteCategory, error) {
	args := m.Called(ctx, name)
	category, _ := args.Get(0).(*models.WasteCategory)
	return category, args.Error(1)
}

func (m *MockWasteCategoryRepository) List(ctx context.Context) ([]models.WasteCategory, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.WasteCategory)
	return categories, args.Error(1)
}

func (m *MockWasteCategoryRepository) Create(ctx context.Context, cat *models.WasteCategory) error {
	args := m.Called(ctx, cat)
	return args.Error(0)
}

func (m *MockWasteCategoryRepository) Update(ctx context.Context, cat *models.WasteCategory) (bool, error) {
	args := m.Called(ctx, cat)
	return args.Bool(0), args.Error(1)
}

func (m *MockWasteCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWasteCategoryRepository) WithTx(_ pgx.Tx) repository.WasteCategoryRepository {
	return m
}

// MockParameterRepository is a mock implementation of repository.ParameterRepository.
type MockParameterRepository struct {
	mock.Mock
}

func (m *MockParameterRepository) GetByCategory(ctx context.Context, categoryID int64) (*models.CalculationParameters, error) {
	args := m.Called(ctx, categoryID)
	params, _ := args.Get(0).(*models.CalculationParameters)
	return params, args.Error(1)
}

func (m *MockParameterRepository) Upsert(ctx context.Context, p *models.CalculationParameters) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParameterRepository) Delete(ctx context.Context, categoryID int64) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParameterRepository) Invalidate(categoryID int64) {
	m.Called(categoryID)
}

func (m *MockParameterRepository) WithTx(_ pgx.Tx) repository.ParameterRepository {
	return m
}

// MockCollectionRecordRepository is a mock implementation of repository.CollectionRecordRepository.
type MockCollectionRecordRepository struct {
	mock.Mock
}

func (m *MockCollectionRecordRepository) GetByID(ctx context.Context, id int64) (*repository.RecordWithNames, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*repository.RecordWithNames)
	return rec, args.Error(1)
}

func (m *MockCollectionRecordRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.CollectionRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.CollectionRecord)
	return rec, args.Error(1)
}

func (m *MockCollectionRecordRepository) List(ctx context.Context, f repository.RecordFilter) ([]repository.RecordWithNames, error) {
	args := m.Called(ctx, f)
	records, _ := args.Get(0).([]repository.RecordWithNames)
	return records, args.Error(1)
}

func (m *MockCollectionRecordRepository) Insert(ctx context.Context, rec *models.CollectionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockCollectionRecordRepository) Update(ctx context.Context, rec *models.CollectionRecord) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRecordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRecordRepository) WithTx(_ pgx.Tx) repository.CollectionRecordRepository {
	return m
}
