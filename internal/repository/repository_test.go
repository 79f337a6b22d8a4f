package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/condoverde/recicla/api/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505"},
			want: true,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "23505"}),
			want: true,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("Expected 23503 to be reported as foreign key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("Expected 23505 not to be reported as foreign key violation")
	}
	if !IsForeignKeyViolation(fmt.Errorf("delete failed: %w", &pgconn.PgError{Code: "23503"})) {
		t.Error("Expected wrapped 23503 to be reported as foreign key violation")
	}
}

func TestParameterCache(t *testing.T) {
	cache := &parameterCache{byCategory: make(map[int64]models.CalculationParameters)}

	params := models.CalculationParameters{
		CategoryID:          2,
		EmissionFactor:      0.5,
		RecyclingEfficiency: 70,
		UpdatedAt:           time.Now(),
	}

	// Miss before put
	if _, ok := cache.get(2); ok {
		t.Error("Expected cache miss before put")
	}

	cache.put(params)

	got, ok := cache.get(2)
	if !ok {
		t.Fatal("Expected cache hit after put")
	}
	if got.EmissionFactor != 0.5 || got.RecyclingEfficiency != 70 {
		t.Errorf("Expected cached values 0.5/70, got %v/%v", got.EmissionFactor, got.RecyclingEfficiency)
	}

	cache.drop(2)

	if _, ok := cache.get(2); ok {
		t.Error("Expected cache miss after drop")
	}

	// Dropping an absent key is a no-op
	cache.drop(99)
}

func TestParameterCache_Concurrent(t *testing.T) {
	cache := &parameterCache{byCategory: make(map[int64]models.CalculationParameters)}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			cache.put(models.CalculationParameters{CategoryID: id, EmissionFactor: float64(id)})
			cache.get(id)
			cache.drop(id)
		}(int64(i % 5))
	}
	wg.Wait()
}

func TestParameterRepository_WithTxSharesCache(t *testing.T) {
	repo := NewParameterRepository(nil).(*parameterRepository)

	txRepo := repo.WithTx(nil).(*parameterRepository)

	if txRepo.cache != repo.cache {
		t.Error("Expected transaction-bound repository to share the parent cache")
	}
	if !txRepo.inTx {
		t.Error("Expected transaction-bound repository to be marked as in-transaction")
	}
	if repo.inTx {
		t.Error("Expected parent repository not to be marked as in-transaction")
	}
}
