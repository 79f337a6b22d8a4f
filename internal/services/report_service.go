package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/condoverde/recicla/api/internal/logger"
	"github.com/condoverde/recicla/api/internal/models"
	"github.com/condoverde/recicla/api/internal/repository"
)

// Overall status labels for a savings report.
//
// The domain's surplus-accounting convention labels a NEGATIVE total savings
// as a "carbon credit". This reads backwards from physical intuition but is
// the established product behavior and is preserved as-is.
const (
	StatusCarbonCredit      = "carbon credit"
	StatusEmissionReduction = "emission reduction"
)

// carbonPricePerTonUSD is the fixed market price used to estimate credit value.
const carbonPricePerTonUSD = 60.0

// highPotentialCategories are materials whose selective collection is
// recommended whenever none of them appear in the reporting period.
var highPotentialCategories = []string{"Aluminum", "Plastic", "Ferrous Metals"}

// ErrNoBuildings is returned when a report is requested without a building
// and none are configured.
var ErrNoBuildings = errors.New("no buildings configured")

// ReportQuery selects the records to aggregate. All fields are optional:
// a nil BuildingID falls back to the first configured building, and the date
// bounds are inclusive on collected_at.
type ReportQuery struct {
	BuildingID *int64
	Start      *time.Time
	End        *time.Time
}

// CategoryTotals aggregates all records of one waste category.
type CategoryTotals struct {
	CategoryID          int64   `json:"category_id"`
	CategoryName        string  `json:"category_name"`
	TotalWeightKg       float64 `json:"total_weight_kg"`
	CurrentEmissionKg   float64 `json:"total_current_emission_kg"`
	RecyclingEmissionKg float64 `json:"total_recycling_emission_kg"`
	CarbonSavingsKg     float64 `json:"total_carbon_savings_kg"`
}

// ReportTotals aggregates all categories of the report.
type ReportTotals struct {
	TotalWeightKg       float64 `json:"total_weight_kg"`
	CurrentEmissionKg   float64 `json:"total_current_emission_kg"`
	RecyclingEmissionKg float64 `json:"total_recycling_emission_kg"`
	CarbonSavingsKg     float64 `json:"total_carbon_savings_kg"`
}

// ReportResult is the aggregation outcome for one building and period.
// When NoData is true only the building identity and period are meaningful.
type ReportResult struct {
	Building        models.Building  `json:"building"`
	PeriodStart     *time.Time       `json:"period_start,omitempty"`
	PeriodEnd       *time.Time       `json:"period_end,omitempty"`
	NoData          bool             `json:"no_data"`
	Categories      []CategoryTotals `json:"categories,omitempty"`
	Totals          *ReportTotals    `json:"totals,omitempty"`
	Status          string           `json:"status,omitempty"`
	CreditValueUSD  float64          `json:"estimated_credit_value_usd"`
	Recommendations []string         `json:"recommendations,omitempty"`
	RecordCount     int              `json:"record_count"`
}

// ReportService aggregates collection records into savings reports.
type ReportService interface {
	// SavingsReport aggregates records for the queried building and period.
	// Returns ErrBuildingNotFound when an explicit building does not exist
	// and ErrNoBuildings when no building was given and none are configured.
	// A period with no matching records is a normal outcome, not an error.
	SavingsReport(ctx context.Context, q ReportQuery) (*ReportResult, error)
}

type reportService struct {
	records   repository.CollectionRecordRepository
	buildings repository.BuildingRepository
	log       *logger.Logger
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	records repository.CollectionRecordRepository,
	buildings repository.BuildingRepository,
	log *logger.Logger,
) ReportService {
	return &reportService{
		records:   records,
		buildings: buildings,
		log:       log,
	}
}

func (s *reportService) SavingsReport(ctx context.Context, q ReportQuery) (*ReportResult, error) {
	building, err := s.resolveBuilding(ctx, q.BuildingID)
	if err != nil {
		return nil, err
	}

	filter := repository.RecordFilter{
		BuildingID: &building.ID,
		Start:      q.Start,
		End:        q.End,
	}
	records, err := s.records.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to load records for report", err, map[string]interface{}{
			"building_id": building.ID,
		})
		return nil, fmt.Errorf("failed to load records for report: %w", err)
	}

	result := &ReportResult{
		Building:    *building,
		PeriodStart: q.Start,
		PeriodEnd:   q.End,
		RecordCount: len(records),
	}

	if len(records) == 0 {
		result.NoData = true
		s.log.Info("Savings report with no matching records", map[string]interface{}{
			"building_id": building.ID,
		})
		return result, nil
	}

	result.Categories = groupByCategory(records)
	result.Totals = sumTotals(result.Categories)

	// Negative total savings is labeled a "carbon credit" under the
	// domain's surplus-accounting convention.
	if result.Totals.CarbonSavingsKg < 0 {
		result.Status = StatusCarbonCredit
		result.CreditValueUSD = round2(math.Abs(result.Totals.CarbonSavingsKg/1000) * carbonPricePerTonUSD)
	} else {
		result.Status = StatusEmissionReduction
	}

	result.Recommendations = buildRecommendations(result.Categories, result.Status)

	s.log.Info("Savings report generated", map[string]interface{}{
		"building_id":       building.ID,
		"record_count":      len(records),
		"status":            result.Status,
		"carbon_savings_kg": result.Totals.CarbonSavingsKg,
	})

	return result, nil
}

// resolveBuilding fetches the requested building, or falls back to the first
// configured building when none was requested. The fallback is a known weak
// multi-tenant policy kept for compatibility.
func (s *reportService) resolveBuilding(ctx context.Context, buildingID *int64) (*models.Building, error) {
	if buildingID != nil {
		building, err := s.buildings.GetByID(ctx, *buildingID)
		if err != nil {
			s.log.Error("Failed to resolve report building", err, map[string]interface{}{
				"building_id": *buildingID,
			})
			return nil, fmt.Errorf("failed to resolve building: %w", err)
		}
		if building == nil {
			return nil, ErrBuildingNotFound
		}
		return building, nil
	}

	building, err := s.buildings.First(ctx)
	if err != nil {
		s.log.Error("Failed to resolve fallback building", err, nil)
		return nil, fmt.Errorf("failed to resolve building: %w", err)
	}
	if building == nil {
		return nil, ErrNoBuildings
	}
	return building, nil
}

// groupByCategory sums the per-record figures per waste category and orders
// the groups by category name ascending (byte order, locale-independent).
func groupByCategory(records []repository.RecordWithNames) []CategoryTotals {
	byName := make(map[string]*CategoryTotals)
	for _, rec := range records {
		group, ok := byName[rec.CategoryName]
		if !ok {
			group = &CategoryTotals{
				CategoryID:   rec.CategoryID,
				CategoryName: rec.CategoryName,
			}
			byName[rec.CategoryName] = group
		}
		group.TotalWeightKg += rec.WeightKg
		group.CurrentEmissionKg += rec.CurrentEmissionKg
		group.RecyclingEmissionKg += rec.RecyclingEmissionKg
		group.CarbonSavingsKg += rec.CarbonSavingsKg
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]CategoryTotals, 0, len(names))
	for _, name := range names {
		groups = append(groups, *byName[name])
	}
	return groups
}

func sumTotals(groups []CategoryTotals) *ReportTotals {
	var totals ReportTotals
	for _, g := range groups {
		totals.TotalWeightKg += g.TotalWeightKg
		totals.CurrentEmissionKg += g.CurrentEmissionKg
		totals.RecyclingEmissionKg += g.RecyclingEmissionKg
		totals.CarbonSavingsKg += g.CarbonSavingsKg
	}
	return &totals
}

// buildRecommendations evaluates the fixed recommendation rules in order.
// The rules are independent; every applicable one is included.
func buildRecommendations(groups []CategoryTotals, status string) []string {
	recommendations := []string{}

	var positive []string
	for _, g := range groups {
		if g.CarbonSavingsKg > 0 {
			positive = append(positive, g.CategoryName)
		}
	}
	if len(positive) > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Improve the recycling treatment process for: %s",
			strings.Join(positive, ", ")))
	}

	if status != StatusCarbonCredit {
		recommendations = append(recommendations,
			"Increase selective collection of high-value recyclable materials")
	}

	if !hasHighPotentialCategory(groups) {
		recommendations = append(recommendations, fmt.Sprintf(
			"Implement dedicated selective collection for: %s",
			strings.Join(highPotentialCategories, ", ")))
	}

	if status == StatusCarbonCredit {
		recommendations = append(recommendations,
			"Maintain and expand current collection practices to sustain the carbon credit")
	}

	return recommendations
}

func hasHighPotentialCategory(groups []CategoryTotals) bool {
	for _, g := range groups {
		for _, name := range highPotentialCategories {
			if g.CategoryName == name {
				return true
			}
		}
	}
	return false
}

// round2 rounds to two decimal places, as used for monetary figures.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
