package models

import "time"

// CollectionRecord is one waste-collection event for a building, with the
// carbon figures computed from the category's calculation parameters.
//
// CurrentEmissionKg, RecyclingEmissionKg and CarbonSavingsKg are always
// server-computed; they are never accepted verbatim from a caller. The
// invariant CarbonSavingsKg = CurrentEmissionKg - RecyclingEmissionKg is
// re-established on every save.
//
// (BuildingID, CategoryID, CollectedAt) is unique.
type CollectionRecord struct {
	ID                  int64     `json:"id"`
	BuildingID          int64     `json:"building_id"`
	CategoryID          int64     `json:"category_id"`
	WeightKg            float64   `json:"weight_kg"`
	CollectedAt         time.Time `json:"collected_at"`
	CurrentEmissionKg   float64   `json:"current_emission_kg"`
	RecyclingEmissionKg float64   `json:"recycling_emission_kg"`
	CarbonSavingsKg     float64   `json:"carbon_savings_kg"`
	DisposalCost        *float64  `json:"disposal_cost,omitempty"`
	RecyclingCost       *float64  `json:"recycling_cost,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
