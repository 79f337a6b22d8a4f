package models

import "time"

// WasteCategory classifies collected waste for carbon-credit calculation.
// Categories are reference data, created and edited administratively.
type WasteCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CalculationParameters holds the emission figures for one waste category.
// A category must have parameters configured before any collection record
// for it can be calculated.
type CalculationParameters struct {
	CategoryID int64 `json:"category_id"`
	// EmissionFactor is kg of CO2 emitted per kg of waste under
	// conventional disposal.
	EmissionFactor float64 `json:"emission_factor"`
	// RecyclingEfficiency is the percentage reduction in emissions
	// achieved by recycling, in [0,100].
	RecyclingEfficiency float64   `json:"recycling_efficiency"`
	UpdatedAt           time.Time `json:"updated_at"`
}
