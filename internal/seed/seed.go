// Package seed provisions the default waste categories and their calculation
// parameters so a fresh deployment can calculate records out of the box.
package seed

import (
	"context"
	"fmt"

	"github.com/condoverde/recicla/api/internal/database"
	"github.com/condoverde/recicla/api/internal/logger"
)

type defaultCategory struct {
	name        string
	description string
	// emissionFactor is kg CO2 per kg of waste under conventional disposal.
	emissionFactor float64
	// efficiency is the percentage emission reduction achieved by recycling.
	efficiency float64
}

var defaults = []defaultCategory{
	{"Paper", "Paper and cardboard waste", 0.5, 70},
	{"Plastic", "Plastic waste", 1.5, 60},
	{"Glass", "Glass waste", 0.3, 75},
	{"Organic", "Organic waste", 0.7, 50},
}

// Defaults inserts the default categories and parameters if missing.
// Existing rows are left untouched, so repeated startups are safe.
func Defaults(ctx context.Context, db *database.Database, log *logger.Logger) error {
	for _, d := range defaults {
		var categoryID int64
		err := db.Pool.QueryRow(ctx, `
			INSERT INTO waste_categories (name, description, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (name) DO UPDATE SET updated_at = waste_categories.updated_at
			RETURNING id
		`, d.name, d.description).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("failed to seed waste category %q: %w", d.name, err)
		}

		_, err = db.Pool.Exec(ctx, `
			INSERT INTO calculation_parameters (category_id, emission_factor, recycling_efficiency, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (category_id) DO NOTHING
		`, categoryID, d.emissionFactor, d.efficiency)
		if err != nil {
			return fmt.Errorf("failed to seed parameters for %q: %w", d.name, err)
		}
	}

	log.Info("Default waste categories seeded", map[string]interface{}{
		"count": len(defaults),
	})
	return nil
}
