package migration

import (
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/internal/utils"
	"fmt"

	"gorm.io/gorm"
)

// ingredientSearchIndex backs the full-text ingredient search. The expression must match the query's.
const ingredientSearchIndex = `CREATE INDEX IF NOT EXISTS idx_ingredients_search ON ingredients
USING GIN (to_tsvector('english', product_name || ' ' || coalesce(generic_name, '')))`

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("create uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"user details", &entities.UserDetails{}},
		{"user link", &entities.UserLink{}},
		{"diet", &entities.Diet{}},
		{"user diet", &entities.UserDiet{}},
		{"meal category", &entities.MealCategory{}},
		{"ingredient", &entities.Ingredient{}},
		{"meal", &entities.Meal{}},
		{"meal ingredient", &entities.MealIngredient{}},
		{"meal history", &entities.MealHistory{}},
		{"food log", &entities.FoodLog{}},
		{"food schedule", &entities.FoodSchedule{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("migrating %s table: %w", m.name, err)
		}
	}

	if err := db.Exec(ingredientSearchIndex).Error; err != nil {
		return fmt.Errorf("create ingredient search index: %w", err)
	}

	utils.Log.Info("database migration complete")
	return nil
}
