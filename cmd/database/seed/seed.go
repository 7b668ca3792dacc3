package seed

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/pkg/diet"
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	defaultDiets = []domain.CreateDietRequest{
		{Name: "Keto", Description: "Very low carbohydrate, high fat"},
		{Name: "Vegan", Description: "No animal products"},
	}
	defaultCategories = []domain.CreateCategoryRequest{
		{Category: "Breakfast", Description: "First meal of the day"},
		{Category: "Lunch", Description: "Midday meal"},
	}
)

// Seed inserts the default diets and meal categories. Rows that already exist are left alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	dietService := diet.NewDietService(diet.NewDietRepository(db))

	for _, d := range defaultDiets {
		if _, err := dietService.CreateDiet(ctx, d); err != nil {
			if errors.Is(err, domain.ErrDietExists) {
				continue
			}
			return err
		}
		utils.Log.WithField("diet", d.Name).Info("seeded diet")
	}

	for _, c := range defaultCategories {
		if _, err := dietService.CreateCategory(ctx, c); err != nil {
			if errors.Is(err, domain.ErrCategoryExists) {
				continue
			}
			return err
		}
		utils.Log.WithField("category", c.Category).Info("seeded meal category")
	}
	return nil
}
