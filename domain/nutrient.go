package domain

import "fmt"

var (
	MessageSuccessGetNutrients = "success get nutrients"
	MessageFailedGetNutrients  = "failed to get nutrients"

	ErrNoNutrients = fmt.Errorf("no nutrients available: %w", ErrNotFound)
)

type (
	NutrientTotals struct {
		Kcal    float64 `json:"kcal"`
		Protein float64 `json:"protein"`
		Carbs   float64 `json:"carbs"`
		Fat     float64 `json:"fat"`
		Weight  float64 `json:"weight"`
	}

	NutrientsResponse struct {
		Total           NutrientTotals `json:"total"`
		PerHundredGrams NutrientTotals `json:"per_100g"`
	}
)
