package domain

import "fmt"

var (
	MessageSuccessGetIngredients    = "success get ingredients"
	MessageSuccessGetIngredient     = "success get ingredient"
	MessageSuccessSearchIngredients = "success search ingredients"

	MessageFailedGetIngredients    = "failed to get ingredients"
	MessageFailedGetIngredient     = "failed to get ingredient"
	MessageFailedSearchIngredients = "failed to search ingredients"

	ErrIngredientNotFound = fmt.Errorf("ingredient not found: %w", ErrNotFound)
	ErrEmptySearchQuery   = fmt.Errorf("search query is empty: %w", ErrValidation)
)

type (
	IngredientResponse struct {
		ID              string   `json:"id"`
		ProductName     string   `json:"product_name"`
		GenericName     string   `json:"generic_name"`
		Kcal100g        float64  `json:"kcal_100g"`
		Protein100g     float64  `json:"protein_100g"`
		Carbs100g       float64  `json:"carbs_100g"`
		Fat100g         float64  `json:"fat_100g"`
		Brand           string   `json:"brand"`
		Barcode         string   `json:"barcode"`
		ImageURL        string   `json:"image_url"`
		LabelsTags      string   `json:"labels_tags"`
		ProductQuantity *float64 `json:"product_quantity"`
		Allergens       string   `json:"allergens"`
	}

	ImportResult struct {
		Read     int `json:"read"`
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
)
