package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessCreateMeal         = "meal created"
	MessageSuccessGetMeal            = "success get meal"
	MessageSuccessGetMeals           = "success get meals"
	MessageSuccessUpdateMeal         = "meal updated"
	MessageSuccessDeleteMeal         = "meal deleted"
	MessageSuccessGetMealIngredients = "success get meal ingredients"
	MessageSuccessGetMealVersions    = "success get meal versions"
	MessageSuccessGetMealVersion     = "success get meal version"

	MessageFailedCreateMeal         = "failed to create meal"
	MessageFailedGetMeal            = "failed to get meal"
	MessageFailedGetMeals           = "failed to get meals"
	MessageFailedUpdateMeal         = "failed to update meal"
	MessageFailedDeleteMeal         = "failed to delete meal"
	MessageFailedGetMealIngredients = "failed to get meal ingredients"
	MessageFailedGetMealVersions    = "failed to get meal versions"
	MessageFailedGetMealVersion     = "failed to get meal version"

	ErrMealNotFound            = fmt.Errorf("meal not found: %w", ErrNotFound)
	ErrMealVersionNotFound     = fmt.Errorf("meal version not found: %w", ErrNotFound)
	ErrMealNotOwned            = fmt.Errorf("meal belongs to another user: %w", ErrForbidden)
	ErrIngredientAlreadyInMeal = fmt.Errorf("ingredient already in meal: %w", ErrConflict)
	ErrIngredientNotInMeal     = fmt.Errorf("ingredient not in meal: %w", ErrNotFound)
	ErrDuplicateIngredient     = fmt.Errorf("ingredient listed more than once: %w", ErrConflict)
	ErrCategoryAlreadyAssigned = fmt.Errorf("meal already has a category: %w", ErrConflict)
	ErrNoCategoryAssigned      = fmt.Errorf("meal has no category: %w", ErrConflict)
	ErrDietAlreadyAssigned     = fmt.Errorf("meal already has a diet: %w", ErrConflict)
	ErrNoDietAssigned          = fmt.Errorf("meal has no diet: %w", ErrConflict)
	ErrNegativeQuantity        = fmt.Errorf("quantity must not be negative: %w", ErrValidation)
	ErrEmptyMealUpdate         = fmt.Errorf("nothing to update: %w", ErrValidation)
	ErrCorruptSnapshot         = fmt.Errorf("corrupt meal snapshot: %w", ErrValidation)
	ErrInvalidVersion          = fmt.Errorf("version must be a positive integer: %w", ErrValidation)
)

type (
	MealIngredientRequest struct {
		IngredientID string  `json:"ingredient_id" validate:"required,uuid"`
		Quantity     float64 `json:"quantity" validate:"gte=0"`
		Unit         string  `json:"unit" validate:"max=20"`
	}

	CreateMealRequest struct {
		Name        string                  `json:"name" validate:"required,max=255"`
		Description string                  `json:"description"`
		CategoryID  *string                 `json:"category_id" validate:"omitempty,uuid"`
		DietID      *string                 `json:"diet_id" validate:"omitempty,uuid"`
		Ingredients []MealIngredientRequest `json:"ingredients" validate:"dive"`
	}

	UpdateMealRequest struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
		Description *string `json:"description"`
	}

	AssignCategoryRequest struct {
		CategoryID string `json:"category_id" validate:"required,uuid"`
	}

	AssignDietRequest struct {
		DietID string `json:"diet_id" validate:"required,uuid"`
	}

	ReplaceIngredientsRequest struct {
		Ingredients []MealIngredientRequest `json:"ingredients" validate:"dive"`
	}

	SearchMealRequest struct {
		Query     string `query:"q"`
		AllowMore bool   `query:"allow_more"`
	}

	MealResponse struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		CreatorID   string    `json:"creator_id"`
		CategoryID  *string   `json:"category_id"`
		DietID      *string   `json:"diet_id"`
		Version     int       `json:"version"`
		LastUpdate  time.Time `json:"last_update"`
	}

	MealIngredientResponse struct {
		IngredientID string              `json:"ingredient_id"`
		Quantity     float64             `json:"quantity"`
		Unit         string              `json:"unit"`
		Ingredient   *IngredientResponse `json:"ingredient,omitempty"`
	}

	MealDetailResponse struct {
		MealResponse
		Ingredients []MealIngredientResponse `json:"ingredients"`
	}

	MealVersionResponse struct {
		ID          string                   `json:"id"`
		MealID      string                   `json:"meal_id"`
		MealVersion int                      `json:"meal_version"`
		Meal        MealResponse             `json:"meal"`
		Ingredients []MealIngredientResponse `json:"ingredients"`
		CreatedAt   time.Time                `json:"created_at"`
	}
)
