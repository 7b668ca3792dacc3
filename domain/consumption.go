package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessCreateFoodLog      = "food log created"
	MessageSuccessGetFoodLog         = "success get food log"
	MessageSuccessGetFoodLogs        = "success get food logs"
	MessageSuccessDeleteFoodLog      = "food log deleted"
	MessageSuccessCreateFoodSchedule = "food schedule created"
	MessageSuccessGetFoodSchedule    = "success get food schedule"
	MessageSuccessGetFoodSchedules   = "success get food schedules"
	MessageSuccessDeleteFoodSchedule = "food schedule deleted"
	MessageSuccessGetDailyTotals     = "success get daily nutrients"
	MessageSuccessGetShoppingList    = "success get shopping list"

	MessageFailedCreateFoodLog      = "failed to create food log"
	MessageFailedGetFoodLog         = "failed to get food log"
	MessageFailedGetFoodLogs        = "failed to get food logs"
	MessageFailedDeleteFoodLog      = "failed to delete food log"
	MessageFailedCreateFoodSchedule = "failed to create food schedule"
	MessageFailedGetFoodSchedule    = "failed to get food schedule"
	MessageFailedGetFoodSchedules   = "failed to get food schedules"
	MessageFailedDeleteFoodSchedule = "failed to delete food schedule"
	MessageFailedGetDailyTotals     = "failed to get daily nutrients"
	MessageFailedGetShoppingList    = "failed to get shopping list"

	ErrFoodLogNotFound      = fmt.Errorf("food log not found: %w", ErrNotFound)
	ErrFoodScheduleNotFound = fmt.Errorf("food schedule not found: %w", ErrNotFound)
	ErrFoodLogNotOwned      = fmt.Errorf("food log belongs to another user: %w", ErrForbidden)
	ErrScheduleNotOwned     = fmt.Errorf("food schedule belongs to another user: %w", ErrForbidden)
	ErrScheduleInPast       = fmt.Errorf("schedule time must be in the future: %w", ErrValidation)
	ErrInvalidPortion       = fmt.Errorf("portion must be greater than zero: %w", ErrValidation)
	ErrInvalidHorizon       = fmt.Errorf("days must be a whole number of at least 1: %w", ErrValidation)
)

const DefaultShoppingDays = 7

type (
	CreateFoodLogRequest struct {
		MealID      string  `json:"meal_id" validate:"required,uuid"`
		MealVersion int     `json:"meal_version" validate:"required,gte=1"`
		Portion     float64 `json:"portion" validate:"required,gt=0"`
		At          string  `json:"at" validate:"required"`
	}

	CreateFoodScheduleRequest struct {
		MealID      string `json:"meal_id" validate:"required,uuid"`
		MealVersion int    `json:"meal_version" validate:"required,gte=1"`
		At          string `json:"at" validate:"required"`
	}

	FoodLogResponse struct {
		ID            string    `json:"id"`
		UserID        string    `json:"user_id"`
		MealHistoryID string    `json:"meal_history_id"`
		MealID        string    `json:"meal_id"`
		MealVersion   int       `json:"meal_version"`
		MealName      string    `json:"meal_name"`
		Portion       float64   `json:"portion"`
		At            time.Time `json:"at"`
	}

	FoodScheduleResponse struct {
		ID            string    `json:"id"`
		UserID        string    `json:"user_id"`
		MealHistoryID string    `json:"meal_history_id"`
		MealID        string    `json:"meal_id"`
		MealVersion   int       `json:"meal_version"`
		MealName      string    `json:"meal_name"`
		At            time.Time `json:"at"`
	}

	NutrientGoals struct {
		Kcal    float64 `json:"kcal"`
		Protein float64 `json:"protein"`
		Carbs   float64 `json:"carbs"`
		Fat     float64 `json:"fat"`
	}

	DailyTotalsResponse struct {
		Date        string         `json:"date"`
		Logs        int            `json:"logs"`
		Consumed    NutrientTotals `json:"consumed"`
		Goals       *NutrientGoals `json:"goals,omitempty"`
		Percentages *NutrientGoals `json:"percentages,omitempty"`
	}

	ShoppingLine struct {
		IngredientID string  `json:"ingredient_id"`
		ProductName  string  `json:"product_name"`
		Quantity     float64 `json:"quantity"`
		Unit         string  `json:"unit"`
	}

	ShoppingMeal struct {
		ScheduleID  string         `json:"schedule_id"`
		At          time.Time      `json:"at"`
		Meal        MealResponse   `json:"meal"`
		Ingredients []ShoppingLine `json:"ingredients"`
	}

	ShoppingListResponse struct {
		From    time.Time      `json:"from"`
		To      time.Time      `json:"to"`
		Meals   []ShoppingMeal `json:"meals"`
		Summary []ShoppingLine `json:"summary"`
	}
)
