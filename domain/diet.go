package domain

import "fmt"

var (
	MessageSuccessCreateDiet     = "diet created"
	MessageSuccessGetDiets       = "success get diets"
	MessageSuccessGetDiet        = "success get diet"
	MessageSuccessCreateCategory = "meal category created"
	MessageSuccessGetCategories  = "success get meal categories"
	MessageSuccessAssignUserDiet = "diet assigned to user"
	MessageSuccessRemoveUserDiet = "diet removed from user"
	MessageSuccessGetUserDiets   = "success get user diets"

	MessageFailedCreateDiet     = "failed to create diet"
	MessageFailedGetDiets       = "failed to get diets"
	MessageFailedGetDiet        = "failed to get diet"
	MessageFailedCreateCategory = "failed to create meal category"
	MessageFailedGetCategories  = "failed to get meal categories"
	MessageFailedAssignUserDiet = "failed to assign diet to user"
	MessageFailedRemoveUserDiet = "failed to remove diet from user"
	MessageFailedGetUserDiets   = "failed to get user diets"

	ErrDietNotFound     = fmt.Errorf("diet not found: %w", ErrNotFound)
	ErrDietExists       = fmt.Errorf("diet already exists: %w", ErrConflict)
	ErrCategoryNotFound = fmt.Errorf("meal category not found: %w", ErrNotFound)
	ErrCategoryExists   = fmt.Errorf("meal category already exists: %w", ErrConflict)
	ErrUserDietExists   = fmt.Errorf("diet already assigned to user: %w", ErrConflict)
	ErrUserDietNotFound = fmt.Errorf("diet not assigned to user: %w", ErrNotFound)
)

type (
	CreateDietRequest struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description"`
	}

	DietResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	CreateCategoryRequest struct {
		Category    string `json:"category" validate:"required,max=100"`
		Description string `json:"description"`
	}

	CategoryResponse struct {
		ID          string `json:"id"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}

	AssignUserDietRequest struct {
		DietID  string `json:"diet_id" validate:"required,uuid"`
		Allowed *bool  `json:"allowed"`
	}

	UserDietResponse struct {
		Diet    DietResponse `json:"diet"`
		Allowed bool         `json:"allowed"`
	}
)
