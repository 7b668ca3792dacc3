package meal

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"context"

	"github.com/google/uuid"
)

func UpdateDetails(name, description *string) Mutation {
	return Mutation{
		Name: "update_details",
		Check: func(*MealState) error {
			if name == nil && description == nil {
				return domain.ErrEmptyMealUpdate
			}
			return nil
		},
		Apply: func(_ context.Context, _ MealRepository, s *MealState) error {
			if name != nil {
				s.Meal.Name = *name
			}
			if description != nil {
				s.Meal.Description = *description
			}
			return nil
		},
	}
}

func AssignCategory(categoryID uuid.UUID) Mutation {
	return Mutation{
		Name: "assign_category",
		Check: func(s *MealState) error {
			if s.Meal.CategoryID != nil {
				return domain.ErrCategoryAlreadyAssigned
			}
			return nil
		},
		Apply: setCategory(&categoryID),
	}
}

func UpdateCategory(categoryID uuid.UUID) Mutation {
	return Mutation{
		Name:  "update_category",
		Check: requireCategory,
		Apply: setCategory(&categoryID),
	}
}

func RemoveCategory() Mutation {
	return Mutation{
		Name:  "remove_category",
		Check: requireCategory,
		Apply: setCategory(nil),
	}
}

func AssignDiet(dietID uuid.UUID) Mutation {
	return Mutation{
		Name: "assign_diet",
		Check: func(s *MealState) error {
			if s.Meal.DietID != nil {
				return domain.ErrDietAlreadyAssigned
			}
			return nil
		},
		Apply: setDiet(&dietID),
	}
}

func UpdateDiet(dietID uuid.UUID) Mutation {
	return Mutation{
		Name:  "update_diet",
		Check: requireDiet,
		Apply: setDiet(&dietID),
	}
}

func RemoveDiet() Mutation {
	return Mutation{
		Name:  "remove_diet",
		Check: requireDiet,
		Apply: setDiet(nil),
	}
}

// ReplaceIngredients swaps the whole ingredient list. An empty list is allowed.
func ReplaceIngredients(lines []entities.MealIngredient) Mutation {
	return Mutation{
		Name: "replace_ingredients",
		Check: func(_ *MealState) error {
			return checkLines(lines)
		},
		Apply: func(ctx context.Context, tx MealRepository, s *MealState) error {
			fresh := make([]entities.MealIngredient, len(lines))
			copy(fresh, lines)
			if err := tx.ReplaceIngredients(ctx, s.Meal.ID, fresh); err != nil {
				return err
			}
			s.Ingredients = fresh
			return nil
		},
	}
}

func AddIngredient(line entities.MealIngredient) Mutation {
	return Mutation{
		Name: "add_ingredient",
		Check: func(s *MealState) error {
			if line.Quantity < 0 {
				return domain.ErrNegativeQuantity
			}
			if s.hasIngredient(line.IngredientID) {
				return domain.ErrIngredientAlreadyInMeal
			}
			return nil
		},
		Apply: func(ctx context.Context, tx MealRepository, s *MealState) error {
			added := line
			added.MealID = s.Meal.ID
			if err := tx.AddIngredient(ctx, &added); err != nil {
				return err
			}
			s.Ingredients = append(s.Ingredients, added)
			return nil
		},
	}
}

func RemoveIngredient(ingredientID uuid.UUID) Mutation {
	return Mutation{
		Name: "remove_ingredient",
		Check: func(s *MealState) error {
			if !s.hasIngredient(ingredientID) {
				return domain.ErrIngredientNotInMeal
			}
			return nil
		},
		Apply: func(ctx context.Context, tx MealRepository, s *MealState) error {
			if err := tx.RemoveIngredient(ctx, s.Meal.ID, ingredientID); err != nil {
				return err
			}
			kept := make([]entities.MealIngredient, 0, len(s.Ingredients))
			for _, l := range s.Ingredients {
				if l.IngredientID != ingredientID {
					kept = append(kept, l)
				}
			}
			s.Ingredients = kept
			return nil
		},
	}
}

func (s *MealState) hasIngredient(id uuid.UUID) bool {
	for _, l := range s.Ingredients {
		if l.IngredientID == id {
			return true
		}
	}
	return false
}

func requireCategory(s *MealState) error {
	if s.Meal.CategoryID == nil {
		return domain.ErrNoCategoryAssigned
	}
	return nil
}

func requireDiet(s *MealState) error {
	if s.Meal.DietID == nil {
		return domain.ErrNoDietAssigned
	}
	return nil
}

func setCategory(id *uuid.UUID) func(context.Context, MealRepository, *MealState) error {
	return func(_ context.Context, _ MealRepository, s *MealState) error {
		s.Meal.CategoryID = id
		return nil
	}
}

func setDiet(id *uuid.UUID) func(context.Context, MealRepository, *MealState) error {
	return func(_ context.Context, _ MealRepository, s *MealState) error {
		s.Meal.DietID = id
		return nil
	}
}

// checkLines rejects negative quantities and repeated ingredients.
func checkLines(lines []entities.MealIngredient) error {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 0 {
			return domain.ErrNegativeQuantity
		}
		if _, ok := seen[l.IngredientID]; ok {
			return domain.ErrDuplicateIngredient
		}
		seen[l.IngredientID] = struct{}{}
	}
	return nil
}
