package meal

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BuildComposition freezes the meal and its lines as they are now.
func BuildComposition(meal *entities.Meal, lines []entities.MealIngredient) entities.MealComposition {
	snapshotLines := make([]entities.SnapshotLine, 0, len(lines))
	for _, l := range lines {
		snapshotLines = append(snapshotLines, entities.SnapshotLine{
			IngredientID: l.IngredientID,
			Unit:         l.Unit,
			Quantity:     l.Quantity,
		})
	}

	return entities.MealComposition{
		Meal: entities.MealSnapshot{
			ID:          meal.ID,
			Name:        meal.Name,
			Description: meal.Description,
			CreatorID:   meal.CreatorID,
			DietID:      copyID(meal.DietID),
			CategoryID:  copyID(meal.CategoryID),
			Version:     meal.Version,
			LastUpdate:  meal.LastUpdate,
		},
		Ingredients: snapshotLines,
	}
}

func NewHistory(meal *entities.Meal, lines []entities.MealIngredient) *entities.MealHistory {
	return &entities.MealHistory{
		ID:          uuid.New(),
		MealID:      meal.ID,
		MealVersion: meal.Version,
		Composition: datatypes.NewJSONType(BuildComposition(meal, lines)),
	}
}

// Composition returns the snapshot of a history row after checking it belongs to that row.
func Composition(h *entities.MealHistory) (entities.MealComposition, error) {
	comp := h.Composition.Data()
	if comp.Meal.ID != h.MealID {
		return comp, fmt.Errorf("history %s names meal %s: %w", h.ID, comp.Meal.ID, domain.ErrCorruptSnapshot)
	}
	if comp.Meal.Version != h.MealVersion {
		return comp, fmt.Errorf("history %s holds version %d, row says %d: %w", h.ID, comp.Meal.Version, h.MealVersion, domain.ErrCorruptSnapshot)
	}
	for i, l := range comp.Ingredients {
		if l.IngredientID == uuid.Nil {
			return comp, fmt.Errorf("history %s line %d has no ingredient: %w", h.ID, i, domain.ErrCorruptSnapshot)
		}
		if l.Quantity < 0 {
			return comp, fmt.Errorf("history %s line %d has negative quantity: %w", h.ID, i, domain.ErrCorruptSnapshot)
		}
	}
	return comp, nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
