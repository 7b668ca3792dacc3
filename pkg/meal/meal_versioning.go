package meal

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/internal/metrics"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/pkg/authz"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	// MealState is the live meal and its lines, as loaded under the row lock.
	MealState struct {
		Meal        *entities.Meal
		Ingredients []entities.MealIngredient
	}

	// Mutation is one versioned change to a meal. Check runs before anything is written
	// and Apply runs after the outgoing state has been snapshotted.
	Mutation struct {
		Name  string
		Check func(s *MealState) error
		Apply func(ctx context.Context, tx MealRepository, s *MealState) error
	}

	Versioner struct {
		repo MealRepository
		now  func() time.Time
	}
)

func NewVersioner(repo MealRepository) *Versioner {
	return &Versioner{repo: repo, now: time.Now}
}

// Apply runs a mutation as lock, authorize, check, snapshot, mutate, bump, all in one transaction.
func (v *Versioner) Apply(ctx context.Context, mealID uuid.UUID, callerID string, m Mutation) (*entities.Meal, error) {
	var updated *entities.Meal

	err := v.repo.RunInTx(ctx, func(tx MealRepository) error {
		meal, err := tx.LockMealByID(ctx, mealID)
		if err != nil {
			return mapMealErr(err)
		}

		if err := authz.RequireOwner(meal.CreatorID, callerID, domain.ErrMealNotOwned); err != nil {
			return err
		}

		lines, err := tx.GetIngredients(ctx, mealID)
		if err != nil {
			return domain.Unavailable(err)
		}
		state := &MealState{Meal: meal, Ingredients: lines}

		if m.Check != nil {
			if err := m.Check(state); err != nil {
				return err
			}
		}

		if err := v.snapshot(ctx, tx, state); err != nil {
			return err
		}

		if err := m.Apply(ctx, tx, state); err != nil {
			return storageErr(err)
		}

		meal.Version++
		meal.LastUpdate = v.now().UTC()
		if err := tx.UpdateMeal(ctx, meal); err != nil {
			return domain.Unavailable(err)
		}

		updated = meal
		return nil
	})

	metrics.RecordMealMutation(m.Name, outcome(err))
	entry := utils.Log.WithFields(logrus.Fields{
		"meal_id":  mealID,
		"mutation": m.Name,
		"caller":   callerID,
	})
	if err != nil {
		entry.WithError(err).Warn("meal mutation rejected")
		return nil, err
	}
	entry.WithField("version", updated.Version).Info("meal mutated")
	return updated, nil
}

// EnsureSnapshot returns the history row for (mealID, version). The live version is
// snapshotted on demand; any other missing version is not found.
func (v *Versioner) EnsureSnapshot(ctx context.Context, mealID uuid.UUID, version int) (*entities.MealHistory, error) {
	history, err := v.repo.GetHistory(ctx, mealID, version)
	if err == nil {
		return history, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Unavailable(err)
	}

	err = v.repo.RunInTx(ctx, func(tx MealRepository) error {
		meal, lockErr := tx.LockMealByID(ctx, mealID)
		if lockErr != nil && !errors.Is(lockErr, gorm.ErrRecordNotFound) {
			return domain.Unavailable(lockErr)
		}

		// a mutation that committed since the first lookup may have written the row
		found, err := tx.GetHistory(ctx, mealID, version)
		if err == nil {
			history = found
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Unavailable(err)
		}
		if lockErr != nil || meal.Version != version {
			return domain.ErrMealVersionNotFound
		}

		lines, err := tx.GetIngredients(ctx, mealID)
		if err != nil {
			return domain.Unavailable(err)
		}
		if err := v.snapshot(ctx, tx, &MealState{Meal: meal, Ingredients: lines}); err != nil {
			return err
		}

		history, err = tx.GetHistory(ctx, mealID, version)
		if err != nil {
			return domain.Unavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (v *Versioner) snapshot(ctx context.Context, tx MealRepository, s *MealState) error {
	exists, err := tx.HistoryExists(ctx, s.Meal.ID, s.Meal.Version)
	if err != nil {
		return domain.Unavailable(err)
	}
	if exists {
		return nil
	}

	inserted, err := tx.CreateHistory(ctx, NewHistory(s.Meal, s.Ingredients))
	if err != nil {
		return domain.Unavailable(err)
	}
	if inserted {
		metrics.RecordSnapshot()
	}
	return nil
}

func mapMealErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrMealNotFound
	}
	return domain.Unavailable(err)
}

// storageErr keeps domain errors as they are and marks anything else as a storage failure.
func storageErr(err error) error {
	for _, kind := range []error{domain.ErrNotFound, domain.ErrForbidden, domain.ErrConflict, domain.ErrValidation, domain.ErrUnavailable} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return domain.Unavailable(err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "unavailable"
	}
}
