package meal

import (
	"Nutrition-Tracker/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	MealRepository interface {
		// RunInTx runs fn against a repository bound to one database transaction.
		RunInTx(ctx context.Context, fn func(repo MealRepository) error) error

		CreateMeal(ctx context.Context, meal *entities.Meal) error
		GetMealByID(ctx context.Context, id uuid.UUID) (*entities.Meal, error)
		LockMealByID(ctx context.Context, id uuid.UUID) (*entities.Meal, error)
		UpdateMeal(ctx context.Context, meal *entities.Meal) error
		DeleteMeal(ctx context.Context, id uuid.UUID) error
		GetMeals(ctx context.Context, filter MealFilter, page, limit int) ([]*entities.Meal, int64, error)

		GetIngredients(ctx context.Context, mealID uuid.UUID) ([]entities.MealIngredient, error)
		ReplaceIngredients(ctx context.Context, mealID uuid.UUID, lines []entities.MealIngredient) error
		AddIngredient(ctx context.Context, line *entities.MealIngredient) error
		RemoveIngredient(ctx context.Context, mealID, ingredientID uuid.UUID) error

		HistoryExists(ctx context.Context, mealID uuid.UUID, version int) (bool, error)
		CreateHistory(ctx context.Context, history *entities.MealHistory) (bool, error)
		GetHistory(ctx context.Context, mealID uuid.UUID, version int) (*entities.MealHistory, error)
		GetHistoryByID(ctx context.Context, id uuid.UUID) (*entities.MealHistory, error)
		GetHistoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.MealHistory, error)
		ListHistory(ctx context.Context, mealID uuid.UUID) ([]entities.MealHistory, error)
	}

	// MealFilter narrows meal listings. Empty fields do not filter.
	MealFilter struct {
		Query         string
		CreatorID     *uuid.UUID
		AllowedDiets  []uuid.UUID
		ExcludedDiets []uuid.UUID
	}

	mealRepository struct {
		db *gorm.DB
	}
)

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) RunInTx(ctx context.Context, fn func(repo MealRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&mealRepository{db: tx})
	})
}

func (r *mealRepository) CreateMeal(ctx context.Context, meal *entities.Meal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(meal).Error
}

func (r *mealRepository) GetMealByID(ctx context.Context, id uuid.UUID) (*entities.Meal, error) {
	var meal entities.Meal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// LockMealByID loads the meal with SELECT ... FOR UPDATE. Only meaningful inside RunInTx.
func (r *mealRepository) LockMealByID(ctx context.Context, id uuid.UUID) (*entities.Meal, error) {
	var meal entities.Meal
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *mealRepository) UpdateMeal(ctx context.Context, meal *entities.Meal) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meal{}).
		Where("id = ?", meal.ID).
		Updates(map[string]any{
			"name":        meal.Name,
			"description": meal.Description,
			"category_id": meal.CategoryID,
			"diet_id":     meal.DietID,
			"version":     meal.Version,
			"last_update": meal.LastUpdate,
		}).Error
}

// DeleteMeal removes the meal and its ingredient lines. History rows are kept.
func (r *mealRepository) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", id).Delete(&entities.MealIngredient{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Meal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *mealRepository) filtered(ctx context.Context, filter MealFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entities.Meal{})
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if filter.CreatorID != nil {
		q = q.Where("creator_id = ?", *filter.CreatorID)
	}
	if len(filter.AllowedDiets) > 0 {
		q = q.Where("diet_id IN ?", filter.AllowedDiets)
	}
	if len(filter.ExcludedDiets) > 0 {
		q = q.Where("diet_id IS NULL OR diet_id NOT IN ?", filter.ExcludedDiets)
	}
	return q
}

func (r *mealRepository) GetMeals(ctx context.Context, filter MealFilter, page, limit int) ([]*entities.Meal, int64, error) {
	var meals []*entities.Meal
	var count int64
	offset := (page - 1) * limit

	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.filtered(ctx, filter).
		Offset(offset).
		Limit(limit).
		Order("last_update desc").
		Find(&meals).Error; err != nil {
		return nil, 0, err
	}

	return meals, count, nil
}

func (r *mealRepository) GetIngredients(ctx context.Context, mealID uuid.UUID) ([]entities.MealIngredient, error) {
	var lines []entities.MealIngredient
	if err := r.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Order("ingredient_id").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *mealRepository) ReplaceIngredients(ctx context.Context, mealID uuid.UUID, lines []entities.MealIngredient) error {
	if err := r.db.WithContext(ctx).Where("meal_id = ?", mealID).Delete(&entities.MealIngredient{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].MealID = mealID
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error
}

func (r *mealRepository) AddIngredient(ctx context.Context, line *entities.MealIngredient) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error
}

func (r *mealRepository) RemoveIngredient(ctx context.Context, mealID, ingredientID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("meal_id = ? AND ingredient_id = ?", mealID, ingredientID).
		Delete(&entities.MealIngredient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *mealRepository) HistoryExists(ctx context.Context, mealID uuid.UUID, version int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.MealHistory{}).
		Where("meal_id = ? AND meal_version = ?", mealID, version).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateHistory inserts the row unless (meal_id, meal_version) is already recorded.
// It reports whether a row was written.
func (r *mealRepository) CreateHistory(ctx context.Context, history *entities.MealHistory) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meal_id"}, {Name: "meal_version"}},
			DoNothing: true,
		}).
		Create(history)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *mealRepository) GetHistory(ctx context.Context, mealID uuid.UUID, version int) (*entities.MealHistory, error) {
	var history entities.MealHistory
	if err := r.db.WithContext(ctx).
		Where("meal_id = ? AND meal_version = ?", mealID, version).
		First(&history).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *mealRepository) GetHistoryByID(ctx context.Context, id uuid.UUID) (*entities.MealHistory, error) {
	var history entities.MealHistory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&history).Error; err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *mealRepository) GetHistoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.MealHistory, error) {
	var histories []entities.MealHistory
	if len(ids) == 0 {
		return histories, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *mealRepository) ListHistory(ctx context.Context, mealID uuid.UUID) ([]entities.MealHistory, error) {
	var histories []entities.MealHistory
	if err := r.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Order("meal_version asc").
		Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}
