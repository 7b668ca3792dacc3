package diet

import (
	"Nutrition-Tracker/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DietRepository interface {
		CreateDiet(ctx context.Context, diet *entities.Diet) error
		GetDiets(ctx context.Context) ([]entities.Diet, error)
		GetDietByID(ctx context.Context, id uuid.UUID) (*entities.Diet, error)
		GetDietByName(ctx context.Context, name string) (*entities.Diet, error)
		DietExists(ctx context.Context, id uuid.UUID) (bool, error)

		CreateCategory(ctx context.Context, category *entities.MealCategory) error
		GetCategories(ctx context.Context) ([]entities.MealCategory, error)
		GetCategoryByName(ctx context.Context, name string) (*entities.MealCategory, error)
		CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)

		CreateUserDiet(ctx context.Context, userDiet *entities.UserDiet) error
		GetUserDiet(ctx context.Context, userID, dietID uuid.UUID) (*entities.UserDiet, error)
		GetUserDiets(ctx context.Context, userID uuid.UUID) ([]entities.UserDiet, error)
		DeleteUserDiet(ctx context.Context, userID, dietID uuid.UUID) error
	}

	dietRepository struct {
		db *gorm.DB
	}
)

func NewDietRepository(db *gorm.DB) DietRepository {
	return &dietRepository{db: db}
}

func (r *dietRepository) CreateDiet(ctx context.Context, diet *entities.Diet) error {
	return r.db.WithContext(ctx).Create(diet).Error
}

func (r *dietRepository) GetDiets(ctx context.Context) ([]entities.Diet, error) {
	var diets []entities.Diet
	if err := r.db.WithContext(ctx).Order("name asc").Find(&diets).Error; err != nil {
		return nil, err
	}
	return diets, nil
}

func (r *dietRepository) GetDietByID(ctx context.Context, id uuid.UUID) (*entities.Diet, error) {
	var diet entities.Diet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&diet).Error; err != nil {
		return nil, err
	}
	return &diet, nil
}

func (r *dietRepository) GetDietByName(ctx context.Context, name string) (*entities.Diet, error) {
	var diet entities.Diet
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&diet).Error; err != nil {
		return nil, err
	}
	return &diet, nil
}

func (r *dietRepository) DietExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Diet{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *dietRepository) CreateCategory(ctx context.Context, category *entities.MealCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *dietRepository) GetCategories(ctx context.Context) ([]entities.MealCategory, error) {
	var categories []entities.MealCategory
	if err := r.db.WithContext(ctx).Order("category asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *dietRepository) GetCategoryByName(ctx context.Context, name string) (*entities.MealCategory, error) {
	var category entities.MealCategory
	if err := r.db.WithContext(ctx).Where("LOWER(category) = LOWER(?)", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *dietRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.MealCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *dietRepository) CreateUserDiet(ctx context.Context, userDiet *entities.UserDiet) error {
	return r.db.WithContext(ctx).Create(userDiet).Error
}

func (r *dietRepository) GetUserDiet(ctx context.Context, userID, dietID uuid.UUID) (*entities.UserDiet, error) {
	var userDiet entities.UserDiet
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND diet_id = ?", userID, dietID).
		First(&userDiet).Error; err != nil {
		return nil, err
	}
	return &userDiet, nil
}

func (r *dietRepository) GetUserDiets(ctx context.Context, userID uuid.UUID) ([]entities.UserDiet, error) {
	var userDiets []entities.UserDiet
	if err := r.db.WithContext(ctx).
		Preload("Diet").
		Where("user_id = ?", userID).
		Find(&userDiets).Error; err != nil {
		return nil, err
	}
	return userDiets, nil
}

func (r *dietRepository) DeleteUserDiet(ctx context.Context, userID, dietID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND diet_id = ?", userID, dietID).
		Delete(&entities.UserDiet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
