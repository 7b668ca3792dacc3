package ingredient

import (
	"Nutrition-Tracker/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const searchDocument = "to_tsvector('english', product_name || ' ' || coalesce(generic_name, ''))"

type (
	IngredientRepository interface {
		GetIngredients(ctx context.Context, page, limit int) ([]*entities.Ingredient, int64, error)
		GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error)
		GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error)
		SearchIngredients(ctx context.Context, query string, top int) ([]entities.Ingredient, error)
		CreateIngredients(ctx context.Context, batch []entities.Ingredient) error
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetIngredients(ctx context.Context, page, limit int) ([]*entities.Ingredient, int64, error) {
	var ingredients []*entities.Ingredient
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Order("product_name asc").
		Find(&ingredients).Error; err != nil {
		return nil, 0, err
	}

	return ingredients, count, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error) {
	var ingredients []entities.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// SearchIngredients runs a full-text query over product and generic names.
// Only products with a known quantity are returned.
func (r *ingredientRepository) SearchIngredients(ctx context.Context, query string, top int) ([]entities.Ingredient, error) {
	var ingredients []entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where(searchDocument+" @@ plainto_tsquery('english', ?)", query).
		Where("product_quantity IS NOT NULL").
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(" + searchDocument + ", plainto_tsquery('english', ?)) DESC",
			Vars:               []any{query},
			WithoutParentheses: true,
		}}).
		Limit(top).
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) CreateIngredients(ctx context.Context, batch []entities.Ingredient) error {
	if len(batch) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(batch, 1000).Error
}
