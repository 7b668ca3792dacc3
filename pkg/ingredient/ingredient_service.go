package ingredient

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/internal/metrics"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/internal/utils/cache"
	"Nutrition-Tracker/pkg/nutrient"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	factsKeyPrefix   = "ingredient:facts:"
	defaultSearchTop = 20
	maxSearchTop     = 100
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, page, limit int) ([]domain.IngredientResponse, int64, error)
		GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error)
		SearchIngredients(ctx context.Context, query string, top int) ([]domain.IngredientResponse, error)
		LookupFacts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]nutrient.Facts, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		cache                cache.Cache
	}
)

// NewIngredientService builds the catalog service. A nil cache reads straight from the database.
func NewIngredientService(ingredientRepository IngredientRepository, c cache.Cache) IngredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		cache:                c,
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context, page, limit int) ([]domain.IngredientResponse, int64, error) {
	ingredients, count, err := s.ingredientRepository.GetIngredients(ctx, page, limit)
	if err != nil {
		return nil, 0, domain.Unavailable(err)
	}
	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		res = append(res, ToResponse(i))
	}
	return res, count, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.IngredientResponse{}, domain.ErrParseUUID
	}
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, domain.Unavailable(err)
	}
	return ToResponse(ingredient), nil
}

func (s *ingredientService) SearchIngredients(ctx context.Context, query string, top int) ([]domain.IngredientResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptySearchQuery
	}
	if top < 1 {
		top = defaultSearchTop
	}
	if top > maxSearchTop {
		top = maxSearchTop
	}

	ingredients, err := s.ingredientRepository.SearchIngredients(ctx, query, top)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		res = append(res, ToResponse(&ingredients[i]))
	}
	return res, nil
}

// LookupFacts serves nutrient facts from the cache when possible and fills it on a miss.
// Cache failures fall back to the database.
func (s *ingredientService) LookupFacts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]nutrient.Facts, error) {
	facts := make(map[uuid.UUID]nutrient.Facts, len(ids))
	missing := ids

	if s.cache != nil {
		missing = make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			var f nutrient.Facts
			err := s.cache.Get(ctx, factsKeyPrefix+id.String(), &f)
			switch {
			case err == nil:
				facts[id] = f
				metrics.RecordCacheLookup(true)
			case errors.Is(err, cache.ErrMiss):
				missing = append(missing, id)
				metrics.RecordCacheLookup(false)
			default:
				utils.Log.WithError(err).Warn("ingredient cache read failed")
				missing = append(missing, id)
			}
		}
	}
	if len(missing) == 0 {
		return facts, nil
	}

	found, err := s.ingredientRepository.GetIngredientsByIDs(ctx, missing)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	for i := range found {
		f := nutrient.FactsOf(&found[i])
		facts[found[i].ID] = f
		if s.cache != nil {
			if err := s.cache.Set(ctx, factsKeyPrefix+found[i].ID.String(), f); err != nil {
				utils.Log.WithError(err).Warn("ingredient cache write failed")
			}
		}
	}
	return facts, nil
}

func ToResponse(i *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              i.ID.String(),
		ProductName:     i.ProductName,
		GenericName:     i.GenericName,
		Kcal100g:        i.Kcal100g,
		Protein100g:     i.Protein100g,
		Carbs100g:       i.Carbs100g,
		Fat100g:         i.Fat100g,
		Brand:           i.Brand,
		Barcode:         i.Barcode,
		ImageURL:        i.ImageURL,
		LabelsTags:      i.LabelsTags,
		ProductQuantity: i.ProductQuantity,
		Allergens:       i.Allergens,
	}
}
