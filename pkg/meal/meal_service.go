package meal

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/pkg/authz"
	"Nutrition-Tracker/pkg/ingredient"
	"Nutrition-Tracker/pkg/nutrient"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	// DietLookup is the part of the diet store meals depend on.
	DietLookup interface {
		CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
		DietExists(ctx context.Context, id uuid.UUID) (bool, error)
		GetUserDiets(ctx context.Context, userID uuid.UUID) ([]entities.UserDiet, error)
	}

	IngredientLookup interface {
		GetIngredientsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Ingredient, error)
	}

	MealService interface {
		CreateMeal(ctx context.Context, req domain.CreateMealRequest, userID string) (domain.MealDetailResponse, error)
		GetMeal(ctx context.Context, mealID string) (domain.MealDetailResponse, error)
		GetMeals(ctx context.Context, page, limit int) ([]domain.MealResponse, int64, error)
		GetUserMeals(ctx context.Context, userID string, page, limit int) ([]domain.MealResponse, int64, error)
		SearchMeals(ctx context.Context, req domain.SearchMealRequest, userID string, page, limit int) ([]domain.MealResponse, int64, error)
		UpdateMeal(ctx context.Context, mealID string, req domain.UpdateMealRequest, userID string) (domain.MealResponse, error)
		AssignCategory(ctx context.Context, mealID string, req domain.AssignCategoryRequest, userID string) (domain.MealResponse, error)
		UpdateCategory(ctx context.Context, mealID string, req domain.AssignCategoryRequest, userID string) (domain.MealResponse, error)
		RemoveCategory(ctx context.Context, mealID string, userID string) (domain.MealResponse, error)
		AssignDiet(ctx context.Context, mealID string, req domain.AssignDietRequest, userID string) (domain.MealResponse, error)
		UpdateDiet(ctx context.Context, mealID string, req domain.AssignDietRequest, userID string) (domain.MealResponse, error)
		RemoveDiet(ctx context.Context, mealID string, userID string) (domain.MealResponse, error)
		ReplaceIngredients(ctx context.Context, mealID string, req domain.ReplaceIngredientsRequest, userID string) (domain.MealDetailResponse, error)
		AddIngredient(ctx context.Context, mealID string, req domain.MealIngredientRequest, userID string) (domain.MealDetailResponse, error)
		RemoveIngredient(ctx context.Context, mealID string, ingredientID string, userID string) (domain.MealDetailResponse, error)
		GetMealIngredients(ctx context.Context, mealID string) ([]domain.MealIngredientResponse, error)
		DeleteMeal(ctx context.Context, mealID string, userID string) error
		GetMealVersions(ctx context.Context, mealID string) ([]domain.MealVersionResponse, error)
		GetMealVersion(ctx context.Context, mealID string, version int) (domain.MealVersionResponse, error)
		GetMealNutrients(ctx context.Context, mealID string) (domain.NutrientsResponse, error)
		GetMealVersionNutrients(ctx context.Context, mealID string, version int) (domain.NutrientsResponse, error)
	}

	mealService struct {
		mealRepository MealRepository
		dietLookup     DietLookup
		ingredients    IngredientLookup
		versioner      *Versioner
		aggregator     *nutrient.Aggregator
	}
)

func NewMealService(
	mealRepository MealRepository,
	dietLookup DietLookup,
	ingredients IngredientLookup,
	versioner *Versioner,
	aggregator *nutrient.Aggregator,
) MealService {
	return &mealService{
		mealRepository: mealRepository,
		dietLookup:     dietLookup,
		ingredients:    ingredients,
		versioner:      versioner,
		aggregator:     aggregator,
	}
}

func (s *mealService) CreateMeal(ctx context.Context, req domain.CreateMealRequest, userID string) (domain.MealDetailResponse, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.MealDetailResponse{}, domain.ErrParseUUID
	}

	categoryID, err := s.optionalCategory(ctx, req.CategoryID)
	if err != nil {
		return domain.MealDetailResponse{}, err
	}
	dietID, err := s.optionalDiet(ctx, req.DietID)
	if err != nil {
		return domain.MealDetailResponse{}, err
	}
	lines, err := s.resolveLines(ctx, req.Ingredients)
	if err != nil {
		return domain.MealDetailResponse{}, err
	}

	meal := &entities.Meal{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   creatorID,
		CategoryID:  categoryID,
		DietID:      dietID,
		Version:     1,
		LastUpdate:  time.Now().UTC(),
	}

	err = s.mealRepository.RunInTx(ctx, func(tx MealRepository) error {
		if err := tx.CreateMeal(ctx, meal); err != nil {
			return err
		}
		if err := tx.ReplaceIngredients(ctx, meal.ID, lines); err != nil {
			return err
		}
		_, err := tx.CreateHistory(ctx, NewHistory(meal, lines))
		return err
	})
	if err != nil {
		return domain.MealDetailResponse{}, domain.Unavailable(err)
	}

	utils.Log.WithFields(logrus.Fields{"meal_id": meal.ID, "creator_id": creatorID}).Info("meal created")
	return s.detail(ctx, meal, lines)
}

func (s *mealService) GetMeal(ctx context.Context, mealID string) (domain.MealDetailResponse, error) {
	meal, err := s.loadMeal(ctx, mealID)
	if err != nil {
		return domain.MealDetailResponse{}, err
	}
	lines, err := s.mealRepository.GetIngredients(ctx, meal.ID)
	if err != nil {
		return domain.MealDetailResponse{}, domain.Unavailable(err)
	}
	return s.detail(ctx, meal, lines)
}

func (s *mealService) GetMeals(ctx context.Context, page, limit int) ([]domain.MealResponse, int64, error) {
	return s.listMeals(ctx, MealFilter{}, page, limit)
}

func (s *mealService) GetUserMeals(ctx context.Context, userID string, page, limit int) ([]domain.MealResponse, int64, error) {
	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}
	return s.listMeals(ctx, MealFilter{CreatorID: &creatorID}, page, limit)
}

// SearchMeals matches name or description and applies the caller's diet preferences.
// Without allow_more only meals in the caller's allowed diets are returned.
func (s *mealService) SearchMeals(ctx context.Context, req domain.SearchMealRequest, userID string, page, limit int) ([]domain.MealResponse, int64, error) {
	callerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}
	userDiets, err := s.dietLookup.GetUserDiets(ctx, callerID)
	if err != nil {
		return nil, 0, domain.Unavailable(err)
	}

	filter := MealFilter{Query: req.Query}
	for _, ud := range userDiets {
		if !ud.Allowed {
			filter.ExcludedDiets = append(filter.ExcludedDiets, ud.DietID)
		} else if !req.AllowMore {
			filter.AllowedDiets = append(filter.AllowedDiets, ud.DietID)
		}
	}
	return s.listMeals(ctx, filter, page, limit)
}

func (s *mealService) UpdateMeal(ctx context.Context, mealID string, req domain.UpdateMealRequest, userID string) (domain.MealResponse, error) {
	return s.applySimple(ctx, mealID, userID, UpdateDetails(req.Name, req.Description))
}

func (s *mealService) AssignCategory(ctx context.Context, mealID string, req domain.AssignCategoryRequest, userID string) (domain.MealResponse, error) {
	categoryID, err := s.requireCategory(ctx, req.CategoryID)
	if err != nil {
		return domain.MealResponse{}, err
	}
	return s.applySimple(ctx, mealID, userID, AssignCategory(categoryID))
}

func (s *mealService) UpdateCategory(ctx context.Context, mealID string, req domain.AssignCategoryRequest, userID string) (domain.MealResponse, error) {
	categoryID, err := s.requireCategory(ctx, req.CategoryID)
	if err != nil {
		return domain.MealResponse{}, err
	}
	return s.applySimple(ctx, mealID, userID, UpdateCategory(categoryID))
}

func (s *mealService) RemoveCategory(ctx context.Context, mealID string, userID string) (domain.MealResponse, error) {
	return s.applySimple(ctx, mealID, userID, RemoveCategory())
}

func (s *mealService) AssignDiet(ctx context.Context, mealID string, req domain.AssignDietRequest, userID string) (domain.MealResponse, error) {
	dietID, err := s.requireDiet(ctx, req.DietID)
	if err != nil {
		return domain.MealResponse{}, err
	}
	return s.applySimple(ctx, mealID, userID, AssignDiet(dietID))
}

func (s *mealService) UpdateDiet(ctx context.Context, mealID string, req domain.AssignDietRequest, userID string) (domain.MealResponse, error) {
	dietID, err := s.requireDiet(ctx, req.DietID)
	if err != nil {
		return domain.MealResponse{}, err
	}
	return s.applySimple(ctx, mealID, userID, UpdateDiet(dietID))
}

func (s *mealService) RemoveDiet(ctx context.Context, mealID string, userID string) (domain.MealResponse, error) {
	return s.applySimple(ctx, mealID, userID, RemoveDiet())
}

func (s *mealService) ReplaceIngredients(ctx context.Context, mealID string, req domain.ReplaceIngredientsRequest, userID string) (domain.MealDetailResponse, error) {
	lines, err := s.resolveLines(ctx, req.Ingredients)
	if err != nil {
		return domain.MealDetailResponse{}, err
	}
	return s.applyDetailed(ctx, mealID, userID, ReplaceIngredients(lines))
}

func (s *mealService) AddIngredient(ctx context.Context, mealID string, req domain.MealIngredientRequest, userID string) (domain.MealDetailResponse, error) {
	lines, err := s.resolveLines(ctx, []domain.MealIngredientRequest{req})
	if err != nil {
		return domain.MealDetailResponse{}, err
	}
	return s.applyDetailed(ctx, mealID, userID, AddIngredient(lines[0]))
}

func (s *mealService) RemoveIngredient(ctx context.Context, mealID string, ingredientID string, userID string) (domain.MealDetailResponse, error) {
	id, err := uuid.Parse(ingredientID)
	if err != nil {
		return domain.MealDetailResponse{}, domain.ErrParseUUID
	}
	return s.applyDetailed(ctx, mealID, userID, RemoveIngredient(id))
}

func (s *mealService) GetMealIngredients(ctx context.Context, mealID string) ([]domain.MealIngredientResponse, error) {
	meal, err := s.loadMeal(ctx, mealID)
	if err != nil {
		return nil, err
	}
	lines, err := s.mealRepository.GetIngredients(ctx, meal.ID)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	return s.ingredientLines(ctx, nutrient.LinesFromMeal(lines))
}

// DeleteMeal removes the live meal. Its history stays so that logs and schedules still resolve.
func (s *mealService) DeleteMeal(ctx context.Context, mealID string, userID string) error {
	meal, err := s.loadMeal(ctx, mealID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(meal.CreatorID, userID, domain.ErrMealNotOwned); err != nil {
		return err
	}
	if err := s.mealRepository.DeleteMeal(ctx, meal.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMealNotFound
		}
		return domain.Unavailable(err)
	}

	utils.Log.WithField("meal_id", meal.ID).Info("meal deleted")
	return nil
}

func (s *mealService) GetMealVersions(ctx context.Context, mealID string) ([]domain.MealVersionResponse, error) {
	id, err := uuid.Parse(mealID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	histories, err := s.mealRepository.ListHistory(ctx, id)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	if len(histories) == 0 {
		if _, err := s.loadMeal(ctx, mealID); err != nil {
			return nil, err
		}
	}

	res := make([]domain.MealVersionResponse, 0, len(histories))
	for i := range histories {
		version, err := s.versionResponse(ctx, &histories[i], false)
		if err != nil {
			return nil, err
		}
		res = append(res, version)
	}
	return res, nil
}

func (s *mealService) GetMealVersion(ctx context.Context, mealID string, version int) (domain.MealVersionResponse, error) {
	history, err := s.loadHistory(ctx, mealID, version)
	if err != nil {
		return domain.MealVersionResponse{}, err
	}
	return s.versionResponse(ctx, history, true)
}

func (s *mealService) GetMealNutrients(ctx context.Context, mealID string) (domain.NutrientsResponse, error) {
	meal, err := s.loadMeal(ctx, mealID)
	if err != nil {
		return domain.NutrientsResponse{}, err
	}
	lines, err := s.mealRepository.GetIngredients(ctx, meal.ID)
	if err != nil {
		return domain.NutrientsResponse{}, domain.Unavailable(err)
	}
	return s.aggregator.Summary(ctx, nutrient.LinesFromMeal(lines))
}

func (s *mealService) GetMealVersionNutrients(ctx context.Context, mealID string, version int) (domain.NutrientsResponse, error) {
	history, err := s.loadHistory(ctx, mealID, version)
	if err != nil {
		return domain.NutrientsResponse{}, err
	}
	comp, err := Composition(history)
	if err != nil {
		return domain.NutrientsResponse{}, err
	}
	return s.aggregator.Summary(ctx, nutrient.LinesFromSnapshot(comp.Ingredients))
}

func (s *mealService) applySimple(ctx context.Context, mealID, userID string, m Mutation) (domain.MealResponse, error) {
	id, err := uuid.Parse(mealID)
	if err != nil {
		return domain.MealResponse{}, domain.ErrParseUUID
	}
	meal, err := s.versioner.Apply(ctx, id, userID, m)
	if err != nil {
		return domain.MealResponse{}, err
	}
	return ToMealResponse(meal), nil
}

func (s *mealService) applyDetailed(ctx context.Context, mealID, userID string, m Mutation) (domain.MealDetailResponse, error) {
	id, err := uuid.Parse(mealID)
	if err != nil {
		return domain.MealDetailResponse{}, domain.ErrParseUUID
	}
	meal, err := s.versioner.Apply(ctx, id, userID, m)
	if err != nil {
		return domain.MealDetailResponse{}, err
	}
	lines, err := s.mealRepository.GetIngredients(ctx, meal.ID)
	if err != nil {
		return domain.MealDetailResponse{}, domain.Unavailable(err)
	}
	return s.detail(ctx, meal, lines)
}

func (s *mealService) listMeals(ctx context.Context, filter MealFilter, page, limit int) ([]domain.MealResponse, int64, error) {
	meals, count, err := s.mealRepository.GetMeals(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, domain.Unavailable(err)
	}
	res := make([]domain.MealResponse, 0, len(meals))
	for _, m := range meals {
		res = append(res, ToMealResponse(m))
	}
	return res, count, nil
}

func (s *mealService) loadMeal(ctx context.Context, mealID string) (*entities.Meal, error) {
	id, err := uuid.Parse(mealID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	meal, err := s.mealRepository.GetMealByID(ctx, id)
	if err != nil {
		return nil, mapMealErr(err)
	}
	return meal, nil
}

func (s *mealService) loadHistory(ctx context.Context, mealID string, version int) (*entities.MealHistory, error) {
	id, err := uuid.Parse(mealID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	history, err := s.mealRepository.GetHistory(ctx, id, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMealVersionNotFound
		}
		return nil, domain.Unavailable(err)
	}
	return history, nil
}

func (s *mealService) versionResponse(ctx context.Context, h *entities.MealHistory, withDetails bool) (domain.MealVersionResponse, error) {
	comp, err := Composition(h)
	if err != nil {
		return domain.MealVersionResponse{}, err
	}

	lines := nutrient.LinesFromSnapshot(comp.Ingredients)
	var ingredients []domain.MealIngredientResponse
	if withDetails {
		ingredients, err = s.ingredientLines(ctx, lines)
		if err != nil {
			return domain.MealVersionResponse{}, err
		}
	} else {
		ingredients = plainLines(lines)
	}

	return domain.MealVersionResponse{
		ID:          h.ID.String(),
		MealID:      h.MealID.String(),
		MealVersion: h.MealVersion,
		Meal:        SnapshotResponse(comp.Meal),
		Ingredients: ingredients,
		CreatedAt:   h.CreatedAt,
	}, nil
}

func (s *mealService) detail(ctx context.Context, meal *entities.Meal, lines []entities.MealIngredient) (domain.MealDetailResponse, error) {
	ingredients, err := s.ingredientLines(ctx, nutrient.LinesFromMeal(lines))
	if err != nil {
		return domain.MealDetailResponse{}, err
	}
	return domain.MealDetailResponse{
		MealResponse: ToMealResponse(meal),
		Ingredients:  ingredients,
	}, nil
}

// ingredientLines attaches catalog details. Lines without a catalog row are returned bare.
func (s *mealService) ingredientLines(ctx context.Context, lines []nutrient.Line) ([]domain.MealIngredientResponse, error) {
	res := plainLines(lines)
	if len(lines) == 0 {
		return res, nil
	}
	found, err := s.ingredients.GetIngredientsByIDs(ctx, nutrient.IDs(lines))
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	byID := make(map[uuid.UUID]*entities.Ingredient, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	for i, l := range lines {
		if ing, ok := byID[l.IngredientID]; ok {
			detail := ingredient.ToResponse(ing)
			res[i].Ingredient = &detail
		}
	}
	return res, nil
}

func (s *mealService) resolveLines(ctx context.Context, reqs []domain.MealIngredientRequest) ([]entities.MealIngredient, error) {
	lines := make([]entities.MealIngredient, 0, len(reqs))
	for _, r := range reqs {
		id, err := uuid.Parse(r.IngredientID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		lines = append(lines, entities.MealIngredient{
			IngredientID: id,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
		})
	}
	if err := checkLines(lines); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return lines, nil
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.IngredientID)
	}
	found, err := s.ingredients.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	if len(found) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}
	return lines, nil
}

func (s *mealService) optionalCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := s.requireCategory(ctx, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (s *mealService) optionalDiet(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := s.requireDiet(ctx, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (s *mealService) requireCategory(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	ok, err := s.dietLookup.CategoryExists(ctx, id)
	if err != nil {
		return uuid.Nil, domain.Unavailable(err)
	}
	if !ok {
		return uuid.Nil, domain.ErrCategoryNotFound
	}
	return id, nil
}

func (s *mealService) requireDiet(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	ok, err := s.dietLookup.DietExists(ctx, id)
	if err != nil {
		return uuid.Nil, domain.Unavailable(err)
	}
	if !ok {
		return uuid.Nil, domain.ErrDietNotFound
	}
	return id, nil
}

func plainLines(lines []nutrient.Line) []domain.MealIngredientResponse {
	res := make([]domain.MealIngredientResponse, 0, len(lines))
	for _, l := range lines {
		res = append(res, domain.MealIngredientResponse{
			IngredientID: l.IngredientID.String(),
			Quantity:     l.Quantity,
			Unit:         l.Unit,
		})
	}
	return res
}

func ToMealResponse(m *entities.Meal) domain.MealResponse {
	return domain.MealResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		CreatorID:   m.CreatorID.String(),
		CategoryID:  idString(m.CategoryID),
		DietID:      idString(m.DietID),
		Version:     m.Version,
		LastUpdate:  m.LastUpdate,
	}
}

func SnapshotResponse(s entities.MealSnapshot) domain.MealResponse {
	return domain.MealResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		CreatorID:   s.CreatorID.String(),
		CategoryID:  idString(s.CategoryID),
		DietID:      idString(s.DietID),
		Version:     s.Version,
		LastUpdate:  s.LastUpdate,
	}
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}
