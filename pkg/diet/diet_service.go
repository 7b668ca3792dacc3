package diet

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DietService interface {
		CreateDiet(ctx context.Context, req domain.CreateDietRequest) (domain.DietResponse, error)
		GetDiets(ctx context.Context) ([]domain.DietResponse, error)
		GetDiet(ctx context.Context, id string) (domain.DietResponse, error)
		CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.CategoryResponse, error)
		GetCategories(ctx context.Context) ([]domain.CategoryResponse, error)
		AssignUserDiet(ctx context.Context, req domain.AssignUserDietRequest, userID string) (domain.UserDietResponse, error)
		RemoveUserDiet(ctx context.Context, dietID string, userID string) error
		GetUserDiets(ctx context.Context, userID string) ([]domain.UserDietResponse, error)
	}

	dietService struct {
		dietRepository DietRepository
	}
)

func NewDietService(dietRepository DietRepository) DietService {
	return &dietService{dietRepository: dietRepository}
}

func (s *dietService) CreateDiet(ctx context.Context, req domain.CreateDietRequest) (domain.DietResponse, error) {
	if _, err := s.dietRepository.GetDietByName(ctx, req.Name); err == nil {
		return domain.DietResponse{}, domain.ErrDietExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DietResponse{}, domain.Unavailable(err)
	}

	diet := &entities.Diet{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.dietRepository.CreateDiet(ctx, diet); err != nil {
		return domain.DietResponse{}, domain.Unavailable(err)
	}
	return toDietResponse(diet), nil
}

func (s *dietService) GetDiets(ctx context.Context) ([]domain.DietResponse, error) {
	diets, err := s.dietRepository.GetDiets(ctx)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	res := make([]domain.DietResponse, 0, len(diets))
	for i := range diets {
		res = append(res, toDietResponse(&diets[i]))
	}
	return res, nil
}

func (s *dietService) GetDiet(ctx context.Context, id string) (domain.DietResponse, error) {
	dietID, err := uuid.Parse(id)
	if err != nil {
		return domain.DietResponse{}, domain.ErrParseUUID
	}
	diet, err := s.dietRepository.GetDietByID(ctx, dietID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DietResponse{}, domain.ErrDietNotFound
		}
		return domain.DietResponse{}, domain.Unavailable(err)
	}
	return toDietResponse(diet), nil
}

func (s *dietService) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.CategoryResponse, error) {
	if _, err := s.dietRepository.GetCategoryByName(ctx, req.Category); err == nil {
		return domain.CategoryResponse{}, domain.ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.CategoryResponse{}, domain.Unavailable(err)
	}

	category := &entities.MealCategory{
		ID:          uuid.New(),
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.dietRepository.CreateCategory(ctx, category); err != nil {
		return domain.CategoryResponse{}, domain.Unavailable(err)
	}
	return toCategoryResponse(category), nil
}

func (s *dietService) GetCategories(ctx context.Context) ([]domain.CategoryResponse, error) {
	categories, err := s.dietRepository.GetCategories(ctx)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	res := make([]domain.CategoryResponse, 0, len(categories))
	for i := range categories {
		res = append(res, toCategoryResponse(&categories[i]))
	}
	return res, nil
}

func (s *dietService) AssignUserDiet(ctx context.Context, req domain.AssignUserDietRequest, userID string) (domain.UserDietResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UserDietResponse{}, domain.ErrParseUUID
	}
	dietID, err := uuid.Parse(req.DietID)
	if err != nil {
		return domain.UserDietResponse{}, domain.ErrParseUUID
	}

	diet, err := s.dietRepository.GetDietByID(ctx, dietID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserDietResponse{}, domain.ErrDietNotFound
		}
		return domain.UserDietResponse{}, domain.Unavailable(err)
	}

	if _, err := s.dietRepository.GetUserDiet(ctx, userUUID, dietID); err == nil {
		return domain.UserDietResponse{}, domain.ErrUserDietExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserDietResponse{}, domain.Unavailable(err)
	}

	allowed := true
	if req.Allowed != nil {
		allowed = *req.Allowed
	}
	userDiet := &entities.UserDiet{
		ID:      uuid.New(),
		UserID:  userUUID,
		DietID:  dietID,
		Allowed: allowed,
	}
	if err := s.dietRepository.CreateUserDiet(ctx, userDiet); err != nil {
		return domain.UserDietResponse{}, domain.Unavailable(err)
	}

	return domain.UserDietResponse{Diet: toDietResponse(diet), Allowed: allowed}, nil
}

func (s *dietService) RemoveUserDiet(ctx context.Context, dietID string, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	dietUUID, err := uuid.Parse(dietID)
	if err != nil {
		return domain.ErrParseUUID
	}
	if err := s.dietRepository.DeleteUserDiet(ctx, userUUID, dietUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserDietNotFound
		}
		return domain.Unavailable(err)
	}
	return nil
}

func (s *dietService) GetUserDiets(ctx context.Context, userID string) ([]domain.UserDietResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	userDiets, err := s.dietRepository.GetUserDiets(ctx, userUUID)
	if err != nil {
		return nil, domain.Unavailable(err)
	}

	res := make([]domain.UserDietResponse, 0, len(userDiets))
	for _, ud := range userDiets {
		item := domain.UserDietResponse{Allowed: ud.Allowed}
		if ud.Diet != nil {
			item.Diet = toDietResponse(ud.Diet)
		} else {
			item.Diet = domain.DietResponse{ID: ud.DietID.String()}
		}
		res = append(res, item)
	}
	return res, nil
}

func toDietResponse(d *entities.Diet) domain.DietResponse {
	return domain.DietResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
	}
}

func toCategoryResponse(c *entities.MealCategory) domain.CategoryResponse {
	return domain.CategoryResponse{
		ID:          c.ID.String(),
		Category:    c.Category,
		Description: c.Description,
	}
}
