package handlers

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/internal/api/presenters"
	"Nutrition-Tracker/pkg/meal"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MealHandler interface {
		CreateMeal(c *fiber.Ctx) error
		GetMeals(c *fiber.Ctx) error
		GetMyMeals(c *fiber.Ctx) error
		SearchMeals(c *fiber.Ctx) error
		GetMeal(c *fiber.Ctx) error
		UpdateMeal(c *fiber.Ctx) error
		DeleteMeal(c *fiber.Ctx) error

		AssignCategory(c *fiber.Ctx) error
		UpdateCategory(c *fiber.Ctx) error
		RemoveCategory(c *fiber.Ctx) error
		AssignDiet(c *fiber.Ctx) error
		UpdateDiet(c *fiber.Ctx) error
		RemoveDiet(c *fiber.Ctx) error

		GetMealIngredients(c *fiber.Ctx) error
		ReplaceIngredients(c *fiber.Ctx) error
		AddIngredient(c *fiber.Ctx) error
		RemoveIngredient(c *fiber.Ctx) error

		GetMealVersions(c *fiber.Ctx) error
		GetMealVersion(c *fiber.Ctx) error
		GetMealNutrients(c *fiber.Ctx) error
		GetMealVersionNutrients(c *fiber.Ctx) error
	}

	mealHandler struct {
		mealService meal.MealService
		validator   *validator.Validate
	}
)

func NewMealHandler(mealService meal.MealService, validator *validator.Validate) MealHandler {
	return &mealHandler{
		mealService: mealService,
		validator:   validator,
	}
}

func (h *mealHandler) CreateMeal(c *fiber.Ctx) error {
	req := new(domain.CreateMealRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMeal, err)
	}

	res, err := h.mealService.CreateMeal(c.Context(), *req, userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedCreateMeal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateMeal)
}

func (h *mealHandler) GetMeals(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	meals, count, err := h.mealService.GetMeals(c.Context(), page, limit)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetMeals, err)
	}
	return presenters.SuccessResponse(c, paginated(meals, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetMeals)
}

func (h *mealHandler) GetMyMeals(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	meals, count, err := h.mealService.GetUserMeals(c.Context(), userID(c), page, limit)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetMeals, err)
	}
	return presenters.SuccessResponse(c, paginated(meals, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetMeals)
}

func (h *mealHandler) SearchMeals(c *fiber.Ctx) error {
	req := new(domain.SearchMealRequest)
	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	page, limit := pageParams(c)

	meals, count, err := h.mealService.SearchMeals(c.Context(), *req, userID(c), page, limit)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetMeals, err)
	}
	return presenters.SuccessResponse(c, paginated(meals, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetMeals)
}

func (h *mealHandler) GetMeal(c *fiber.Ctx) error {
	res, err := h.mealService.GetMeal(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetMeal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMeal)
}

func (h *mealHandler) UpdateMeal(c *fiber.Ctx) error {
	req := new(domain.UpdateMealRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}

	res, err := h.mealService.UpdateMeal(c.Context(), c.Params("id"), *req, userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedUpdateMeal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMeal)
}

func (h *mealHandler) DeleteMeal(c *fiber.Ctx) error {
	if err := h.mealService.DeleteMeal(c.Context(), c.Params("id"), userID(c)); err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedDeleteMeal, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteMeal)
}

func (h *mealHandler) AssignCategory(c *fiber.Ctx) error {
	req := new(domain.AssignCategoryRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}
	res, err := h.mealService.AssignCategory(c.Context(), c.Params("id"), *req, userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) UpdateCategory(c *fiber.Ctx) error {
	req := new(domain.AssignCategoryRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}
	res, err := h.mealService.UpdateCategory(c.Context(), c.Params("id"), *req, userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) RemoveCategory(c *fiber.Ctx) error {
	res, err := h.mealService.RemoveCategory(c.Context(), c.Params("id"), userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) AssignDiet(c *fiber.Ctx) error {
	req := new(domain.AssignDietRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}
	res, err := h.mealService.AssignDiet(c.Context(), c.Params("id"), *req, userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) UpdateDiet(c *fiber.Ctx) error {
	req := new(domain.AssignDietRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}
	res, err := h.mealService.UpdateDiet(c.Context(), c.Params("id"), *req, userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) RemoveDiet(c *fiber.Ctx) error {
	res, err := h.mealService.RemoveDiet(c.Context(), c.Params("id"), userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) GetMealIngredients(c *fiber.Ctx) error {
	res, err := h.mealService.GetMealIngredients(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetMealIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMealIngredients)
}

func (h *mealHandler) ReplaceIngredients(c *fiber.Ctx) error {
	req := new(domain.ReplaceIngredientsRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}
	res, err := h.mealService.ReplaceIngredients(c.Context(), c.Params("id"), *req, userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) AddIngredient(c *fiber.Ctx) error {
	req := new(domain.MealIngredientRequest)
	if err := h.bind(c, req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMeal, err)
	}
	res, err := h.mealService.AddIngredient(c.Context(), c.Params("id"), *req, userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) RemoveIngredient(c *fiber.Ctx) error {
	res, err := h.mealService.RemoveIngredient(c.Context(), c.Params("id"), c.Params("ingredient_id"), userID(c))
	return h.mealUpdated(c, res, err)
}

func (h *mealHandler) GetMealVersions(c *fiber.Ctx) error {
	res, err := h.mealService.GetMealVersions(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetMealVersions, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMealVersions)
}

func (h *mealHandler) GetMealVersion(c *fiber.Ctx) error {
	version, err := c.ParamsInt("version")
	if err != nil || version < 1 {
		return presenters.FailedResponse(c, domain.MessageFailedGetMealVersion, domain.ErrInvalidVersion)
	}

	res, err := h.mealService.GetMealVersion(c.Context(), c.Params("id"), version)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetMealVersion, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMealVersion)
}

func (h *mealHandler) GetMealNutrients(c *fiber.Ctx) error {
	res, err := h.mealService.GetMealNutrients(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetNutrients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetNutrients)
}

func (h *mealHandler) GetMealVersionNutrients(c *fiber.Ctx) error {
	version, err := c.ParamsInt("version")
	if err != nil || version < 1 {
		return presenters.FailedResponse(c, domain.MessageFailedGetNutrients, domain.ErrInvalidVersion)
	}

	res, err := h.mealService.GetMealVersionNutrients(c.Context(), c.Params("id"), version)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetNutrients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetNutrients)
}

// bind decodes and validates a mutation body.
func (h *mealHandler) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return err
	}
	return h.validator.Struct(req)
}

func (h *mealHandler) mealUpdated(c *fiber.Ctx, res any, err error) error {
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedUpdateMeal, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMeal)
}
