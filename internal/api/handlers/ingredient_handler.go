package handlers

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/internal/api/presenters"
	"Nutrition-Tracker/pkg/ingredient"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type (
	IngredientHandler interface {
		GetIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
		SearchIngredients(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService) IngredientHandler {
	return &ingredientHandler{ingredientService: ingredientService}
}

func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	items, count, err := h.ingredientService.GetIngredients(c.Context(), page, limit)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, paginated(items, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetIngredient(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredient(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetIngredient, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredient)
}

func (h *ingredientHandler) SearchIngredients(c *fiber.Ctx) error {
	top, err := strconv.Atoi(c.Query("top", "0"))
	if err != nil {
		top = 0
	}

	res, err := h.ingredientService.SearchIngredients(c.Context(), c.Query("q"), top)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedSearchIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchIngredients)
}
