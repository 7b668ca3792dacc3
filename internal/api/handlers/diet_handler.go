package handlers

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/internal/api/presenters"
	"Nutrition-Tracker/pkg/diet"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DietHandler interface {
		CreateDiet(c *fiber.Ctx) error
		GetDiets(c *fiber.Ctx) error
		GetDiet(c *fiber.Ctx) error
		CreateCategory(c *fiber.Ctx) error
		GetCategories(c *fiber.Ctx) error
		AssignUserDiet(c *fiber.Ctx) error
		RemoveUserDiet(c *fiber.Ctx) error
		GetUserDiets(c *fiber.Ctx) error
	}

	dietHandler struct {
		dietService diet.DietService
		validator   *validator.Validate
	}
)

func NewDietHandler(dietService diet.DietService, validator *validator.Validate) DietHandler {
	return &dietHandler{
		dietService: dietService,
		validator:   validator,
	}
}

func (h *dietHandler) CreateDiet(c *fiber.Ctx) error {
	req := new(domain.CreateDietRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDiet, err)
	}

	res, err := h.dietService.CreateDiet(c.Context(), *req)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedCreateDiet, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDiet)
}

func (h *dietHandler) GetDiets(c *fiber.Ctx) error {
	res, err := h.dietService.GetDiets(c.Context())
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetDiets, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDiets)
}

func (h *dietHandler) GetDiet(c *fiber.Ctx) error {
	res, err := h.dietService.GetDiet(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetDiet, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDiet)
}

func (h *dietHandler) CreateCategory(c *fiber.Ctx) error {
	req := new(domain.CreateCategoryRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCategory, err)
	}

	res, err := h.dietService.CreateCategory(c.Context(), *req)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedCreateCategory, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateCategory)
}

func (h *dietHandler) GetCategories(c *fiber.Ctx) error {
	res, err := h.dietService.GetCategories(c.Context())
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetCategories, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *dietHandler) AssignUserDiet(c *fiber.Ctx) error {
	req := new(domain.AssignUserDietRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAssignUserDiet, err)
	}

	res, err := h.dietService.AssignUserDiet(c.Context(), *req, userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedAssignUserDiet, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAssignUserDiet)
}

func (h *dietHandler) RemoveUserDiet(c *fiber.Ctx) error {
	if err := h.dietService.RemoveUserDiet(c.Context(), c.Params("diet_id"), userID(c)); err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedRemoveUserDiet, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveUserDiet)
}

func (h *dietHandler) GetUserDiets(c *fiber.Ctx) error {
	res, err := h.dietService.GetUserDiets(c.Context(), userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetUserDiets, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUserDiets)
}
