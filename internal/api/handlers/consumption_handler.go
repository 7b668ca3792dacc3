package handlers

import (
	"Nutrition-Tracker/domain"
	"Nutrition-Tracker/internal/api/presenters"
	"Nutrition-Tracker/pkg/consumption"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ConsumptionHandler interface {
		CreateFoodLog(c *fiber.Ctx) error
		GetFoodLogs(c *fiber.Ctx) error
		GetFoodLog(c *fiber.Ctx) error
		DeleteFoodLog(c *fiber.Ctx) error

		CreateFoodSchedule(c *fiber.Ctx) error
		GetFoodSchedules(c *fiber.Ctx) error
		GetFoodSchedule(c *fiber.Ctx) error
		DeleteFoodSchedule(c *fiber.Ctx) error

		GetDailyTotals(c *fiber.Ctx) error
		GetShoppingList(c *fiber.Ctx) error
	}

	consumptionHandler struct {
		consumptionService consumption.ConsumptionService
		validator          *validator.Validate
	}
)

func NewConsumptionHandler(consumptionService consumption.ConsumptionService, validator *validator.Validate) ConsumptionHandler {
	return &consumptionHandler{
		consumptionService: consumptionService,
		validator:          validator,
	}
}

func (h *consumptionHandler) CreateFoodLog(c *fiber.Ctx) error {
	req := new(domain.CreateFoodLogRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateFoodLog, err)
	}

	res, err := h.consumptionService.CreateFoodLog(c.Context(), *req, userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedCreateFoodLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateFoodLog)
}

// GetFoodLogs lists one day when ?date= is given, otherwise pages through every log.
func (h *consumptionHandler) GetFoodLogs(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		logs, err := h.consumptionService.GetFoodLogsByDate(c.Context(), userID(c), date)
		if err != nil {
			return presenters.FailedResponse(c, domain.MessageFailedGetFoodLogs, err)
		}
		return presenters.SuccessResponse(c, logs, fiber.StatusOK, domain.MessageSuccessGetFoodLogs)
	}

	page, limit := pageParams(c)
	logs, count, err := h.consumptionService.GetFoodLogs(c.Context(), userID(c), page, limit)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetFoodLogs, err)
	}
	return presenters.SuccessResponse(c, paginated(logs, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetFoodLogs)
}

func (h *consumptionHandler) GetFoodLog(c *fiber.Ctx) error {
	res, err := h.consumptionService.GetFoodLog(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetFoodLog, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodLog)
}

func (h *consumptionHandler) DeleteFoodLog(c *fiber.Ctx) error {
	if err := h.consumptionService.DeleteFoodLog(c.Context(), c.Params("id"), userID(c)); err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedDeleteFoodLog, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodLog)
}

func (h *consumptionHandler) CreateFoodSchedule(c *fiber.Ctx) error {
	req := new(domain.CreateFoodScheduleRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateFoodSchedule, err)
	}

	res, err := h.consumptionService.CreateFoodSchedule(c.Context(), *req, userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedCreateFoodSchedule, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateFoodSchedule)
}

func (h *consumptionHandler) GetFoodSchedules(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		schedules, err := h.consumptionService.GetFoodSchedulesByDate(c.Context(), userID(c), date)
		if err != nil {
			return presenters.FailedResponse(c, domain.MessageFailedGetFoodSchedules, err)
		}
		return presenters.SuccessResponse(c, schedules, fiber.StatusOK, domain.MessageSuccessGetFoodSchedules)
	}

	page, limit := pageParams(c)
	schedules, count, err := h.consumptionService.GetFoodSchedules(c.Context(), userID(c), page, limit)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetFoodSchedules, err)
	}
	return presenters.SuccessResponse(c, paginated(schedules, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetFoodSchedules)
}

func (h *consumptionHandler) GetFoodSchedule(c *fiber.Ctx) error {
	res, err := h.consumptionService.GetFoodSchedule(c.Context(), c.Params("id"), userID(c))
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetFoodSchedule, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodSchedule)
}

func (h *consumptionHandler) DeleteFoodSchedule(c *fiber.Ctx) error {
	if err := h.consumptionService.DeleteFoodSchedule(c.Context(), c.Params("id"), userID(c)); err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedDeleteFoodSchedule, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodSchedule)
}

func (h *consumptionHandler) GetDailyTotals(c *fiber.Ctx) error {
	res, err := h.consumptionService.DailyTotals(
		c.Context(),
		userID(c),
		c.Params("id"),
		c.Query("date"),
		c.QueryBool("compare"),
	)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetDailyTotals, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDailyTotals)
}

func (h *consumptionHandler) GetShoppingList(c *fiber.Ctx) error {
	days := domain.DefaultShoppingDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return presenters.FailedResponse(c, domain.MessageFailedGetShoppingList, domain.ErrInvalidHorizon)
		}
		days = n
	}

	res, err := h.consumptionService.ShoppingList(c.Context(), userID(c), c.Params("id"), days)
	if err != nil {
		return presenters.FailedResponse(c, domain.MessageFailedGetShoppingList, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingList)
}
