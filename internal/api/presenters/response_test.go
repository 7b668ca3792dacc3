package presenters

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"Nutrition-Tracker/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"not found":      {domain.ErrMealNotFound, fiber.StatusNotFound},
		"forbidden":      {domain.ErrMealNotOwned, fiber.StatusForbidden},
		"conflict":       {domain.ErrIngredientAlreadyInMeal, fiber.StatusConflict},
		"validation":     {domain.ErrScheduleInPast, fiber.StatusBadRequest},
		"unavailable":    {domain.Unavailable(errors.New("connection reset")), fiber.StatusServiceUnavailable},
		"wrapped twice":  {fmt.Errorf("add ingredient: %w", domain.ErrIngredientNotInMeal), fiber.StatusNotFound},
		"token expired":  {domain.ErrTokenExpired, fiber.StatusUnauthorized},
		"unclassified":   {errors.New("boom"), fiber.StatusBadRequest},
		"no nutrients":   {domain.ErrNoNutrients, fiber.StatusNotFound},
		"corrupt record": {domain.ErrCorruptSnapshot, fiber.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFromError(tc.err))
		})
	}
}

func TestFailedResponseWritesEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return FailedResponse(c, domain.MessageFailedGetMeal, domain.ErrMealNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":false,"message":"failed to get meal","error":"meal not found: not found"}`, string(body))
}
