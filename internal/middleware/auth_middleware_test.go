package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"Nutrition-Tracker/domain"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJWT struct {
	userID string
	err    error
}

func (s stubJWT) GenerateTokenUser(string, string) string { return "" }
func (s stubJWT) ValidateTokenUser(string) (*jwtlib.Token, error) {
	return nil, nil
}
func (s stubJWT) GetUserIDByToken(string) (string, string, error) {
	return s.userID, domain.RoleUser, s.err
}
func (s stubJWT) GenerateTokenLink(map[string]any, time.Duration) (string, error) {
	return "", nil
}
func (s stubJWT) ValidateTokenLink(string) (jwtlib.MapClaims, error) {
	return nil, nil
}

func newTestApp(stub stubJWT) *fiber.App {
	app := fiber.New()
	app.Get("/private", NewMiddleware().AuthMiddleware(stub), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	resp, err := newTestApp(stubJWT{}).Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer broken")

	resp, err := newTestApp(stubJWT{err: domain.ErrTokenInvalid}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareSetsUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer good")

	resp, err := newTestApp(stubJWT{userID: "2f1c5e0e-0000-4000-8000-000000000001"}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
