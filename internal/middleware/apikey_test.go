package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func apiKeyApp(t *testing.T, hash string) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(APIKey(hash))
	app.Post("/op", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAPIKeyValid(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sekrit"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	app := apiKeyApp(t, string(hash))

	req := httptest.NewRequest(fiber.MethodPost, "/op", nil)
	req.Header.Set(authorizationHeader, "Bearer sekrit")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAPIKeyRejectsWrongKey(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("sekrit"), bcrypt.MinCost)
	app := apiKeyApp(t, string(hash))

	req := httptest.NewRequest(fiber.MethodPost, "/op", nil)
	req.Header.Set(authorizationHeader, "Bearer nope")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAPIKeyRejectsMissingHeader(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("sekrit"), bcrypt.MinCost)
	app := apiKeyApp(t, string(hash))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/op", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAPIKeyDisabledWhenUnconfigured(t *testing.T) {
	app := apiKeyApp(t, "")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/op", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", resp.StatusCode)
	}
}
