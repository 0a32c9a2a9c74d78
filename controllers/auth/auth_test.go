package authController_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authControllers "learnhub/controllers/auth"
	userProfileController "learnhub/controllers/userControllers"
	"learnhub/middleware"
	"learnhub/repositories"
	authRoutes "learnhub/routers/authRoutes"
	userProfileRoutes "learnhub/routers/userRoutes"
	"learnhub/services"
	"learnhub/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "auth-test-secret"

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	auth := services.NewAuthService(repositories.NewStore(db), middleware.TokenSigner(secret, time.Hour), nil, bcrypt.MinCost, log)

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app, authControllers.New(auth, log), secret)
	userProfileRoutes.SetupUserRoutes(app, userProfileController.New(auth, t.TempDir(), "https://learnhub.example.com", log), secret)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "auth-test")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, email, password string) (int, string) {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"email": email, "password": password})
	if status != fiber.StatusOK {
		return status, ""
	}
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	return status, data.Token
}

func TestSignupLoginAndProfile(t *testing.T) {
	app := newApp(t)

	status, body := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name":     "Grace Hopper",
		"email":    "Grace@Example.com",
		"password": "compilers1",
		"role":     "instructor",
	})
	require.Equal(t, fiber.StatusCreated, status, body.Message)
	assert.NotContains(t, string(body.Data), "compilers1")

	status, _ = call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "Grace Again", "email": "grace@example.com", "password": "compilers1",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "Root", "email": "root@example.com", "password": "compilers1", "role": "admin",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = login(t, app, "grace@example.com", "wrong-password")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, token := login(t, app, "grace@example.com", "compilers1")
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, token)

	status, body = call(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &me))
	assert.Equal(t, "grace@example.com", me.Email)
	assert.Equal(t, "instructor", me.Role)

	status, body = call(t, app, http.MethodGet, "/auth/login/history", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var history []struct {
		Device string `json:"device"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &history))
	require.Len(t, history, 1)

	status, body = call(t, app, http.MethodPut, "/user/profile", token, fiber.Map{"bio": "Rear admiral"})
	require.Equal(t, fiber.StatusOK, status, body.Message)
	assert.Contains(t, string(body.Data), "Rear admiral")

	status, _ = call(t, app, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestChangeLoginPassword(t *testing.T) {
	app := newApp(t)

	status, _ := call(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name": "Alan", "email": "alan@example.com", "password": "enigma123",
	})
	require.Equal(t, fiber.StatusCreated, status)
	_, token := login(t, app, "alan@example.com", "enigma123")

	status, _ = call(t, app, http.MethodPut, "/auth/change/login/password", token, fiber.Map{
		"current_password": "enigma123", "new_password": "enigma123",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status, "new password must differ")

	status, _ = call(t, app, http.MethodPut, "/auth/change/login/password", token, fiber.Map{
		"current_password": "not-it", "new_password": "bombe4567",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPut, "/auth/change/login/password", token, fiber.Map{
		"current_password": "enigma123", "new_password": "bombe4567",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = login(t, app, "alan@example.com", "enigma123")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = login(t, app, "alan@example.com", "bombe4567")
	assert.Equal(t, fiber.StatusOK, status)
}
