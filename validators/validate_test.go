package validators

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupLike struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=student instructor"`
}

type listLike struct {
	Page  int    `query:"page" validate:"omitempty,gte=1"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Sort  string `query:"sort" validate:"omitempty,oneof=new old"`
}

type response struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, response) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestStructMessagesUseJSONNames(t *testing.T) {
	errs := Struct(&signupLike{Name: "A", Email: "nope", Role: "admin"})
	require.Len(t, errs, 3)
	assert.Equal(t, "name must be at least 2 characters long!", errs["name"])
	assert.Equal(t, "Invalid email!", errs["email"])
	assert.Equal(t, "role must be one of: student instructor!", errs["role"])

	assert.Nil(t, Struct(&signupLike{Name: "Ada", Email: "ada@example.com"}))
}

func TestBody(t *testing.T) {
	app := fiber.New()
	app.Post("/signup", Body[signupLike]("validated"), func(c *fiber.Ctx) error {
		req := c.Locals("validated").(*signupLike)
		return c.JSON(fiber.Map{"status": true, "message": req.Name})
	})

	status, body := send(t, app, jsonRequest(http.MethodPost, "/signup", `{"name":"Ada","email":"ada@example.com"}`))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Ada", body.Message)

	status, body = send(t, app, jsonRequest(http.MethodPost, "/signup", `{"name":`))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body!", body.Message)

	status, body = send(t, app, jsonRequest(http.MethodPost, "/signup", `{"name":"Ada"}`))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "email is required!", body.Data["email"])
}

func TestQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/list", Query[listLike]("validated"), func(c *fiber.Ctx) error {
		req := c.Locals("validated").(*listLike)
		return c.JSON(fiber.Map{"status": true, "message": req.Sort})
	})

	status, body := send(t, app, httptest.NewRequest(http.MethodGet, "/list?page=2&limit=5&sort=old", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "old", body.Message)

	status, body = send(t, app, httptest.NewRequest(http.MethodGet, "/list?limit=500", nil))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "limit must be 100 or less!", body.Data["limit"])
}

func TestIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/course/:id", IDParam("id", "courseID"), func(c *fiber.Ctx) error {
		id := c.Locals("courseID").(uint)
		return c.JSON(fiber.Map{"status": true, "message": "ok", "data": fiber.Map{"id": strings.Repeat("x", int(id))}})
	})

	status, body := send(t, app, httptest.NewRequest(http.MethodGet, "/course/3", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "xxx", body.Data["id"])

	for _, bad := range []string{"0", "-1", "abc"} {
		status, body := send(t, app, httptest.NewRequest(http.MethodGet, "/course/"+bad, nil))
		assert.Equal(t, fiber.StatusUnprocessableEntity, status, bad)
		assert.Equal(t, "Invalid id!", body.Data["id"], bad)
	}
}
