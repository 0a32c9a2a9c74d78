package courseValidator

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

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out.Data
}

func ok(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": true})
}

func TestCreateCourseRequiresTitle(t *testing.T) {
	app := fiber.New()
	app.Post("/course", CreateCourse(), ok)

	status, errs := post(t, app, "/course", `{"price": 10}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Title is required!", errs["title"])

	status, errs = post(t, app, "/course", `{"title": "Go", "price": -1, "level": "expert"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "level")

	status, _ = post(t, app, "/course", `{"title": "Intro to Go", "price": 0}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestUpdateCourseAllowsPartialBody(t *testing.T) {
	app := fiber.New()
	app.Post("/course", UpdateCourse(), ok)

	status, _ := post(t, app, "/course", `{"price": 49.5}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCreateLesson(t *testing.T) {
	app := fiber.New()
	app.Post("/lesson", CreateLesson(), ok)

	status, errs := post(t, app, "/lesson", `{"title": "  "}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Title is required!", errs["title"])

	status, errs = post(t, app, "/lesson", `{"title": "Setup", "type": "podcast", "attachments": [{"name": "notes"}]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, errs, "type")
	assert.Contains(t, errs, "attachments[0].url")

	status, _ = post(t, app, "/lesson", `{"title": "Setup", "type": "video", "video_duration": 300}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestReportWatch(t *testing.T) {
	app := fiber.New()
	app.Post("/watch", ReportWatch(), func(c *fiber.Ctx) error {
		req := c.Locals("validatedWatch").(*WatchProgressRequest)
		return c.JSON(fiber.Map{"data": fiber.Map{"total": strings.Repeat("x", int(*req.TotalDuration))}})
	})

	status, errs := post(t, app, "/watch", `{"watched_duration": 10}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "total_duration is required!", errs["total_duration"])

	// Zero and negative values are range-checked by the tracker, not here.
	status, errs = post(t, app, "/watch", `{"watched_duration": 0, "total_duration": 3}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "xxx", errs["total"])
}

func TestSubmitQuizValidatesAnswers(t *testing.T) {
	app := fiber.New()
	app.Post("/submit", SubmitQuiz(), ok)

	status, errs := post(t, app, "/submit", `{"answers": [{"selected_answer": "a"}]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, errs, "answers[0].question_id")

	status, _ = post(t, app, "/submit", `{"answers": [{"question_id": 1, "selected_answer": "a"}], "time_spent": 30}`)
	assert.Equal(t, fiber.StatusOK, status)
}
