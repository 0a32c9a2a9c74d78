package courseValidator

import (
	"learnhub/middleware"
	"learnhub/validators"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type AttachmentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	URL  string `json:"url" validate:"required,url"`
	Type string `json:"type" validate:"omitempty,max=50"`
	Size int64  `json:"size" validate:"gte=0"`
}

// LessonRequest is shared by create and update; nil fields are left unchanged.
type LessonRequest struct {
	Section       *string             `json:"section" validate:"omitempty,max=100"`
	Title         *string             `json:"title" validate:"omitempty,min=1,max=200"`
	Type          *string             `json:"type" validate:"omitempty,oneof=video text quiz assignment"`
	Order         *int                `json:"order" validate:"omitempty,gte=0"`
	VideoURL      *string             `json:"video_url" validate:"omitempty,url"`
	VideoDuration *float64            `json:"video_duration" validate:"omitempty,gte=0"`
	Content       *string             `json:"content"`
	Attachments   []AttachmentRequest `json:"attachments" validate:"omitempty,max=20,dive"`
	IsFree        *bool               `json:"is_free"`
	AllowNotes    *bool               `json:"allow_notes"`
}

// WatchProgressRequest is a playback position report, both values in seconds.
type WatchProgressRequest struct {
	WatchedDuration *float64 `json:"watched_duration" validate:"required"`
	TotalDuration   *float64 `json:"total_duration" validate:"required"`
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if reqData.Title == nil || strings.TrimSpace(*reqData.Title) == "" {
			if errors == nil {
				errors = make(map[string]string)
			}
			errors["title"] = "Title is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return validators.Body[LessonRequest]("validatedLesson")
}

// LessonID validates the :lesson_id path parameter.
func LessonID() fiber.Handler {
	return validators.IDParam("lesson_id", "lessonID")
}

// ReportWatch validates a watch progress report. Range checks are done by the tracker.
func ReportWatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(WatchProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
			if math.IsNaN(*reqData.WatchedDuration) || math.IsInf(*reqData.WatchedDuration, 0) {
				errors["watched_duration"] = "watched_duration must be a number!"
			}
			if math.IsNaN(*reqData.TotalDuration) || math.IsInf(*reqData.TotalDuration, 0) {
				errors["total_duration"] = "total_duration must be a number!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWatch", reqData)
		return c.Next()
	}
}
