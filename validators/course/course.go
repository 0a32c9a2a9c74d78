package courseValidator

import (
	"learnhub/middleware"
	"learnhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CourseListRequest struct {
	Category string `query:"category" validate:"omitempty,max=50"`
	Level    string `query:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Search   string `query:"search" validate:"omitempty,max=100"`
	Status   string `query:"status" validate:"omitempty,oneof=draft published archived"`
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	Limit    int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

// CourseRequest is shared by create and update; nil fields are left unchanged.
type CourseRequest struct {
	Title            *string  `json:"title" validate:"omitempty,min=3,max=100"`
	Description      *string  `json:"description" validate:"omitempty,max=10000"`
	ShortDescription *string  `json:"short_description" validate:"omitempty,max=200"`
	Category         *string  `json:"category" validate:"omitempty,max=50"`
	Tags             []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=30"`
	LearningOutcomes []string `json:"learning_outcomes" validate:"omitempty,max=30,dive,min=1,max=300"`
	Level            *string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Language         *string  `json:"language" validate:"omitempty,max=30"`
	Thumbnail        *string  `json:"thumbnail" validate:"omitempty,url"`
	Price            *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency         *string  `json:"currency" validate:"omitempty,len=3"`
}

func CourseList() fiber.Handler {
	return validators.Query[CourseListRequest]("validatedCourseList")
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
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

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return validators.Body[CourseRequest]("validatedCourse")
}

// CourseID validates the :id path parameter.
func CourseID() fiber.Handler {
	return validators.IDParam("id", "courseID")
}

func CourseSlug() fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := strings.TrimSpace(c.Params("slug"))
		if slug == "" || len(slug) > 150 {
			return middleware.ValidationErrorResponse(c, map[string]string{"slug": "Invalid slug!"})
		}
		c.Locals("courseSlug", slug)
		return c.Next()
	}
}
