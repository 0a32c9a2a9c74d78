package controllers

import (
	"learnhub/middleware"
	"learnhub/repositories"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// ListCourses lists published courses.
func (h *Controller) ListCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseList").(*courseValidator.CourseListRequest)

	courses, total, err := h.catalog.ListPublished(c.UserContext(), repositories.CourseFilter{
		Category: reqData.Category,
		Level:    reqData.Level,
		Search:   reqData.Search,
		Page:     repositories.Page{Page: reqData.Page, Limit: reqData.Limit},
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": middleware.Pagination(total, reqData.Page, reqData.Limit),
	})
}

// GetCourseDetails returns a course with its lessons. Drafts are visible to
// their instructor and admins only.
func (h *Controller) GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	details, err := h.catalog.GetCourse(c.UserContext(), optionalActor(c), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", details)
}

func (h *Controller) GetCourseBySlug(c *fiber.Ctx) error {
	slug := c.Locals("courseSlug").(string)

	details, err := h.catalog.GetCourseBySlug(c.UserContext(), optionalActor(c), slug)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", details)
}
