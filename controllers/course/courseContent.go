package controllers

import (
	"learnhub/middleware"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// ReportWatch records the caller's playback position in a lesson. Only
// enrolled users may report.
func (h *Controller) ReportWatch(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	lessonID := c.Locals("lessonID").(uint)
	reqData := c.Locals("validatedWatch").(*courseValidator.WatchProgressRequest)

	if err := h.enrollments.RequireLessonAccess(c.UserContext(), actor.UserID, lessonID); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}

	report, err := h.tracker.ReportWatch(c.UserContext(), actor.UserID, lessonID, *reqData.WatchedDuration, *reqData.TotalDuration)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved successfully!", report)
}

// GetCourseProgress returns the caller's enrollment and lesson records in :id.
func (h *Controller) GetCourseProgress(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)

	progress, err := h.tracker.GetCourseProgress(c.UserContext(), actor.UserID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}
