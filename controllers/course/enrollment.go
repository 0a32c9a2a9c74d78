package controllers

import (
	"learnhub/middleware"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller in the published course :id.
func (h *Controller) EnrollInCourse(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)

	enrollment, err := h.enrollments.Enroll(c.UserContext(), actor.UserID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

func (h *Controller) GetUserEnrollments(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListRequest)

	enrollments, err := h.enrollments.ListMine(c.UserContext(), actor.UserID, reqData.Status)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}
