package controllers

import (
	"learnhub/middleware"
	"learnhub/repositories"
	"learnhub/validators"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AddReview rates the course :id. Only enrolled users may review, once.
func (h *Controller) AddReview(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedReview").(*courseValidator.ReviewRequest)

	review, err := h.reviews.AddReview(c.UserContext(), actor.UserID, courseID, reqData.Rating, reqData.Comment)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review added successfully!", review)
}

func (h *Controller) ListReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedPagination").(*validators.Pagination)

	reviews, total, err := h.reviews.ListByCourse(c.UserContext(), courseID, repositories.Page{Page: reqData.Page, Limit: reqData.Limit})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews":    reviews,
		"pagination": middleware.Pagination(total, reqData.Page, reqData.Limit),
	})
}
