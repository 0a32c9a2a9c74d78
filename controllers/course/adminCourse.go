package controllers

import (
	"learnhub/middleware"
	"learnhub/repositories"
	"learnhub/services"
	"learnhub/utils"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func courseInput(reqData *courseValidator.CourseRequest) services.CourseInput {
	return services.CourseInput{
		Title:            reqData.Title,
		Description:      reqData.Description,
		ShortDescription: reqData.ShortDescription,
		Category:         reqData.Category,
		Tags:             reqData.Tags,
		LearningOutcomes: reqData.LearningOutcomes,
		Level:            reqData.Level,
		Language:         reqData.Language,
		Thumbnail:        reqData.Thumbnail,
		Price:            reqData.Price,
		Currency:         reqData.Currency,
	}
}

func (h *Controller) CreateCourse(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedCourse").(*courseValidator.CourseRequest)

	created, err := h.catalog.CreateCourse(c.UserContext(), actor, courseInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", created)
}

func (h *Controller) UpdateCourse(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedCourse").(*courseValidator.CourseRequest)

	updated, err := h.catalog.UpdateCourse(c.UserContext(), actor, courseID, courseInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", updated)
}

func (h *Controller) DeleteCourse(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)

	if err := h.catalog.DeleteCourse(c.UserContext(), actor, courseID); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func (h *Controller) PublishCourse(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)

	published, err := h.catalog.PublishCourse(c.UserContext(), actor, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", published)
}

// ListManagedCourses lists the caller's own courses, or every course for admins.
func (h *Controller) ListManagedCourses(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedCourseList").(*courseValidator.CourseListRequest)

	courses, total, err := h.catalog.ListManaged(c.UserContext(), actor, repositories.CourseFilter{
		Status:   reqData.Status,
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

// UploadThumbnail stores the multipart "thumbnail" image and sets it on the course.
func (h *Controller) UploadThumbnail(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)

	file, err := c.FormFile("thumbnail")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Thumbnail file is required!", nil)
	}
	name, err := utils.SaveUploadedFile(file, h.uploadDir)
	if err != nil {
		h.log.Warn("Thumbnail upload rejected", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid thumbnail file!", nil)
	}

	thumbnail := utils.GetFileURL(h.baseURL, "uploads", name)
	updated, err := h.catalog.UpdateCourse(c.UserContext(), actor, courseID, services.CourseInput{Thumbnail: &thumbnail})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thumbnail uploaded successfully!", updated)
}
