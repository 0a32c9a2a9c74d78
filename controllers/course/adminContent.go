package controllers

import (
	"learnhub/middleware"
	"learnhub/models/course"
	"learnhub/services"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func lessonInput(reqData *courseValidator.LessonRequest) services.LessonInput {
	in := services.LessonInput{
		Section:       reqData.Section,
		Title:         reqData.Title,
		Type:          reqData.Type,
		Order:         reqData.Order,
		VideoURL:      reqData.VideoURL,
		VideoDuration: reqData.VideoDuration,
		Content:       reqData.Content,
		IsFree:        reqData.IsFree,
		AllowNotes:    reqData.AllowNotes,
	}
	if reqData.Attachments != nil {
		in.Attachments = make([]course.Attachment, 0, len(reqData.Attachments))
		for _, a := range reqData.Attachments {
			in.Attachments = append(in.Attachments, course.Attachment{Name: a.Name, URL: a.URL, Type: a.Type, Size: a.Size})
		}
	}
	return in
}

// AddLesson appends a lesson to the course in :id.
func (h *Controller) AddLesson(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedLesson").(*courseValidator.LessonRequest)

	lesson, err := h.catalog.AddLesson(c.UserContext(), actor, courseID, lessonInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

func (h *Controller) UpdateLesson(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	lessonID := c.Locals("lessonID").(uint)
	reqData := c.Locals("validatedLesson").(*courseValidator.LessonRequest)

	lesson, err := h.catalog.UpdateLesson(c.UserContext(), actor, lessonID, lessonInput(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func (h *Controller) DeleteLesson(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	lessonID := c.Locals("lessonID").(uint)

	if err := h.catalog.DeleteLesson(c.UserContext(), actor, lessonID); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
