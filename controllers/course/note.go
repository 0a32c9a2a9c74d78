package controllers

import (
	"learnhub/middleware"
	"learnhub/services"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// GetLessonNotes lists the caller's notes on :lesson_id.
func (h *Controller) GetLessonNotes(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	lessonID := c.Locals("lessonID").(uint)

	notes, err := h.notes.ListForLesson(c.UserContext(), actor.UserID, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notes fetched successfully!", notes)
}

func (h *Controller) CreateNote(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedNote").(*courseValidator.CreateNoteRequest)

	note, err := h.notes.Create(c.UserContext(), actor.UserID, reqData.LessonID, services.NoteInput{
		Content:   &reqData.Content,
		Timestamp: reqData.Timestamp,
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Note created successfully!", note)
}

func (h *Controller) UpdateNote(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	noteID := c.Locals("noteID").(uint)
	reqData := c.Locals("validatedNote").(*courseValidator.UpdateNoteRequest)

	note, err := h.notes.Update(c.UserContext(), actor.UserID, noteID, services.NoteInput{
		Content:   reqData.Content,
		Timestamp: reqData.Timestamp,
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Note updated successfully!", note)
}

func (h *Controller) DeleteNote(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	noteID := c.Locals("noteID").(uint)

	if err := h.notes.Delete(c.UserContext(), actor.UserID, noteID); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Note deleted successfully!", nil)
}
