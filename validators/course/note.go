package courseValidator

import (
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateNoteRequest struct {
	LessonID  uint     `json:"lesson_id" validate:"required,gt=0"`
	Content   string   `json:"content" validate:"required,max=5000"`
	Timestamp *float64 `json:"timestamp" validate:"omitempty,gte=0"`
}

// UpdateNoteRequest edits a note; nil fields are left unchanged.
type UpdateNoteRequest struct {
	Content   *string  `json:"content" validate:"omitempty,min=1,max=5000"`
	Timestamp *float64 `json:"timestamp" validate:"omitempty,gte=0"`
}

func CreateNote() fiber.Handler {
	return validators.Body[CreateNoteRequest]("validatedNote")
}

func UpdateNote() fiber.Handler {
	return validators.Body[UpdateNoteRequest]("validatedNote")
}

// NoteID validates the :note_id path parameter.
func NoteID() fiber.Handler {
	return validators.IDParam("note_id", "noteID")
}
