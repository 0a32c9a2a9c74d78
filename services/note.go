package services

import (
	"context"
	"fmt"
	"learnhub/logger"
	"learnhub/models/course"
	"learnhub/repositories"
	"math"
	"strings"
)

const maxNoteLength = 5000

type NoteService struct {
	store       repositories.Store
	enrollments *EnrollmentService
	log         *logger.Logger
}

func NewNoteService(store repositories.Store, enrollments *EnrollmentService, log *logger.Logger) *NoteService {
	return &NoteService{store: store, enrollments: enrollments, log: log.With("service", "NoteService")}
}

// NoteInput carries a note edit; nil fields are left unchanged.
type NoteInput struct {
	Content   *string
	Timestamp *float64
}

func (in NoteInput) fields() (map[string]interface{}, error) {
	f := map[string]interface{}{}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" || len(content) > maxNoteLength {
			return nil, fmt.Errorf("note content must be 1-%d characters: %w", maxNoteLength, ErrInvalidInput)
		}
		f["content"] = content
	}
	if in.Timestamp != nil {
		ts := *in.Timestamp
		if math.IsNaN(ts) || math.IsInf(ts, 0) || ts < 0 {
			return nil, fmt.Errorf("note timestamp must be a non-negative number: %w", ErrInvalidInput)
		}
		f["video_timestamp"] = ts
	}
	return f, nil
}

// ListForLesson returns the user's own notes on a lesson, earliest in the video first.
func (s *NoteService) ListForLesson(ctx context.Context, userID, lessonID uint) ([]course.Note, error) {
	return s.store.Notes().ListByLesson(ctx, userID, lessonID)
}

// Create adds a note to a lesson of a course the user is enrolled in.
func (s *NoteService) Create(ctx context.Context, userID, lessonID uint, in NoteInput) (*course.Note, error) {
	if in.Content == nil {
		return nil, fmt.Errorf("note content required: %w", ErrInvalidInput)
	}
	if in.Timestamp == nil {
		in.Timestamp = new(float64)
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}

	lesson, err := s.enrollments.accessibleLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.AllowNotes {
		return nil, fmt.Errorf("notes are disabled for lesson %d: %w", lessonID, ErrNotEligible)
	}

	note := &course.Note{
		UserID:    userID,
		LessonID:  lessonID,
		Content:   fields["content"].(string),
		Timestamp: fields["video_timestamp"].(float64),
	}
	if err := s.store.Notes().Create(ctx, note); err != nil {
		return nil, err
	}
	s.log.Debug("Note created", "note_id", note.ID, "lesson_id", lessonID, "user_id", userID)
	return note, nil
}

// Update edits a note. Only its author may change it.
func (s *NoteService) Update(ctx context.Context, userID, noteID uint, in NoteInput) (*course.Note, error) {
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	note, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return note, nil
	}
	if err := s.store.Notes().UpdateFields(ctx, noteID, fields); err != nil {
		return nil, err
	}
	return s.store.Notes().GetByID(ctx, noteID)
}

// Delete removes a note. Only its author may delete it.
func (s *NoteService) Delete(ctx context.Context, userID, noteID uint) error {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return err
	}
	return s.store.Notes().Delete(ctx, noteID)
}

func (s *NoteService) ownedNote(ctx context.Context, userID, noteID uint) (*course.Note, error) {
	note, err := s.store.Notes().GetByID(ctx, noteID)
	if err != nil {
		return nil, notFound(err, "note")
	}
	if note.UserID != userID {
		return nil, fmt.Errorf("note %d belongs to another user: %w", noteID, ErrNotAuthorized)
	}
	return note, nil
}
