package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"learnhub/logger"
	"learnhub/models/course"
	"learnhub/repositories"
	"math"
	"reflect"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizService struct {
	store repositories.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewQuizService(store repositories.Store, log *logger.Logger) *QuizService {
	return &QuizService{store: store, log: log.With("service", "QuizService"), now: time.Now}
}

type QuestionInput struct {
	Question      string
	Type          string
	Options       []string
	CorrectAnswer json.RawMessage
	Explanation   string
	Points        int
}

type QuizInput struct {
	CourseID          uint
	LessonID          *uint
	Title             string
	Description       string
	Instructions      string
	PassingPercentage float64
	TimeLimit         int
	AttemptsAllowed   int
	ShowAnswers       bool
	Questions         []QuestionInput
}

// CreateQuiz stores a quiz for a course the actor manages. Questions without
// points are worth one point.
func (s *QuizService) CreateQuiz(ctx context.Context, actor Actor, in QuizInput) (*course.Quiz, error) {
	if len(in.Questions) == 0 {
		return nil, fmt.Errorf("quiz needs at least one question: %w", ErrInvalidInput)
	}
	if in.PassingPercentage <= 0 {
		in.PassingPercentage = 60
	}
	if in.PassingPercentage > 100 {
		return nil, fmt.Errorf("passing percentage above 100: %w", ErrInvalidInput)
	}
	if in.AttemptsAllowed <= 0 {
		in.AttemptsAllowed = 3
	}

	quiz := &course.Quiz{
		CourseID:          in.CourseID,
		LessonID:          in.LessonID,
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Instructions:      in.Instructions,
		PassingPercentage: in.PassingPercentage,
		TimeLimit:         in.TimeLimit,
		AttemptsAllowed:   in.AttemptsAllowed,
		ShowAnswers:       in.ShowAnswers,
	}
	for i, q := range in.Questions {
		if len(q.CorrectAnswer) == 0 || !json.Valid(q.CorrectAnswer) {
			return nil, fmt.Errorf("question %d: correct answer must be valid json: %w", i+1, ErrInvalidInput)
		}
		points := q.Points
		if points <= 0 {
			points = 1
		}
		qType := q.Type
		if qType == "" {
			qType = course.QuestionMCQ
		}
		options, err := jsonColumn(q.Options)
		if err != nil {
			return nil, err
		}
		quiz.Questions = append(quiz.Questions, course.QuizQuestion{
			Question:      q.Question,
			Type:          qType,
			Options:       options,
			CorrectAnswer: datatypes.JSON(q.CorrectAnswer),
			Explanation:   q.Explanation,
			Points:        points,
			Order:         i + 1,
		})
		quiz.TotalPoints += points
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		c, err := tx.Courses().GetByID(ctx, in.CourseID)
		if err != nil {
			return notFound(err, "course")
		}
		if !actor.canManage(c) {
			return fmt.Errorf("course %d: %w", in.CourseID, ErrNotAuthorized)
		}
		if in.LessonID != nil {
			lesson, err := tx.Lessons().GetByID(ctx, *in.LessonID)
			if err != nil {
				return notFound(err, "lesson")
			}
			if lesson.CourseID != in.CourseID {
				return fmt.Errorf("lesson %d is not part of course %d: %w", lesson.ID, in.CourseID, ErrInvalidInput)
			}
		}
		if err := tx.Quizzes().Create(ctx, quiz); err != nil {
			return err
		}
		return tx.Courses().RecomputeContentTotals(ctx, in.CourseID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Quiz created", "quiz_id", quiz.ID, "course_id", in.CourseID, "questions", len(quiz.Questions))
	return quiz, nil
}

// GetQuiz returns a quiz. Answers and explanations are stripped unless the
// actor manages the course.
func (s *QuizService) GetQuiz(ctx context.Context, actor Actor, quizID uint) (*course.Quiz, error) {
	quiz, err := s.store.Quizzes().GetByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err, "quiz")
	}
	c, err := s.store.Courses().GetByID(ctx, quiz.CourseID)
	if err != nil {
		return nil, notFound(err, "course")
	}
	if actor.canManage(c) {
		return quiz, nil
	}
	enrolled, err := s.store.Enrollments().Exists(ctx, actor.UserID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("not enrolled in course %d: %w", quiz.CourseID, ErrNotAuthorized)
	}
	for i := range quiz.Questions {
		quiz.Questions[i].CorrectAnswer = nil
		quiz.Questions[i].Explanation = ""
	}
	return quiz, nil
}

type AnswerInput struct {
	QuestionID     uint
	SelectedAnswer json.RawMessage
}

// Submit grades an attempt. percentage = 100*score/totalPoints and the
// attempt passes at or above the quiz's passing percentage.
func (s *QuizService) Submit(ctx context.Context, userID, quizID uint, answers []AnswerInput, timeSpent int) (*course.QuizAttempt, error) {
	quiz, err := s.store.Quizzes().GetByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err, "quiz")
	}
	enrolled, err := s.store.Enrollments().Exists(ctx, userID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("not enrolled in course %d: %w", quiz.CourseID, ErrNotAuthorized)
	}

	questions := make(map[uint]course.QuizQuestion, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions[q.ID] = q
	}

	score := 0
	seen := make(map[uint]bool, len(answers))
	evaluated := make([]course.EvaluatedAnswer, 0, len(answers))
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("question %d is not part of quiz %d: %w", a.QuestionID, quizID, ErrInvalidInput)
		}
		if seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true

		correct := answersMatch(q.CorrectAnswer, a.SelectedAnswer)
		earned := 0
		if correct {
			earned = q.Points
		}
		score += earned
		evaluated = append(evaluated, course.EvaluatedAnswer{
			QuestionID:     a.QuestionID,
			SelectedAnswer: datatypes.JSON(a.SelectedAnswer),
			IsCorrect:      correct,
			PointsEarned:   earned,
		})
	}

	percentage := 0.0
	if quiz.TotalPoints > 0 {
		percentage = math.Round(10000*float64(score)/float64(quiz.TotalPoints)) / 100
	}
	encoded, err := jsonColumn(evaluated)
	if err != nil {
		return nil, err
	}

	attempt := &course.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Answers:     encoded,
		Score:       score,
		Percentage:  percentage,
		Passed:      percentage >= quiz.PassingPercentage,
		TimeSpent:   timeSpent,
		SubmittedAt: s.now(),
	}

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		previous, err := tx.Quizzes().CountAttempts(ctx, userID, quizID)
		if err != nil {
			return err
		}
		if int(previous) >= quiz.AttemptsAllowed {
			return ErrAttemptsExhausted
		}
		attempt.AttemptNumber = int(previous) + 1
		return tx.Quizzes().CreateAttempt(ctx, attempt)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("concurrent attempt submission: %w", ErrConflict)
		}
		return nil, err
	}

	s.log.Info("Quiz attempt graded",
		"quiz_id", quizID, "user_id", userID,
		"attempt", attempt.AttemptNumber, "percentage", percentage, "passed", attempt.Passed)
	return attempt, nil
}

func (s *QuizService) ListAttempts(ctx context.Context, userID, quizID uint) ([]course.QuizAttempt, error) {
	return s.store.Quizzes().ListAttempts(ctx, userID, quizID)
}

// answersMatch compares two JSON answers structurally. Plain strings compare
// case-insensitively after trimming.
func answersMatch(correct, selected []byte) bool {
	if len(bytes.TrimSpace(selected)) == 0 {
		return false
	}
	var want, got interface{}
	if err := json.Unmarshal(correct, &want); err != nil {
		return false
	}
	if err := json.Unmarshal(selected, &got); err != nil {
		return false
	}
	ws, wok := want.(string)
	gs, gok := got.(string)
	if wok && gok {
		return strings.EqualFold(strings.TrimSpace(ws), strings.TrimSpace(gs))
	}
	return reflect.DeepEqual(want, got)
}
