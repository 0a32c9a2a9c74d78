package courseValidator

import (
	"encoding/json"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type QuestionRequest struct {
	Question      string          `json:"question" validate:"required,max=2000"`
	Type          string          `json:"type" validate:"omitempty,oneof=mcq true-false fill-blank"`
	Options       []string        `json:"options" validate:"omitempty,max=10"`
	CorrectAnswer json.RawMessage `json:"correct_answer" validate:"required"`
	Explanation   string          `json:"explanation" validate:"omitempty,max=2000"`
	Points        int             `json:"points" validate:"omitempty,gte=1,lte=100"`
}

type QuizRequest struct {
	CourseID          uint              `json:"course_id" validate:"required"`
	LessonID          *uint             `json:"lesson_id" validate:"omitempty,gt=0"`
	Title             string            `json:"title" validate:"required,min=3,max=200"`
	Description       string            `json:"description" validate:"omitempty,max=2000"`
	Instructions      string            `json:"instructions" validate:"omitempty,max=2000"`
	PassingPercentage float64           `json:"passing_percentage" validate:"omitempty,gt=0,lte=100"`
	TimeLimit         int               `json:"time_limit" validate:"omitempty,gte=0"`
	AttemptsAllowed   int               `json:"attempts_allowed" validate:"omitempty,gte=1,lte=100"`
	ShowAnswers       bool              `json:"show_answers"`
	Questions         []QuestionRequest `json:"questions" validate:"required,min=1,max=200,dive"`
}

type AnswerRequest struct {
	QuestionID     uint            `json:"question_id" validate:"required"`
	SelectedAnswer json.RawMessage `json:"selected_answer"`
}

type SubmitQuizRequest struct {
	Answers   []AnswerRequest `json:"answers" validate:"omitempty,max=200,dive"`
	TimeSpent int             `json:"time_spent" validate:"omitempty,gte=0"`
}

func CreateQuiz() fiber.Handler {
	return validators.Body[QuizRequest]("validatedQuiz")
}

func SubmitQuiz() fiber.Handler {
	return validators.Body[SubmitQuizRequest]("validatedSubmission")
}

// QuizID validates the :quiz_id path parameter.
func QuizID() fiber.Handler {
	return validators.IDParam("quiz_id", "quizID")
}
