package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionMCQ       = "mcq"
	QuestionTrueFalse = "true-false"
	QuestionFillBlank = "fill-blank"
)

// Quiz belongs to a course and optionally to one of its lessons.
type Quiz struct {
	gorm.Model
	CourseID          uint           `json:"course_id" gorm:"index;not null"`
	LessonID          *uint          `json:"lesson_id" gorm:"index"`
	Title             string         `json:"title" gorm:"not null"`
	Description       string         `json:"description"`
	Instructions      string         `json:"instructions"`
	TotalPoints       int            `json:"total_points"`
	PassingPercentage float64        `json:"passing_percentage" gorm:"default:60"`
	TimeLimit         int            `json:"time_limit"` // minutes, 0 = unlimited
	AttemptsAllowed   int            `json:"attempts_allowed" gorm:"default:3"`
	ShowAnswers       bool           `json:"show_answers" gorm:"default:true"`
	Questions         []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID"`
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	Question      string         `json:"question" gorm:"type:text"`
	Type          string         `json:"type" gorm:"size:20;default:'mcq'"` // mcq, true-false, fill-blank
	Options       datatypes.JSON `json:"options"`
	CorrectAnswer datatypes.JSON `json:"correct_answer,omitempty"`
	Explanation   string         `json:"explanation,omitempty"`
	Points        int            `json:"points" gorm:"default:1"`
	Order         int            `json:"order" gorm:"column:sort_order;default:0"`
}

// QuizAttempt represents a student's submitted attempt at a quiz
type QuizAttempt struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"uniqueIndex:idx_attempt_user_quiz_number;not null"`
	QuizID        uint           `json:"quiz_id" gorm:"uniqueIndex:idx_attempt_user_quiz_number;not null"`
	AttemptNumber int            `json:"attempt_number" gorm:"uniqueIndex:idx_attempt_user_quiz_number"`
	Answers       datatypes.JSON `json:"answers"`
	Score         int            `json:"score"`
	Percentage    float64        `json:"percentage"`
	Passed        bool           `json:"passed"`
	TimeSpent     int            `json:"time_spent"` // seconds
	SubmittedAt   time.Time      `json:"submitted_at"`
}

// EvaluatedAnswer is one element of QuizAttempt.Answers.
type EvaluatedAnswer struct {
	QuestionID     uint           `json:"question_id"`
	SelectedAnswer datatypes.JSON `json:"selected_answer"`
	IsCorrect      bool           `json:"is_correct"`
	PointsEarned   int            `json:"points_earned"`
}
