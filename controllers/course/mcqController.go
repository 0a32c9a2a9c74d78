package controllers

import (
	"learnhub/middleware"
	"learnhub/services"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (h *Controller) CreateQuiz(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)

	in := services.QuizInput{
		CourseID:          reqData.CourseID,
		LessonID:          reqData.LessonID,
		Title:             reqData.Title,
		Description:       reqData.Description,
		Instructions:      reqData.Instructions,
		PassingPercentage: reqData.PassingPercentage,
		TimeLimit:         reqData.TimeLimit,
		AttemptsAllowed:   reqData.AttemptsAllowed,
		ShowAnswers:       reqData.ShowAnswers,
		Questions:         make([]services.QuestionInput, 0, len(reqData.Questions)),
	}
	for _, q := range reqData.Questions {
		in.Questions = append(in.Questions, services.QuestionInput{
			Question:      q.Question,
			Type:          q.Type,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        q.Points,
		})
	}

	quiz, err := h.quizzes.CreateQuiz(c.UserContext(), actor, in)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

func (h *Controller) GetQuiz(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	quizID := c.Locals("quizID").(uint)

	quiz, err := h.quizzes.GetQuiz(c.UserContext(), actor, quizID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

// SubmitQuiz grades the caller's answers as a new attempt.
func (h *Controller) SubmitQuiz(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	quizID := c.Locals("quizID").(uint)
	reqData := c.Locals("validatedSubmission").(*courseValidator.SubmitQuizRequest)

	answers := make([]services.AnswerInput, 0, len(reqData.Answers))
	for _, a := range reqData.Answers {
		answers = append(answers, services.AnswerInput{QuestionID: a.QuestionID, SelectedAnswer: a.SelectedAnswer})
	}

	attempt, err := h.quizzes.Submit(c.UserContext(), actor.UserID, quizID, answers, reqData.TimeSpent)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	message := "Quiz failed, try again!"
	if attempt.Passed {
		message = "Quiz passed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, attempt)
}

func (h *Controller) ListQuizAttempts(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	quizID := c.Locals("quizID").(uint)

	attempts, err := h.quizzes.ListAttempts(c.UserContext(), actor.UserID, quizID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}
