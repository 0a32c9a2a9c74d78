package controllers

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/services"

	"github.com/gofiber/fiber/v2"
)

// Services are the course-area services the handlers delegate to.
type Services struct {
	Catalog     *services.CatalogService
	Enrollments *services.EnrollmentService
	Tracker     *services.ProgressTracker
	Issuer      *services.CertificateIssuer
	Quizzes     *services.QuizService
	Reviews     *services.ReviewService
	Notes       *services.NoteService
}

// Controller serves the course catalog, enrollment, progress, quiz, review,
// note and certificate endpoints.
type Controller struct {
	catalog     *services.CatalogService
	enrollments *services.EnrollmentService
	tracker     *services.ProgressTracker
	issuer      *services.CertificateIssuer
	quizzes     *services.QuizService
	reviews     *services.ReviewService
	notes       *services.NoteService

	uploadDir string
	baseURL   string
	log       *logger.Logger
}

// New builds the course controller. Thumbnails are written to uploadDir and
// served under baseURL/uploads.
func New(s Services, uploadDir, baseURL string, log *logger.Logger) *Controller {
	return &Controller{
		catalog:     s.Catalog,
		enrollments: s.Enrollments,
		tracker:     s.Tracker,
		issuer:      s.Issuer,
		quizzes:     s.Quizzes,
		reviews:     s.Reviews,
		notes:       s.Notes,
		uploadDir:   uploadDir,
		baseURL:     baseURL,
		log:         log.With("controller", "course"),
	}
}

// optionalActor returns the caller when the request carried a valid token.
func optionalActor(c *fiber.Ctx) *services.Actor {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		return nil
	}
	return &actor
}
