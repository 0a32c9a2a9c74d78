package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App, h *controllers.Controller, jwtSecret string) {
	auth := middleware.JWTMiddleware(jwtSecret)
	optionalAuth := middleware.OptionalJWT(jwtSecret)

	userGroup := app.Group("/course")

	// Lesson notes
	userGroup.Get("/notes/lesson/:lesson_id", auth, validators.LessonID(), h.GetLessonNotes)
	userGroup.Post("/notes", auth, validators.CreateNote(), h.CreateNote)
	userGroup.Put("/notes/:note_id", auth, validators.NoteID(), validators.UpdateNote(), h.UpdateNote)
	userGroup.Delete("/notes/:note_id", auth, validators.NoteID(), h.DeleteNote)

	// Catalog (published courses; drafts for their managers)
	userGroup.Get("/list", validators.CourseList(), h.ListCourses)
	userGroup.Get("/slug/:slug", optionalAuth, validators.CourseSlug(), h.GetCourseBySlug)
	userGroup.Get("/:id", optionalAuth, validators.CourseID(), h.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", auth, validators.EnrollCourse(), h.EnrollInCourse)

	// Progress tracking
	userGroup.Post("/lesson/:lesson_id/progress", auth, validators.LessonID(), validators.ReportWatch(), h.ReportWatch)
	userGroup.Get("/:id/progress", auth, validators.CourseID(), h.GetCourseProgress)

	// Quizzes
	userGroup.Get("/quiz/:quiz_id", auth, validators.QuizID(), h.GetQuiz)
	userGroup.Post("/quiz/:quiz_id/submit", auth, validators.QuizID(), validators.SubmitQuiz(), h.SubmitQuiz)
	userGroup.Get("/quiz/:quiz_id/attempts", auth, validators.QuizID(), h.ListQuizAttempts)

	// Reviews
	userGroup.Post("/:id/review", auth, validators.CourseID(), validators.AddReview(), h.AddReview)
	userGroup.Get("/:id/reviews", validators.CourseID(), validators.ReviewList(), h.ListReviews)

	// Certificate request
	userGroup.Post("/:id/certificate/request", auth, validators.CourseID(), h.RequestCertificate)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", auth, validators.GetUserEnrollments(), h.GetUserEnrollments)
	userEnrollGroup.Get("/certificates", auth, h.GetUserCertificates)
	userEnrollGroup.Get("/certificates/:certificate_id", auth, validators.CertificateID(), h.GetCertificate)

	// Public certificate verification
	app.Get("/verify-certificate/:number", h.VerifyCertificate)
}
