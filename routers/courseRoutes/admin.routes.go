package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course authoring routes for instructors and admins
func SetupAdminCourseRoutes(app *fiber.App, h *controllers.Controller, jwtSecret string) {
	auth := middleware.JWTMiddleware(jwtSecret)
	authors := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)

	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", auth, authors, validators.CreateCourse(), h.CreateCourse)
	adminGroup.Get("/list", auth, authors, validators.CourseList(), h.ListManagedCourses)
	adminGroup.Get("/:id", auth, authors, validators.CourseID(), h.GetCourseDetails)
	adminGroup.Put("/:id", auth, authors, validators.CourseID(), validators.UpdateCourse(), h.UpdateCourse)
	adminGroup.Delete("/:id", auth, authors, validators.CourseID(), h.DeleteCourse)
	adminGroup.Post("/:id/publish", auth, authors, validators.CourseID(), h.PublishCourse)
	adminGroup.Post("/:id/thumbnail", auth, authors, validators.CourseID(), h.UploadThumbnail)

	// Lesson management
	adminGroup.Post("/:id/lesson", auth, authors, validators.CourseID(), validators.CreateLesson(), h.AddLesson)
	adminGroup.Put("/lesson/:lesson_id", auth, authors, validators.LessonID(), validators.UpdateLesson(), h.UpdateLesson)
	adminGroup.Delete("/lesson/:lesson_id", auth, authors, validators.LessonID(), h.DeleteLesson)

	// Quiz management
	adminGroup.Post("/quiz", auth, authors, validators.CreateQuiz(), h.CreateQuiz)
	adminGroup.Get("/quiz/:quiz_id", auth, authors, validators.QuizID(), h.GetQuiz)
}
