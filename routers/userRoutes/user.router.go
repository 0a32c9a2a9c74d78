package userProfileRoutes

import (
	userProfileController "learnhub/controllers/userControllers"
	"learnhub/middleware"
	userProfileValidator "learnhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, h *userProfileController.Controller, jwtSecret string) {
	userGroup := app.Group("/user")
	auth := middleware.JWTMiddleware(jwtSecret)

	userGroup.Get("/profile", auth, h.GetProfile)
	userGroup.Put("/profile", auth, userProfileValidator.UpdateProfile(), h.UpdateProfile)
	userGroup.Post("/profile/avatar", auth, h.UploadAvatar)
}
