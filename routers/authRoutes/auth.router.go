package authRoutes

import (
	authControllers "learnhub/controllers/auth"
	"learnhub/middleware"
	authValidators "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, h *authControllers.Controller, jwtSecret string) {
	authGroup := app.Group("/auth")
	auth := middleware.JWTMiddleware(jwtSecret)

	authGroup.Post("/signup", authValidators.Signup(), h.Signup)
	authGroup.Post("/login", authValidators.Login(), h.Login)
	authGroup.Get("/me", auth, h.Me)
	authGroup.Get("/login/history", auth, authValidators.LoginHistoryList(), h.LoginHistoryList)
	authGroup.Put("/change/login/password", auth, authValidators.ChangePassword(), h.ChangeLoginPassword)
}
