package superAdminRoutes

import (
	superAdminController "learnhub/controllers/superAdmin"
	"learnhub/middleware"
	"learnhub/models"
	adminValidator "learnhub/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App, h *superAdminController.Controller, jwtSecret string) {
	auth := middleware.JWTMiddleware(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	adminGroup := app.Group("/admin")

	adminGroup.Get("/dashboard/stats", auth, adminOnly, h.DashboardStats)
	adminGroup.Get("/user/list", auth, adminOnly, adminValidator.UserList(), h.UserList)
	adminGroup.Patch("/user/:user_id/status", auth, adminOnly, adminValidator.UserID(), adminValidator.SetUserStatus(), h.SetUserStatus)
	adminGroup.Post("/maintenance/reconcile", auth, adminOnly, h.ReconcileCounters)
	adminGroup.Post("/maintenance/certificates/retry", auth, adminOnly, h.RetryCertificateRenders)
}
