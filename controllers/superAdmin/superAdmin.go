package superAdminController

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/repositories"
	"learnhub/services"
	adminValidator "learnhub/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// Controller serves the admin-only dashboard and maintenance endpoints.
type Controller struct {
	admin  *services.AdminService
	issuer *services.CertificateIssuer
	log    *logger.Logger
}

func New(admin *services.AdminService, issuer *services.CertificateIssuer, log *logger.Logger) *Controller {
	return &Controller{admin: admin, issuer: issuer, log: log.With("controller", "admin")}
}

func (h *Controller) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.admin.Dashboard(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}

func (h *Controller) UserList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUserList").(*adminValidator.UserListRequest)

	users, total, err := h.admin.ListUsers(c.UserContext(), repositories.UserFilter{
		Role:   reqData.Role,
		Status: reqData.Status,
		Search: reqData.Search,
		Page:   repositories.Page{Page: reqData.Page, Limit: reqData.Limit},
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users":      users,
		"pagination": middleware.Pagination(total, reqData.Page, reqData.Limit),
	})
}

// SetUserStatus activates or suspends the account in :user_id.
func (h *Controller) SetUserStatus(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	userID := c.Locals("targetUserID").(uint)
	reqData := c.Locals("validatedUserStatus").(*adminValidator.UserStatusRequest)

	user, err := h.admin.SetUserStatus(c.UserContext(), actor, userID, reqData.Status)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated successfully!", user)
}

// ReconcileCounters recomputes cached course counters from their source rows.
func (h *Controller) ReconcileCounters(c *fiber.Ctx) error {
	visited, err := h.admin.Reconcile(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Counters reconciled successfully!", fiber.Map{"courses_reconciled": visited})
}

// RetryCertificateRenders renders certificates still missing a document.
func (h *Controller) RetryCertificateRenders(c *fiber.Ctx) error {
	rendered, err := h.issuer.RetryPendingRenders(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate renders retried!", fiber.Map{"rendered": rendered})
}
