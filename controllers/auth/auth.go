package authController

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/services"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	auth *services.AuthService
	log  *logger.Logger
}

func New(auth *services.AuthService, log *logger.Logger) *Controller {
	return &Controller{auth: auth, log: log.With("controller", "auth")}
}

func (h *Controller) Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.SignupRequest)

	user, err := h.auth.Signup(c.UserContext(), services.SignupInput{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: reqData.Password,
		Role:     reqData.Role,
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully!", user)
}

func (h *Controller) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	user, token, err := h.auth.Login(c.UserContext(), services.LoginInput{
		Email:     reqData.Email,
		Password:  reqData.Password,
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *Controller) Me(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	user, err := h.auth.Me(c.UserContext(), actor.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

func (h *Controller) LoginHistoryList(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedLoginHistory").(*authValidator.LoginHistoryRequest)

	history, err := h.auth.LoginHistory(c.UserContext(), actor.UserID, reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully!", history)
}

func (h *Controller) ChangeLoginPassword(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedPassword").(*authValidator.ChangePasswordRequest)

	if err := h.auth.ChangePassword(c.UserContext(), actor.UserID, reqData.CurrentPassword, reqData.NewPassword); err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully!", nil)
}
