package userController

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/services"
	"learnhub/utils"
	userValidator "learnhub/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	auth      *services.AuthService
	uploadDir string
	baseURL   string
	log       *logger.Logger
}

// New builds the profile controller. Avatars are written to uploadDir and
// served under baseURL/uploads.
func New(auth *services.AuthService, uploadDir, baseURL string, log *logger.Logger) *Controller {
	return &Controller{auth: auth, uploadDir: uploadDir, baseURL: baseURL, log: log.With("controller", "profile")}
}

func (h *Controller) GetProfile(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	user, err := h.auth.Me(c.UserContext(), actor.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

func (h *Controller) UpdateProfile(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	reqData := c.Locals("validatedProfile").(*userValidator.ProfileRequest)

	user, err := h.auth.UpdateProfile(c.UserContext(), actor.UserID, services.ProfileInput{
		Name:   reqData.Name,
		Bio:    reqData.Bio,
		Avatar: reqData.Avatar,
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// UploadAvatar stores the multipart "avatar" image and sets it on the profile.
func (h *Controller) UploadAvatar(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Avatar file is required!", nil)
	}
	name, err := utils.SaveUploadedFile(file, h.uploadDir)
	if err != nil {
		h.log.Warn("Avatar upload rejected", "user_id", actor.UserID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid avatar file!", nil)
	}

	avatar := utils.GetFileURL(h.baseURL, "uploads", name)
	user, err := h.auth.UpdateProfile(c.UserContext(), actor.UserID, services.ProfileInput{Avatar: &avatar})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Avatar uploaded successfully!", user)
}
