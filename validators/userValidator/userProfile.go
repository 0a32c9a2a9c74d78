package userValidator

import (
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type ProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=100"`
	Bio    *string `json:"bio" validate:"omitempty,max=1000"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

func UpdateProfile() fiber.Handler {
	return validators.Body[ProfileRequest]("validatedProfile")
}
