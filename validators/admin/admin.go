package adminValidator

import (
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type UserListRequest struct {
	Role   string `query:"role" validate:"omitempty,oneof=student instructor admin"`
	Status string `query:"status" validate:"omitempty,oneof=active suspended pending"`
	Search string `query:"search" validate:"omitempty,max=100"`
	Page   int    `query:"page" validate:"omitempty,gte=1"`
	Limit  int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

type UserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended pending"`
}

func UserList() fiber.Handler {
	return validators.Query[UserListRequest]("validatedUserList")
}

func SetUserStatus() fiber.Handler {
	return validators.Body[UserStatusRequest]("validatedUserStatus")
}

// UserID validates the :user_id path parameter.
func UserID() fiber.Handler {
	return validators.IDParam("user_id", "targetUserID")
}
