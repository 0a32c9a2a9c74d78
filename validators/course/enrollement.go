package courseValidator

import (
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type EnrollmentListRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=active completed"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// EnrollCourse validates the :id of the course to enroll in.
func EnrollCourse() fiber.Handler {
	return validators.IDParam("id", "courseID")
}

func GetUserEnrollments() fiber.Handler {
	return validators.Query[EnrollmentListRequest]("validatedEnrollmentList")
}

func AddReview() fiber.Handler {
	return validators.Body[ReviewRequest]("validatedReview")
}

func ReviewList() fiber.Handler {
	return validators.Query[validators.Pagination]("validatedPagination")
}

// CertificateID validates the :certificate_id path parameter.
func CertificateID() fiber.Handler {
	return validators.IDParam("certificate_id", "certificateID")
}
