package controllers

import (
	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// RequestCertificate issues the caller's certificate for a completed course.
// Repeated requests return the existing certificate.
func (h *Controller) RequestCertificate(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	courseID := c.Locals("courseID").(uint)

	cert, created, err := h.issuer.Issue(c.UserContext(), actor.UserID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", cert)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}

func (h *Controller) GetUserCertificates(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)

	certs, err := h.issuer.ListForUser(c.UserContext(), actor.UserID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}

func (h *Controller) GetCertificate(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentActor(c)
	certID := c.Locals("certificateID").(uint)

	cert, err := h.issuer.GetForUser(c.UserContext(), actor.UserID, certID)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", cert)
}

// VerifyCertificate is the public lookup behind the link printed on certificates.
func (h *Controller) VerifyCertificate(c *fiber.Ctx) error {
	cert, err := h.issuer.Verify(c.UserContext(), c.Params("number"))
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", cert)
}
