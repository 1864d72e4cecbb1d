package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-tracker/internal/api/dto"
	"github.com/spec-kit/job-tracker/internal/auth"
	"github.com/spec-kit/job-tracker/internal/service"
	apperrors "github.com/spec-kit/job-tracker/pkg/util/errorutil"
)

// ApplicationsHandler manages the caller's job applications.
type ApplicationsHandler struct {
	service *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{service: applicationService}
}

// List GET /api/applications.
func (h *ApplicationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized")
	}
	apps, err := h.service.List(c.UserContext(), principal.UserID(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToApplicationResponses(apps))
}

// Create POST /api/applications.
func (h *ApplicationsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized")
	}
	var req dto.ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(msgInvalidPayload)
	}
	app, err := h.service.Create(c.UserContext(), principal.UserID(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ToApplicationResponse(*app))
}

// Update PUT /api/applications/:id.
func (h *ApplicationsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized")
	}
	var req dto.ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(msgInvalidPayload)
	}
	app, err := h.service.Update(c.UserContext(), principal.UserID(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToApplicationResponse(*app))
}

// Delete DELETE /api/applications/:id.
func (h *ApplicationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Not authorized")
	}
	if err := h.service.Delete(c.UserContext(), principal.UserID(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Application deleted successfully"})
}
