package web

import (
	"errors"

	"horizonhomes/internal/servicerequest"
	"horizonhomes/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) SubmitServiceRequest(c *fiber.Ctx) error {
	param := servicerequest.SubmitParam{
		ServiceType: c.FormValue("serviceType"),
		Name:        c.FormValue("name"),
		Email:       c.FormValue("email"),
		Phone:       c.FormValue("phone"),
		Message:     c.FormValue("message"),
		Budget:      c.FormValue("budget"),
		Location:    c.FormValue("location"),
		Timeline:    c.FormValue("timeline"),
		Documents:   parseURLList(c.FormValue("documents")),
	}

	// Attach the logged-in user when there is one; anonymous requests are fine.
	userID, err := h.sessionUserID(c)
	if err == nil && userID != uuid.Nil {
		param.UserID = util.Some(userID)
	}

	request, err := h.serviceRequests.Submit(c.Context(), param)
	if err != nil {
		if errors.Is(err, servicerequest.ErrMissingRequiredFields) {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		h.logger.Error("Failed to submit service request", "error", err)
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to submit request. Please try again later.",
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"id":      request.ID,
	})
}

func (h *Handler) ListMyServiceRequests(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	requests, err := h.serviceRequests.ListByUser(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list service requests", "error", err, "user_id", userID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	out := make([]fiber.Map, 0, len(requests))
	for _, r := range requests {
		out = append(out, fiber.Map{
			"id":          r.ID,
			"serviceType": r.ServiceType,
			"message":     r.Message,
			"budget":      r.Budget,
			"location":    r.Location,
			"timeline":    r.Timeline,
			"status":      r.Status,
			"createdAt":   r.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"requests": out})
}
