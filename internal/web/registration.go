package web

import (
	"encoding/json"
	"errors"

	"horizonhomes/internal/registration"
	"horizonhomes/internal/validator"

	"github.com/gofiber/fiber/v2"
)

// FailedToSubmitMessage is the generic failure shown when a submission dies
// on an unexpected error.
const FailedToSubmitMessage = "Failed to submit registration. Please try again later."

// SubmitRegistration handles POST /api/registration. Portfolio and documents
// arrive as JSON-encoded arrays of uploaded-file URLs.
func (h *Handler) SubmitRegistration(c *fiber.Ctx) error {
	param := registration.SubmitParam{
		Role:         c.FormValue("role"),
		Name:         c.FormValue("name"),
		Email:        c.FormValue("email"),
		Password:     c.FormValue("password"),
		Phone:        c.FormValue("phone"),
		Experience:   c.FormValue("experience"),
		Description:  c.FormValue("description"),
		ProfileImage: c.FormValue("profileImage"),
		Portfolio:    parseURLList(c.FormValue("portfolio")),
		Documents:    parseURLList(c.FormValue("documents")),
	}

	message, err := h.registrations.Submit(c.Context(), param)
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrMissingRequiredFields),
			errors.Is(err, validator.ErrInvalidEmail),
			errors.Is(err, validator.ErrPasswordTooShort),
			errors.Is(err, registration.ErrEmailAlreadyRegistered),
			errors.Is(err, registration.ErrPendingExists),
			errors.Is(err, registration.ErrApprovedExists),
			errors.Is(err, registration.ErrRejectedExists):
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		case errors.Is(err, registration.ErrTooManyAttempts):
			return c.Status(429).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		default:
			h.logger.Error("Failed to submit registration", "error", err, "email", param.Email)
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   FailedToSubmitMessage,
			})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// ApproveRegistration handles GET /api/registration/approve?token=...; the
// link is opened from the admin email, so every outcome is an HTML page.
func (h *Handler) ApproveRegistration(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return missingTokenPage(c, "approval")
	}

	reg, err := h.registrations.Approve(c.Context(), token)
	if err != nil {
		var processed *registration.AlreadyProcessedError
		switch {
		case errors.Is(err, registration.ErrTokenNotFound):
			return unknownTokenPage(c, "approval")
		case errors.As(err, &processed):
			return alreadyProcessedPage(c, processed)
		default:
			h.logger.Error("Failed to approve registration", "error", err)
			return serverErrorPage(c, "Failed to approve registration. Please try again or contact support.")
		}
	}

	return approvedPage(c, reg)
}

// RejectRegistration handles GET /api/registration/reject?token=...&reason=...
func (h *Handler) RejectRegistration(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return missingTokenPage(c, "rejection")
	}

	reg, err := h.registrations.Reject(c.Context(), token, c.Query("reason"))
	if err != nil {
		var processed *registration.AlreadyProcessedError
		switch {
		case errors.Is(err, registration.ErrTokenNotFound):
			return unknownTokenPage(c, "rejection")
		case errors.As(err, &processed):
			return alreadyProcessedPage(c, processed)
		default:
			h.logger.Error("Failed to reject registration", "error", err)
			return serverErrorPage(c, "Failed to reject registration. Please try again or contact support.")
		}
	}

	reason := registration.DefaultRejectionReason
	if reg.RejectionReason.IsSet {
		reason = reg.RejectionReason.Val
	}
	return rejectedPage(c, reg, reason)
}

// RegistrationStatus handles GET /api/registration/status?email=... so an
// applicant can check where their application stands.
func (h *Handler) RegistrationStatus(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email is required"})
	}

	info, err := h.registrations.Status(c.Context(), email)
	if err != nil {
		if errors.Is(err, registration.ErrRegistrationNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "No registration found for this email"})
		}
		h.logger.Error("Failed to get registration status", "error", err, "email", email)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	resp := fiber.Map{
		"id":        info.ID,
		"role":      info.Role,
		"name":      info.Name,
		"email":     info.Email,
		"status":    info.Status,
		"createdAt": info.CreatedAt,
	}
	if info.ReviewedAt.IsSet {
		resp["reviewedAt"] = info.ReviewedAt.Val
	}
	if info.Status == "rejected" && info.RejectionReason.IsSet {
		resp["rejectionReason"] = info.RejectionReason.Val
	}
	return c.JSON(resp)
}

// parseURLList decodes a JSON array of strings; a bare non-empty value is
// treated as a single-element list.
func parseURLList(raw string) []string {
	if raw == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return []string{raw}
	}
	return urls
}
