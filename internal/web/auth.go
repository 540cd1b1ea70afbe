package web

import (
	"errors"
	"strings"

	"horizonhomes/internal/account"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")

	if name == "" || email == "" || password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name, email and password are required"})
	}
	if len(password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 8 characters long"})
	}

	userID, err := h.authenticator.Register(c.Context(), account.RegisterParam{
		Name:     name,
		Email:    email,
		Password: password,
		Phone:    c.FormValue("phone"),
	})
	if err != nil {
		if errors.Is(err, account.ErrEmailAlreadyInUse) {
			return c.Status(409).JSON(fiber.Map{"error": "This email is already registered"})
		}
		h.logger.Error("Failed to register user", "error", err, "email", email)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(201).JSON(fiber.Map{"id": userID})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")

	if email == "" || password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email and password are required"})
	}

	user, err := h.authenticator.Login(c.Context(), account.LoginParam{Email: email, Password: password})
	if err != nil {
		// Generic error to prevent email enumeration.
		if errors.Is(err, account.ErrUserNotFound) || errors.Is(err, account.ErrInvalidPassword) {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid email or password"})
		}
		h.logger.Error("Failed to login", "error", err, "email", email)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	sess, err := h.store.Get(c)
	if err != nil {
		h.logger.Error("Failed to get session", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create session"})
	}
	sess.Set("user_id", user.ID.String())
	if err := sess.Save(); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save session"})
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		h.logger.Error("Failed to get session", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
	if err := sess.Destroy(); err != nil {
		h.logger.Error("Failed to destroy session", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	user, err := h.db.GetUserByID(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get user", "error", err, "user_id", userID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"phone": user.Phone,
		"image": user.Image,
	})
}
