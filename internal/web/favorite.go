package web

import (
	"errors"

	"horizonhomes/internal/favorite"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ToggleFavorite(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid property ID"})
	}

	favorited, err := h.favorites.Toggle(c.Context(), userID, propertyID)
	if err != nil {
		if errors.Is(err, favorite.ErrPropertyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Property not found"})
		}
		h.logger.Error("Failed to toggle favorite", "error", err, "property_id", propertyID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{"favorited": favorited})
}

func (h *Handler) AddFavorite(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid property ID"})
	}

	if err := h.favorites.Add(c.Context(), userID, propertyID); err != nil {
		switch {
		case errors.Is(err, favorite.ErrPropertyNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Property not found"})
		case errors.Is(err, favorite.ErrAlreadyFavorited):
			return c.Status(409).JSON(fiber.Map{"error": "Property is already in favorites"})
		default:
			h.logger.Error("Failed to add favorite", "error", err, "property_id", propertyID)
			return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.Status(201).JSON(fiber.Map{"favorited": true})
}

func (h *Handler) RemoveFavorite(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid property ID"})
	}

	if err := h.favorites.Remove(c.Context(), userID, propertyID); err != nil {
		if errors.Is(err, favorite.ErrNotFavorited) {
			return c.Status(404).JSON(fiber.Map{"error": "Property is not in favorites"})
		}
		h.logger.Error("Failed to remove favorite", "error", err, "property_id", propertyID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{"favorited": false})
}

func (h *Handler) IsFavorite(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid property ID"})
	}

	favorited, err := h.favorites.Has(c.Context(), userID, propertyID)
	if err != nil {
		h.logger.Error("Failed to check favorite", "error", err, "property_id", propertyID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{"favorited": favorited})
}

func (h *Handler) ListFavorites(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	properties, err := h.favorites.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list favorites", "error", err, "user_id", userID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{"properties": propertyListJSON(properties)})
}
