package web

import (
	"errors"
	"strconv"

	"horizonhomes/internal/database"
	"horizonhomes/internal/property"
	"horizonhomes/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ListProperties(c *fiber.Ctx) error {
	param := property.ListParam{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 20),
	}
	if v := c.Query("type"); v != "" {
		param.Type = util.Some(v)
	}
	if v := c.Query("category"); v != "" {
		param.Category = util.Some(v)
	}
	if v := c.Query("city"); v != "" {
		param.City = util.Some(v)
	}
	if v := c.Query("status"); v != "" {
		param.Status = util.Some(v)
	}
	if v := c.Query("minPrice"); v != "" {
		if price, err := strconv.ParseInt(v, 10, 64); err == nil {
			param.MinPrice = util.Some(price)
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if price, err := strconv.ParseInt(v, 10, 64); err == nil {
			param.MaxPrice = util.Some(price)
		}
	}
	if v := c.Query("search"); v != "" {
		param.Search = util.Some(v)
	}

	result, err := h.properties.List(c.Context(), param)
	if err != nil {
		h.logger.Error("Failed to list properties", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"properties": propertyListJSON(result.Properties),
		"total":      result.Total,
		"page":       result.Page,
		"pageSize":   result.PageSize,
	})
}

func (h *Handler) GetProperty(c *fiber.Ctx) error {
	prop, err := h.properties.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Property not found"})
		}
		h.logger.Error("Failed to get property", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(propertyJSON(prop))
}

func (h *Handler) ListMyProperties(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	result, err := h.properties.List(c.Context(), property.ListParam{
		OwnerID:  util.Some(userID),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 20),
	})
	if err != nil {
		h.logger.Error("Failed to list own properties", "error", err, "user_id", userID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"properties": propertyListJSON(result.Properties),
		"total":      result.Total,
		"page":       result.Page,
		"pageSize":   result.PageSize,
	})
}

func (h *Handler) ListFeaturedProperties(c *fiber.Ctx) error {
	properties, err := h.properties.ListFeatured(c.Context(), c.QueryInt("limit", 6))
	if err != nil {
		h.logger.Error("Failed to list featured properties", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"properties": propertyListJSON(properties)})
}

type propertyBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	Price       int64    `json:"price"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Area        int      `json:"area"`
	Images      []string `json:"images"`
	Features    []string `json:"features"`
}

func (h *Handler) CreateProperty(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	var body propertyBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Title == "" || body.City == "" || body.Price <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Title, city and a positive price are required"})
	}

	prop, err := h.properties.Create(c.Context(), property.CreateParam{
		OwnerID:     util.Some(userID),
		Title:       body.Title,
		Description: body.Description,
		Address:     body.Address,
		City:        body.City,
		Type:        body.Type,
		Category:    body.Category,
		Status:      body.Status,
		Price:       body.Price,
		Bedrooms:    body.Bedrooms,
		Bathrooms:   body.Bathrooms,
		Area:        body.Area,
		Images:      body.Images,
		Features:    body.Features,
	})
	if err != nil {
		h.logger.Error("Failed to create property", "error", err, "user_id", userID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(201).JSON(propertyJSON(prop))
}

func (h *Handler) UpdateProperty(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid property ID"})
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	param := property.UpdateParam{}
	if v, ok := body["title"].(string); ok {
		param.Title = util.Some(v)
	}
	if v, ok := body["description"].(string); ok {
		param.Description = util.Some(v)
	}
	if v, ok := body["address"].(string); ok {
		param.Address = util.Some(v)
	}
	if v, ok := body["city"].(string); ok {
		param.City = util.Some(v)
	}
	if v, ok := body["type"].(string); ok {
		param.Type = util.Some(v)
	}
	if v, ok := body["category"].(string); ok {
		param.Category = util.Some(v)
	}
	if v, ok := body["status"].(string); ok {
		param.Status = util.Some(v)
	}
	if v, ok := body["price"].(float64); ok {
		param.Price = util.Some(int64(v))
	}
	if v, ok := body["bedrooms"].(float64); ok {
		param.Bedrooms = util.Some(int(v))
	}
	if v, ok := body["bathrooms"].(float64); ok {
		param.Bathrooms = util.Some(int(v))
	}
	if v, ok := body["area"].(float64); ok {
		param.Area = util.Some(int(v))
	}
	if v, ok := body["images"].([]any); ok {
		param.Images = util.Some(stringSlice(v))
	}
	if v, ok := body["features"].([]any); ok {
		param.Features = util.Some(stringSlice(v))
	}

	prop, err := h.properties.Update(c.Context(), userID, propertyID, param)
	if err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Property not found"})
		case errors.Is(err, property.ErrNotOwner):
			return c.Status(403).JSON(fiber.Map{"error": "You do not own this property"})
		default:
			h.logger.Error("Failed to update property", "error", err, "property_id", propertyID)
			return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.JSON(propertyJSON(prop))
}

func (h *Handler) DeleteProperty(c *fiber.Ctx) error {
	userID, ok := h.requireUser(c)
	if !ok {
		return nil
	}

	propertyID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid property ID"})
	}

	if err := h.properties.Delete(c.Context(), userID, propertyID); err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Property not found"})
		case errors.Is(err, property.ErrNotOwner):
			return c.Status(403).JSON(fiber.Map{"error": "You do not own this property"})
		default:
			h.logger.Error("Failed to delete property", "error", err, "property_id", propertyID)
			return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

func propertyJSON(p database.Property) fiber.Map {
	m := fiber.Map{
		"id":          p.ID,
		"title":       p.Title,
		"slug":        p.Slug,
		"description": p.Description,
		"address":     p.Address,
		"city":        p.City,
		"type":        p.Type,
		"category":    p.Category,
		"status":      p.Status,
		"price":       p.Price,
		"bedrooms":    p.Bedrooms,
		"bathrooms":   p.Bathrooms,
		"area":        p.Area,
		"images":      p.Images,
		"features":    p.Features,
		"isFeatured":  p.IsFeatured,
		"createdAt":   p.CreatedAt,
	}
	if p.OwnerID.IsSet {
		m["ownerId"] = p.OwnerID.Val
	}
	if p.AgentID.IsSet {
		m["agentId"] = p.AgentID.Val
	}
	return m
}

func propertyListJSON(properties []database.Property) []fiber.Map {
	out := make([]fiber.Map, 0, len(properties))
	for _, p := range properties {
		out = append(out, propertyJSON(p))
	}
	return out
}

func stringSlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
