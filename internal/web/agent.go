package web

import (
	"errors"

	"horizonhomes/internal/agent"
	"horizonhomes/internal/database"
	"horizonhomes/internal/property"
	"horizonhomes/internal/util"
	"horizonhomes/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ListAgents(c *fiber.Ctx) error {
	param := agent.ListParam{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 20),
	}
	if v := c.Query("search"); v != "" {
		param.Search = util.Some(v)
	}
	if v := c.Query("category"); v != "" {
		param.Category = util.Some(v)
	}

	result, err := h.agents.List(c.Context(), param)
	if err != nil {
		h.logger.Error("Failed to list agents", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"agents":   agentListJSON(result.Agents),
		"total":    result.Total,
		"page":     result.Page,
		"pageSize": result.PageSize,
	})
}

func (h *Handler) GetAgent(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	a, err := h.agents.GetByID(c.Context(), agentID)
	if err != nil {
		if errors.Is(err, agent.ErrAgentNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Agent not found"})
		}
		h.logger.Error("Failed to get agent", "error", err, "agent_id", agentID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	// The detail view includes the agent's available listings.
	listings, err := h.properties.List(c.Context(), property.ListParam{
		AgentID:  util.Some(a.ID),
		Status:   util.Some("available"),
		Page:     1,
		PageSize: 50,
	})
	if err != nil {
		h.logger.Error("Failed to list agent properties", "error", err, "agent_id", agentID)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}

	out := agentJSON(a)
	out["properties"] = propertyListJSON(listings.Properties)
	return c.JSON(out)
}

func (h *Handler) ListFeaturedAgents(c *fiber.Ctx) error {
	agents, err := h.agents.ListFeatured(c.Context(), c.QueryInt("limit", 6))
	if err != nil {
		h.logger.Error("Failed to list featured agents", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"agents": agentListJSON(agents)})
}

// ContactAgent handles POST /api/agents/:id/contact: a visitor asks to be
// put in touch with an agent and the admin gets the inquiry by email.
func (h *Handler) ContactAgent(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agent ID"})
	}

	message, err := h.agents.Contact(c.Context(), agentID, agent.ContactParam{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Phone:   c.FormValue("phone"),
		Message: c.FormValue("message"),
	})
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrMissingRequiredFields), errors.Is(err, validator.ErrInvalidEmail):
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		case errors.Is(err, agent.ErrAgentNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Agent not found"})
		default:
			h.logger.Error("Failed to send agent contact request", "error", err, "agent_id", agentID)
			return c.Status(500).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to send contact request. Please try again later.",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func agentJSON(a database.Agent) fiber.Map {
	return fiber.Map{
		"id":          a.ID,
		"name":        a.Name,
		"email":       a.Email,
		"phone":       a.Phone,
		"image":       a.Image,
		"bio":         a.Bio,
		"experience":  a.Experience,
		"category":    a.Category,
		"specialties": a.Specialties,
		"portfolio":   a.Portfolio,
	}
}

func agentListJSON(agents []database.Agent) []fiber.Map {
	out := make([]fiber.Map, 0, len(agents))
	for _, a := range agents {
		out = append(out, agentJSON(a))
	}
	return out
}
