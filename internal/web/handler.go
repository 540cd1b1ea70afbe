package web

import (
	"log/slog"

	"horizonhomes/internal/account"
	"horizonhomes/internal/agent"
	"horizonhomes/internal/database"
	"horizonhomes/internal/favorite"
	"horizonhomes/internal/property"
	"horizonhomes/internal/registration"
	"horizonhomes/internal/servicerequest"
	"horizonhomes/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

type Handler struct {
	logger          *slog.Logger
	store           *session.Store
	db              *database.Database
	registrations   *registration.Manager
	authenticator   *account.Authenticator
	properties      *property.Manager
	agents          *agent.Manager
	favorites       *favorite.Manager
	serviceRequests *servicerequest.Manager
	storage         storage.Storage
}

func NewHandler(
	logger *slog.Logger,
	store *session.Store,
	db *database.Database,
	registrations *registration.Manager,
	authenticator *account.Authenticator,
	properties *property.Manager,
	agents *agent.Manager,
	favorites *favorite.Manager,
	serviceRequests *servicerequest.Manager,
	storageBackend storage.Storage,
) Handler {
	return Handler{
		logger:          logger,
		store:           store,
		db:              db,
		registrations:   registrations,
		authenticator:   authenticator,
		properties:      properties,
		agents:          agents,
		favorites:       favorites,
		serviceRequests: serviceRequests,
		storage:         storageBackend,
	}
}

// sessionUserID returns the logged-in user's ID, or uuid.Nil when the
// session has none.
func (h *Handler) sessionUserID(c *fiber.Ctx) (uuid.UUID, error) {
	sess, err := h.store.Get(c)
	if err != nil {
		return uuid.Nil, err
	}
	raw, ok := sess.Get("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, nil
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil
	}
	return userID, nil
}

// requireUser resolves the session user or writes a 401 response. The bool
// reports whether the request may proceed.
func (h *Handler) requireUser(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, err := h.sessionUserID(c)
	if err != nil {
		h.logger.Error("Failed to get session", "error", err)
		c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
		return uuid.Nil, false
	}
	if userID == uuid.Nil {
		c.Status(401).JSON(fiber.Map{"error": "Authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}
