package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"horizonhomes/internal/database"
	"horizonhomes/internal/util"
	"horizonhomes/internal/validator"

	"github.com/google/uuid"
)

var ErrAgentNotFound = errors.New("agent not found")

// ContactSentMessage is returned when a contact request email goes out.
const ContactSentMessage = "Your request has been sent successfully! We'll connect you with the agent soon."

// Notifier sends the contact request email, implemented by *mail.Notifier.
type Notifier interface {
	NotifyAdminOfAgentContact(ctx context.Context, a database.Agent, contact ContactParam) error
}

// Manager serves the public professional directory. Profiles are created by
// the registration approval workflow, not here.
type Manager struct {
	logger    *slog.Logger
	db        *database.Database
	validator *validator.Validator
	notifier  Notifier
}

func NewManager(logger *slog.Logger, db *database.Database, v *validator.Validator, notifier Notifier) Manager {
	return Manager{logger: logger, db: db, validator: v, notifier: notifier}
}

type ListParam struct {
	Search   util.Optional[string]
	Category util.Optional[string]
	Page     int
	PageSize int
}

type ListResult struct {
	Agents   []database.Agent
	Total    int
	Page     int
	PageSize int
}

func (m *Manager) List(ctx context.Context, param ListParam) (ListResult, error) {
	page := param.Page
	if page < 1 {
		page = 1
	}
	pageSize := param.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	agents, total, err := m.db.ListAgents(ctx, database.ListAgentsParams{
		Search:   param.Search,
		Category: param.Category,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list agents: %w", err)
	}

	return ListResult{Agents: agents, Total: total, Page: page, PageSize: pageSize}, nil
}

func (m *Manager) GetByID(ctx context.Context, id uuid.UUID) (database.Agent, error) {
	agent, err := m.db.GetAgentByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrAgentNotFound) {
			return agent, ErrAgentNotFound
		}
		return agent, fmt.Errorf("failed to get agent: %w", err)
	}
	return agent, nil
}

type ContactParam struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Contact forwards a visitor's inquiry about an agent to the admin inbox.
// Unlike the workflow emails this send is the whole operation, so a delivery
// failure fails the request.
func (m *Manager) Contact(ctx context.Context, agentID uuid.UUID, param ContactParam) (string, error) {
	if param.Name == "" || param.Email == "" || param.Phone == "" {
		return "", validator.ErrMissingRequiredFields
	}
	if err := m.validator.ValidateEmail(param.Email); err != nil {
		return "", err
	}

	a, err := m.db.GetAgentByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, database.ErrAgentNotFound) {
			return "", ErrAgentNotFound
		}
		return "", fmt.Errorf("failed to get agent: %w", err)
	}

	if err := m.notifier.NotifyAdminOfAgentContact(ctx, a, param); err != nil {
		return "", fmt.Errorf("failed to send contact request: %w", err)
	}

	m.logger.Info("Agent contact request sent", "agent_id", a.ID)
	return ContactSentMessage, nil
}

func (m *Manager) ListFeatured(ctx context.Context, limit int) ([]database.Agent, error) {
	if limit < 1 || limit > 50 {
		limit = 6
	}
	agents, err := m.db.ListFeaturedAgents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured agents: %w", err)
	}
	return agents, nil
}
