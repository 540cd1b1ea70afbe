package servicerequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"horizonhomes/internal/database"
	"horizonhomes/internal/monitoring"
	"horizonhomes/internal/util"

	"github.com/google/uuid"
)

var ErrMissingRequiredFields = errors.New("Please fill in all required fields")

// Notifier sends the service request emails, implemented by *mail.Notifier.
type Notifier interface {
	NotifyAdminOfServiceRequest(ctx context.Context, req database.ServiceRequest) error
	ConfirmServiceRequest(ctx context.Context, req database.ServiceRequest) error
}

type Manager struct {
	logger   *slog.Logger
	db       *database.Database
	notifier Notifier
	metrics  *monitoring.Metrics
}

func NewManager(logger *slog.Logger, db *database.Database, notifier Notifier, metrics *monitoring.Metrics) Manager {
	return Manager{logger: logger, db: db, notifier: notifier, metrics: metrics}
}

type SubmitParam struct {
	UserID      util.Optional[uuid.UUID]
	ServiceType string
	Name        string
	Email       string
	Phone       string
	Message     string
	Budget      string
	Location    string
	Timeline    string
	Documents   []string
}

// Submit stores a service request and notifies the admin. Email failures are
// logged, never surfaced to the requester.
func (m *Manager) Submit(ctx context.Context, param SubmitParam) (database.ServiceRequest, error) {
	var request database.ServiceRequest

	if param.ServiceType == "" || param.Name == "" || param.Email == "" || param.Phone == "" || param.Message == "" {
		return request, ErrMissingRequiredFields
	}

	request, err := m.db.CreateServiceRequest(ctx, database.CreateServiceRequestParams{
		UserID:      param.UserID,
		ServiceType: param.ServiceType,
		Name:        param.Name,
		Email:       param.Email,
		Phone:       param.Phone,
		Message:     param.Message,
		Budget:      param.Budget,
		Location:    param.Location,
		Timeline:    param.Timeline,
		Documents:   param.Documents,
	})
	if err != nil {
		return request, fmt.Errorf("failed to create service request: %w", err)
	}

	m.metrics.ServiceRequestSubmitted(ctx, request.ServiceType)

	if err := m.notifier.NotifyAdminOfServiceRequest(ctx, request); err != nil {
		m.logger.Error("Failed to send service request email", "error", err, "request_id", request.ID)
	}
	if err := m.notifier.ConfirmServiceRequest(ctx, request); err != nil {
		m.logger.Error("Failed to send service request confirmation", "error", err, "request_id", request.ID)
	}

	return request, nil
}

func (m *Manager) ListByUser(ctx context.Context, userID uuid.UUID) ([]database.ServiceRequest, error) {
	requests, err := m.db.ListServiceRequestsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return requests, nil
}
