package database

import (
	"context"
	"fmt"
	"time"

	"horizonhomes/internal/util"

	"github.com/google/uuid"
)

type ServiceRequest struct {
	ID          uuid.UUID
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
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateServiceRequestParams struct {
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

func (db *Database) CreateServiceRequest(ctx context.Context, params CreateServiceRequestParams) (ServiceRequest, error) {
	request := ServiceRequest{
		ID:          uuid.New(),
		UserID:      params.UserID,
		ServiceType: params.ServiceType,
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Message:     params.Message,
		Budget:      params.Budget,
		Location:    params.Location,
		Timeline:    params.Timeline,
		Documents:   params.Documents,
		Status:      "pending",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if _, err := db.Pool.Exec(ctx, `INSERT INTO tbl_service_request (id, user_id, service_type, name, email, phone, message, budget, location, timeline, documents, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		request.ID, request.UserID, request.ServiceType, request.Name, request.Email, request.Phone,
		request.Message, request.Budget, request.Location, request.Timeline, request.Documents,
		request.Status, request.CreatedAt, request.UpdatedAt); err != nil {
		return request, fmt.Errorf("database: failed to insert service request (email=%s): %w", request.Email, err)
	}
	return request, nil
}

// ListServiceRequestsByUserID returns the user's own requests, newest first.
func (db *Database) ListServiceRequestsByUserID(ctx context.Context, userID uuid.UUID) ([]ServiceRequest, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, user_id, service_type, name, email, phone, message, budget, location, timeline, documents, status, created_at, updated_at FROM tbl_service_request WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("database: failed to list service requests (user_id=%s): %w", userID, err)
	}
	defer rows.Close()

	var requests []ServiceRequest
	for rows.Next() {
		var r ServiceRequest
		if err := rows.Scan(&r.ID, &r.UserID, &r.ServiceType, &r.Name, &r.Email, &r.Phone, &r.Message,
			&r.Budget, &r.Location, &r.Timeline, &r.Documents, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("database: failed to scan service request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: failed to iterate service requests: %w", err)
	}

	return requests, nil
}
