package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"horizonhomes/internal/util"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

type Registration struct {
	ID              uuid.UUID
	Role            string
	Name            string
	Email           string
	Phone           string
	Password        string
	Experience      string
	Description     string
	ProfileImage    string
	Portfolio       []string
	Documents       []string
	ApprovalToken   string
	RejectionToken  string
	Status          RegistrationStatus
	RejectionReason util.Optional[string]
	ReviewedAt      util.Optional[time.Time]
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const registrationColumns = `id, role, name, email, phone, password, experience, description, profile_image, portfolio, documents, approval_token, rejection_token, status, rejection_reason, reviewed_at, created_at, updated_at`

func scanRegistration(row pgx.Row) (Registration, error) {
	var r Registration
	err := row.Scan(&r.ID, &r.Role, &r.Name, &r.Email, &r.Phone, &r.Password, &r.Experience,
		&r.Description, &r.ProfileImage, &r.Portfolio, &r.Documents, &r.ApprovalToken,
		&r.RejectionToken, &r.Status, &r.RejectionReason, &r.ReviewedAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

type CreateRegistrationParams struct {
	Role           string
	Name           string
	Email          string
	Phone          string
	Password       string
	Experience     string
	Description    string
	ProfileImage   string
	Portfolio      []string
	Documents      []string
	ApprovalToken  string
	RejectionToken string
}

func (db *Database) CreateRegistration(ctx context.Context, params CreateRegistrationParams) (Registration, error) {
	registration := Registration{
		ID:             uuid.New(),
		Role:           params.Role,
		Name:           params.Name,
		Email:          params.Email,
		Phone:          params.Phone,
		Password:       params.Password,
		Experience:     params.Experience,
		Description:    params.Description,
		ProfileImage:   params.ProfileImage,
		Portfolio:      params.Portfolio,
		Documents:      params.Documents,
		ApprovalToken:  params.ApprovalToken,
		RejectionToken: params.RejectionToken,
		Status:         RegistrationStatusPending,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if _, err := db.Pool.Exec(ctx, `INSERT INTO tbl_registration (id, role, name, email, phone, password, experience, description, profile_image, portfolio, documents, approval_token, rejection_token, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		registration.ID, registration.Role, registration.Name, registration.Email, registration.Phone,
		registration.Password, registration.Experience, registration.Description, registration.ProfileImage,
		registration.Portfolio, registration.Documents,
		registration.ApprovalToken, registration.RejectionToken, registration.Status,
		registration.CreatedAt, registration.UpdatedAt); err != nil {
		// The email column is unique: one registration record per email.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "tbl_registration_email_key" {
			return registration, ErrRegistrationExists
		}
		return registration, fmt.Errorf("database: failed to insert registration (email=%s): %w", registration.Email, err)
	}
	return registration, nil
}

func (db *Database) GetRegistrationByEmail(ctx context.Context, email string) (Registration, error) {
	return db.GetRegistration(ctx, GetRegistrationParams{Email: util.Some(email)})
}

func (db *Database) GetRegistrationByApprovalToken(ctx context.Context, token string) (Registration, error) {
	return db.GetRegistration(ctx, GetRegistrationParams{ApprovalToken: util.Some(token)})
}

func (db *Database) GetRegistrationByRejectionToken(ctx context.Context, token string) (Registration, error) {
	return db.GetRegistration(ctx, GetRegistrationParams{RejectionToken: util.Some(token)})
}

type GetRegistrationParams struct {
	ID             util.Optional[uuid.UUID]
	Email          util.Optional[string]
	ApprovalToken  util.Optional[string]
	RejectionToken util.Optional[string]
}

func (db *Database) GetRegistration(ctx context.Context, params GetRegistrationParams) (Registration, error) {
	var query strings.Builder
	query.WriteString(`SELECT ` + registrationColumns + ` FROM tbl_registration WHERE 1=1`)
	var args []any
	argNum := 1

	if params.ID.IsSet {
		query.WriteString(fmt.Sprintf(" AND id = $%d", argNum))
		args = append(args, params.ID.Val)
		argNum++
	}
	if params.Email.IsSet {
		query.WriteString(fmt.Sprintf(" AND email = $%d", argNum))
		args = append(args, params.Email.Val)
		argNum++
	}
	if params.ApprovalToken.IsSet {
		query.WriteString(fmt.Sprintf(" AND approval_token = $%d", argNum))
		args = append(args, params.ApprovalToken.Val)
		argNum++
	}
	if params.RejectionToken.IsSet {
		query.WriteString(fmt.Sprintf(" AND rejection_token = $%d", argNum))
		args = append(args, params.RejectionToken.Val)
		argNum++
	}

	query.WriteString(" ORDER BY created_at DESC LIMIT 1")

	registration, err := scanRegistration(db.Pool.QueryRow(ctx, query.String(), args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return registration, ErrRegistrationNotFound
		}
		return registration, fmt.Errorf("database: failed to scan registration: %w", err)
	}
	return registration, nil
}

type ApproveRegistrationParams struct {
	RegistrationID uuid.UUID
	ReviewedAt     time.Time
	User           CreateUserParams
	Agent          CreateAgentParams
}

// ApproveRegistration flips a pending registration to approved and provisions
// the user account and agent profile in one transaction. The conditional
// UPDATE runs first: if another decision already landed, nothing is created
// and ErrRegistrationNotPending is returned.
func (db *Database) ApproveRegistration(ctx context.Context, params ApproveRegistrationParams) (User, Agent, error) {
	var user User
	var agent Agent

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return user, agent, fmt.Errorf("database: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE tbl_registration SET status = $1, reviewed_at = $2, updated_at = $3 WHERE id = $4 AND status = $5`,
		RegistrationStatusApproved, params.ReviewedAt, time.Now().UTC(), params.RegistrationID, RegistrationStatusPending)
	if err != nil {
		return user, agent, fmt.Errorf("database: failed to approve registration (id=%s): %w", params.RegistrationID, err)
	}
	if tag.RowsAffected() == 0 {
		return user, agent, ErrRegistrationNotPending
	}

	user = User{
		ID:           uuid.New(),
		Name:         params.User.Name,
		Email:        params.User.Email,
		PasswordHash: params.User.PasswordHash,
		Role:         params.User.Role,
		Phone:        params.User.Phone,
		Image:        params.User.Image,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if _, err := tx.Exec(ctx, `INSERT INTO tbl_user (id, name, email, password_hash, role, phone, image, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Phone, user.Image, user.CreatedAt, user.UpdatedAt); err != nil {
		return user, agent, fmt.Errorf("database: failed to insert user (email=%s): %w", user.Email, err)
	}

	agent = Agent{
		ID:          uuid.New(),
		UserID:      util.Some(user.ID),
		Name:        params.Agent.Name,
		Email:       params.Agent.Email,
		Phone:       params.Agent.Phone,
		Image:       params.Agent.Image,
		Bio:         params.Agent.Bio,
		Experience:  params.Agent.Experience,
		Category:    params.Agent.Category,
		Specialties: params.Agent.Specialties,
		Portfolio:   params.Agent.Portfolio,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if _, err := tx.Exec(ctx, `INSERT INTO tbl_agent (id, user_id, name, email, phone, image, bio, experience, category, specialties, portfolio, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		agent.ID, agent.UserID, agent.Name, agent.Email, agent.Phone, agent.Image, agent.Bio, agent.Experience,
		agent.Category, agent.Specialties, agent.Portfolio, agent.CreatedAt, agent.UpdatedAt); err != nil {
		return user, agent, fmt.Errorf("database: failed to insert agent (email=%s): %w", agent.Email, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return user, agent, fmt.Errorf("database: failed to commit approval (id=%s): %w", params.RegistrationID, err)
	}
	return user, agent, nil
}

type RejectRegistrationParams struct {
	RegistrationID  uuid.UUID
	RejectionReason string
	ReviewedAt      time.Time
}

// RejectRegistration flips a pending registration to rejected. Zero rows
// affected means the registration was already decided.
func (db *Database) RejectRegistration(ctx context.Context, params RejectRegistrationParams) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE tbl_registration SET status = $1, rejection_reason = $2, reviewed_at = $3, updated_at = $4 WHERE id = $5 AND status = $6`,
		RegistrationStatusRejected, params.RejectionReason, params.ReviewedAt, time.Now().UTC(),
		params.RegistrationID, RegistrationStatusPending)
	if err != nil {
		return fmt.Errorf("database: failed to reject registration (id=%s): %w", params.RegistrationID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRegistrationNotPending
	}
	return nil
}
