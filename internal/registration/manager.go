package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"horizonhomes/internal/database"
	"horizonhomes/internal/monitoring"
	"horizonhomes/internal/util"
	"horizonhomes/internal/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultRejectionReason is used when the admin rejects without giving one.
const DefaultRejectionReason = "Your application did not meet our current requirements."

// SubmittedMessage is returned to the applicant on a successful submission.
const SubmittedMessage = "Registration submitted successfully! You will receive an email once your application is reviewed and approved."

var (
	ErrEmailAlreadyRegistered = errors.New("This email is already registered")
	ErrPendingExists          = errors.New("Registration already submitted. Please wait for admin approval.")
	ErrApprovedExists         = errors.New("This email is already registered and approved. Please login.")
	ErrRejectedExists         = errors.New("Previous registration was rejected. Please contact support for more information.")
	ErrTooManyAttempts        = errors.New("Too many registration attempts. Please try again later.")
	ErrTokenNotFound          = errors.New("registration token not found")
	ErrRegistrationNotFound   = errors.New("registration not found")
)

// AlreadyProcessedError reports that a decision link was used after the
// registration left the pending state.
type AlreadyProcessedError struct {
	Status     database.RegistrationStatus
	ReviewedAt util.Optional[time.Time]
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("registration already processed (status=%s)", e.Status)
}

// Store is the persistence surface the manager needs, implemented by
// *database.Database.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	GetRegistrationByEmail(ctx context.Context, email string) (database.Registration, error)
	GetRegistrationByApprovalToken(ctx context.Context, token string) (database.Registration, error)
	GetRegistrationByRejectionToken(ctx context.Context, token string) (database.Registration, error)
	CreateRegistration(ctx context.Context, params database.CreateRegistrationParams) (database.Registration, error)
	ApproveRegistration(ctx context.Context, params database.ApproveRegistrationParams) (database.User, database.Agent, error)
	RejectRegistration(ctx context.Context, params database.RejectRegistrationParams) error
}

// Notifier sends the workflow emails. Failures are logged by the manager and
// never fail the operation that triggered them.
type Notifier interface {
	NotifyAdminOfSubmission(ctx context.Context, reg database.Registration) error
	NotifyApplicantApproved(ctx context.Context, reg database.Registration) error
	NotifyApplicantRejected(ctx context.Context, reg database.Registration, reason string) error
}

// Limiter throttles submissions per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Manager struct {
	logger    *slog.Logger
	store     Store
	validator *validator.Validator
	notifier  Notifier
	limiter   Limiter
	metrics   *monitoring.Metrics
}

func NewManager(logger *slog.Logger, store Store, v *validator.Validator, notifier Notifier, limiter Limiter, metrics *monitoring.Metrics) Manager {
	return Manager{logger: logger, store: store, validator: v, notifier: notifier, limiter: limiter, metrics: metrics}
}

type SubmitParam struct {
	Role         string
	Name         string
	Email        string
	Password     string
	Phone        string
	Experience   string
	Description  string
	ProfileImage string
	Portfolio    []string
	Documents    []string
}

// Submit validates and stores a new professional registration, then notifies
// the admin. Validation order is fixed: required fields, email format,
// password length, then conflict checks against users and prior
// registrations.
func (m *Manager) Submit(ctx context.Context, param SubmitParam) (string, error) {
	if err := m.validator.ValidateSubmission(validator.Submission{
		Role:     param.Role,
		Name:     param.Name,
		Email:    param.Email,
		Password: param.Password,
	}); err != nil {
		return "", err
	}

	if m.limiter != nil {
		allowed, err := m.limiter.Allow(ctx, param.Email)
		if err != nil {
			// A broken limiter must not block signups.
			m.logger.Error("Rate limiter check failed", "error", err, "email", param.Email)
		} else if !allowed {
			return "", ErrTooManyAttempts
		}
	}

	_, err := m.store.GetUserByEmail(ctx, param.Email)
	if err == nil {
		return "", ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		return "", fmt.Errorf("failed to check if user exists: %w", err)
	}

	existing, err := m.store.GetRegistrationByEmail(ctx, param.Email)
	if err == nil {
		switch existing.Status {
		case database.RegistrationStatusPending:
			return "", ErrPendingExists
		case database.RegistrationStatusApproved:
			return "", ErrApprovedExists
		case database.RegistrationStatusRejected:
			return "", ErrRejectedExists
		}
	} else if !errors.Is(err, database.ErrRegistrationNotFound) {
		return "", fmt.Errorf("failed to check existing registration: %w", err)
	}

	approvalToken, err := util.RandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate approval token: %w", err)
	}
	rejectionToken, err := util.RandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate rejection token: %w", err)
	}

	registration, err := m.store.CreateRegistration(ctx, database.CreateRegistrationParams{
		Role:           param.Role,
		Name:           param.Name,
		Email:          param.Email,
		Phone:          param.Phone,
		Password:       param.Password,
		Experience:     param.Experience,
		Description:    param.Description,
		ProfileImage:   param.ProfileImage,
		Portfolio:      param.Portfolio,
		Documents:      param.Documents,
		ApprovalToken:  approvalToken,
		RejectionToken: rejectionToken,
	})
	if err != nil {
		// The unique email constraint catches a concurrent submission that
		// slipped past the read above; the winner's row is pending.
		if errors.Is(err, database.ErrRegistrationExists) {
			return "", ErrPendingExists
		}
		return "", fmt.Errorf("failed to create registration: %w", err)
	}

	m.metrics.RegistrationSubmitted(ctx, registration.Role)

	if err := m.notifier.NotifyAdminOfSubmission(ctx, registration); err != nil {
		m.logger.Error("Failed to send approval email", "error", err, "registration_id", registration.ID)
	}

	return SubmittedMessage, nil
}

// Approve consumes an approval token: provisions the user account and agent
// profile and flips the registration to approved, all in one transaction.
// Returns the registration for rendering the decision page.
func (m *Manager) Approve(ctx context.Context, token string) (database.Registration, error) {
	registration, err := m.store.GetRegistrationByApprovalToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrRegistrationNotFound) {
			return registration, ErrTokenNotFound
		}
		return registration, fmt.Errorf("failed to look up approval token: %w", err)
	}

	if registration.Status != database.RegistrationStatusPending {
		return registration, &AlreadyProcessedError{Status: registration.Status, ReviewedAt: registration.ReviewedAt}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return registration, fmt.Errorf("failed to hash password: %w", err)
	}

	reviewedAt := time.Now().UTC()
	role := Role(registration.Role)

	_, _, err = m.store.ApproveRegistration(ctx, database.ApproveRegistrationParams{
		RegistrationID: registration.ID,
		ReviewedAt:     reviewedAt,
		User: database.CreateUserParams{
			Name:         registration.Name,
			Email:        registration.Email,
			PasswordHash: string(passwordHash),
			Role:         registration.Role,
			Phone:        registration.Phone,
			Image:        registration.ProfileImage,
		},
		Agent: database.CreateAgentParams{
			Name:        registration.Name,
			Email:       registration.Email,
			Phone:       registration.Phone,
			Image:       registration.ProfileImage,
			Bio:         registration.Description,
			Experience:  ExperienceYears(registration.Experience),
			Category:    registration.Role,
			Specialties: []string{role.Label()},
			Portfolio:   registration.Portfolio,
		},
	})
	if err != nil {
		if errors.Is(err, database.ErrRegistrationNotPending) {
			// Lost the race to a concurrent decision; re-read for the page.
			current, getErr := m.store.GetRegistrationByApprovalToken(ctx, token)
			if getErr != nil {
				return registration, fmt.Errorf("failed to re-read registration: %w", getErr)
			}
			return current, &AlreadyProcessedError{Status: current.Status, ReviewedAt: current.ReviewedAt}
		}
		return registration, fmt.Errorf("failed to approve registration %s: %w", registration.ID, err)
	}

	registration.Status = database.RegistrationStatusApproved
	registration.ReviewedAt = util.Some(reviewedAt)

	m.metrics.RegistrationDecided(ctx, string(database.RegistrationStatusApproved))

	if err := m.notifier.NotifyApplicantApproved(ctx, registration); err != nil {
		m.logger.Error("Failed to send approval confirmation email", "error", err, "registration_id", registration.ID)
	}

	return registration, nil
}

// Reject consumes a rejection token, recording the reason. An empty reason
// falls back to DefaultRejectionReason.
func (m *Manager) Reject(ctx context.Context, token string, reason string) (database.Registration, error) {
	if reason == "" {
		reason = DefaultRejectionReason
	}

	registration, err := m.store.GetRegistrationByRejectionToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrRegistrationNotFound) {
			return registration, ErrTokenNotFound
		}
		return registration, fmt.Errorf("failed to look up rejection token: %w", err)
	}

	if registration.Status != database.RegistrationStatusPending {
		return registration, &AlreadyProcessedError{Status: registration.Status, ReviewedAt: registration.ReviewedAt}
	}

	reviewedAt := time.Now().UTC()
	if err := m.store.RejectRegistration(ctx, database.RejectRegistrationParams{
		RegistrationID:  registration.ID,
		RejectionReason: reason,
		ReviewedAt:      reviewedAt,
	}); err != nil {
		if errors.Is(err, database.ErrRegistrationNotPending) {
			current, getErr := m.store.GetRegistrationByRejectionToken(ctx, token)
			if getErr != nil {
				return registration, fmt.Errorf("failed to re-read registration: %w", getErr)
			}
			return current, &AlreadyProcessedError{Status: current.Status, ReviewedAt: current.ReviewedAt}
		}
		return registration, fmt.Errorf("failed to reject registration %s: %w", registration.ID, err)
	}

	registration.Status = database.RegistrationStatusRejected
	registration.RejectionReason = util.Some(reason)
	registration.ReviewedAt = util.Some(reviewedAt)

	m.metrics.RegistrationDecided(ctx, string(database.RegistrationStatusRejected))

	if err := m.notifier.NotifyApplicantRejected(ctx, registration, reason); err != nil {
		m.logger.Error("Failed to send rejection notification email", "error", err, "registration_id", registration.ID)
	}

	return registration, nil
}

type StatusInfo struct {
	ID              uuid.UUID
	Role            string
	Name            string
	Email           string
	Status          database.RegistrationStatus
	RejectionReason util.Optional[string]
	ReviewedAt      util.Optional[time.Time]
	CreatedAt       time.Time
}

// Status looks up the latest registration for an email address.
func (m *Manager) Status(ctx context.Context, email string) (StatusInfo, error) {
	var info StatusInfo

	registration, err := m.store.GetRegistrationByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrRegistrationNotFound) {
			return info, ErrRegistrationNotFound
		}
		return info, fmt.Errorf("failed to get registration status: %w", err)
	}

	info.ID = registration.ID
	info.Role = registration.Role
	info.Name = registration.Name
	info.Email = registration.Email
	info.Status = registration.Status
	info.RejectionReason = registration.RejectionReason
	info.ReviewedAt = registration.ReviewedAt
	info.CreatedAt = registration.CreatedAt
	return info, nil
}

var experiencePattern = regexp.MustCompile(`\d+`)

// ExperienceYears pulls the first integer out of a free-text experience
// description, e.g. "10+ years in construction" yields 10.
func ExperienceYears(experience string) int {
	match := experiencePattern.FindString(experience)
	if match == "" {
		return 0
	}
	years, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return years
}
