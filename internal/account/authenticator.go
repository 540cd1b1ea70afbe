package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"horizonhomes/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrInvalidPassword   = fmt.Errorf("invalid password")
	ErrEmailAlreadyInUse = fmt.Errorf("email already in use")
)

// Authenticator handles credential login for customers and for the
// professionals provisioned by registration approval.
type Authenticator struct {
	logger *slog.Logger
	db     *database.Database
}

func NewAuthenticator(logger *slog.Logger, db *database.Database) Authenticator {
	return Authenticator{logger: logger, db: db}
}

type RegisterParam struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Register creates a regular customer account. Professionals go through the
// registration approval workflow instead.
func (a *Authenticator) Register(ctx context.Context, param RegisterParam) (uuid.UUID, error) {
	var userID uuid.UUID

	_, err := a.db.GetUserByEmail(ctx, param.Email)
	if err == nil {
		return userID, ErrEmailAlreadyInUse
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		return userID, fmt.Errorf("failed to check if user exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		return userID, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.db.CreateUser(ctx, database.CreateUserParams{
		Name:         param.Name,
		Email:        param.Email,
		PasswordHash: string(passwordHash),
		Role:         "user",
		Phone:        param.Phone,
	})
	if err != nil {
		return userID, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user.ID, nil
}

type LoginParam struct {
	Email    string
	Password string
}

func (a *Authenticator) Login(ctx context.Context, param LoginParam) (database.User, error) {
	user, err := a.db.GetUserByEmail(ctx, param.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return user, ErrUserNotFound
		}
		return user, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(param.Password)); err != nil {
		return user, ErrInvalidPassword
	}

	return user, nil
}
