package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase spins up a throwaway Postgres container and runs the
// embedded migrations. Gated behind INTEGRATION_TESTS so unit runs stay fast.
func setupTestDatabase(t *testing.T) *Database {
	t.Helper()

	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS to run database integration tests")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("horizonhomes_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrateURL := strings.Replace(connString, "postgres://", "pgx5://", 1)
	require.NoError(t, MigrateUp(migrateURL))

	db := NewDatabase()
	require.NoError(t, db.Connect(ctx, connString))
	t.Cleanup(db.Close)

	return &db
}

func createTestRegistration(t *testing.T, db *Database, email string) Registration {
	t.Helper()

	reg, err := db.CreateRegistration(context.Background(), CreateRegistrationParams{
		Role:           "interior-designer",
		Name:           "Priya Sharma",
		Email:          email,
		Phone:          "+91 98765 43210",
		Password:       "supersecret",
		Experience:     "8 years",
		Description:    "Residential and commercial interiors.",
		ProfileImage:   "https://cdn.example.com/profiles/priya.jpg",
		Portfolio:      []string{"https://cdn.example.com/work/1.jpg"},
		Documents:      []string{"https://cdn.example.com/docs/license.pdf"},
		ApprovalToken:  "approve-" + email,
		RejectionToken: "reject-" + email,
	})
	require.NoError(t, err)
	return reg
}

func TestRegistrationLifecycle(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	reg := createTestRegistration(t, db, "priya@example.com")
	assert.Equal(t, RegistrationStatusPending, reg.Status)

	byEmail, err := db.GetRegistrationByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, byEmail.ID)
	assert.Equal(t, []string{"https://cdn.example.com/work/1.jpg"}, byEmail.Portfolio)

	byToken, err := db.GetRegistrationByApprovalToken(ctx, "approve-priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, byToken.ID)

	_, err = db.GetRegistrationByApprovalToken(ctx, "nope")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	reviewedAt := time.Now().UTC()
	user, agent, err := db.ApproveRegistration(ctx, ApproveRegistrationParams{
		RegistrationID: reg.ID,
		ReviewedAt:     reviewedAt,
		User: CreateUserParams{
			Name:         reg.Name,
			Email:        reg.Email,
			PasswordHash: "hashed",
			Role:         reg.Role,
			Phone:        reg.Phone,
			Image:        reg.ProfileImage,
		},
		Agent: CreateAgentParams{
			Name:        reg.Name,
			Email:       reg.Email,
			Phone:       reg.Phone,
			Image:       reg.ProfileImage,
			Bio:         reg.Description,
			Experience:  8,
			Category:    reg.Role,
			Specialties: []string{"Interior Designer"},
			Portfolio:   reg.Portfolio,
		},
	})
	require.NoError(t, err)

	storedUser, err := db.GetUserByEmail(ctx, reg.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, storedUser.ID)

	storedAgent, err := db.GetAgentByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, storedAgent.ID)
	assert.Equal(t, 8, storedAgent.Experience)

	updated, err := db.GetRegistrationByEmail(ctx, reg.Email)
	require.NoError(t, err)
	assert.Equal(t, RegistrationStatusApproved, updated.Status)
	assert.True(t, updated.ReviewedAt.IsSet)

	// Decision links are single-use: both endpoints report non-pending.
	_, _, err = db.ApproveRegistration(ctx, ApproveRegistrationParams{
		RegistrationID: reg.ID,
		ReviewedAt:     time.Now().UTC(),
		User:           CreateUserParams{Email: "dup@example.com"},
		Agent:          CreateAgentParams{Email: "dup@example.com"},
	})
	assert.ErrorIs(t, err, ErrRegistrationNotPending)

	err = db.RejectRegistration(ctx, RejectRegistrationParams{
		RegistrationID:  reg.ID,
		RejectionReason: "too late",
		ReviewedAt:      time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrRegistrationNotPending)

	// The failed second approval must not have created another user.
	_, err = db.GetUserByEmail(ctx, "dup@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegistrationEmailUnique(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	createTestRegistration(t, db, "priya@example.com")

	// A second insert for the same email trips the unique constraint even
	// with fresh tokens, so duplicate submissions cannot both land.
	_, err := db.CreateRegistration(ctx, CreateRegistrationParams{
		Role:           "architect",
		Name:           "Priya Sharma",
		Email:          "priya@example.com",
		Phone:          "+91 98765 43210",
		Password:       "supersecret",
		ApprovalToken:  "approve-second",
		RejectionToken: "reject-second",
	})
	assert.ErrorIs(t, err, ErrRegistrationExists)
}

func TestRejectRegistrationFlow(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	reg := createTestRegistration(t, db, "arjun@example.com")

	reviewedAt := time.Now().UTC()
	err := db.RejectRegistration(ctx, RejectRegistrationParams{
		RegistrationID:  reg.ID,
		RejectionReason: "Incomplete documentation.",
		ReviewedAt:      reviewedAt,
	})
	require.NoError(t, err)

	updated, err := db.GetRegistrationByRejectionToken(ctx, "reject-arjun@example.com")
	require.NoError(t, err)
	assert.Equal(t, RegistrationStatusRejected, updated.Status)
	assert.Equal(t, "Incomplete documentation.", updated.RejectionReason.Val)
	assert.True(t, updated.ReviewedAt.IsSet)

	// No account is provisioned on rejection.
	_, err = db.GetUserByEmail(ctx, reg.Email)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
