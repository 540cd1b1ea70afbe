package registration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"horizonhomes/internal/database"
	"horizonhomes/internal/util"
	"horizonhomes/internal/validator"
)

type fakeStore struct {
	users         map[string]database.User
	registrations []database.Registration

	createdParams []database.CreateRegistrationParams
	createErr     error
	approveParams *database.ApproveRegistrationParams
	approveErr    error
	onApprove     func()
	rejectParams  *database.RejectRegistrationParams
	rejectErr     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]database.User)}
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	user, ok := s.users[email]
	if !ok {
		return database.User{}, database.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeStore) GetRegistrationByEmail(ctx context.Context, email string) (database.Registration, error) {
	for i := len(s.registrations) - 1; i >= 0; i-- {
		if s.registrations[i].Email == email {
			return s.registrations[i], nil
		}
	}
	return database.Registration{}, database.ErrRegistrationNotFound
}

func (s *fakeStore) GetRegistrationByApprovalToken(ctx context.Context, token string) (database.Registration, error) {
	for _, r := range s.registrations {
		if r.ApprovalToken == token {
			return r, nil
		}
	}
	return database.Registration{}, database.ErrRegistrationNotFound
}

func (s *fakeStore) GetRegistrationByRejectionToken(ctx context.Context, token string) (database.Registration, error) {
	for _, r := range s.registrations {
		if r.RejectionToken == token {
			return r, nil
		}
	}
	return database.Registration{}, database.ErrRegistrationNotFound
}

func (s *fakeStore) CreateRegistration(ctx context.Context, params database.CreateRegistrationParams) (database.Registration, error) {
	s.createdParams = append(s.createdParams, params)
	if s.createErr != nil {
		return database.Registration{}, s.createErr
	}
	reg := database.Registration{
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
		Status:         database.RegistrationStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	s.registrations = append(s.registrations, reg)
	return reg, nil
}

func (s *fakeStore) ApproveRegistration(ctx context.Context, params database.ApproveRegistrationParams) (database.User, database.Agent, error) {
	s.approveParams = &params
	if s.onApprove != nil {
		s.onApprove()
	}
	if s.approveErr != nil {
		return database.User{}, database.Agent{}, s.approveErr
	}
	for i := range s.registrations {
		if s.registrations[i].ID == params.RegistrationID {
			s.registrations[i].Status = database.RegistrationStatusApproved
			s.registrations[i].ReviewedAt = util.Some(params.ReviewedAt)
		}
	}
	return database.User{ID: uuid.New()}, database.Agent{ID: uuid.New()}, nil
}

func (s *fakeStore) RejectRegistration(ctx context.Context, params database.RejectRegistrationParams) error {
	s.rejectParams = &params
	if s.rejectErr != nil {
		return s.rejectErr
	}
	for i := range s.registrations {
		if s.registrations[i].ID == params.RegistrationID {
			s.registrations[i].Status = database.RegistrationStatusRejected
			s.registrations[i].RejectionReason = util.Some(params.RejectionReason)
			s.registrations[i].ReviewedAt = util.Some(params.ReviewedAt)
		}
	}
	return nil
}

type fakeNotifier struct {
	submissions []database.Registration
	approvals   []database.Registration
	rejections  []database.Registration
	reasons     []string
	err         error
}

func (n *fakeNotifier) NotifyAdminOfSubmission(ctx context.Context, reg database.Registration) error {
	n.submissions = append(n.submissions, reg)
	return n.err
}

func (n *fakeNotifier) NotifyApplicantApproved(ctx context.Context, reg database.Registration) error {
	n.approvals = append(n.approvals, reg)
	return n.err
}

func (n *fakeNotifier) NotifyApplicantRejected(ctx context.Context, reg database.Registration, reason string) error {
	n.rejections = append(n.rejections, reg)
	n.reasons = append(n.reasons, reason)
	return n.err
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

func newTestManager(store Store, notifier Notifier, limiter Limiter) Manager {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(log, store, validator.New(), notifier, limiter, nil)
}

func validSubmit() SubmitParam {
	return SubmitParam{
		Role:         "interior-designer",
		Name:         "Priya Sharma",
		Email:        "priya@example.com",
		Password:     "supersecret",
		Phone:        "+91 98765 43210",
		Experience:   "8 years of residential work",
		Description:  "Residential and commercial interiors.",
		ProfileImage: "https://cdn.example.com/profiles/priya.jpg",
		Portfolio:    []string{"https://cdn.example.com/work/1.jpg"},
		Documents:    []string{"https://cdn.example.com/docs/license.pdf"},
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitParam)
		wantErr error
	}{
		{name: "missing role", mutate: func(p *SubmitParam) { p.Role = "" }, wantErr: validator.ErrMissingRequiredFields},
		{name: "missing name", mutate: func(p *SubmitParam) { p.Name = "" }, wantErr: validator.ErrMissingRequiredFields},
		{name: "missing email", mutate: func(p *SubmitParam) { p.Email = "" }, wantErr: validator.ErrMissingRequiredFields},
		{name: "missing password", mutate: func(p *SubmitParam) { p.Password = "" }, wantErr: validator.ErrMissingRequiredFields},
		{name: "invalid email", mutate: func(p *SubmitParam) { p.Email = "not-an-email" }, wantErr: validator.ErrInvalidEmail},
		{name: "short password", mutate: func(p *SubmitParam) { p.Password = "short" }, wantErr: validator.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			manager := newTestManager(store, &fakeNotifier{}, nil)

			param := validSubmit()
			tt.mutate(&param)

			_, err := manager.Submit(context.Background(), param)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.createdParams)
		})
	}
}

func TestSubmitConflicts(t *testing.T) {
	t.Run("existing user", func(t *testing.T) {
		store := newFakeStore()
		store.users["priya@example.com"] = database.User{ID: uuid.New(), Email: "priya@example.com"}
		manager := newTestManager(store, &fakeNotifier{}, nil)

		_, err := manager.Submit(context.Background(), validSubmit())
		assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	})

	statusTests := []struct {
		name    string
		status  database.RegistrationStatus
		wantErr error
	}{
		{name: "pending registration", status: database.RegistrationStatusPending, wantErr: ErrPendingExists},
		{name: "approved registration", status: database.RegistrationStatusApproved, wantErr: ErrApprovedExists},
		{name: "rejected registration", status: database.RegistrationStatusRejected, wantErr: ErrRejectedExists},
	}

	for _, tt := range statusTests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.registrations = append(store.registrations, database.Registration{
				ID:     uuid.New(),
				Email:  "priya@example.com",
				Status: tt.status,
			})
			manager := newTestManager(store, &fakeNotifier{}, nil)

			_, err := manager.Submit(context.Background(), validSubmit())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.createdParams)
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	manager := newTestManager(store, notifier, nil)

	message, err := manager.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	assert.Equal(t, SubmittedMessage, message)

	require.Len(t, store.createdParams, 1)
	created := store.createdParams[0]
	assert.Equal(t, "interior-designer", created.Role)
	assert.NotEmpty(t, created.ApprovalToken)
	assert.NotEmpty(t, created.RejectionToken)
	assert.NotEqual(t, created.ApprovalToken, created.RejectionToken)

	require.Len(t, notifier.submissions, 1)
	assert.Equal(t, "priya@example.com", notifier.submissions[0].Email)
}

func TestSubmitRateLimited(t *testing.T) {
	store := newFakeStore()
	limiter := &fakeLimiter{allowed: false}
	manager := newTestManager(store, &fakeNotifier{}, limiter)

	_, err := manager.Submit(context.Background(), validSubmit())
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, []string{"priya@example.com"}, limiter.keys)
	assert.Empty(t, store.createdParams)
}

func TestSubmitLimiterFailureDoesNotBlock(t *testing.T) {
	store := newFakeStore()
	limiter := &fakeLimiter{allowed: false, err: errors.New("redis down")}
	manager := newTestManager(store, &fakeNotifier{}, limiter)

	message, err := manager.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	assert.Equal(t, SubmittedMessage, message)
}

func TestSubmitLosesInsertRace(t *testing.T) {
	// A concurrent submission for the same email lands between the duplicate
	// check and the insert; the unique email constraint trips and the caller
	// sees the same conflict as any other duplicate.
	store := newFakeStore()
	store.createErr = database.ErrRegistrationExists
	notifier := &fakeNotifier{}
	manager := newTestManager(store, notifier, nil)

	_, err := manager.Submit(context.Background(), validSubmit())
	assert.ErrorIs(t, err, ErrPendingExists)
	assert.Empty(t, notifier.submissions)
}

func TestSubmitEmailFailureDoesNotBlock(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	manager := newTestManager(store, notifier, nil)

	message, err := manager.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	assert.Equal(t, SubmittedMessage, message)
	assert.Len(t, store.createdParams, 1)
}

func TestApproveUnknownToken(t *testing.T) {
	manager := newTestManager(newFakeStore(), &fakeNotifier{}, nil)

	_, err := manager.Approve(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestApproveAlreadyProcessed(t *testing.T) {
	store := newFakeStore()
	reviewedAt := time.Now().UTC().Add(-time.Hour)
	store.registrations = append(store.registrations, database.Registration{
		ID:            uuid.New(),
		Email:         "priya@example.com",
		ApprovalToken: "tok",
		Status:        database.RegistrationStatusRejected,
		ReviewedAt:    util.Some(reviewedAt),
	})
	manager := newTestManager(store, &fakeNotifier{}, nil)

	_, err := manager.Approve(context.Background(), "tok")

	var processed *AlreadyProcessedError
	require.ErrorAs(t, err, &processed)
	assert.Equal(t, database.RegistrationStatusRejected, processed.Status)
	assert.Equal(t, reviewedAt, processed.ReviewedAt.Val)
	assert.Nil(t, store.approveParams)
}

func TestApproveSuccess(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	manager := newTestManager(store, notifier, nil)

	_, err := manager.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	token := store.registrations[0].ApprovalToken

	reg, err := manager.Approve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, database.RegistrationStatusApproved, reg.Status)
	assert.True(t, reg.ReviewedAt.IsSet)

	require.NotNil(t, store.approveParams)
	params := *store.approveParams

	err = bcrypt.CompareHashAndPassword([]byte(params.User.PasswordHash), []byte("supersecret"))
	assert.NoError(t, err, "stored hash should verify against the submitted password")
	assert.Equal(t, "interior-designer", params.User.Role)
	assert.Equal(t, "https://cdn.example.com/profiles/priya.jpg", params.User.Image)

	assert.Equal(t, 8, params.Agent.Experience)
	assert.Equal(t, []string{"Interior Designer"}, params.Agent.Specialties)
	assert.Equal(t, "interior-designer", params.Agent.Category)
	assert.Equal(t, "Residential and commercial interiors.", params.Agent.Bio)
	assert.Equal(t, []string{"https://cdn.example.com/work/1.jpg"}, params.Agent.Portfolio)

	require.Len(t, notifier.approvals, 1)
}

func TestApproveLosesRace(t *testing.T) {
	// A concurrent rejection lands between the status pre-check and the
	// transaction: the conditional update affects zero rows and the manager
	// re-reads to report the registration as already processed.
	store := newFakeStore()
	reviewedAt := time.Now().UTC()
	store.registrations = append(store.registrations, database.Registration{
		ID:            uuid.New(),
		Email:         "priya@example.com",
		Password:      "supersecret",
		Role:          "architect",
		ApprovalToken: "tok",
		Status:        database.RegistrationStatusPending,
	})
	store.approveErr = database.ErrRegistrationNotPending
	store.onApprove = func() {
		store.registrations[0].Status = database.RegistrationStatusRejected
		store.registrations[0].ReviewedAt = util.Some(reviewedAt)
	}
	manager := newTestManager(store, &fakeNotifier{}, nil)

	_, err := manager.Approve(context.Background(), "tok")

	var processed *AlreadyProcessedError
	require.ErrorAs(t, err, &processed)
	assert.Equal(t, database.RegistrationStatusRejected, processed.Status)
	assert.Equal(t, reviewedAt, processed.ReviewedAt.Val)
}

func TestRejectDefaultReason(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	manager := newTestManager(store, notifier, nil)

	_, err := manager.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	token := store.registrations[0].RejectionToken

	reg, err := manager.Reject(context.Background(), token, "")
	require.NoError(t, err)
	assert.Equal(t, database.RegistrationStatusRejected, reg.Status)
	assert.Equal(t, DefaultRejectionReason, reg.RejectionReason.Val)

	require.NotNil(t, store.rejectParams)
	assert.Equal(t, DefaultRejectionReason, store.rejectParams.RejectionReason)

	require.Len(t, notifier.rejections, 1)
	assert.Equal(t, []string{DefaultRejectionReason}, notifier.reasons)
}

func TestRejectWithReason(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	manager := newTestManager(store, notifier, nil)

	_, err := manager.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	token := store.registrations[0].RejectionToken

	reg, err := manager.Reject(context.Background(), token, "Incomplete documentation.")
	require.NoError(t, err)
	assert.Equal(t, "Incomplete documentation.", reg.RejectionReason.Val)
}

func TestRejectUnknownToken(t *testing.T) {
	manager := newTestManager(newFakeStore(), &fakeNotifier{}, nil)

	_, err := manager.Reject(context.Background(), "no-such-token", "")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRejectAlreadyProcessed(t *testing.T) {
	store := newFakeStore()
	store.registrations = append(store.registrations, database.Registration{
		ID:             uuid.New(),
		Email:          "priya@example.com",
		RejectionToken: "tok",
		Status:         database.RegistrationStatusApproved,
		ReviewedAt:     util.Some(time.Now().UTC()),
	})
	manager := newTestManager(store, &fakeNotifier{}, nil)

	_, err := manager.Reject(context.Background(), "tok", "")

	var processed *AlreadyProcessedError
	require.ErrorAs(t, err, &processed)
	assert.Equal(t, database.RegistrationStatusApproved, processed.Status)
	assert.Nil(t, store.rejectParams)
}

func TestStatus(t *testing.T) {
	store := newFakeStore()
	manager := newTestManager(store, &fakeNotifier{}, nil)

	_, err := manager.Status(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	_, err = manager.Submit(context.Background(), validSubmit())
	require.NoError(t, err)

	info, err := manager.Status(context.Background(), "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", info.Email)
	assert.Equal(t, database.RegistrationStatusPending, info.Status)
}

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		name       string
		experience string
		want       int
	}{
		{name: "plain number", experience: "8 years", want: 8},
		{name: "plus suffix", experience: "10+ years in construction", want: 10},
		{name: "number mid-sentence", experience: "worked for 15 years", want: 15},
		{name: "no number", experience: "fresh graduate", want: 0},
		{name: "empty", experience: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExperienceYears(tt.experience))
		})
	}
}
