package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizonhomes/internal/database"
	"horizonhomes/internal/registration"
	"horizonhomes/internal/util"
	"horizonhomes/internal/validator"
)

type memStore struct {
	users         map[string]database.User
	registrations []database.Registration
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	user, ok := s.users[email]
	if !ok {
		return database.User{}, database.ErrUserNotFound
	}
	return user, nil
}

func (s *memStore) GetRegistrationByEmail(ctx context.Context, email string) (database.Registration, error) {
	for i := len(s.registrations) - 1; i >= 0; i-- {
		if s.registrations[i].Email == email {
			return s.registrations[i], nil
		}
	}
	return database.Registration{}, database.ErrRegistrationNotFound
}

func (s *memStore) GetRegistrationByApprovalToken(ctx context.Context, token string) (database.Registration, error) {
	for _, r := range s.registrations {
		if r.ApprovalToken == token {
			return r, nil
		}
	}
	return database.Registration{}, database.ErrRegistrationNotFound
}

func (s *memStore) GetRegistrationByRejectionToken(ctx context.Context, token string) (database.Registration, error) {
	for _, r := range s.registrations {
		if r.RejectionToken == token {
			return r, nil
		}
	}
	return database.Registration{}, database.ErrRegistrationNotFound
}

func (s *memStore) CreateRegistration(ctx context.Context, params database.CreateRegistrationParams) (database.Registration, error) {
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

func (s *memStore) ApproveRegistration(ctx context.Context, params database.ApproveRegistrationParams) (database.User, database.Agent, error) {
	for i := range s.registrations {
		if s.registrations[i].ID == params.RegistrationID {
			if s.registrations[i].Status != database.RegistrationStatusPending {
				return database.User{}, database.Agent{}, database.ErrRegistrationNotPending
			}
			s.registrations[i].Status = database.RegistrationStatusApproved
			s.registrations[i].ReviewedAt = util.Some(params.ReviewedAt)
			return database.User{ID: uuid.New()}, database.Agent{ID: uuid.New()}, nil
		}
	}
	return database.User{}, database.Agent{}, database.ErrRegistrationNotPending
}

func (s *memStore) RejectRegistration(ctx context.Context, params database.RejectRegistrationParams) error {
	for i := range s.registrations {
		if s.registrations[i].ID == params.RegistrationID {
			if s.registrations[i].Status != database.RegistrationStatusPending {
				return database.ErrRegistrationNotPending
			}
			s.registrations[i].Status = database.RegistrationStatusRejected
			s.registrations[i].RejectionReason = util.Some(params.RejectionReason)
			s.registrations[i].ReviewedAt = util.Some(params.ReviewedAt)
			return nil
		}
	}
	return database.ErrRegistrationNotPending
}

type noopNotifier struct{}

func (noopNotifier) NotifyAdminOfSubmission(ctx context.Context, reg database.Registration) error {
	return nil
}
func (noopNotifier) NotifyApplicantApproved(ctx context.Context, reg database.Registration) error {
	return nil
}
func (noopNotifier) NotifyApplicantRejected(ctx context.Context, reg database.Registration, reason string) error {
	return nil
}

func newTestApp(store *memStore) *fiber.App {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := registration.NewManager(log, store, validator.New(), noopNotifier{}, nil, nil)

	handler := Handler{logger: log, registrations: &manager}

	app := fiber.New()
	app.Post("/api/registration", handler.SubmitRegistration)
	app.Get("/api/registration/approve", handler.ApproveRegistration)
	app.Get("/api/registration/reject", handler.RejectRegistration)
	app.Get("/api/registration/status", handler.RegistrationStatus)
	return app
}

func submitForm() url.Values {
	form := url.Values{}
	form.Set("role", "architect")
	form.Set("name", "Arjun Mehta")
	form.Set("email", "arjun@example.com")
	form.Set("password", "supersecret")
	form.Set("phone", "+91 91234 56789")
	form.Set("experience", "12 years")
	form.Set("portfolio", `["https://cdn.example.com/work/1.jpg","https://cdn.example.com/work/2.jpg"]`)
	form.Set("documents", `["https://cdn.example.com/docs/license.pdf"]`)
	return form
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestSubmitRegistrationEndpoint(t *testing.T) {
	store := &memStore{users: map[string]database.User{}}
	app := newTestApp(store)

	resp := postForm(t, app, "/api/registration", submitForm())
	assert.Equal(t, 201, resp.StatusCode)
	assert.Contains(t, body(t, resp), registration.SubmittedMessage)

	require.Len(t, store.registrations, 1)
	assert.Len(t, store.registrations[0].Portfolio, 2)

	// A second submission for the same email is a pending conflict.
	resp = postForm(t, app, "/api/registration", submitForm())
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Registration already submitted")
}

func TestSubmitRegistrationValidationError(t *testing.T) {
	app := newTestApp(&memStore{users: map[string]database.User{}})

	form := submitForm()
	form.Set("email", "")
	resp := postForm(t, app, "/api/registration", form)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Please fill in all required fields")
}

func TestApproveEndpoint(t *testing.T) {
	store := &memStore{users: map[string]database.User{}}
	app := newTestApp(store)

	postForm(t, app, "/api/registration", submitForm())
	token := store.registrations[0].ApprovalToken

	resp := get(t, app, "/api/registration/approve")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Invalid Token")

	resp = get(t, app, "/api/registration/approve?token=bogus")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Invalid or Expired Token")

	resp = get(t, app, "/api/registration/approve?token="+token)
	assert.Equal(t, 200, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Registration Approved!")
	assert.Contains(t, page, "Arjun Mehta")

	// The link is single-use.
	resp = get(t, app, "/api/registration/approve?token="+token)
	assert.Equal(t, 400, resp.StatusCode)
	page = body(t, resp)
	assert.Contains(t, page, "Already Processed")
	assert.Contains(t, page, "APPROVED")
}

func TestRejectEndpoint(t *testing.T) {
	store := &memStore{users: map[string]database.User{}}
	app := newTestApp(store)

	postForm(t, app, "/api/registration", submitForm())
	token := store.registrations[0].RejectionToken

	resp := get(t, app, "/api/registration/reject?token="+token+"&reason="+url.QueryEscape("Incomplete documentation."))
	assert.Equal(t, 200, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, "Registration Rejected")
	assert.Contains(t, page, "Incomplete documentation.")
}

func TestRegistrationStatusEndpoint(t *testing.T) {
	store := &memStore{users: map[string]database.User{}}
	app := newTestApp(store)

	resp := get(t, app, "/api/registration/status")
	assert.Equal(t, 400, resp.StatusCode)

	resp = get(t, app, "/api/registration/status?email=nobody@example.com")
	assert.Equal(t, 404, resp.StatusCode)

	postForm(t, app, "/api/registration", submitForm())
	resp = get(t, app, "/api/registration/status?email=arjun@example.com")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"status":"pending"`)
}
