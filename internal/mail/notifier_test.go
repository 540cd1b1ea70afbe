package mail

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizonhomes/internal/agent"
	"horizonhomes/internal/database"
)

type sentMessage struct {
	to      string
	subject string
	body    string
}

type recorderSender struct {
	messages []sentMessage
}

func (r *recorderSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.messages = append(r.messages, sentMessage{to: to, subject: subject, body: htmlBody})
	return nil
}

func testRegistration() database.Registration {
	return database.Registration{
		ID:             uuid.New(),
		Role:           "interior-designer",
		Name:           "Priya Sharma",
		Email:          "priya@example.com",
		Phone:          "+91 98765 43210",
		Experience:     "8 years",
		Description:    "Residential and commercial interiors.",
		ProfileImage:   "https://cdn.example.com/profiles/priya.jpg",
		Portfolio:      []string{"https://cdn.example.com/work/1.jpg", "https://cdn.example.com/work/2.jpg"},
		Documents:      []string{"https://cdn.example.com/docs/license.pdf"},
		ApprovalToken:  "approve-token-abc",
		RejectionToken: "reject-token-xyz",
		Status:         database.RegistrationStatusPending,
		CreatedAt:      time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestNotifyAdminOfSubmission(t *testing.T) {
	recorder := &recorderSender{}
	notifier, err := NewNotifier(recorder, "admin@horizonhomes.test", "https://horizonhomes.test")
	require.NoError(t, err)

	err = notifier.NotifyAdminOfSubmission(context.Background(), testRegistration())
	require.NoError(t, err)
	require.Len(t, recorder.messages, 1)

	msg := recorder.messages[0]
	assert.Equal(t, "admin@horizonhomes.test", msg.to)
	assert.Equal(t, "New Registration Request: Interior Designer - Priya Sharma", msg.subject)
	assert.Contains(t, msg.body, "https://horizonhomes.test/api/registration/approve?token=approve-token-abc")
	assert.Contains(t, msg.body, "https://horizonhomes.test/api/registration/reject?token=reject-token-xyz")
	assert.Contains(t, msg.body, "Priya Sharma")
	assert.Contains(t, msg.body, "Document 1")
	assert.Contains(t, msg.body, "These links are unique and can only be used once. No login required.")
}

func TestNotifyApplicantApproved(t *testing.T) {
	recorder := &recorderSender{}
	notifier, err := NewNotifier(recorder, "admin@horizonhomes.test", "https://horizonhomes.test")
	require.NoError(t, err)

	err = notifier.NotifyApplicantApproved(context.Background(), testRegistration())
	require.NoError(t, err)
	require.Len(t, recorder.messages, 1)

	msg := recorder.messages[0]
	assert.Equal(t, "priya@example.com", msg.to)
	assert.Equal(t, "🎉 Registration Approved - Welcome to Horizon Homes!", msg.subject)
	assert.Contains(t, msg.body, "https://horizonhomes.test/login")
	assert.Contains(t, msg.body, "Interior Designer")
}

func TestNotifyApplicantRejected(t *testing.T) {
	recorder := &recorderSender{}
	notifier, err := NewNotifier(recorder, "admin@horizonhomes.test", "https://horizonhomes.test")
	require.NoError(t, err)

	err = notifier.NotifyApplicantRejected(context.Background(), testRegistration(), "Incomplete documentation.")
	require.NoError(t, err)
	require.Len(t, recorder.messages, 1)

	msg := recorder.messages[0]
	assert.Equal(t, "priya@example.com", msg.to)
	assert.Equal(t, "Registration Application Update - Horizon Homes", msg.subject)
	assert.Contains(t, msg.body, "Incomplete documentation.")
}

func TestNotifyAdminOfAgentContact(t *testing.T) {
	recorder := &recorderSender{}
	notifier, err := NewNotifier(recorder, "admin@horizonhomes.test", "https://horizonhomes.test")
	require.NoError(t, err)

	a := database.Agent{
		ID:       uuid.New(),
		Name:     "Priya Sharma",
		Email:    "priya@example.com",
		Category: "interior-designer",
	}
	contact := agent.ContactParam{
		Name:    "Arjun Mehta",
		Email:   "arjun@example.com",
		Phone:   "+91 91234 56789",
		Message: "Need help furnishing a new flat.",
	}
	err = notifier.NotifyAdminOfAgentContact(context.Background(), a, contact)
	require.NoError(t, err)
	require.Len(t, recorder.messages, 1)

	msg := recorder.messages[0]
	assert.Equal(t, "admin@horizonhomes.test", msg.to)
	assert.Equal(t, "New Agent Contact Request: Priya Sharma (Interior Designer)", msg.subject)
	assert.Contains(t, msg.body, "Arjun Mehta")
	assert.Contains(t, msg.body, "+91 91234 56789")
	assert.Contains(t, msg.body, "Need help furnishing a new flat.")
	assert.Contains(t, msg.body, "forward this inquiry to priya@example.com")
}

func TestNotifyAdminOfServiceRequest(t *testing.T) {
	recorder := &recorderSender{}
	notifier, err := NewNotifier(recorder, "admin@horizonhomes.test", "https://horizonhomes.test")
	require.NoError(t, err)

	req := database.ServiceRequest{
		ID:          uuid.New(),
		ServiceType: "Home Construction",
		Name:        "Arjun Mehta",
		Email:       "arjun@example.com",
		Phone:       "+91 91234 56789",
		Message:     "Looking to build a 3BHK villa.",
		Budget:      "50-75 Lakhs",
		Location:    "Pune",
		Timeline:    "6 months",
	}
	err = notifier.NotifyAdminOfServiceRequest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, recorder.messages, 1)

	msg := recorder.messages[0]
	assert.Equal(t, "admin@horizonhomes.test", msg.to)
	assert.Equal(t, "New Service Request: Home Construction - Arjun Mehta", msg.subject)
	assert.Contains(t, msg.body, "Looking to build a 3BHK villa.")
	assert.Contains(t, msg.body, "Pune")
}
