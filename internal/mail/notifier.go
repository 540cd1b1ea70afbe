package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"horizonhomes/internal/agent"
	"horizonhomes/internal/database"
	"horizonhomes/internal/registration"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Notifier renders the transactional emails and hands them to a Sender.
type Notifier struct {
	sender    Sender
	adminTo   string
	baseURL   string
	templates *template.Template
}

func NewNotifier(sender Sender, adminTo, baseURL string) (*Notifier, error) {
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("mail: failed to parse templates: %w", err)
	}
	return &Notifier{
		sender:    sender,
		adminTo:   adminTo,
		baseURL:   baseURL,
		templates: tmpl,
	}, nil
}

func (n *Notifier) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := n.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("mail: failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// NotifyAdminOfSubmission sends the review email with the one-time
// approve and reject links to the admin inbox.
func (n *Notifier) NotifyAdminOfSubmission(ctx context.Context, reg database.Registration) error {
	roleLabel := registration.Role(reg.Role).Label()
	body, err := n.render("admin_submission.html.tmpl", map[string]any{
		"RoleLabel":      roleLabel,
		"Name":           reg.Name,
		"Email":          reg.Email,
		"Phone":          reg.Phone,
		"Experience":     reg.Experience,
		"Description":    reg.Description,
		"ProfileImage":   reg.ProfileImage,
		"Portfolio":      reg.Portfolio,
		"Documents":      reg.Documents,
		"ApproveURL":     fmt.Sprintf("%s/api/registration/approve?token=%s", n.baseURL, reg.ApprovalToken),
		"RejectURL":      fmt.Sprintf("%s/api/registration/reject?token=%s", n.baseURL, reg.RejectionToken),
		"RegistrationID": reg.ID.String(),
		"SubmittedAt":    reg.CreatedAt.Format("Jan 2, 2006 15:04 MST"),
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New Registration Request: %s - %s", roleLabel, reg.Name)
	return n.sender.Send(ctx, n.adminTo, subject, body)
}

// NotifyApplicantApproved sends the welcome email after approval.
func (n *Notifier) NotifyApplicantApproved(ctx context.Context, reg database.Registration) error {
	body, err := n.render("applicant_approved.html.tmpl", map[string]any{
		"Name":      reg.Name,
		"RoleLabel": registration.Role(reg.Role).Label(),
		"LoginURL":  fmt.Sprintf("%s/login", n.baseURL),
	})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, reg.Email, "🎉 Registration Approved - Welcome to Horizon Homes!", body)
}

// NotifyApplicantRejected sends the decision email with the rejection reason.
func (n *Notifier) NotifyApplicantRejected(ctx context.Context, reg database.Registration, reason string) error {
	body, err := n.render("applicant_rejected.html.tmpl", map[string]any{
		"Name":      reg.Name,
		"RoleLabel": registration.Role(reg.Role).Label(),
		"Reason":    reason,
	})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, reg.Email, "Registration Application Update - Horizon Homes", body)
}

// NotifyAdminOfAgentContact forwards a visitor's inquiry about an agent to
// the admin inbox.
func (n *Notifier) NotifyAdminOfAgentContact(ctx context.Context, a database.Agent, contact agent.ContactParam) error {
	categoryLabel := registration.Role(a.Category).Label()
	body, err := n.render("agent_contact_admin.html.tmpl", map[string]any{
		"AgentName":     a.Name,
		"AgentEmail":    a.Email,
		"CategoryLabel": categoryLabel,
		"Name":          contact.Name,
		"Email":         contact.Email,
		"Phone":         contact.Phone,
		"Message":       contact.Message,
		"ReceivedAt":    time.Now().UTC().Format("Jan 2, 2006 15:04 MST"),
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New Agent Contact Request: %s (%s)", a.Name, categoryLabel)
	return n.sender.Send(ctx, n.adminTo, subject, body)
}

// NotifyAdminOfServiceRequest forwards a new service request to the admin inbox.
func (n *Notifier) NotifyAdminOfServiceRequest(ctx context.Context, req database.ServiceRequest) error {
	body, err := n.render("service_request_admin.html.tmpl", map[string]any{
		"ServiceType": req.ServiceType,
		"Name":        req.Name,
		"Email":       req.Email,
		"Phone":       req.Phone,
		"Message":     req.Message,
		"Budget":      req.Budget,
		"Location":    req.Location,
		"Timeline":    req.Timeline,
		"Documents":   req.Documents,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("New Service Request: %s - %s", req.ServiceType, req.Name)
	return n.sender.Send(ctx, n.adminTo, subject, body)
}

// ConfirmServiceRequest acknowledges a service request to the requester.
func (n *Notifier) ConfirmServiceRequest(ctx context.Context, req database.ServiceRequest) error {
	body, err := n.render("service_request_confirmation.html.tmpl", map[string]any{
		"Name":        req.Name,
		"ServiceType": req.ServiceType,
	})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, req.Email, "We Received Your Request - Horizon Homes", body)
}
