package web

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"horizonhomes/internal/database"
	"horizonhomes/internal/registration"
	"horizonhomes/internal/util"

	"github.com/gofiber/fiber/v2"
)

//go:embed pages/*.html.tmpl
var pageFS embed.FS

var pageTemplates = template.Must(template.ParseFS(pageFS, "pages/*.html.tmpl"))

// renderPage writes an HTML decision page with the given status code.
func renderPage(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return c.Status(500).SendString("template error")
	}
	c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func formatReviewedAt(reviewedAt util.Optional[time.Time]) string {
	if !reviewedAt.IsSet {
		return "N/A"
	}
	return reviewedAt.Val.Format("Jan 2, 2006 15:04:05 MST")
}

func missingTokenPage(c *fiber.Ctx, link string) error {
	return renderPage(c, 400, "decision_error.html.tmpl", fiber.Map{
		"Title":   "Invalid Token",
		"Message": "The " + link + " link is invalid or missing.",
	})
}

func unknownTokenPage(c *fiber.Ctx, link string) error {
	return renderPage(c, 404, "decision_error.html.tmpl", fiber.Map{
		"Title":   "Invalid or Expired Token",
		"Message": "This " + link + " link is invalid or has already been used.",
		"Note":    "If you believe this is an error, please contact support.",
	})
}

func alreadyProcessedPage(c *fiber.Ctx, processed *registration.AlreadyProcessedError) error {
	return renderPage(c, 400, "already_processed.html.tmpl", fiber.Map{
		"Status":     strings.ToUpper(string(processed.Status)),
		"ReviewedAt": formatReviewedAt(processed.ReviewedAt),
	})
}

func approvedPage(c *fiber.Ctx, reg database.Registration) error {
	return renderPage(c, 200, "approved.html.tmpl", fiber.Map{
		"Name":       reg.Name,
		"Email":      reg.Email,
		"RoleLabel":  registration.Role(reg.Role).Label(),
		"ReviewedAt": formatReviewedAt(reg.ReviewedAt),
	})
}

func rejectedPage(c *fiber.Ctx, reg database.Registration, reason string) error {
	return renderPage(c, 200, "rejected.html.tmpl", fiber.Map{
		"Name":       reg.Name,
		"Email":      reg.Email,
		"RoleLabel":  registration.Role(reg.Role).Label(),
		"ReviewedAt": formatReviewedAt(reg.ReviewedAt),
		"Reason":     reason,
	})
}

func serverErrorPage(c *fiber.Ctx, message string) error {
	return renderPage(c, 500, "server_error.html.tmpl", fiber.Map{"Message": message})
}
