package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/resend/resend-go/v3"

	"moey-backend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendStageRequestEmail(ctx context.Context, toEmail, recipientName, title, message, actionURL string) error
	SendDeadlineReminderEmail(ctx context.Context, toEmail, recipientName, projectName, tahap string, deadline time.Time) error
	SendExtensionStatusEmail(ctx context.Context, toEmail, recipientName, projectName, tahap, status, reviewerName string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &service{
		client: client,
		config: cfg,
	}
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data interface{}) error {
	if s.client == nil {
		log.Printf("email disabled, skipping %q to %s", subject, toEmail)
		return nil
	}

	body, err := render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("MOEY <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body,
		Subject: subject,
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	return err
}

func render(templateName string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		return "", fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *service) link(path string) string {
	return fmt.Sprintf("https://%s%s", s.config.Domain, path)
}

func (s *service) SendStageRequestEmail(ctx context.Context, toEmail, recipientName, title, message, actionURL string) error {
	data := struct {
		Title   string
		Name    string
		Message string
		Link    string
	}{
		Title:   title,
		Name:    recipientName,
		Message: message,
		Link:    s.link(actionURL),
	}
	return s.sendEmail(ctx, toEmail, title+" - MOEY", "stage_request.html", data)
}

func (s *service) SendDeadlineReminderEmail(ctx context.Context, toEmail, recipientName, projectName, tahap string, deadline time.Time) error {
	data := struct {
		Title       string
		Name        string
		ProjectName string
		Tahap       string
		Deadline    string
	}{
		Title:       "Pengingat Deadline",
		Name:        recipientName,
		ProjectName: projectName,
		Tahap:       tahap,
		Deadline:    deadline.Format("02 Jan 2006 15:04 MST"),
	}
	return s.sendEmail(ctx, toEmail, fmt.Sprintf("Pengingat Deadline %s - %s", tahap, projectName), "deadline_reminder.html", data)
}

func (s *service) SendExtensionStatusEmail(ctx context.Context, toEmail, recipientName, projectName, tahap, status, reviewerName string) error {
	color := "#10b981"
	if status == "ditolak" {
		color = "#ef4444"
	}

	data := struct {
		Title        string
		Name         string
		ProjectName  string
		Tahap        string
		Status       string
		ReviewerName string
		Color        string
	}{
		Title:        fmt.Sprintf("Perpanjangan %s", status),
		Name:         recipientName,
		ProjectName:  projectName,
		Tahap:        tahap,
		Status:       status,
		ReviewerName: reviewerName,
		Color:        color,
	}
	return s.sendEmail(ctx, toEmail, fmt.Sprintf("Perpanjangan %s - %s", status, projectName), "extension_status.html", data)
}
