package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moey-backend/internal/config"
)

func TestRenderTemplates(t *testing.T) {
	svc := &service{config: &config.Config{Domain: "app.moey.id"}}

	body, err := render("stage_request.html", struct {
		Title, Name, Message, Link string
	}{"Permintaan Survey", "Sari", "Rumah Pak Andi membutuhkan survey", svc.link("/survey-results")})
	require.NoError(t, err)
	assert.Contains(t, body, "Halo Sari")
	assert.Contains(t, body, "https://app.moey.id/survey-results")

	body, err = render("extension_status.html", struct {
		Title, Name, ProjectName, Tahap, Status, ReviewerName, Color string
	}{"Perpanjangan ditolak", "Dewi", "Lemari Bu Sari", "kontrak", "ditolak", "Pak Budi", "#ef4444"})
	require.NoError(t, err)
	assert.Contains(t, body, "Lemari Bu Sari")

	_, err = render("deadline_reminder.html", struct {
		Title, Name, ProjectName, Tahap, Deadline string
	}{"Pengingat Deadline", "Andi", "Rumah Pak Andi", "survey", "03 Jun 2024 09:00 UTC"})
	require.NoError(t, err)
}

func TestSendWithoutAPIKeyIsSkipped(t *testing.T) {
	svc := NewService(&config.Config{FromEmail: "noreply@moey.id"})

	err := svc.SendDeadlineReminderEmail(context.Background(), "andi@example.com", "Andi", "Rumah Pak Andi", "survey", time.Now())
	assert.NoError(t, err)
}
