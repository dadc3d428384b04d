package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskMenungguResponse TaskStatus = "menunggu_response"
	TaskMenungguInput    TaskStatus = "menunggu_input"
	TaskSelesai          TaskStatus = "selesai"
	TaskTelatSubmit      TaskStatus = "telat_submit"
	TaskTelat            TaskStatus = "telat"
)

func (s TaskStatus) IsTerminal() bool {
	return s == TaskSelesai || s == TaskTelatSubmit
}

type TaskResponse struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrderID        uuid.UUID  `json:"order_id" db:"order_id"`
	UserID         *uuid.UUID `json:"user_id" db:"user_id"`
	Tahap          string     `json:"tahap" db:"tahap"`
	StartTime      time.Time  `json:"start_time" db:"start_time"`
	ResponseTime   *time.Time `json:"response_time" db:"response_time"`
	UpdateDataTime *time.Time `json:"update_data_time" db:"update_data_time"`
	NotifTime      *time.Time `json:"notif_time" db:"notif_time"`
	Deadline       time.Time  `json:"deadline" db:"deadline"`
	Duration       int        `json:"duration" db:"duration"`
	DurationActual *int       `json:"duration_actual" db:"duration_actual"`
	ExtendTime     int        `json:"extend_time" db:"extend_time"`
	ExtendReason   *string    `json:"extend_reason" db:"extend_reason"`
	Status         TaskStatus `json:"status" db:"status"`
	IsMarketing    bool       `json:"is_marketing" db:"is_marketing"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty" db:"reminder_sent_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	Overdue bool `json:"is_overdue" db:"-"`
}

func (t *TaskResponse) IsOverdue(now time.Time) bool {
	return t.Deadline.Before(now) && !t.Status.IsTerminal()
}

// IsOneDayBeforeDeadline reports whether now is in [deadline-24h, deadline).
func (t *TaskResponse) IsOneDayBeforeDeadline(now time.Time) bool {
	windowStart := t.Deadline.Add(-24 * time.Hour)
	return !now.Before(windowStart) && now.Before(t.Deadline)
}

// MarkResponded moves an awaiting task to menunggu_input.
func (t *TaskResponse) MarkResponded(now time.Time) {
	t.ResponseTime = &now
	actual := elapsedDays(t.StartTime, now)
	t.DurationActual = &actual
	t.Status = TaskMenungguInput
	t.UpdatedAt = now
}

// Complete finishes the task, late when the deadline has passed.
func (t *TaskResponse) Complete(now time.Time) {
	t.UpdateDataTime = &now
	if t.ResponseTime == nil {
		t.ResponseTime = &now
	}
	actual := elapsedDays(t.StartTime, now)
	t.DurationActual = &actual
	if now.After(t.Deadline) {
		t.Status = TaskTelatSubmit
	} else {
		t.Status = TaskSelesai
	}
	t.UpdatedAt = now
}

// ApplyExtension pushes the deadline and records the reason.
func (t *TaskResponse) ApplyExtension(days int, reason string, now time.Time) {
	t.Deadline = t.Deadline.AddDate(0, 0, days)
	t.Duration += days
	t.ExtendTime++

	entry := fmt.Sprintf("Perpanjangan #%d: %s", t.ExtendTime, reason)
	if t.ExtendReason != nil && strings.TrimSpace(*t.ExtendReason) != "" {
		entry = *t.ExtendReason + "\n" + entry
	}
	t.ExtendReason = &entry

	if t.Status == TaskTelat && t.Deadline.After(now) {
		if t.ResponseTime != nil {
			t.Status = TaskMenungguInput
		} else {
			t.Status = TaskMenungguResponse
		}
	}
	t.ReminderSentAt = nil
	t.UpdatedAt = now
}

func elapsedDays(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

type ExtensionStatus string

const (
	ExtensionPending  ExtensionStatus = "pending"
	ExtensionApproved ExtensionStatus = "approved"
	ExtensionRejected ExtensionStatus = "rejected"
)

type TaskResponseExtendLog struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	TaskResponseID uuid.UUID       `json:"task_response_id" db:"task_response_id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	ExtendTime     int             `json:"extend_time" db:"extend_time"`
	ExtendReason   string          `json:"extend_reason" db:"extend_reason"`
	RequestTime    time.Time       `json:"request_time" db:"request_time"`
	Status         ExtensionStatus `json:"status" db:"status"`
	ReviewedBy     *uuid.UUID      `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt     *time.Time      `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type ExtensionRequestInput struct {
	Days   int    `json:"days" validate:"required,min=1,max=30"`
	Reason string `json:"reason" validate:"required,max=500"`
}

// StartTaskInput opens a TaskResponse when a stage request is dispatched.
type StartTaskInput struct {
	OrderID      uuid.UUID
	UserID       *uuid.UUID
	Tahap        string
	DeadlineDays int
	IsMarketing  bool
}

// SweepReport summarises one deadline sweep run.
type SweepReport struct {
	Reminded int   `json:"reminded"`
	Overdue  int64 `json:"overdue"`
}
