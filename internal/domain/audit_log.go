package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type AuditLog struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	UserID     uuid.UUID      `json:"user_id" db:"user_id"`
	UserName   *string        `json:"user_name,omitempty" db:"user_name"`
	Action     string         `json:"action" db:"action"`
	EntityType string         `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id" db:"entity_id"`
	OrderID    *uuid.UUID     `json:"order_id,omitempty" db:"order_id"`
	NewValue   types.JSONText `json:"new_value,omitempty" db:"new_value"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

const (
	AuditStageResponse    = "STAGE_RESPONSE"
	AuditPMResponse       = "PM_RESPONSE"
	AuditTaskComplete     = "TASK_COMPLETE"
	AuditExtensionRequest = "EXTENSION_REQUEST"
	AuditExtensionApprove = "EXTENSION_APPROVE"
	AuditExtensionReject  = "EXTENSION_REJECT"
	AuditWorkplanUpdate   = "WORKPLAN_UPDATE"
	AuditReportArchive    = "REPORT_ARCHIVE"
)

type CreateAuditLogInput struct {
	UserID     uuid.UUID
	Action     string
	EntityType string
	EntityID   uuid.UUID
	OrderID    *uuid.UUID
	NewValue   interface{}
}
