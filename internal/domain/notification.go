package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	OrderID   *uuid.UUID       `json:"order_id,omitempty" db:"order_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Data      types.JSONText   `json:"data,omitempty" db:"data"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// NotificationType values are shared with the web and mobile clients and must not change.
type NotificationType string

const (
	NotifSurveyRequest            NotificationType = "survey_request"
	NotifMoodboardRequest         NotificationType = "moodboard_request"
	NotifEstimasiRequest          NotificationType = "estimasi_request"
	NotifDesignApproval           NotificationType = "design_approval"
	NotifCommitmentFeeRequest     NotificationType = "commitment_fee_request"
	NotifFinalDesignRequest       NotificationType = "final_design_request"
	NotifItemPekerjaanRequest     NotificationType = "item_pekerjaan_request"
	NotifRabInternalRequest       NotificationType = "rab_internal_request"
	NotifKontrakRequest           NotificationType = "kontrak_request"
	NotifInvoiceRequest           NotificationType = "invoice_request"
	NotifSurveyScheduleRequest    NotificationType = "survey_schedule_request"
	NotifSurveyUlangRequest       NotificationType = "survey_ulang_request"
	NotifGambarKerjaRequest       NotificationType = "gambar_kerja_request"
	NotifApprovalMaterialRequest  NotificationType = "approval_material_request"
	NotifWorkplanRequest          NotificationType = "workplan_request"
	NotifProjectManagementRequest NotificationType = "project_management_request"
)

// NotificationTypes lists every known type in pipeline order.
var NotificationTypes = []NotificationType{
	NotifSurveyRequest,
	NotifMoodboardRequest,
	NotifEstimasiRequest,
	NotifDesignApproval,
	NotifCommitmentFeeRequest,
	NotifFinalDesignRequest,
	NotifItemPekerjaanRequest,
	NotifRabInternalRequest,
	NotifKontrakRequest,
	NotifInvoiceRequest,
	NotifSurveyScheduleRequest,
	NotifSurveyUlangRequest,
	NotifGambarKerjaRequest,
	NotifApprovalMaterialRequest,
	NotifWorkplanRequest,
	NotifProjectManagementRequest,
}

func (t NotificationType) IsValid() bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

type NotificationFilter string

const (
	FilterAll    NotificationFilter = "all"
	FilterUnread NotificationFilter = "unread"
	FilterRead   NotificationFilter = "read"
)

func ParseNotificationFilter(s string) NotificationFilter {
	switch NotificationFilter(s) {
	case FilterUnread, FilterRead:
		return NotificationFilter(s)
	default:
		return FilterAll
	}
}

// NotificationData is the payload stored in Notification.Data.
type NotificationData struct {
	OrderName    string `json:"order_name"`
	CustomerName string `json:"customer_name"`
	ActionURL    string `json:"action_url"`
}

// NotificationView is a ledger entry with its order and stage state attached.
type NotificationView struct {
	Notification
	Order  *Order         `json:"order,omitempty"`
	Stages *StageSnapshot `json:"stages,omitempty"`
}

type DispatchInput struct {
	OrderID      uuid.UUID        `json:"-"`
	Type         NotificationType `json:"type" validate:"required"`
	UserIDs      []uuid.UUID      `json:"user_ids,omitempty"`
	DeadlineDays int              `json:"deadline_days" validate:"omitempty,min=1,max=90"`
	IsMarketing  bool             `json:"is_marketing"`
}

var notificationTahap = map[NotificationType]string{
	NotifSurveyRequest:            "survey",
	NotifMoodboardRequest:         "moodboard",
	NotifEstimasiRequest:          "estimasi",
	NotifDesignApproval:           "approval_design",
	NotifCommitmentFeeRequest:     "cm_fee",
	NotifFinalDesignRequest:       "desain_final",
	NotifItemPekerjaanRequest:     "item_pekerjaan",
	NotifRabInternalRequest:       "rab_internal",
	NotifKontrakRequest:           "kontrak",
	NotifInvoiceRequest:           "invoice",
	NotifSurveyScheduleRequest:    "survey_schedule",
	NotifSurveyUlangRequest:       "survey_ulang",
	NotifGambarKerjaRequest:       "gambar_kerja",
	NotifApprovalMaterialRequest:  "approval_material",
	NotifWorkplanRequest:          "workplan",
	NotifProjectManagementRequest: "produksi",
}

// Tahap is the TaskResponse stage key tracked for this notification type.
func (t NotificationType) Tahap() string {
	return notificationTahap[t]
}
