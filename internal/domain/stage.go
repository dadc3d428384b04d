package domain

import (
	"time"

	"github.com/google/uuid"
)

// StageEntity names a stage work-product table.
type StageEntity string

const (
	EntitySurveyResult  StageEntity = "survey_results"
	EntityMoodboard     StageEntity = "moodboards"
	EntityEstimasi      StageEntity = "estimasis"
	EntityCommitmentFee StageEntity = "commitment_fees"
	EntityItemPekerjaan StageEntity = "item_pekerjaans"
	EntityRabInternal   StageEntity = "rab_internals"
	EntityKontrak       StageEntity = "kontraks"
	EntitySurveyUlang   StageEntity = "survey_ulangs"
	EntityGambarKerja   StageEntity = "gambar_kerjas"
)

var StageEntities = []StageEntity{
	EntitySurveyResult,
	EntityMoodboard,
	EntityEstimasi,
	EntityCommitmentFee,
	EntityItemPekerjaan,
	EntityRabInternal,
	EntityKontrak,
	EntitySurveyUlang,
	EntityGambarKerja,
}

type ParentKind string

const (
	ParentOrder         ParentKind = "order"
	ParentMoodboard     ParentKind = "moodboard"
	ParentItemPekerjaan ParentKind = "item_pekerjaan"
)

func (e StageEntity) Table() string {
	return string(e)
}

func (e StageEntity) ParentKind() ParentKind {
	switch e {
	case EntityEstimasi, EntityCommitmentFee, EntityItemPekerjaan:
		return ParentMoodboard
	case EntityRabInternal, EntityKontrak:
		return ParentItemPekerjaan
	default:
		return ParentOrder
	}
}

func (e StageEntity) ParentColumn() string {
	switch e.ParentKind() {
	case ParentMoodboard:
		return "moodboard_id"
	case ParentItemPekerjaan:
		return "item_pekerjaan_id"
	default:
		return "order_id"
	}
}

// Unique reports whether an order holds at most one row of this entity.
func (e StageEntity) Unique() bool {
	return e != EntityItemPekerjaan
}

func (e StageEntity) Label() string {
	switch e {
	case EntitySurveyResult:
		return "Survey"
	case EntityMoodboard:
		return "Moodboard"
	case EntityEstimasi:
		return "Estimasi"
	case EntityCommitmentFee:
		return "Commitment fee"
	case EntityItemPekerjaan:
		return "Item pekerjaan"
	case EntityRabInternal:
		return "RAB Internal"
	case EntityKontrak:
		return "Kontrak"
	case EntitySurveyUlang:
		return "Survey Ulang"
	case EntityGambarKerja:
		return "Gambar Kerja"
	default:
		return string(e)
	}
}

// ColumnValue is an extra column written on insert.
type ColumnValue struct {
	Column string
	Value  string
}

func (e StageEntity) InsertDefaults() []ColumnValue {
	switch e {
	case EntityMoodboard, EntityGambarKerja:
		return []ColumnValue{{Column: "status", Value: "pending"}}
	case EntityCommitmentFee:
		return []ColumnValue{{Column: "payment_status", Value: "pending"}}
	default:
		return nil
	}
}

// ResponseSlot selects the staff or PM response columns of a stage row.
type ResponseSlot string

const (
	SlotStaff ResponseSlot = "staff"
	SlotPM    ResponseSlot = "pm"
)

// AckStatus records which of the two response slots have been stamped.
type AckStatus string

const (
	AckUnstarted AckStatus = "unstarted"
	AckPM        AckStatus = "pm_acknowledged"
	AckStaff     AckStatus = "staff_acknowledged"
	AckBoth      AckStatus = "both_acknowledged"
)

func (s AckStatus) WithStaff() AckStatus {
	if s == AckPM || s == AckBoth {
		return AckBoth
	}
	return AckStaff
}

func (s AckStatus) WithPM() AckStatus {
	if s == AckStaff || s == AckBoth {
		return AckBoth
	}
	return AckPM
}

type StageRecord struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ParentID       uuid.UUID  `json:"parent_id" db:"parent_id"`
	OrderID        uuid.UUID  `json:"order_id" db:"order_id"`
	ResponseBy     *string    `json:"response_by" db:"response_by"`
	ResponseTime   *time.Time `json:"response_time" db:"response_time"`
	PMResponseBy   *string    `json:"pm_response_by" db:"pm_response_by"`
	PMResponseTime *time.Time `json:"pm_response_time" db:"pm_response_time"`
	AckStatus      AckStatus  `json:"ack_status" db:"ack_status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	// Moodboard only.
	ResponseFinalBy     *string    `json:"response_final_by,omitempty" db:"response_final_by"`
	ResponseFinalTime   *time.Time `json:"response_final_time,omitempty" db:"response_final_time"`
	PMResponseFinalBy   *string    `json:"pm_response_final_by,omitempty" db:"pm_response_final_by"`
	PMResponseFinalTime *time.Time `json:"pm_response_final_time,omitempty" db:"pm_response_final_time"`
}

func (r *StageRecord) StaffResponded() bool {
	return r.ResponseTime != nil
}

func (r *StageRecord) PMResponded() bool {
	return r.PMResponseTime != nil
}

type ItemPekerjaanStages struct {
	StageRecord
	RabInternal *StageRecord `json:"rab_internal"`
	Kontrak     *StageRecord `json:"kontrak"`
}

// StageSnapshot is every stage entity of one order, loaded together.
type StageSnapshot struct {
	OrderID           uuid.UUID             `json:"order_id"`
	SurveyResult      *StageRecord          `json:"survey_result"`
	Moodboard         *StageRecord          `json:"moodboard"`
	Estimasi          *StageRecord          `json:"estimasi"`
	CommitmentFee     *StageRecord          `json:"commitment_fee"`
	ItemPekerjaans    []ItemPekerjaanStages `json:"item_pekerjaans"`
	SurveyUlang       *StageRecord          `json:"survey_ulang"`
	GambarKerja       *StageRecord          `json:"gambar_kerja"`
	WorkplanItemCount int                   `json:"workplan_item_count"`
}

func NewStageSnapshot(orderID uuid.UUID) *StageSnapshot {
	return &StageSnapshot{OrderID: orderID, ItemPekerjaans: []ItemPekerjaanStages{}}
}

// FirstItemPekerjaan returns the earliest created item pekerjaan.
func (s *StageSnapshot) FirstItemPekerjaan() *ItemPekerjaanStages {
	if len(s.ItemPekerjaans) == 0 {
		return nil
	}
	return &s.ItemPekerjaans[0]
}

// Record returns the single-instance record of entity, nil when absent.
// Item pekerjaan children resolve against the first item pekerjaan.
func (s *StageSnapshot) Record(entity StageEntity) *StageRecord {
	switch entity {
	case EntitySurveyResult:
		return s.SurveyResult
	case EntityMoodboard:
		return s.Moodboard
	case EntityEstimasi:
		return s.Estimasi
	case EntityCommitmentFee:
		return s.CommitmentFee
	case EntitySurveyUlang:
		return s.SurveyUlang
	case EntityGambarKerja:
		return s.GambarKerja
	case EntityItemPekerjaan:
		if ip := s.FirstItemPekerjaan(); ip != nil {
			return &ip.StageRecord
		}
	case EntityRabInternal:
		if ip := s.FirstItemPekerjaan(); ip != nil {
			return ip.RabInternal
		}
	case EntityKontrak:
		if ip := s.FirstItemPekerjaan(); ip != nil {
			return ip.Kontrak
		}
	}
	return nil
}

// ParentID resolves the parent row id an entity of this kind would attach to.
func (s *StageSnapshot) ParentID(entity StageEntity) (uuid.UUID, bool) {
	switch entity.ParentKind() {
	case ParentMoodboard:
		if s.Moodboard == nil {
			return uuid.Nil, false
		}
		return s.Moodboard.ID, true
	case ParentItemPekerjaan:
		ip := s.FirstItemPekerjaan()
		if ip == nil {
			return uuid.Nil, false
		}
		return ip.ID, true
	default:
		return s.OrderID, true
	}
}

type StageOutcome string

const (
	OutcomeCreated       StageOutcome = "created"
	OutcomeAlreadyExists StageOutcome = "already_exists"
	OutcomeRecorded      StageOutcome = "recorded"
	OutcomeView          StageOutcome = "view"
	OutcomeError         StageOutcome = "error"
)

type StageAction string

const (
	ActionCreate StageAction = "create"
	ActionView   StageAction = "view"
)

type StageResultData struct {
	OrderID uuid.UUID `json:"order_id"`
}

// StageResult is returned by staff and PM responses. Precondition failures
// are results with Success false, not errors.
type StageResult struct {
	Success bool             `json:"success"`
	Status  StageOutcome     `json:"status"`
	Action  StageAction      `json:"action,omitempty"`
	Message string           `json:"message"`
	Code    string           `json:"code,omitempty"`
	Data    *StageResultData `json:"data,omitempty"`
}

func StageCreated(orderID uuid.UUID, message string) *StageResult {
	return &StageResult{Success: true, Status: OutcomeCreated, Action: ActionCreate, Message: message, Data: &StageResultData{OrderID: orderID}}
}

func StageExists(orderID uuid.UUID, message string) *StageResult {
	return &StageResult{Success: true, Status: OutcomeAlreadyExists, Action: ActionView, Message: message, Data: &StageResultData{OrderID: orderID}}
}

func StageView(orderID uuid.UUID, message string) *StageResult {
	return &StageResult{Success: true, Status: OutcomeView, Action: ActionView, Message: message, Data: &StageResultData{OrderID: orderID}}
}

func StageRecorded(orderID uuid.UUID, message string) *StageResult {
	return &StageResult{Success: true, Status: OutcomeRecorded, Message: message, Data: &StageResultData{OrderID: orderID}}
}

func StageFailed(err *Error) *StageResult {
	return &StageResult{Success: false, Status: OutcomeError, Message: err.Message, Code: err.Code}
}
