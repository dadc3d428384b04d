package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID                   uuid.UUID     `json:"id" db:"id"`
	NamaProject          string        `json:"nama_project" db:"nama_project"`
	CustomerName         string        `json:"customer_name" db:"customer_name"`
	TahapanProyek        ProjectStage  `json:"tahapan_proyek" db:"tahapan_proyek"`
	ProjectStatus        ProjectStatus `json:"project_status" db:"project_status"`
	PMSurveyResponseBy   *string       `json:"pm_survey_response_by,omitempty" db:"pm_survey_response_by"`
	PMSurveyResponseTime *time.Time    `json:"pm_survey_response_time,omitempty" db:"pm_survey_response_time"`
	CreatedAt            time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at" db:"updated_at"`
}

// ProjectStage is the order's tahapan_proyek marker.
type ProjectStage string

const (
	StageNotStart    ProjectStage = "not_start"
	StageSurvey      ProjectStage = "survey"
	StageMoodboard   ProjectStage = "moodboard"
	StageEstimasi    ProjectStage = "estimasi"
	StageCMFee       ProjectStage = "cm_fee"
	StageDesainFinal ProjectStage = "desain_final"
	StageRAB         ProjectStage = "rab"
	StageKontrak     ProjectStage = "kontrak"
	StageSurveyUlang ProjectStage = "survey_ulang"
	StageGambarKerja ProjectStage = "gambar_kerja"
	StageProduksi    ProjectStage = "produksi"
	StageSelesai     ProjectStage = "selesai"
)

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)
