package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultWorkplanStages is the production breakdown created for every produk.
var DefaultWorkplanStages = []string{
	"Potong",
	"Rangkai",
	"Finishing",
	"Finishing QC",
	"Packing",
	"Pengiriman",
	"Trap",
	"Install",
	"Install QC",
}

type WorkplanStatus string

const (
	WorkplanPlanned    WorkplanStatus = "planned"
	WorkplanInProgress WorkplanStatus = "in_progress"
	WorkplanDone       WorkplanStatus = "done"
	WorkplanCancelled  WorkplanStatus = "cancelled"
)

type WorkplanItem struct {
	ID                    uuid.UUID      `json:"id" db:"id"`
	ItemPekerjaanProdukID uuid.UUID      `json:"item_pekerjaan_produk_id" db:"item_pekerjaan_produk_id"`
	NamaTahapan           string         `json:"nama_tahapan" db:"nama_tahapan"`
	StartDate             *time.Time     `json:"start_date" db:"start_date"`
	EndDate               *time.Time     `json:"end_date" db:"end_date"`
	DurationDays          *int           `json:"duration_days" db:"duration_days"`
	Urutan                int            `json:"urutan" db:"urutan"`
	Status                WorkplanStatus `json:"status" db:"status"`
	Catatan               *string        `json:"catatan" db:"catatan"`
	ResponseBy            *string        `json:"response_by" db:"response_by"`
	ResponseTime          *time.Time     `json:"response_time" db:"response_time"`
	PMResponseBy          *string        `json:"pm_response_by" db:"pm_response_by"`
	PMResponseTime        *time.Time     `json:"pm_response_time" db:"pm_response_time"`
	CreatedAt             time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at" db:"updated_at"`
}

// SetDates stores the schedule and derives duration_days inclusively.
func (w *WorkplanItem) SetDates(start, end *time.Time) {
	w.StartDate = start
	w.EndDate = end
	w.DurationDays = nil
	if start != nil && end != nil {
		days := int(end.Truncate(24*time.Hour).Sub(start.Truncate(24*time.Hour)).Hours()/24) + 1
		w.DurationDays = &days
	}
}

// ProdukWorkplan is one produk of an order with its workplan item count.
type ProdukWorkplan struct {
	ProdukID        uuid.UUID `db:"produk_id"`
	ItemPekerjaanID uuid.UUID `db:"item_pekerjaan_id"`
	NamaProduk      string    `db:"nama_produk"`
	ItemCount       int       `db:"item_count"`
}

// NewDefaultWorkplan builds the default breakdown for one produk.
func NewDefaultWorkplan(produkID uuid.UUID, responseBy string, now time.Time) []WorkplanItem {
	items := make([]WorkplanItem, 0, len(DefaultWorkplanStages))
	for i, name := range DefaultWorkplanStages {
		by := responseBy
		at := now
		items = append(items, WorkplanItem{
			ID:                    uuid.New(),
			ItemPekerjaanProdukID: produkID,
			NamaTahapan:           name,
			Urutan:                i + 1,
			Status:                WorkplanPlanned,
			ResponseBy:            &by,
			ResponseTime:          &at,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
	}
	return items
}

type UpdateWorkplanItemInput struct {
	StartDate *time.Time      `json:"start_date"`
	EndDate   *time.Time      `json:"end_date"`
	Status    *WorkplanStatus `json:"status" validate:"omitempty,oneof=planned in_progress done cancelled"`
	Catatan   *string         `json:"catatan" validate:"omitempty,max=1000"`
}
