package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moey-backend/internal/domain"
)

type WorkplanRepository interface {
	ListProduks(ctx context.Context, orderID uuid.UUID) ([]domain.ProdukWorkplan, error)
	CreateItems(ctx context.Context, items []domain.WorkplanItem) error
	ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WorkplanItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*domain.WorkplanItem, error)
	GetItemOrderID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	UpdateItem(ctx context.Context, item *domain.WorkplanItem) error
	StampPMForOrder(ctx context.Context, orderID uuid.UUID, by string, at time.Time) (int64, error)
}

type workplanRepository struct {
	db DB
}

func NewWorkplanRepository(db DB) WorkplanRepository {
	return &workplanRepository{db: db}
}

const workplanItemColumns = `w.id, w.item_pekerjaan_produk_id, w.nama_tahapan, w.start_date, w.end_date, w.duration_days,
	w.urutan, w.status, w.catatan, w.response_by, w.response_time, w.pm_response_by, w.pm_response_time,
	w.created_at, w.updated_at`

const orderProduksSubquery = `
	SELECT p.id FROM item_pekerjaan_produks p
	JOIN item_pekerjaans ip ON ip.id = p.item_pekerjaan_id
	JOIN moodboards m ON m.id = ip.moodboard_id
	WHERE m.order_id = ?`

// ListProduks returns every produk of the order with its current workplan item count.
func (r *workplanRepository) ListProduks(ctx context.Context, orderID uuid.UUID) ([]domain.ProdukWorkplan, error) {
	query := r.db.Rebind(`
		SELECT p.id AS produk_id, p.item_pekerjaan_id, p.nama_produk, COUNT(w.id) AS item_count
		FROM item_pekerjaan_produks p
		JOIN item_pekerjaans ip ON ip.id = p.item_pekerjaan_id
		JOIN moodboards m ON m.id = ip.moodboard_id
		LEFT JOIN workplan_items w ON w.item_pekerjaan_produk_id = p.id
		WHERE m.order_id = ?
		GROUP BY p.id, p.item_pekerjaan_id, p.nama_produk, p.created_at
		ORDER BY p.created_at ASC, p.id ASC`)

	produks := []domain.ProdukWorkplan{}
	if err := r.db.SelectContext(ctx, &produks, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list produks: %w", err)
	}
	return produks, nil
}

func (r *workplanRepository) CreateItems(ctx context.Context, items []domain.WorkplanItem) error {
	query := r.db.Rebind(`
		INSERT INTO workplan_items (id, item_pekerjaan_produk_id, nama_tahapan, start_date, end_date, duration_days,
			urutan, status, catatan, response_by, response_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	for _, item := range items {
		_, err := r.db.ExecContext(ctx, query,
			item.ID, item.ItemPekerjaanProdukID, item.NamaTahapan, item.StartDate, item.EndDate, item.DurationDays,
			item.Urutan, item.Status, item.Catatan, item.ResponseBy, item.ResponseTime, item.CreatedAt, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert workplan item %q: %w", item.NamaTahapan, err)
		}
	}
	return nil
}

func (r *workplanRepository) ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WorkplanItem, error) {
	query := r.db.Rebind(`
		SELECT ` + workplanItemColumns + `
		FROM workplan_items w
		WHERE w.item_pekerjaan_produk_id IN (` + orderProduksSubquery + `)
		ORDER BY w.item_pekerjaan_produk_id, w.urutan`)

	items := []domain.WorkplanItem{}
	err := r.db.SelectContext(ctx, &items, query, orderID)
	return items, err
}

func (r *workplanRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.WorkplanItem, error) {
	var item domain.WorkplanItem
	query := r.db.Rebind(`SELECT ` + workplanItemColumns + ` FROM workplan_items w WHERE w.id = ?`)

	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *workplanRepository) GetItemOrderID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var orderID uuid.UUID
	query := r.db.Rebind(`
		SELECT m.order_id FROM workplan_items w
		JOIN item_pekerjaan_produks p ON p.id = w.item_pekerjaan_produk_id
		JOIN item_pekerjaans ip ON ip.id = p.item_pekerjaan_id
		JOIN moodboards m ON m.id = ip.moodboard_id
		WHERE w.id = ?`)
	err := r.db.GetContext(ctx, &orderID, query, id)
	return orderID, err
}

func (r *workplanRepository) UpdateItem(ctx context.Context, item *domain.WorkplanItem) error {
	query := r.db.Rebind(`
		UPDATE workplan_items SET start_date = ?, end_date = ?, duration_days = ?, status = ?, catatan = ?, updated_at = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query,
		item.StartDate, item.EndDate, item.DurationDays, item.Status, item.Catatan, item.UpdatedAt, item.ID,
	)
	return err
}

// StampPMForOrder stamps the PM slot on every unstamped workplan item of the order in one statement.
func (r *workplanRepository) StampPMForOrder(ctx context.Context, orderID uuid.UUID, by string, at time.Time) (int64, error) {
	query := r.db.Rebind(`
		UPDATE workplan_items SET pm_response_by = ?, pm_response_time = ?, updated_at = ?
		WHERE pm_response_time IS NULL AND item_pekerjaan_produk_id IN (` + orderProduksSubquery + `)`)

	result, err := r.db.ExecContext(ctx, query, by, at, at, orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to stamp workplan: %w", err)
	}
	return result.RowsAffected()
}
