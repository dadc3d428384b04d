package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"moey-backend/internal/domain"
)

type StageRepository interface {
	LoadSnapshot(ctx context.Context, orderID uuid.UUID) (*domain.StageSnapshot, error)
	LoadSnapshots(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]*domain.StageSnapshot, error)
	Insert(ctx context.Context, entity domain.StageEntity, parentID uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error)
	Stamp(ctx context.Context, entity domain.StageEntity, id uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error)
	StampFinal(ctx context.Context, moodboardID uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error)
}

type stageRepository struct {
	db DB
}

func NewStageRepository(db DB) StageRepository {
	return &stageRepository{db: db}
}

func slotColumns(slot domain.ResponseSlot) (byCol, timeCol string) {
	if slot == domain.SlotPM {
		return "pm_response_by", "pm_response_time"
	}
	return "response_by", "response_time"
}

// Insert creates a stage row with one response slot stamped. For single-instance
// entities a concurrent insert loses on the unique parent column and false is returned.
func (r *stageRepository) Insert(ctx context.Context, entity domain.StageEntity, parentID uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error) {
	byCol, timeCol := slotColumns(slot)

	ack := domain.AckStaff
	if slot == domain.SlotPM {
		ack = domain.AckPM
	}

	cols := []string{"id", entity.ParentColumn(), byCol, timeCol, "ack_status", "created_at", "updated_at"}
	args := []interface{}{uuid.New(), parentID, by, at, ack, at, at}
	for _, def := range entity.InsertDefaults() {
		cols = append(cols, def.Column)
		args = append(args, def.Value)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		entity.Table(), strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	if entity.Unique() {
		query += fmt.Sprintf(` ON CONFLICT (%s) DO NOTHING`, entity.ParentColumn())
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert %s: %w", entity.Table(), err)
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// Stamp fills an empty response slot on an existing row and recomputes ack_status.
func (r *stageRepository) Stamp(ctx context.Context, entity domain.StageEntity, id uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error) {
	byCol, timeCol := slotColumns(slot)

	otherTime := "pm_response_time"
	alone, both := domain.AckStaff, domain.AckBoth
	if slot == domain.SlotPM {
		otherTime = "response_time"
		alone = domain.AckPM
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = ?, %s = ?,
			ack_status = CASE WHEN %s IS NULL THEN '%s' ELSE '%s' END,
			updated_at = ?
		WHERE id = ? AND %s IS NULL`,
		entity.Table(), byCol, timeCol, otherTime, alone, both, timeCol)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), by, at, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to stamp %s: %w", entity.Table(), err)
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *stageRepository) StampFinal(ctx context.Context, moodboardID uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error) {
	byCol, timeCol := "response_final_by", "response_final_time"
	if slot == domain.SlotPM {
		byCol, timeCol = "pm_response_final_by", "pm_response_final_time"
	}

	query := fmt.Sprintf(`UPDATE moodboards SET %s = ?, %s = ?, updated_at = ? WHERE id = ? AND %s IS NULL`, byCol, timeCol, timeCol)
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), by, at, at, moodboardID)
	if err != nil {
		return false, fmt.Errorf("failed to stamp final design: %w", err)
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *stageRepository) LoadSnapshot(ctx context.Context, orderID uuid.UUID) (*domain.StageSnapshot, error) {
	snapshots, err := r.LoadSnapshots(ctx, []uuid.UUID{orderID})
	if err != nil {
		return nil, err
	}
	return snapshots[orderID], nil
}

// LoadSnapshots issues one query per stage table for the whole id set.
func (r *stageRepository) LoadSnapshots(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]*domain.StageSnapshot, error) {
	snapshots := make(map[uuid.UUID]*domain.StageSnapshot, len(orderIDs))
	if len(orderIDs) == 0 {
		return snapshots, nil
	}
	for _, id := range orderIDs {
		snapshots[id] = domain.NewStageSnapshot(id)
	}

	records := make(map[domain.StageEntity][]domain.StageRecord, len(domain.StageEntities))
	for _, entity := range domain.StageEntities {
		rows, err := r.selectRecords(ctx, entity, orderIDs)
		if err != nil {
			return nil, err
		}
		records[entity] = rows
	}

	for _, rec := range records[domain.EntityItemPekerjaan] {
		snap := snapshots[rec.OrderID]
		snap.ItemPekerjaans = append(snap.ItemPekerjaans, domain.ItemPekerjaanStages{StageRecord: rec})
	}

	for _, entity := range domain.StageEntities {
		if entity == domain.EntityItemPekerjaan {
			continue
		}
		for i := range records[entity] {
			rec := records[entity][i]
			snap := snapshots[rec.OrderID]
			if snap == nil {
				continue
			}
			attach(snap, entity, &rec)
		}
	}

	counts, err := r.countWorkplanItems(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for orderID, count := range counts {
		if snap := snapshots[orderID]; snap != nil {
			snap.WorkplanItemCount = count
		}
	}

	return snapshots, nil
}

func attach(snap *domain.StageSnapshot, entity domain.StageEntity, rec *domain.StageRecord) {
	switch entity {
	case domain.EntitySurveyResult:
		snap.SurveyResult = rec
	case domain.EntityMoodboard:
		snap.Moodboard = rec
	case domain.EntityEstimasi:
		snap.Estimasi = rec
	case domain.EntityCommitmentFee:
		snap.CommitmentFee = rec
	case domain.EntitySurveyUlang:
		snap.SurveyUlang = rec
	case domain.EntityGambarKerja:
		snap.GambarKerja = rec
	case domain.EntityRabInternal, domain.EntityKontrak:
		for i := range snap.ItemPekerjaans {
			ip := &snap.ItemPekerjaans[i]
			if ip.ID != rec.ParentID {
				continue
			}
			if entity == domain.EntityRabInternal {
				ip.RabInternal = rec
			} else {
				ip.Kontrak = rec
			}
		}
	}
}

func (r *stageRepository) selectRecords(ctx context.Context, entity domain.StageEntity, orderIDs []uuid.UUID) ([]domain.StageRecord, error) {
	var from, orderExpr string
	switch entity.ParentKind() {
	case domain.ParentMoodboard:
		from = fmt.Sprintf(`%s e JOIN moodboards m ON m.id = e.moodboard_id`, entity.Table())
		orderExpr = "m.order_id"
	case domain.ParentItemPekerjaan:
		from = fmt.Sprintf(`%s e JOIN item_pekerjaans ip ON ip.id = e.item_pekerjaan_id JOIN moodboards m ON m.id = ip.moodboard_id`, entity.Table())
		orderExpr = "m.order_id"
	default:
		from = fmt.Sprintf(`%s e`, entity.Table())
		orderExpr = "e.order_id"
	}

	cols := fmt.Sprintf(`e.id, e.%s AS parent_id, %s AS order_id, e.response_by, e.response_time,
		e.pm_response_by, e.pm_response_time, e.ack_status, e.created_at, e.updated_at`, entity.ParentColumn(), orderExpr)
	if entity == domain.EntityMoodboard {
		cols += `, e.response_final_by, e.response_final_time, e.pm_response_final_by, e.pm_response_final_time`
	}

	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM %s WHERE %s IN (?) ORDER BY e.created_at ASC, e.id ASC`, cols, from, orderExpr), orderIDs)
	if err != nil {
		return nil, err
	}

	records := []domain.StageRecord{}
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", entity.Table(), err)
	}
	return records, nil
}

func (r *stageRepository) countWorkplanItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	query, args, err := sqlx.In(`
		SELECT m.order_id AS order_id, COUNT(w.id) AS item_count
		FROM workplan_items w
		JOIN item_pekerjaan_produks p ON p.id = w.item_pekerjaan_produk_id
		JOIN item_pekerjaans ip ON ip.id = p.item_pekerjaan_id
		JOIN moodboards m ON m.id = ip.moodboard_id
		WHERE m.order_id IN (?)
		GROUP BY m.order_id`, orderIDs)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		OrderID   uuid.UUID `db:"order_id"`
		ItemCount int       `db:"item_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to count workplan items: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.OrderID] = row.ItemCount
	}
	return counts, nil
}
