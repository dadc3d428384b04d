package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moey-backend/internal/domain"
)

// Migrate creates the schema. Statements stay within the dialect shared by
// PostgreSQL and SQLite so both drivers run the same list.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

func schemaStatements() []string {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			fcm_token TEXT,
			device_platform TEXT,
			fcm_token_updated_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL,
			revoked_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			nama_project TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			tahapan_proyek TEXT NOT NULL DEFAULT 'not_start',
			project_status TEXT NOT NULL DEFAULT 'pending',
			pm_survey_response_by TEXT,
			pm_survey_response_time TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_teams (
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (order_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			order_id TEXT REFERENCES orders(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			data TEXT,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			read_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, is_read, created_at)`,
	}

	stmts = append(stmts, stageTableStatements()...)

	stmts = append(stmts,
		`CREATE TABLE IF NOT EXISTS item_pekerjaan_produks (
			id TEXT PRIMARY KEY,
			item_pekerjaan_id TEXT NOT NULL REFERENCES item_pekerjaans(id) ON DELETE CASCADE,
			nama_produk TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS workplan_items (
			id TEXT PRIMARY KEY,
			item_pekerjaan_produk_id TEXT NOT NULL REFERENCES item_pekerjaan_produks(id) ON DELETE CASCADE,
			nama_tahapan TEXT NOT NULL,
			start_date TIMESTAMP,
			end_date TIMESTAMP,
			duration_days INTEGER,
			urutan INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'planned',
			catatan TEXT,
			response_by TEXT,
			response_time TIMESTAMP,
			pm_response_by TEXT,
			pm_response_time TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (item_pekerjaan_produk_id, urutan)
		)`,
		`CREATE TABLE IF NOT EXISTS task_responses (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
			tahap TEXT NOT NULL,
			start_time TIMESTAMP NOT NULL,
			response_time TIMESTAMP,
			update_data_time TIMESTAMP,
			notif_time TIMESTAMP,
			deadline TIMESTAMP NOT NULL,
			duration INTEGER NOT NULL DEFAULT 0,
			duration_actual INTEGER,
			extend_time INTEGER NOT NULL DEFAULT 0,
			extend_reason TEXT,
			status TEXT NOT NULL DEFAULT 'menunggu_response',
			is_marketing BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_sent_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_task_responses_order_tahap ON task_responses (order_id, tahap)`,
		`CREATE INDEX IF NOT EXISTS idx_task_responses_status_deadline ON task_responses (status, deadline)`,
		`CREATE TABLE IF NOT EXISTS task_response_extend_logs (
			id TEXT PRIMARY KEY,
			task_response_id TEXT NOT NULL REFERENCES task_responses(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id),
			extend_time INTEGER NOT NULL,
			extend_reason TEXT NOT NULL,
			request_time TIMESTAMP NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			reviewed_by TEXT REFERENCES users(id),
			reviewed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			order_id TEXT,
			new_value TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
	)

	return stmts
}

func stageTableStatements() []string {
	parentTable := map[domain.ParentKind]string{
		domain.ParentOrder:         "orders",
		domain.ParentMoodboard:     "moodboards",
		domain.ParentItemPekerjaan: "item_pekerjaans",
	}

	stmts := make([]string, 0, len(domain.StageEntities))
	for _, entity := range domain.StageEntities {
		unique := ""
		if entity.Unique() {
			unique = " UNIQUE"
		}

		extra := ""
		for _, col := range entity.InsertDefaults() {
			extra += fmt.Sprintf("\n\t\t\t%s TEXT NOT NULL DEFAULT '%s',", col.Column, col.Value)
		}
		if entity == domain.EntityMoodboard {
			extra += `
			response_final_by TEXT,
			response_final_time TIMESTAMP,
			pm_response_final_by TEXT,
			pm_response_final_time TIMESTAMP,`
		}

		stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			%s TEXT NOT NULL%s REFERENCES %s(id) ON DELETE CASCADE,%s
			response_by TEXT,
			response_time TIMESTAMP,
			pm_response_by TEXT,
			pm_response_time TIMESTAMP,
			ack_status TEXT NOT NULL DEFAULT 'unstarted',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, entity.Table(), entity.ParentColumn(), unique, parentTable[entity.ParentKind()], extra))
	}
	return stmts
}
