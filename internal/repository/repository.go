package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DB is satisfied by both *sqlx.DB and *sqlx.Tx.
type DB interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Order        OrderRepository
	Notification NotificationRepository
	Stage        StageRepository
	Workplan     WorkplanRepository
	TaskResponse TaskResponseRepository
	AuditLog     AuditLogRepository

	db *sqlx.DB
}

// Transactor runs fn against repositories bound to a single transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

func NewRepositories(db *sqlx.DB) *Repositories {
	repos := newRepositories(db)
	repos.db = db
	return repos
}

func newRepositories(db DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Order:        NewOrderRepository(db),
		Notification: NewNotificationRepository(db),
		Stage:        NewStageRepository(db),
		Workplan:     NewWorkplanRepository(db),
		TaskResponse: NewTaskResponseRepository(db),
		AuditLog:     NewAuditLogRepository(db),
	}
}

func (r *Repositories) WithinTx(ctx context.Context, fn func(repos *Repositories) error) error {
	if r.db == nil {
		return fmt.Errorf("repositories are already bound to a transaction")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
