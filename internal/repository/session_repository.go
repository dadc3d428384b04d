package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID  `db:"session_id"`
	UserID    uuid.UUID  `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*Session, error)
	Revoke(ctx context.Context, id uuid.UUID, now time.Time) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *Session) error {
	query := r.db.Rebind(`
		INSERT INTO sessions (session_id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.ExpiresAt, session.CreatedAt,
	)
	return err
}

func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*Session, error) {
	var session Session
	query := r.db.Rebind(`
		SELECT session_id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM sessions WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?`)

	err := r.db.GetContext(ctx, &session, query, tokenHash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := r.db.Rebind(`UPDATE sessions SET revoked_at = ? WHERE session_id = ? AND revoked_at IS NULL`)
	_, err := r.db.ExecContext(ctx, query, now, id)
	return err
}

func (r *sessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	query := r.db.Rebind(`UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`)
	_, err := r.db.ExecContext(ctx, query, now, userID)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM sessions WHERE expires_at < ? OR revoked_at IS NOT NULL`)
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
