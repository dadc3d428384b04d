package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"moey-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	ListByRoles(ctx context.Context, roles []string) ([]domain.User, error)
	ListTeamByRoles(ctx context.Context, orderID uuid.UUID, roles []string) ([]domain.User, error)
	AddToTeam(ctx context.Context, orderID, userID uuid.UUID) error
	UpdateFCMToken(ctx context.Context, userID uuid.UUID, token, platform string, at time.Time) error
	ClearFCMToken(ctx context.Context, userID uuid.UUID) error
	ClearFCMTokenValue(ctx context.Context, token string) error
	FCMStats(ctx context.Context) (*domain.FCMStats, error)
}

type userRepository struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, role, is_active, fcm_token, device_platform, fcm_token_updated_at, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)

	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	users := []domain.User{}
	if len(ids) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?) AND is_active = TRUE ORDER BY full_name`, ids)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, err
}

func (r *userRepository) ListByRoles(ctx context.Context, roles []string) ([]domain.User, error) {
	users := []domain.User{}
	if len(roles) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE role IN (?) AND is_active = TRUE ORDER BY full_name`, roles)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, err
}

func (r *userRepository) ListTeamByRoles(ctx context.Context, orderID uuid.UUID, roles []string) ([]domain.User, error) {
	users := []domain.User{}
	if len(roles) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`
		SELECT u.id, u.email, u.password_hash, u.full_name, u.role, u.is_active, u.fcm_token,
			u.device_platform, u.fcm_token_updated_at, u.created_at, u.updated_at
		FROM users u
		JOIN order_teams ot ON ot.user_id = u.id
		WHERE ot.order_id = ? AND u.role IN (?) AND u.is_active = TRUE
		ORDER BY u.full_name`, orderID, roles)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...)
	return users, err
}

func (r *userRepository) AddToTeam(ctx context.Context, orderID, userID uuid.UUID) error {
	query := r.db.Rebind(`INSERT INTO order_teams (order_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`)
	_, err := r.db.ExecContext(ctx, query, orderID, userID)
	return err
}

func (r *userRepository) UpdateFCMToken(ctx context.Context, userID uuid.UUID, token, platform string, at time.Time) error {
	var devicePlatform *string
	if platform != "" {
		devicePlatform = &platform
	}

	query := r.db.Rebind(`
		UPDATE users SET fcm_token = ?, device_platform = ?, fcm_token_updated_at = ?, updated_at = ?
		WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, token, devicePlatform, at, at, userID)
	return err
}

func (r *userRepository) ClearFCMToken(ctx context.Context, userID uuid.UUID) error {
	query := r.db.Rebind(`UPDATE users SET fcm_token = NULL, device_platform = NULL, fcm_token_updated_at = NULL WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *userRepository) ClearFCMTokenValue(ctx context.Context, token string) error {
	query := r.db.Rebind(`UPDATE users SET fcm_token = NULL, device_platform = NULL, fcm_token_updated_at = NULL WHERE fcm_token = ?`)
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

func (r *userRepository) FCMStats(ctx context.Context) (*domain.FCMStats, error) {
	var stats domain.FCMStats
	query := `
		SELECT
			COUNT(*) AS total_users,
			COALESCE(SUM(CASE WHEN fcm_token IS NOT NULL THEN 1 ELSE 0 END), 0) AS with_token,
			COALESCE(SUM(CASE WHEN device_platform = 'android' THEN 1 ELSE 0 END), 0) AS android_users,
			COALESCE(SUM(CASE WHEN device_platform = 'ios' THEN 1 ELSE 0 END), 0) AS ios_users
		FROM users WHERE is_active = TRUE`

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return &stats, nil
}
