package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	FullName          string     `json:"full_name" db:"full_name"`
	Role              string     `json:"role" db:"role"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	FCMToken          *string    `json:"-" db:"fcm_token"`
	DevicePlatform    *string    `json:"device_platform,omitempty" db:"device_platform"`
	FCMTokenUpdatedAt *time.Time `json:"fcm_token_updated_at,omitempty" db:"fcm_token_updated_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	RoleProjectManager  = "Project Manager"
	RoleSupervisor      = "Supervisor"
	RoleKepalaMarketing = "Kepala Marketing"
	RoleDesainer        = "Desainer"
	RoleSurveyor        = "Surveyor"
	RoleDrafter         = "Drafter"
	RoleEstimator       = "Estimator"
	RoleLegalAdmin      = "Legal Admin"
	RoleAdmin           = "Admin"
)

// StageRequestRoles may dispatch stage requests for an order.
var StageRequestRoles = []string{RoleKepalaMarketing, RoleProjectManager, RoleAdmin}

// HasRole compares role names exactly, case included.
func (u *User) HasRole(role string) bool {
	return u.Role == role
}

func (u *User) IsProjectManager() bool {
	return u.HasRole(RoleProjectManager)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type FCMTokenInput struct {
	FCMToken string `json:"fcm_token" validate:"required,max=255"`
	Platform string `json:"platform" validate:"omitempty,oneof=android ios"`
}

type FCMStats struct {
	TotalUsers   int64 `json:"total_users" db:"total_users"`
	WithToken    int64 `json:"with_token" db:"with_token"`
	AndroidUsers int64 `json:"android_users" db:"android_users"`
	IOSUsers     int64 `json:"ios_users" db:"ios_users"`
}

type PushTestInput struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Title  string    `json:"title" validate:"required,max=100"`
	Body   string    `json:"body" validate:"required,max=500"`
}
