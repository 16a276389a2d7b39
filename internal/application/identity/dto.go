package identity

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// TokenResult carries an issued token pair
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	TokenResult
	User UserDTO `json:"user"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the access token being given up
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserInput creates a staff or customer account
type CreateUserInput struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"max=200"`
	Password       string `json:"password" binding:"required,min=8,max=72"`
	Role           string `json:"role" binding:"required,oneof=admin staff customer"`
	RobawsClientID string `json:"robaws_client_id" binding:"max=50"`
	CustomerType   string `json:"customer_type" binding:"max=50"`
}

// UpdateUserInput changes role or client link. Nil fields are left untouched.
type UpdateUserInput struct {
	Name           *string `json:"name" binding:"omitempty,max=200"`
	Role           *string `json:"role" binding:"omitempty,oneof=admin staff customer"`
	RobawsClientID *string `json:"robaws_client_id" binding:"omitempty,max=50"`
	CustomerType   *string `json:"customer_type" binding:"omitempty,max=50"`
}

// UserListFilter narrows the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin staff customer"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=200"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserDTO represents an account in API responses
type UserDTO struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	RobawsClientID string     `json:"robaws_client_id,omitempty"`
	CustomerType   string     `json:"customer_type,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsLocked       bool       `json:"is_locked"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToUserDTO converts a domain User
func ToUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.DisplayName(),
		Role:           string(u.Role),
		RobawsClientID: u.RobawsClientID,
		CustomerType:   u.CustomerType,
		IsActive:       u.IsActive,
		IsLocked:       u.IsLocked(),
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
