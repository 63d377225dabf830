// Package auth covers account registration, credential checks, and token
// issuance for the REST surface. Chat users are provisioned elsewhere and
// never pass through here.
package auth

import (
	"context"
	"time"

	"bookwala/models"
)

// AuthResult is the login/register response payload.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Service interface {
	// Register creates an account. vendorID binds a vendor-role account to its
	// venue and is ignored for customers.
	Register(ctx context.Context, email, password, name, phone, role, vendorID string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	LoginWithPhone(ctx context.Context, phone, password string) (*AuthResult, error)
	// ChangePassword verifies the old password first. requesterID must match
	// userID; a token for one account cannot rotate another's password.
	ChangePassword(ctx context.Context, requesterID, userID, oldPassword, newPassword string) error
	// SetPassword skips the old-password check, for accounts provisioned over
	// chat that never had one. Same ownership rule as ChangePassword.
	SetPassword(ctx context.Context, requesterID, userID, newPassword string) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Repo     userRepository
	TokenTTL time.Duration
}

// userRepository is the slice of the user repo this service needs.
type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

func (s *DefaultAuthService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return 7 * 24 * time.Hour
}
