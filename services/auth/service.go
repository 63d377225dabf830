// File: services/auth/service.go
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	userRepo "bookwala/database/repository/user"
	"bookwala/models"
	"bookwala/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultAuthService) Register(ctx context.Context, email, password, name, phone, role, vendorID string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if role != models.RoleCustomer && role != models.RoleVendor {
		role = models.RoleCustomer
	}
	// Only vendor accounts carry a venue binding.
	if role != models.RoleVendor {
		vendorID = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Phone:        phone,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		Role:         role,
		VendorID:     vendorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	utils.GetLogger().Info("user registered",
		zap.String("userID", user.ID), zap.String("role", user.Role))
	return s.issue(user)
}

func (s *DefaultAuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.verifyAndIssue(user, password)
}

func (s *DefaultAuthService) LoginWithPhone(ctx context.Context, phone, password string) (*AuthResult, error) {
	user, err := s.Repo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.verifyAndIssue(user, password)
}

func (s *DefaultAuthService) ChangePassword(ctx context.Context, requesterID, userID, oldPassword, newPassword string) error {
	if requesterID != userID {
		return ErrForbidden
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *DefaultAuthService) SetPassword(ctx context.Context, requesterID, userID, newPassword string) error {
	if requesterID != userID {
		return ErrForbidden
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	if _, err := s.Repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *DefaultAuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *DefaultAuthService) verifyAndIssue(user *models.User, password string) (*AuthResult, error) {
	// Chat-provisioned accounts have no hash and cannot log in.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *DefaultAuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, user.VendorID, s.tokenTTL())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
