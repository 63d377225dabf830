// File: services/auth/errors.go
package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("account already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("not allowed")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)
