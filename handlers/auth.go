// File: handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"bookwala/services/auth"
	"bookwala/utils"

	"github.com/gin-gonic/gin"
)

// authStatus maps auth service errors to HTTP statuses.
func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Register creates an account and returns a token. Vendor accounts name the
// venue they operate; the binding lands in the token and scopes every
// vendor-side transition.
func (h *HandlerBundle) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Role     string `json:"role"`
		VendorID string `json:"vendor_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), input.Email, input.Password, input.Name, input.Phone, input.Role, input.VendorID)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login authenticates by email.
func (h *HandlerBundle) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// LoginWithPhone authenticates by phone.
func (h *HandlerBundle) LoginWithPhone(c *gin.Context) {
	var input struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Auth.LoginWithPhone(c.Request.Context(), input.Phone, input.Password)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ChangePassword rotates the caller's own password.
func (h *HandlerBundle) ChangePassword(c *gin.Context) {
	var input struct {
		UserID      string `json:"user_id" binding:"required"`
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	err := h.Auth.ChangePassword(c.Request.Context(), c.GetString("userID"), input.UserID, input.OldPassword, input.NewPassword)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password updated"})
}

// SetPassword gives an account its first password; chat-provisioned users have
// none until they claim the account here.
func (h *HandlerBundle) SetPassword(c *gin.Context) {
	var input struct {
		UserID      string `json:"user_id" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	err := h.Auth.SetPassword(c.Request.Context(), c.GetString("userID"), input.UserID, input.NewPassword)
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password set"})
}

// Me returns the authenticated caller's account.
func (h *HandlerBundle) Me(c *gin.Context) {
	user, err := h.Auth.GetUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(authStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
