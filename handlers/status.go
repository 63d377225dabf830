// File: handlers/status.go
package handlers

import (
	"net/http"

	"bookwala/services/slot"

	"github.com/gin-gonic/gin"
)

// statusOf maps slot service error kinds to HTTP statuses.
func statusOf(err error) int {
	switch slot.CodeOf(err) {
	case slot.CodeNotFound:
		return http.StatusNotFound
	case slot.CodeConflict:
		return http.StatusConflict
	case slot.CodeExpiredHold:
		return http.StatusGone
	case slot.CodeForbidden:
		return http.StatusForbidden
	case slot.CodeValidation:
		return http.StatusBadRequest
	case slot.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortSlotError(c *gin.Context, err error) {
	msg := err.Error()
	if se, ok := err.(*slot.Error); ok {
		msg = se.Message
	}
	c.JSON(statusOf(err), gin.H{"error": msg, "code": slot.CodeOf(err)})
}
