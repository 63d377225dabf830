// File: handlers/booking.go
package handlers

import (
	"net/http"
	"strings"

	"bookwala/models"

	"github.com/gin-gonic/gin"
)

// ListBookings returns the caller's slots, optionally narrowed by status.
func (h *HandlerBundle) ListBookings(c *gin.Context) {
	var statuses []string
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			switch s {
			case models.SlotLocked, models.SlotPending, models.SlotConfirmed,
				models.SlotCompleted, models.SlotCancelled:
				statuses = append(statuses, s)
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + s})
				return
			}
		}
	}

	slots, err := h.Slots.ListUserSlots(c.Request.Context(), c.GetString("userID"), statuses)
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": slots})
}
