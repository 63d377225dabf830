// File: handlers/slot.go
package handlers

import (
	"net/http"
	"time"

	"bookwala/models"
	"bookwala/services/slot"
	"bookwala/utils"

	"github.com/gin-gonic/gin"
)

// LockSlot places a hold on an available slot for the caller.
func (h *HandlerBundle) LockSlot(c *gin.Context) {
	locked, err := h.Slots.Lock(c.Request.Context(), c.Param("id"), c.GetString("userID"), models.SourceApp)
	if err != nil {
		abortSlotError(c, err)
		return
	}

	var expiresAt time.Time
	if locked.HoldExpiresAt != nil {
		expiresAt = *locked.HoldExpiresAt
	}
	c.JSON(http.StatusOK, gin.H{
		"slot":               locked,
		"hold_expires_at":    expiresAt,
		"expires_in_minutes": int(h.Slots.HoldTTL().Minutes()),
	})
}

// ReleaseSlot drops the caller's own hold.
func (h *HandlerBundle) ReleaseSlot(c *gin.Context) {
	released, err := h.Slots.Release(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, released)
}

// CancelSlot cancels the caller's booking; a replacement slot reopens the
// window. Vendors act as the venue their token is bound to.
func (h *HandlerBundle) CancelSlot(c *gin.Context) {
	actor := slot.Actor{UserID: c.GetString("userID")}
	if c.GetString("userRole") == models.RoleVendor {
		actor.VendorID = c.GetString("vendorID")
	}

	cancelled, err := h.Slots.Cancel(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// Vendor transitions derive the acting venue from the token, never from the
// request body. The reason field is the only client input.
type vendorActionInput struct {
	Reason string `json:"reason"`
}

// ConfirmSlot moves a pending booking to confirmed.
func (h *HandlerBundle) ConfirmSlot(c *gin.Context) {
	confirmed, err := h.Slots.Confirm(c.Request.Context(), c.Param("id"), c.GetString("vendorID"))
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmed)
}

// RejectSlot declines a pending booking and reopens the window.
func (h *HandlerBundle) RejectSlot(c *gin.Context) {
	var input vendorActionInput
	_ = c.ShouldBindJSON(&input)

	rejected, err := h.Slots.Reject(c.Request.Context(), c.Param("id"), c.GetString("vendorID"), input.Reason)
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, rejected)
}

// CompleteSlot marks a confirmed booking as played/served.
func (h *HandlerBundle) CompleteSlot(c *gin.Context) {
	completed, err := h.Slots.Complete(c.Request.Context(), c.Param("id"), c.GetString("vendorID"))
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, completed)
}

// BlockSlot takes an available slot off the market.
func (h *HandlerBundle) BlockSlot(c *gin.Context) {
	var input vendorActionInput
	_ = c.ShouldBindJSON(&input)

	blocked, err := h.Slots.Block(c.Request.Context(), c.Param("id"), c.GetString("vendorID"), input.Reason)
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocked)
}

// UnblockSlot puts a blocked slot back on the market.
func (h *HandlerBundle) UnblockSlot(c *gin.Context) {
	unblocked, err := h.Slots.Unblock(c.Request.Context(), c.Param("id"), c.GetString("vendorID"))
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, unblocked)
}

// ManualBooking records a walk-in or phone booking directly as confirmed.
func (h *HandlerBundle) ManualBooking(c *gin.Context) {
	var input struct {
		CustomerName  string `json:"customer_name" binding:"required"`
		CustomerPhone string `json:"customer_phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	booked, err := h.Slots.ManualBooking(c.Request.Context(), c.Param("id"), c.GetString("vendorID"),
		slot.CustomerInfo{Name: input.CustomerName, Phone: input.CustomerPhone})
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, booked)
}
