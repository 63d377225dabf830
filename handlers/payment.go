// File: handlers/payment.go
package handlers

import (
	"net/http"
	"time"

	"bookwala/models"
	"bookwala/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitPayment records a screenshot claim and advances the slot. MVP policy:
// the vendor-side confirm fires immediately after the pending transition, so
// an app booking completes in one call.
func (h *HandlerBundle) SubmitPayment(c *gin.Context) {
	var input struct {
		SlotID        string `json:"slot_id" binding:"required"`
		ScreenshotURL string `json:"screenshot_url" binding:"required"`
		AmountClaimed int64  `json:"amount_claimed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	userID := c.GetString("userID")

	current, err := h.Slots.GetSlot(ctx, input.SlotID)
	if err != nil {
		abortSlotError(c, err)
		return
	}

	payment := &models.Payment{
		ID:            uuid.NewString(),
		SlotID:        input.SlotID,
		UserID:        userID,
		VendorID:      current.VendorID,
		ScreenshotURL: input.ScreenshotURL,
		AmountClaimed: input.AmountClaimed,
		Status:        models.PaymentUploaded,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.Payments.Create(ctx, payment); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to record payment"})
		return
	}

	pending, err := h.Slots.SubmitPayment(ctx, input.SlotID, userID, payment.ID)
	if err != nil {
		// The transition failed, so the claim row must not stand as uploaded.
		if rerr := h.Payments.SetStatus(ctx, payment.ID, models.PaymentRejected); rerr != nil {
			utils.GetLogger().Warn("payment rejection mark failed",
				zap.String("paymentId", payment.ID), zap.Error(rerr))
		}
		abortSlotError(c, err)
		return
	}

	confirmed, err := h.Slots.Confirm(ctx, input.SlotID, pending.VendorID)
	if err != nil {
		// The pending row stands; the vendor can still confirm manually.
		utils.GetLogger().Warn("auto-confirm failed",
			zap.String("slotId", input.SlotID), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"slot": pending, "payment": payment})
		return
	}

	if err := h.Payments.SetStatus(ctx, payment.ID, models.PaymentVerified); err != nil {
		utils.GetLogger().Warn("payment status update failed",
			zap.String("paymentId", payment.ID), zap.Error(err))
	}
	payment.Status = models.PaymentVerified

	c.JSON(http.StatusOK, gin.H{"slot": confirmed, "payment": payment})
}
