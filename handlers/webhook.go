// File: handlers/webhook.go
package handlers

import (
	"context"
	"io"
	"net/http"

	"bookwala/config"
	"bookwala/cron"
	"bookwala/services/whatsapp"
	"bookwala/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerifyWebhook answers the provider's GET handshake: echo hub.challenge when
// the verify token matches.
func (h *HandlerBundle) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == config.AppConfig.WhatsAppVerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "verification failed"})
}

// ReceiveWebhook accepts an inbound delivery. The response is always 200 once
// the payload is read: processing happens on the queue, and redeliveries are
// dropped by message-id dedup.
func (h *HandlerBundle) ReceiveWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		return
	}

	ctx := c.Request.Context()
	for _, msg := range whatsapp.ParseInbound(body) {
		seen, err := h.Deduper.Seen(ctx, msg.MessageID)
		if err != nil {
			utils.GetLogger().Warn("dedup check failed, processing anyway",
				zap.String("messageId", msg.MessageID), zap.Error(err))
		} else if seen {
			continue
		}

		task, err := cron.NewChatTask(cron.ChatPayload{
			Phone:     msg.From,
			Text:      msg.Text,
			MessageID: msg.MessageID,
		})
		if err != nil {
			utils.GetLogger().Error("chat task build failed", zap.Error(err))
			h.forget(ctx, msg.MessageID)
			continue
		}
		if _, err := h.Queue.Enqueue(task); err != nil {
			utils.GetLogger().Error("chat task enqueue failed",
				zap.String("phone", msg.From), zap.Error(err))
			// The message was never handed off: drop the dedup mark so the
			// provider's redelivery is not suppressed.
			h.forget(ctx, msg.MessageID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *HandlerBundle) forget(ctx context.Context, messageID string) {
	if err := h.Deduper.Forget(ctx, messageID); err != nil {
		utils.GetLogger().Warn("dedup unmark failed",
			zap.String("messageId", messageID), zap.Error(err))
	}
}
