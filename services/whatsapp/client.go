// File: services/whatsapp/client.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bookwala/utils"

	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// Sender dispatches one outbound text. A message counts as dispatched once
// the provider accepts it; delivery is not guaranteed.
type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// Client talks to the WhatsApp Cloud API.
type Client struct {
	Token   string
	PhoneID string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(token, phoneID string) *Client {
	return &Client{
		Token:   token,
		PhoneID: phoneID,
		BaseURL: "https://graph.facebook.com/v17.0",
		HTTP:    &http.Client{Timeout: sendTimeout},
	}
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             sendText `json:"text"`
}

type sendText struct {
	Body string `json:"body"`
}

// Send issues a single text send. Failures are logged, not surfaced to the
// user; by the time we reply the user has already spoken.
func (c *Client) Send(ctx context.Context, to, text string) error {
	payload := sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             sendText{Body: text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		utils.GetLogger().Error("whatsapp send failed", zap.String("to", to), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		utils.GetLogger().Error("whatsapp send rejected",
			zap.String("to", to), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("whatsapp send returned status %d", resp.StatusCode)
	}
	return nil
}
