// Package whatsapp is the chat channel adapter: it parses the provider's
// inbound webhook envelope, deduplicates messages by provider id, and sends
// outbound texts. Everything else about the channel stays out of the agent.
package whatsapp

import "encoding/json"

// InboundMessage is a single user text extracted from a webhook delivery.
type InboundMessage struct {
	From      string // E.164 phone
	MessageID string // provider message id, dedup key
	Text      string
}

type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseInbound extracts user texts from a raw webhook payload. Malformed or
// non-text payloads yield an empty slice, never an error: the webhook must
// ack with 200 regardless, or the provider retries forever.
func ParseInbound(body []byte) []InboundMessage {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}

	var out []InboundMessage
	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.From == "" || msg.Text.Body == "" {
					continue
				}
				out = append(out, InboundMessage{
					From:      msg.From,
					MessageID: msg.ID,
					Text:      msg.Text.Body,
				})
			}
		}
	}
	return out
}
