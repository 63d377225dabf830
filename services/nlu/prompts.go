// File: services/nlu/prompts.go
package nlu

import (
	"encoding/json"
	"fmt"
	"strings"

	"bookwala/models"
)

const intentList = `greeting, availability_inquiry, booking_request, price_inquiry,
service_selection, date_selection, time_selection, confirmation, cancellation,
modification, information, payment_related, name_provided, unknown`

const entityList = `service_type, vendor_name, area, date, time, duration,
customer_name, phone_number`

func classifyPrompt(text string, history []models.Turn) string {
	var sb strings.Builder
	sb.WriteString("You classify messages for a sports/venue booking assistant in Pakistan.\n")
	sb.WriteString("Users write in English or Roman Urdu (e.g. 'koi slot hei kal?').\n\n")
	sb.WriteString("Return ONLY a JSON object: {\"intent\": string, \"confidence\": number 0-1, \"entities\": object}.\n")
	sb.WriteString("intent must be one of: " + intentList + "\n")
	sb.WriteString("entities may contain: " + entityList + "\n")
	sb.WriteString("Keep date/time/duration values as the user's words; normalization happens elsewhere.\n")
	sb.WriteString("Only set customer_name when the CURRENT message contains the name. Never take a name from history.\n\n")

	if len(history) > 0 {
		sb.WriteString("Recent conversation:\n")
		for _, turn := range history {
			sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Current message: " + text + "\n")
	return sb.String()
}

func replyPrompt(req models.ReplyRequest) (string, error) {
	bundle, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal reply context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are a friendly booking assistant for sports venues in Pakistan.\n")
	sb.WriteString("Reply in the user's own register: Roman Urdu mixed with English if they used it, plain English otherwise.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Use ONLY the availability and booking data in the context. Never invent slots.\n")
	sb.WriteString("- If the booking result says success, confirm with the booking reference.\n")
	sb.WriteString("- If it failed, say the slot is gone and offer the listed alternatives.\n")
	sb.WriteString("- If availability data is absent, ask one clarifying question instead.\n")
	sb.WriteString("- Keep replies short, WhatsApp style. No markdown.\n\n")
	sb.WriteString("Context:\n")
	sb.Write(bundle)
	sb.WriteString("\n\nReply:")
	return sb.String(), nil
}
