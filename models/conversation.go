package models

import "time"

// MaxHistoryTurns bounds the dialog history kept per conversation.
const MaxHistoryTurns = 10

// Turn roles.
const (
	TurnUser      = "user"
	TurnAssistant = "assistant"
)

// Turn is one message in a conversation, oldest-first in History.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the per-phone dialog state. It is created on the first
// inbound message and never deleted; dialog-state loss is survivable because
// the slot service, not this cache, is the source of booking truth.
type Conversation struct {
	Phone                 string     `json:"phone"`
	StateLabel            string     `json:"state_label"`
	History               []Turn     `json:"history"`
	CurrentSlotID         string     `json:"current_slot_id,omitempty"`
	HoldExpiresAt         *time.Time `json:"hold_expires_at,omitempty"`
	SelectedDate          string     `json:"selected_date,omitempty"`
	SelectedDurationHours float64    `json:"selected_duration_hours,omitempty"`
	PendingCustomerName   string     `json:"pending_customer_name,omitempty"`
	LastBookingID         string     `json:"last_booking_id,omitempty"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Append records a turn and trims history to the last MaxHistoryTurns entries.
func (c *Conversation) Append(role, content string, at time.Time) {
	c.History = append(c.History, Turn{Role: role, Content: content, Timestamp: at})
	if n := len(c.History); n > MaxHistoryTurns {
		c.History = c.History[n-MaxHistoryTurns:]
	}
	c.UpdatedAt = at
}

// LastAssistantTurn returns the most recent assistant message, or "".
func (c *Conversation) LastAssistantTurn() string {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].Role == TurnAssistant {
			return c.History[i].Content
		}
	}
	return ""
}
