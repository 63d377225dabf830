// Package agent runs the three-node chat pipeline: classify the inbound
// message, query availability, generate the reply. Nodes take the turn state
// by value and return an updated copy; nothing downstream can mutate what an
// earlier node saw.
package agent

import (
	"time"

	"bookwala/models"
)

// turnState is the working context for one inbound message.
type turnState struct {
	UserPhone string
	Message   string

	Intent     string
	Confidence float64
	Entities   map[string]string

	// Normalized selections, merged from this turn's entities and the
	// persisted conversation.
	SelectedDate     string
	SelectedTime     string // HH:MM, window start
	SelectedTimeEnd  string // HH:MM, "" when a single time was named
	SelectedDuration float64

	VendorID string
	Vendor   *models.Vendor

	Query   *models.QueryResult
	Booking *models.BookingOutcome

	Reply string
}

func (s turnState) entity(key string) string {
	if s.Entities == nil {
		return ""
	}
	return s.Entities[key]
}

// node is one pipeline stage.
type node func(st turnState) turnState

// nluTimeout bounds each model call; a slow model degrades to fallbacks, it
// never stalls the webhook worker.
const nluTimeout = 15 * time.Second
