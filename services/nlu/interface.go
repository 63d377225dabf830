// Package nlu wraps the LLM behind the two capabilities the agent depends
// on: intent/entity extraction and reply generation. The agent knows neither
// the model name nor the transport.
package nlu

import (
	"context"

	"bookwala/models"
)

// Engine is the NLU contract.
type Engine interface {
	// Classify turns the current message plus recent history into an intent
	// and entity map.
	Classify(ctx context.Context, text string, history []models.Turn) (*models.IntentResult, error)
	// Generate produces the outbound natural-language reply for a turn's
	// accumulated context. It must never claim a booking or availability the
	// bundle does not contain.
	Generate(ctx context.Context, req models.ReplyRequest) (string, error)
}
