package models

import (
	"fmt"
	"testing"
	"time"
)

func TestConversationAppendTrimsHistory(t *testing.T) {
	c := &Conversation{Phone: "+923001234567"}
	at := time.Date(2025, 12, 16, 12, 0, 0, 0, time.UTC)

	for i := 0; i < MaxHistoryTurns+5; i++ {
		c.Append(TurnUser, fmt.Sprintf("msg %d", i), at.Add(time.Duration(i)*time.Minute))
	}

	if len(c.History) != MaxHistoryTurns {
		t.Fatalf("history length = %d, want %d", len(c.History), MaxHistoryTurns)
	}
	// Oldest turns fall off; the newest survives.
	if c.History[0].Content != "msg 5" {
		t.Fatalf("oldest kept turn = %q, want msg 5", c.History[0].Content)
	}
	if c.History[len(c.History)-1].Content != fmt.Sprintf("msg %d", MaxHistoryTurns+4) {
		t.Fatalf("newest turn = %q", c.History[len(c.History)-1].Content)
	}
	if !c.UpdatedAt.Equal(at.Add(time.Duration(MaxHistoryTurns+4) * time.Minute)) {
		t.Fatalf("UpdatedAt not advanced: %v", c.UpdatedAt)
	}
}

func TestLastAssistantTurn(t *testing.T) {
	c := &Conversation{}
	if got := c.LastAssistantTurn(); got != "" {
		t.Fatalf("empty history returned %q", got)
	}

	at := time.Now()
	c.Append(TurnUser, "koi slot hei?", at)
	c.Append(TurnAssistant, "07:00 available hai", at)
	c.Append(TurnUser, "book it", at)

	if got := c.LastAssistantTurn(); got != "07:00 available hai" {
		t.Fatalf("LastAssistantTurn = %q", got)
	}
}

func TestSlotHoldExpired(t *testing.T) {
	now := time.Date(2025, 12, 16, 12, 0, 0, 0, time.UTC)
	exp := now.Add(-time.Minute)

	s := Slot{Status: SlotLocked, HoldExpiresAt: &exp}
	if !s.HoldExpired(now) {
		t.Fatal("lapsed hold not reported expired")
	}

	future := now.Add(time.Minute)
	s.HoldExpiresAt = &future
	if s.HoldExpired(now) {
		t.Fatal("live hold reported expired")
	}

	s = Slot{Status: SlotAvailable}
	if s.HoldExpired(now) {
		t.Fatal("slot without a hold reported expired")
	}
}
