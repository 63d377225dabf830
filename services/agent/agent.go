// File: services/agent/agent.go
package agent

import (
	"context"
	"time"

	userRepo "bookwala/database/repository/user"
	vendorRepo "bookwala/database/repository/vendor"
	"bookwala/models"
	"bookwala/services/availability"
	"bookwala/services/convo"
	"bookwala/services/nlu"
	"bookwala/services/slot"
	"bookwala/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Agent orchestrates one conversation turn end to end.
type Agent struct {
	NLU          nlu.Engine
	Convo        convo.Store
	Availability availability.Service
	Slots        slot.Service
	Vendors      vendorRepo.Repository
	Users        userRepo.Repository

	// DefaultVendorID scopes single-venue deployments; chats that never name
	// a vendor land here.
	DefaultVendorID string
	// Location is the vendor-local timezone used to resolve "kal" and friends.
	Location *time.Location
	Now      func() time.Time
}

func (a *Agent) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Agent) loc() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.UTC
}

// HandleMessage processes one inbound text and returns the reply to send.
// Conversation state is re-read every turn; two racing turns for the same
// phone converge on the slot store, not on this cache.
func (a *Agent) HandleMessage(ctx context.Context, phone, text string) (string, error) {
	if err := a.provisionUser(ctx, phone); err != nil {
		utils.GetLogger().Warn("chat user provisioning failed",
			zap.String("phone", phone), zap.Error(err))
		// A missing user row never blocks the conversation.
	}

	conv, err := a.Convo.Get(ctx, phone)
	if err != nil {
		return "", err
	}

	st := turnState{UserPhone: phone, Message: text}
	nodes := []node{
		func(s turnState) turnState { return a.classify(ctx, s, conv) },
		func(s turnState) turnState { return a.query(ctx, s) },
		func(s turnState) turnState { return a.respond(ctx, s, conv) },
	}
	for _, n := range nodes {
		st = n(st)
	}

	now := a.now()
	conv.Append(models.TurnUser, text, now)
	conv.Append(models.TurnAssistant, st.Reply, now)
	conv.StateLabel = st.Intent
	if st.SelectedDate != "" {
		conv.SelectedDate = st.SelectedDate
	}
	if st.SelectedDuration > 0 {
		conv.SelectedDurationHours = st.SelectedDuration
	}
	if name := st.entity(models.EntityCustomerName); name != "" {
		conv.PendingCustomerName = name
	}
	if st.Booking != nil && st.Booking.Success {
		conv.LastBookingID = st.Booking.BookingID
		conv.CurrentSlotID = ""
		conv.SelectedDate = ""
		conv.SelectedDurationHours = 0
	}
	if err := a.Convo.Save(ctx, conv); err != nil {
		utils.GetLogger().Warn("conversation save failed",
			zap.String("phone", phone), zap.Error(err))
	}

	return st.Reply, nil
}

// provisionUser creates a customer row on first contact so bookings always
// have a user to hang off.
func (a *Agent) provisionUser(ctx context.Context, phone string) error {
	if _, err := a.Users.GetByPhone(ctx, phone); err == nil {
		return nil
	} else if err != userRepo.ErrNotFound {
		return err
	}

	now := a.now().UTC()
	err := a.Users.Create(ctx, &models.User{
		ID:        uuid.NewString(),
		Phone:     phone,
		Role:      models.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == userRepo.ErrDuplicate {
		return nil // concurrent first message won the insert
	}
	return err
}
