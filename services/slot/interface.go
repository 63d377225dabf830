package slot

import (
	"context"
	"time"

	slotRepo "bookwala/database/repository/slot"
	"bookwala/models"
)

// Actor identifies who asked for a cancellation. Chat callers have no user
// account on the row and are matched by the customer phone instead.
type Actor struct {
	UserID   string
	VendorID string
	Phone    string
}

// CustomerInfo is the walk-in/chat identity attached to a direct confirmation.
type CustomerInfo struct {
	Name  string
	Phone string
}

// Service enforces the slot state machine. Every method performs exactly one
// state transition inside one conditional store write; a lost race surfaces
// as a conflict error, never as a silent retry.
type Service interface {
	Lock(ctx context.Context, slotID, userID, source string) (*models.Slot, error)
	Release(ctx context.Context, slotID, userID string) (*models.Slot, error)
	SubmitPayment(ctx context.Context, slotID, userID, paymentID string) (*models.Slot, error)
	Confirm(ctx context.Context, slotID, vendorID string) (*models.Slot, error)
	Reject(ctx context.Context, slotID, vendorID, reason string) (*models.Slot, error)
	Cancel(ctx context.Context, slotID string, actor Actor) (*models.Slot, error)
	Complete(ctx context.Context, slotID, vendorID string) (*models.Slot, error)
	Block(ctx context.Context, slotID, vendorID, reason string) (*models.Slot, error)
	Unblock(ctx context.Context, slotID, vendorID string) (*models.Slot, error)
	ManualBooking(ctx context.Context, slotID, vendorID string, info CustomerInfo) (*models.Slot, error)
	CheckAndBook(ctx context.Context, vendorID, date, hhmm string, info CustomerInfo) (*models.Slot, error)

	// ExpireLock releases a locked slot whose hold has lapsed; used by the
	// sweeper and by availability reads to self-heal. A conflict means
	// someone else already acted on the row and is not an error for callers.
	ExpireLock(ctx context.Context, s *models.Slot) (*models.Slot, error)
	// SweepExpired releases up to batch expired locks and returns how many.
	SweepExpired(ctx context.Context, batch int) (int, error)

	GetSlot(ctx context.Context, slotID string) (*models.Slot, error)
	ListUserSlots(ctx context.Context, userID string, statuses []string) ([]models.Slot, error)
	HoldTTL() time.Duration
}

// DefaultSlotService is the production Service over the Mongo-backed slot store.
type DefaultSlotService struct {
	Repo    slotRepo.Repository
	HoldFor time.Duration    // lock TTL, default 10 minutes
	Now     func() time.Time // injectable clock
}

func (s *DefaultSlotService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// HoldTTL reports the configured lock TTL.
func (s *DefaultSlotService) HoldTTL() time.Duration {
	if s.HoldFor > 0 {
		return s.HoldFor
	}
	return 10 * time.Minute
}
