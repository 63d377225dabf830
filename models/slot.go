package models

import "time"

// Slot statuses. Transitions between them are enforced by services/slot.
const (
	SlotAvailable = "available"
	SlotLocked    = "locked"
	SlotPending   = "pending"
	SlotConfirmed = "confirmed"
	SlotCompleted = "completed"
	SlotCancelled = "cancelled"
	SlotBlocked   = "blocked"
)

// Booking sources.
const (
	SourceApp    = "app"
	SourceChat   = "chat"
	SourceManual = "manual"
)

// Slot is a single reservable unit: one resource, one time window, one vendor.
// Price and ResourceID never change after creation. Version is bumped on every
// write and is the optimistic-concurrency token for conditional updates.
type Slot struct {
	ID         string `bson:"id" json:"id"`
	VendorID   string `bson:"vendorId" json:"vendor_id"`
	ServiceID  string `bson:"serviceId" json:"service_id"`
	ResourceID string `bson:"resourceId" json:"resource_id"`

	Date      string    `bson:"date" json:"date"`            // vendor-local civil date, YYYY-MM-DD
	StartTime time.Time `bson:"startTime" json:"start_time"` // UTC instant
	EndTime   time.Time `bson:"endTime" json:"end_time"`     // UTC instant
	Time      string    `bson:"time" json:"time"`            // vendor-local HH:MM of StartTime

	Price  int64  `bson:"price" json:"price"` // minor currency units
	Status string `bson:"status" json:"status"`

	UserID        string     `bson:"userId,omitempty" json:"user_id,omitempty"`
	PaymentID     string     `bson:"paymentId,omitempty" json:"payment_id,omitempty"`
	HoldExpiresAt *time.Time `bson:"holdExpiresAt,omitempty" json:"hold_expires_at,omitempty"`

	CustomerName  string `bson:"customerName,omitempty" json:"customer_name,omitempty"`
	CustomerPhone string `bson:"customerPhone,omitempty" json:"customer_phone,omitempty"`
	BookingSource string `bson:"bookingSource,omitempty" json:"booking_source,omitempty"`

	BlockReason  string     `bson:"blockReason,omitempty" json:"block_reason,omitempty"`
	CancelReason string     `bson:"cancelReason,omitempty" json:"cancel_reason,omitempty"`
	CancelledBy  string     `bson:"cancelledBy,omitempty" json:"cancelled_by,omitempty"`
	CompletedAt  *time.Time `bson:"completedAt,omitempty" json:"completed_at,omitempty"`

	Version   int       `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// HoldExpired reports whether a locked slot's hold has lapsed at the given instant.
func (s *Slot) HoldExpired(now time.Time) bool {
	return s.Status == SlotLocked && s.HoldExpiresAt != nil && s.HoldExpiresAt.Before(now)
}

// Terminal reports whether the slot row may never be mutated again.
func (s *Slot) Terminal() bool {
	return s.Status == SlotCompleted || s.Status == SlotCancelled
}
