package models

import "time"

// Payment statuses.
const (
	PaymentUploaded = "uploaded"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// Payment is an opaque screenshot claim. The engine only depends on its
// existence for the locked → pending transition; amounts are never reconciled
// against a ledger.
type Payment struct {
	ID            string    `bson:"id" json:"id"`
	SlotID        string    `bson:"slotId" json:"slot_id"`
	UserID        string    `bson:"userId" json:"user_id"`
	VendorID      string    `bson:"vendorId" json:"vendor_id"`
	ScreenshotURL string    `bson:"screenshotUrl" json:"screenshot_url"`
	AmountClaimed int64     `bson:"amountClaimed" json:"amount_claimed"`
	Status        string    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"createdAt" json:"created_at"`
}
