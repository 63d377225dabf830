// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"
	"time"

	"bookwala/database"
	"bookwala/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no slot matches the given key.
var ErrNotFound = errors.New("slot not found")

// ErrConflict is returned when a conditional write matched no document
// because the row changed since it was read. Callers must surface this as
// "slot no longer available"; silent retries are not permitted.
var ErrConflict = errors.New("slot changed since read")

// Repository is the slot store. All writes are single-row conditional
// replacements keyed on (id, version); a version mismatch yields ErrConflict.
type Repository interface {
	Insert(ctx context.Context, slot *models.Slot) error
	GetByID(ctx context.Context, id string) (*models.Slot, error)

	// ListByVendorDate returns slots for a vendor-local civil date, optionally
	// filtered by status, sorted ascending by start time.
	ListByVendorDate(ctx context.Context, vendorID, date string, statuses []string) ([]models.Slot, error)
	// ListByUser returns a user's slots in the given statuses, newest first.
	ListByUser(ctx context.Context, userID string, statuses []string) ([]models.Slot, error)
	// ListLockedExpired returns up to limit locked slots whose hold lapsed
	// before cutoff.
	ListLockedExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Slot, error)
	// FindByVendorDateTime resolves a slot by its vendor-local start time.
	FindByVendorDateTime(ctx context.Context, vendorID, date, hhmm string) (*models.Slot, error)

	// Replace overwrites the slot document iff its stored version equals
	// prevVersion. The caller must have already bumped updated.Version.
	Replace(ctx context.Context, updated *models.Slot, prevVersion int) error
	// ReplaceAndInsert performs Replace and inserts the replacement slot in
	// one multi-document transaction. Used by cancel and reject, which must
	// conserve inventory atomically.
	ReplaceAndInsert(ctx context.Context, updated *models.Slot, prevVersion int, replacement *models.Slot) error

	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB slot Repository.
func NewMongoSlotRepo() Repository {
	db := database.MongoClient.Database("bookwala")
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
