// File: database/repository/slot/memory.go
package slotRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookwala/models"

	"github.com/google/uuid"
)

// MemorySlotRepo is a mutex-guarded map implementation of Repository with the
// same conditional-write semantics as the Mongo store. Used by tests and by
// local development without a database.
type MemorySlotRepo struct {
	mu    sync.Mutex
	slots map[string]models.Slot
}

// NewMemorySlotRepo constructs an empty in-memory Repository.
func NewMemorySlotRepo() *MemorySlotRepo {
	return &MemorySlotRepo{slots: make(map[string]models.Slot)}
}

func (r *MemorySlotRepo) Insert(ctx context.Context, slot *models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	r.slots[slot.ID] = *slot
	return nil
}

func (r *MemorySlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (r *MemorySlotRepo) ListByVendorDate(ctx context.Context, vendorID, date string, statuses []string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, row := range r.slots {
		if row.VendorID == vendorID && row.Date == date && statusIn(row.Status, statuses) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *MemorySlotRepo) ListByUser(ctx context.Context, userID string, statuses []string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, row := range r.slots {
		if row.UserID == userID && statusIn(row.Status, statuses) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (r *MemorySlotRepo) ListLockedExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Slot
	for _, row := range r.slots {
		if row.Status == models.SlotLocked && row.HoldExpiresAt != nil && row.HoldExpiresAt.Before(cutoff) {
			out = append(out, row)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *MemorySlotRepo) FindByVendorDateTime(ctx context.Context, vendorID, date, hhmm string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Prefer an available row when several share the start time (a cancelled
	// row plus its replacement).
	var fallback *models.Slot
	for id := range r.slots {
		row := r.slots[id]
		if row.VendorID != vendorID || row.Date != date || row.Time != hhmm {
			continue
		}
		if row.Status == models.SlotCancelled {
			continue
		}
		if row.Status == models.SlotAvailable {
			return &row, nil
		}
		if fallback == nil {
			copied := row
			fallback = &copied
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNotFound
}

func (r *MemorySlotRepo) Replace(ctx context.Context, updated *models.Slot, prevVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceLocked(updated, prevVersion)
}

func (r *MemorySlotRepo) ReplaceAndInsert(ctx context.Context, updated *models.Slot, prevVersion int, replacement *models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.replaceLocked(updated, prevVersion); err != nil {
		return err
	}
	if replacement.ID == "" {
		replacement.ID = uuid.NewString()
	}
	r.slots[replacement.ID] = *replacement
	return nil
}

func (r *MemorySlotRepo) replaceLocked(updated *models.Slot, prevVersion int) error {
	current, ok := r.slots[updated.ID]
	if !ok || current.Version != prevVersion {
		return ErrConflict
	}
	r.slots[updated.ID] = *updated
	return nil
}

func (r *MemorySlotRepo) EnsureIndexes() error { return nil }

// Count reports how many rows match the status, for test assertions.
func (r *MemorySlotRepo) Count(status string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.slots {
		if row.Status == status {
			n++
		}
	}
	return n
}

func statusIn(status string, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
