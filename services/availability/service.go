// Package availability is the read side of the slot engine: listing open
// slots, duration-aware filtering, next-available-day fallback and the
// vendor schedule feed. It shares the no-double-book invariant with the slot
// service by self-healing expired locks inline.
package availability

import (
	"context"
	"time"

	slotRepo "bookwala/database/repository/slot"
	"bookwala/models"
	"bookwala/services/rules"
	"bookwala/services/slot"
	"bookwala/utils"

	"go.uber.org/zap"
)

// Service answers availability queries.
type Service interface {
	ListAvailable(ctx context.Context, vendorID, date string) ([]models.Slot, error)
	ListAvailableFiltered(ctx context.Context, vendorID, date string, window rules.TimeWindow, durationHours float64) ([]models.Slot, error)
	// NextAvailableDate walks forward from the day after anchor, up to
	// horizonDays, and returns the first date with at least one open slot.
	// Returns ("", nil, nil) when the horizon is empty.
	NextAvailableDate(ctx context.Context, vendorID, anchor string, horizonDays int) (string, []models.Slot, error)
	// VendorSchedule groups booked (non-available, non-blocked, non-cancelled)
	// slots by date for vendor dashboards.
	VendorSchedule(ctx context.Context, vendorID, fromDate, toDate string) (map[string][]models.Slot, error)
}

// DefaultAvailabilityService reads through the slot store and leans on the
// slot service for self-heal releases.
type DefaultAvailabilityService struct {
	Repo  slotRepo.Repository
	Slots slot.Service
	Now   func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListAvailable returns open slots for a vendor-local date, ascending by
// start time. Locked slots past their hold are released inline and included
// in the same response.
func (s *DefaultAvailabilityService) ListAvailable(ctx context.Context, vendorID, date string) ([]models.Slot, error) {
	rows, err := s.Repo.ListByVendorDate(ctx, vendorID, date,
		[]string{models.SlotAvailable, models.SlotLocked})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]models.Slot, 0, len(rows))
	for i := range rows {
		row := rows[i]
		if row.Status == models.SlotLocked {
			if !row.HoldExpired(now) {
				continue
			}
			healed, err := s.Slots.ExpireLock(ctx, &row)
			if err != nil {
				// Lost the release race; someone else owns the row now.
				utils.GetLogger().Debug("self-heal skipped",
					zap.String("slotId", row.ID), zap.Error(err))
				continue
			}
			row = *healed
		}
		out = append(out, row)
	}
	return out, nil
}

// ListAvailableFiltered narrows ListAvailable to a time window and removes
// candidates whose duration would collide with another booking on the same
// resource.
func (s *DefaultAvailabilityService) ListAvailableFiltered(ctx context.Context, vendorID, date string, window rules.TimeWindow, durationHours float64) ([]models.Slot, error) {
	open, err := s.ListAvailable(ctx, vendorID, date)
	if err != nil {
		return nil, err
	}

	if window.Start != "" {
		kept := open[:0]
		for _, row := range open {
			if rules.InWindow(row.Time, window) {
				kept = append(kept, row)
			}
		}
		open = kept
	}

	if durationHours <= 0 {
		return open, nil
	}

	booked, err := s.bookedRanges(ctx, vendorID, date)
	if err != nil {
		return nil, err
	}
	return rules.FilterConflictFree(open, booked, durationHours), nil
}

// bookedRanges collects per-resource occupied intervals for a date.
func (s *DefaultAvailabilityService) bookedRanges(ctx context.Context, vendorID, date string) (map[string][]rules.Range, error) {
	rows, err := s.Repo.ListByVendorDate(ctx, vendorID, date,
		[]string{models.SlotLocked, models.SlotPending, models.SlotConfirmed, models.SlotCompleted, models.SlotBlocked})
	if err != nil {
		return nil, err
	}

	now := s.now()
	booked := make(map[string][]rules.Range)
	for i := range rows {
		row := rows[i]
		if row.HoldExpired(now) {
			continue // about to be swept; don't let a dead hold block offers
		}
		start, err := rules.TimeToMinutes(row.Time)
		if err != nil {
			continue
		}
		length := int(row.EndTime.Sub(row.StartTime).Minutes())
		booked[row.ResourceID] = append(booked[row.ResourceID], rules.Range{Start: start, End: start + length})
	}
	return booked, nil
}

// NextAvailableDate finds the nearest future day with open slots so the chat
// agent can offer an alternative instead of declining.
func (s *DefaultAvailabilityService) NextAvailableDate(ctx context.Context, vendorID, anchor string, horizonDays int) (string, []models.Slot, error) {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	for i := 1; i <= horizonDays; i++ {
		date, err := rules.AddDays(anchor, i)
		if err != nil {
			return "", nil, err
		}
		open, err := s.ListAvailable(ctx, vendorID, date)
		if err != nil {
			return "", nil, err
		}
		if len(open) > 0 {
			return date, open, nil
		}
	}
	return "", nil, nil
}

// VendorSchedule enumerates booked slots grouped by date.
func (s *DefaultAvailabilityService) VendorSchedule(ctx context.Context, vendorID, fromDate, toDate string) (map[string][]models.Slot, error) {
	schedule := make(map[string][]models.Slot)
	for date := fromDate; date <= toDate; {
		rows, err := s.Repo.ListByVendorDate(ctx, vendorID, date,
			[]string{models.SlotLocked, models.SlotPending, models.SlotConfirmed, models.SlotCompleted})
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			schedule[date] = rows
		}
		next, err := rules.AddDays(date, 1)
		if err != nil {
			return nil, err
		}
		date = next
	}
	return schedule, nil
}
