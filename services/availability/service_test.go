package availability

import (
	"context"
	"testing"
	"time"

	slotRepo "bookwala/database/repository/slot"
	"bookwala/models"
	"bookwala/services/rules"
	"bookwala/services/slot"
)

func seedSlot(t *testing.T, repo *slotRepo.MemorySlotRepo, id, date, hhmm, status string) {
	t.Helper()
	start, err := time.Parse(time.RFC3339, date+"T"+hhmm+":00Z")
	if err != nil {
		t.Fatalf("bad seed time: %v", err)
	}
	s := &models.Slot{
		ID:         id,
		VendorID:   "ace_padel_dha",
		ServiceID:  "padel_60",
		ResourceID: "ace_court_1",
		Date:       date,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Time:       hhmm,
		Price:      2000,
		Status:     status,
	}
	if err := repo.Insert(context.Background(), s); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
}

func newTestService(repo *slotRepo.MemorySlotRepo, at time.Time) (*DefaultAvailabilityService, *time.Time) {
	clock := at
	now := func() time.Time { return clock }
	slots := &slot.DefaultSlotService{Repo: repo, Now: now}
	return &DefaultAvailabilityService{Repo: repo, Slots: slots, Now: now}, &clock
}

func TestListAvailableSelfHealsExpiredLocks(t *testing.T) {
	ctx := context.Background()
	repo := slotRepo.NewMemorySlotRepo()
	seedSlot(t, repo, "open", "2025-12-17", "07:00", models.SlotAvailable)
	seedSlot(t, repo, "held", "2025-12-17", "08:00", models.SlotAvailable)
	svc, clock := newTestService(repo, time.Date(2025, 12, 17, 6, 0, 0, 0, time.UTC))

	if _, err := svc.Slots.Lock(ctx, "held", "u1", models.SourceApp); err != nil {
		t.Fatalf("lock: %v", err)
	}

	// Live hold: the locked slot stays hidden.
	open, err := svc.ListAvailable(ctx, "ace_padel_dha", "2025-12-17")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(open) != 1 || open[0].ID != "open" {
		t.Fatalf("live hold leaked into availability: %+v", open)
	}

	// Past the TTL the read itself releases the row and includes it.
	*clock = clock.Add(11 * time.Minute)
	open, err = svc.ListAvailable(ctx, "ace_padel_dha", "2025-12-17")
	if err != nil {
		t.Fatalf("list after expiry: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expired lock not healed: %+v", open)
	}
	healed, err := repo.GetByID(ctx, "held")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if healed.Status != models.SlotAvailable || healed.UserID != "" {
		t.Fatalf("healed row still held: %+v", healed)
	}
}

func TestListAvailableFilteredWindowAndDuration(t *testing.T) {
	ctx := context.Background()
	repo := slotRepo.NewMemorySlotRepo()
	// 09:00 and 11:00 open; 10:00 confirmed. A 2-hour play starting 09:00
	// would run into the 10:00 booking, so only 11:00 survives.
	seedSlot(t, repo, "nine", "2025-12-17", "09:00", models.SlotAvailable)
	seedSlot(t, repo, "ten", "2025-12-17", "10:00", models.SlotConfirmed)
	seedSlot(t, repo, "eleven", "2025-12-17", "11:00", models.SlotAvailable)
	svc, _ := newTestService(repo, time.Date(2025, 12, 17, 6, 0, 0, 0, time.UTC))

	open, err := svc.ListAvailableFiltered(ctx, "ace_padel_dha", "2025-12-17",
		rules.TimeWindow{}, 2)
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(open) != 1 || open[0].ID != "eleven" {
		t.Fatalf("duration filter kept the wrong slots: %+v", open)
	}

	// Window filter alone.
	open, err = svc.ListAvailableFiltered(ctx, "ace_padel_dha", "2025-12-17",
		rules.TimeWindow{Start: "10:00", End: "12:00"}, 0)
	if err != nil {
		t.Fatalf("window list: %v", err)
	}
	if len(open) != 1 || open[0].ID != "eleven" {
		t.Fatalf("window filter kept the wrong slots: %+v", open)
	}
}

func TestNextAvailableDateFallback(t *testing.T) {
	ctx := context.Background()
	repo := slotRepo.NewMemorySlotRepo()
	// Nothing on the 18th; first open inventory on the 20th.
	seedSlot(t, repo, "taken", "2025-12-18", "07:00", models.SlotConfirmed)
	seedSlot(t, repo, "future", "2025-12-20", "07:00", models.SlotAvailable)
	svc, _ := newTestService(repo, time.Date(2025, 12, 17, 12, 0, 0, 0, time.UTC))

	date, slots, err := svc.NextAvailableDate(ctx, "ace_padel_dha", "2025-12-18", 7)
	if err != nil {
		t.Fatalf("next available: %v", err)
	}
	if date != "2025-12-20" {
		t.Fatalf("next available date = %q, want 2025-12-20", date)
	}
	if len(slots) != 1 || slots[0].ID != "future" {
		t.Fatalf("unexpected fallback slots: %+v", slots)
	}

	// Empty horizon reports cleanly.
	date, slots, err = svc.NextAvailableDate(ctx, "ace_padel_dha", "2026-03-01", 7)
	if err != nil {
		t.Fatalf("empty horizon: %v", err)
	}
	if date != "" || slots != nil {
		t.Fatalf("empty horizon returned %q / %+v", date, slots)
	}
}

func TestVendorScheduleGroupsByDate(t *testing.T) {
	ctx := context.Background()
	repo := slotRepo.NewMemorySlotRepo()
	seedSlot(t, repo, "a", "2025-12-17", "07:00", models.SlotConfirmed)
	seedSlot(t, repo, "b", "2025-12-17", "08:00", models.SlotPending)
	seedSlot(t, repo, "c", "2025-12-18", "07:00", models.SlotCompleted)
	seedSlot(t, repo, "d", "2025-12-18", "09:00", models.SlotAvailable) // not booked
	svc, _ := newTestService(repo, time.Date(2025, 12, 17, 6, 0, 0, 0, time.UTC))

	schedule, err := svc.VendorSchedule(ctx, "ace_padel_dha", "2025-12-17", "2025-12-19")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(schedule) != 2 {
		t.Fatalf("schedule covers %d dates, want 2: %+v", len(schedule), schedule)
	}
	if len(schedule["2025-12-17"]) != 2 || len(schedule["2025-12-18"]) != 1 {
		t.Fatalf("unexpected grouping: %+v", schedule)
	}
}
