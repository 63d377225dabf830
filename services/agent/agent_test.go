package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	slotRepo "bookwala/database/repository/slot"
	userRepo "bookwala/database/repository/user"
	"bookwala/models"
	"bookwala/services/availability"
	"bookwala/services/slot"
)

// fakeNLU scripts the model per test.
type fakeNLU struct {
	classify func(text string) (*models.IntentResult, error)
	generate func(req models.ReplyRequest) (string, error)
}

func (f *fakeNLU) Classify(ctx context.Context, text string, history []models.Turn) (*models.IntentResult, error) {
	if f.classify == nil {
		return nil, errors.New("model unreachable")
	}
	return f.classify(text)
}

func (f *fakeNLU) Generate(ctx context.Context, req models.ReplyRequest) (string, error) {
	if f.generate == nil {
		return "", errors.New("model unreachable")
	}
	return f.generate(req)
}

// memConvo is an in-memory conversation store.
type memConvo struct {
	byPhone map[string]models.Conversation
}

func newMemConvo() *memConvo { return &memConvo{byPhone: make(map[string]models.Conversation)} }

func (m *memConvo) Get(ctx context.Context, phone string) (*models.Conversation, error) {
	if c, ok := m.byPhone[phone]; ok {
		copied := c
		return &copied, nil
	}
	return &models.Conversation{Phone: phone, StateLabel: "greeting"}, nil
}

func (m *memConvo) Save(ctx context.Context, c *models.Conversation) error {
	m.byPhone[c.Phone] = *c
	return nil
}

// fakeVendors serves one fixed vendor.
type fakeVendors struct {
	vendor models.Vendor
}

func (f *fakeVendors) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	if id != f.vendor.ID {
		return nil, errors.New("vendor not found")
	}
	v := f.vendor
	return &v, nil
}

func (f *fakeVendors) List(ctx context.Context, serviceType, area string, limit, offset int64) ([]models.Vendor, error) {
	return []models.Vendor{f.vendor}, nil
}

func (f *fakeVendors) FindByName(ctx context.Context, name string) (*models.Vendor, error) {
	if strings.Contains(strings.ToLower(f.vendor.Name), strings.ToLower(name)) {
		v := f.vendor
		return &v, nil
	}
	return nil, errors.New("vendor not found")
}

func (f *fakeVendors) First(ctx context.Context) (*models.Vendor, error) {
	v := f.vendor
	return &v, nil
}

// fakeUsers is a map-backed user repository.
type fakeUsers struct {
	byPhone map[string]models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byPhone: make(map[string]models.User)} }

func (f *fakeUsers) Create(ctx context.Context, u *models.User) error {
	if _, ok := f.byPhone[u.Phone]; ok {
		return userRepo.ErrDuplicate
	}
	f.byPhone[u.Phone] = *u
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byPhone {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, userRepo.ErrNotFound
}

func (f *fakeUsers) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	if u, ok := f.byPhone[phone]; ok {
		copied := u
		return &copied, nil
	}
	return nil, userRepo.ErrNotFound
}

func (f *fakeUsers) UpdatePasswordHash(ctx context.Context, id, hash string) error { return nil }
func (f *fakeUsers) EnsureIndexes() error                                          { return nil }

func seedAgent(t *testing.T, nluEngine *fakeNLU) (*Agent, *slotRepo.MemorySlotRepo) {
	t.Helper()
	repo := slotRepo.NewMemorySlotRepo()
	start, _ := time.Parse(time.RFC3339, "2025-12-17T07:00:00Z")
	if err := repo.Insert(context.Background(), &models.Slot{
		ID:         "slot_0700",
		VendorID:   "ace_padel_dha",
		ServiceID:  "padel_60",
		ResourceID: "ace_court_1",
		Date:       "2025-12-17",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Time:       "07:00",
		Price:      2000,
		Status:     models.SlotAvailable,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	now := func() time.Time { return time.Date(2025, 12, 16, 18, 0, 0, 0, time.UTC) }
	slots := &slot.DefaultSlotService{Repo: repo, Now: now}
	avail := &availability.DefaultAvailabilityService{Repo: repo, Slots: slots, Now: now}

	ag := &Agent{
		NLU:          nluEngine,
		Convo:        newMemConvo(),
		Availability: avail,
		Slots:        slots,
		Vendors: &fakeVendors{vendor: models.Vendor{
			ID:   "ace_padel_dha",
			Name: "Ace Padel DHA",
			Area: "DHA Phase 6",
		}},
		Users:           newFakeUsers(),
		DefaultVendorID: "ace_padel_dha",
		Location:        time.UTC,
		Now:             now,
	}
	return ag, repo
}

func TestHappyPathChatBooking(t *testing.T) {
	ctx := context.Background()
	phone := "+923001234567"

	nluEngine := &fakeNLU{
		classify: func(text string) (*models.IntentResult, error) {
			switch {
			case strings.Contains(text, "koi slot"):
				return &models.IntentResult{
					Intent:     models.IntentAvailability,
					Confidence: 0.9,
					Entities:   map[string]string{models.EntityDate: "kal"},
				}, nil
			case strings.Contains(text, "book"):
				return &models.IntentResult{
					Intent:     models.IntentBooking,
					Confidence: 0.9,
					Entities: map[string]string{
						models.EntityTime:         "7 subah",
						models.EntityCustomerName: "Ahmed",
					},
				}, nil
			}
			return &models.IntentResult{Intent: models.IntentUnknown}, nil
		},
		// No generate: replies come from the deterministic templates.
	}
	ag, repo := seedAgent(t, nluEngine)

	// Turn 1: greeting, no slot mutation.
	reply, err := ag.HandleMessage(ctx, phone, "Aoa")
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}
	if reply == "" {
		t.Fatal("turn 1 produced no reply")
	}
	if repo.Count(models.SlotAvailable) != 1 {
		t.Fatal("greeting mutated inventory")
	}
	conv, _ := ag.Convo.Get(ctx, phone)
	if conv.StateLabel != models.IntentGreeting {
		t.Fatalf("state after greeting = %q", conv.StateLabel)
	}

	// Turn 2: availability for tomorrow; reply lists 07:00, still no mutation.
	reply, err = ag.HandleMessage(ctx, phone, "koi slot hei kal?")
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	if !strings.Contains(reply, "07:00") {
		t.Fatalf("availability reply omits the open slot: %q", reply)
	}
	if repo.Count(models.SlotAvailable) != 1 {
		t.Fatal("availability query mutated inventory")
	}
	conv, _ = ag.Convo.Get(ctx, phone)
	if conv.SelectedDate != "2025-12-17" {
		t.Fatalf("selected date = %q, want 2025-12-17", conv.SelectedDate)
	}

	// Turn 3: booking confirms the slot through the state machine.
	reply, err = ag.HandleMessage(ctx, phone, "book 7 subah wali")
	if err != nil {
		t.Fatalf("turn 3: %v", err)
	}
	if !strings.Contains(reply, "slot_0700") {
		t.Fatalf("booking reply omits the booking reference: %q", reply)
	}
	booked, err := repo.GetByID(ctx, "slot_0700")
	if err != nil {
		t.Fatalf("get booked: %v", err)
	}
	if booked.Status != models.SlotConfirmed {
		t.Fatalf("slot status = %q, want confirmed", booked.Status)
	}
	if booked.CustomerPhone != phone || booked.CustomerName != "Ahmed" {
		t.Fatalf("booking identity wrong: %+v", booked)
	}
	if booked.BookingSource != models.SourceChat {
		t.Fatalf("booking source = %q, want chat", booked.BookingSource)
	}

	conv, _ = ag.Convo.Get(ctx, phone)
	if conv.LastBookingID != "slot_0700" {
		t.Fatalf("conversation did not record the booking: %+v", conv)
	}
	if len(conv.History) != 6 {
		t.Fatalf("history length = %d, want 6", len(conv.History))
	}
}

func TestGreetingLivenessWithDeadModel(t *testing.T) {
	ctx := context.Background()
	// Both NLU capabilities fail.
	ag, _ := seedAgent(t, &fakeNLU{})

	for _, msg := range []string{"hi", "Hello", "AOA", "salam", "hey!"} {
		reply, err := ag.HandleMessage(ctx, "+923000000001", msg)
		if err != nil {
			t.Fatalf("greeting %q: %v", msg, err)
		}
		if reply == "" {
			t.Fatalf("greeting %q produced no reply", msg)
		}
		conv, _ := ag.Convo.Get(ctx, "+923000000001")
		if conv.StateLabel != models.IntentGreeting {
			t.Fatalf("greeting %q classified as %q", msg, conv.StateLabel)
		}
	}
}

func TestBookingConflictOffersAlternatives(t *testing.T) {
	ctx := context.Background()
	nluEngine := &fakeNLU{
		classify: func(text string) (*models.IntentResult, error) {
			return &models.IntentResult{
				Intent:     models.IntentBooking,
				Confidence: 0.9,
				Entities: map[string]string{
					models.EntityDate: "2025-12-17",
					models.EntityTime: "07:00",
				},
			}, nil
		},
	}
	ag, repo := seedAgent(t, nluEngine)

	// Another open slot the same day, plus the 07:00 one already taken.
	start, _ := time.Parse(time.RFC3339, "2025-12-17T09:00:00Z")
	if err := repo.Insert(ctx, &models.Slot{
		ID: "slot_0900", VendorID: "ace_padel_dha", ResourceID: "ace_court_1",
		Date: "2025-12-17", StartTime: start, EndTime: start.Add(time.Hour),
		Time: "09:00", Price: 2000, Status: models.SlotAvailable,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := ag.Slots.CheckAndBook(ctx, "ace_padel_dha", "2025-12-17", "07:00",
		slot.CustomerInfo{Name: "First", Phone: "+923008888888"}); err != nil {
		t.Fatalf("pre-book: %v", err)
	}

	reply, err := ag.HandleMessage(ctx, "+923001112222", "book 7 baje")
	if err != nil {
		t.Fatalf("conflicting booking turn: %v", err)
	}
	// The losing caller gets the surviving 09:00 slot offered, and the agent
	// never claims success.
	if !strings.Contains(reply, "09:00") {
		t.Fatalf("conflict reply offers no alternatives: %q", reply)
	}
	if strings.Contains(reply, "confirmed") {
		t.Fatalf("conflict reply claims success: %q", reply)
	}

	taken, _ := repo.GetByID(ctx, "slot_0700")
	if taken.CustomerPhone != "+923008888888" {
		t.Fatalf("original booking was overwritten: %+v", taken)
	}
}

func TestNextDayFallbackSubstitutesDate(t *testing.T) {
	ctx := context.Background()
	ag, repo := seedAgent(t, &fakeNLU{})

	// Nothing bookable on the 20th or 21st; one open slot on the 22nd.
	start, _ := time.Parse(time.RFC3339, "2025-12-22T10:00:00Z")
	if err := repo.Insert(ctx, &models.Slot{
		ID: "slot_1000_22", VendorID: "ace_padel_dha", ResourceID: "ace_court_1",
		Date: "2025-12-22", StartTime: start, EndTime: start.Add(time.Hour),
		Time: "10:00", Price: 2000, Status: models.SlotAvailable,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	st := turnState{
		UserPhone:    "+923001234567",
		Message:      "slot available 20 December?",
		Intent:       models.IntentAvailability,
		SelectedDate: "2025-12-20",
	}
	st = ag.query(ctx, st)

	q := st.Query
	if q == nil || q.Date != "2025-12-22" {
		t.Fatalf("fallback did not substitute the date: %+v", q)
	}
	if q.NextAvailableDate != "2025-12-22" {
		t.Fatalf("next available date = %q, want 2025-12-22", q.NextAvailableDate)
	}
	if q.RequestedDate != "2025-12-20" {
		t.Fatalf("requested date = %q, want 2025-12-20", q.RequestedDate)
	}
	if len(q.Slots) != 1 || q.Slots[0].Time != "10:00" {
		t.Fatalf("fallback slots wrong: %+v", q.Slots)
	}

	// The template reply names the full day and offers the substitute.
	reply := fallbackReply(st)
	if !strings.Contains(reply, "2025-12-20") || !strings.Contains(reply, "2025-12-22") {
		t.Fatalf("fallback reply omits the dates: %q", reply)
	}
}

// catalogVendors is a multi-venue catalog whose List filters like the store.
type catalogVendors struct {
	vendors []models.Vendor
}

func (f *catalogVendors) GetByID(ctx context.Context, id string) (*models.Vendor, error) {
	for _, v := range f.vendors {
		if v.ID == id {
			copied := v
			return &copied, nil
		}
	}
	return nil, errors.New("vendor not found")
}

func (f *catalogVendors) List(ctx context.Context, serviceType, area string, limit, offset int64) ([]models.Vendor, error) {
	var out []models.Vendor
	for _, v := range f.vendors {
		if area != "" && !strings.EqualFold(v.Area, area) {
			continue
		}
		if serviceType != "" {
			match := false
			for _, svc := range v.Services {
				if strings.EqualFold(svc.SportType, serviceType) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, v)
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *catalogVendors) FindByName(ctx context.Context, name string) (*models.Vendor, error) {
	for _, v := range f.vendors {
		if strings.Contains(strings.ToLower(v.Name), strings.ToLower(name)) {
			copied := v
			return &copied, nil
		}
	}
	return nil, errors.New("vendor not found")
}

func (f *catalogVendors) First(ctx context.Context) (*models.Vendor, error) {
	v := f.vendors[0]
	return &v, nil
}

func TestAreaScopedVendorResolution(t *testing.T) {
	ctx := context.Background()
	ag, _ := seedAgent(t, &fakeNLU{})
	ag.Vendors = &catalogVendors{vendors: []models.Vendor{
		{ID: "ace_padel_dha", Name: "Ace Padel DHA", Area: "DHA Phase 6",
			Services: []models.Service{{SportType: "padel"}}},
		{ID: "gulberg_arena", Name: "Gulberg Arena", Area: "Gulberg",
			Services: []models.Service{{SportType: "futsal"}}},
	}}

	// An area mention overrides the configured default venue.
	st := turnState{
		UserPhone:    "+923001234567",
		Intent:       models.IntentAvailability,
		SelectedDate: "2025-12-17",
		Entities: map[string]string{
			models.EntityArea:        "Gulberg",
			models.EntityServiceType: "futsal",
		},
	}
	st = ag.query(ctx, st)
	if st.VendorID != "gulberg_arena" {
		t.Fatalf("resolved vendor = %q, want gulberg_arena", st.VendorID)
	}

	// Without an area the default venue still wins.
	st = turnState{
		UserPhone:    "+923001234567",
		Intent:       models.IntentAvailability,
		SelectedDate: "2025-12-17",
	}
	st = ag.query(ctx, st)
	if st.VendorID != "ace_padel_dha" {
		t.Fatalf("resolved vendor = %q, want ace_padel_dha", st.VendorID)
	}
}

func TestCancellationResolvesLastBooking(t *testing.T) {
	ctx := context.Background()
	phone := "+923001234567"

	nluEngine := &fakeNLU{
		classify: func(text string) (*models.IntentResult, error) {
			if strings.Contains(text, "cancel") {
				return &models.IntentResult{Intent: models.IntentCancellation, Confidence: 0.9}, nil
			}
			return &models.IntentResult{
				Intent:     models.IntentBooking,
				Confidence: 0.9,
				Entities: map[string]string{
					models.EntityDate:         "2025-12-17",
					models.EntityTime:         "07:00",
					models.EntityCustomerName: "Ahmed",
				},
			}, nil
		},
	}
	ag, repo := seedAgent(t, nluEngine)

	if _, err := ag.HandleMessage(ctx, phone, "book 07:00 please"); err != nil {
		t.Fatalf("booking turn: %v", err)
	}
	conv, _ := ag.Convo.Get(ctx, phone)
	if conv.LastBookingID != "slot_0700" {
		t.Fatalf("booking not recorded: %+v", conv)
	}

	reply, err := ag.HandleMessage(ctx, phone, "cancel my booking")
	if err != nil {
		t.Fatalf("cancellation turn: %v", err)
	}
	if !strings.Contains(reply, "cancelled") {
		t.Fatalf("cancellation reply does not report the cancel: %q", reply)
	}

	cancelled, err := repo.GetByID(ctx, "slot_0700")
	if err != nil {
		t.Fatalf("get cancelled: %v", err)
	}
	if cancelled.Status != models.SlotCancelled {
		t.Fatalf("slot status = %q, want cancelled", cancelled.Status)
	}
	// The replacement row reopened the window.
	if repo.Count(models.SlotAvailable) != 1 {
		t.Fatal("cancellation did not reopen the window")
	}
	conv, _ = ag.Convo.Get(ctx, phone)
	if conv.LastBookingID != "" {
		t.Fatalf("booking id not cleared after cancel: %+v", conv)
	}

	// A second cancel has nothing to resolve and must not claim success.
	reply, err = ag.HandleMessage(ctx, phone, "cancel my booking")
	if err != nil {
		t.Fatalf("repeat cancellation turn: %v", err)
	}
	if !strings.Contains(reply, "Which booking") {
		t.Fatalf("repeat cancel should ask for clarification: %q", reply)
	}
}

func TestUnknownIntentAsksClarifyingQuestion(t *testing.T) {
	ctx := context.Background()
	ag, repo := seedAgent(t, &fakeNLU{}) // classify fails → unknown

	reply, err := ag.HandleMessage(ctx, "+923004445555", "asdfgh qwerty")
	if err != nil {
		t.Fatalf("unknown turn: %v", err)
	}
	if reply == "" {
		t.Fatal("unknown intent produced no reply")
	}
	if repo.Count(models.SlotAvailable) != 1 {
		t.Fatal("unknown intent mutated inventory")
	}
}
