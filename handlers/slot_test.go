package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	slotRepo "bookwala/database/repository/slot"
	"bookwala/middleware"
	"bookwala/models"
	"bookwala/services/slot"
	"bookwala/utils"

	"github.com/gin-gonic/gin"
)

// newSlotRouter wires the slot endpoints behind the real auth middleware, the
// way routes.RegisterSlotRoutes does.
func newSlotRouter(t *testing.T, svc slot.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hb := &HandlerBundle{Slots: svc}
	r := gin.New()
	api := r.Group("/api/slots")
	api.Use(middleware.JWTAuthMiddleware())
	api.POST("/:id/cancel", hb.CancelSlot)

	vendor := api.Group("")
	vendor.Use(middleware.RequireVendor())
	vendor.POST("/:id/confirm", hb.ConfirmSlot)
	return r
}

func bearerFor(t *testing.T, userID, role, vendorID string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, "", role, vendorID, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

func seedSlotRow(t *testing.T, repo *slotRepo.MemorySlotRepo, id, vendorID, status string) {
	t.Helper()
	start, _ := time.Parse(time.RFC3339, "2025-12-17T07:00:00Z")
	if err := repo.Insert(context.Background(), &models.Slot{
		ID:         id,
		VendorID:   vendorID,
		ResourceID: "court_1",
		Date:       "2025-12-17",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Time:       "07:00",
		Price:      2000,
		Status:     status,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func postSlot(r *gin.Engine, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirmActsOnlyForTokenVenue(t *testing.T) {
	ctx := context.Background()
	repo := slotRepo.NewMemorySlotRepo()
	seedSlotRow(t, repo, "s1", "vendor_A", models.SlotPending)
	r := newSlotRouter(t, &slot.DefaultSlotService{Repo: repo})

	// A vendor bound to another venue cannot confirm, even when the body
	// names the slot's real vendor.
	w := postSlot(r, "/api/slots/s1/confirm",
		bearerFor(t, "intruder_user", models.RoleVendor, "other_venue"),
		`{"vendor_id":"vendor_A"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-venue confirm: status = %d, want 403", w.Code)
	}
	row, _ := repo.GetByID(ctx, "s1")
	if row.Status != models.SlotPending {
		t.Fatalf("cross-venue confirm mutated the slot: %+v", row)
	}

	// A vendor token with no venue binding is rejected at the middleware.
	w = postSlot(r, "/api/slots/s1/confirm",
		bearerFor(t, "unbound_user", models.RoleVendor, ""), "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("unbound vendor confirm: status = %d, want 403", w.Code)
	}

	// The venue's own account succeeds.
	w = postSlot(r, "/api/slots/s1/confirm",
		bearerFor(t, "owner_user", models.RoleVendor, "vendor_A"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("own-venue confirm: status = %d, body %s", w.Code, w.Body.String())
	}
	row, _ = repo.GetByID(ctx, "s1")
	if row.Status != models.SlotConfirmed {
		t.Fatalf("own-venue confirm did not land: %+v", row)
	}
}

func TestVendorCancelScopedToTokenVenue(t *testing.T) {
	ctx := context.Background()
	repo := slotRepo.NewMemorySlotRepo()
	seedSlotRow(t, repo, "s1", "vendor_A", models.SlotConfirmed)
	r := newSlotRouter(t, &slot.DefaultSlotService{Repo: repo})

	w := postSlot(r, "/api/slots/s1/cancel",
		bearerFor(t, "intruder_user", models.RoleVendor, "other_venue"),
		`{"vendor_id":"vendor_A"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-venue cancel: status = %d, want 403", w.Code)
	}
	row, _ := repo.GetByID(ctx, "s1")
	if row.Status != models.SlotConfirmed {
		t.Fatalf("cross-venue cancel mutated the slot: %+v", row)
	}

	w = postSlot(r, "/api/slots/s1/cancel",
		bearerFor(t, "owner_user", models.RoleVendor, "vendor_A"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("own-venue cancel: status = %d, body %s", w.Code, w.Body.String())
	}
	row, _ = repo.GetByID(ctx, "s1")
	if row.Status != models.SlotCancelled || row.CancelledBy != "vendor" {
		t.Fatalf("own-venue cancel did not land: %+v", row)
	}
}
