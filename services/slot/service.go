package slot

import (
	"context"

	slotRepo "bookwala/database/repository/slot"
	"bookwala/models"
	"bookwala/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// load fetches the row a transition will act on.
func (s *DefaultSlotService) load(ctx context.Context, slotID string) (*models.Slot, error) {
	row, err := s.Repo.GetByID(ctx, slotID)
	if err == slotRepo.ErrNotFound {
		return nil, newError(CodeNotFound, "slot %s not found", slotID)
	}
	if err != nil {
		return nil, newError(CodeUnavailable, "slot store read failed: %v", err)
	}
	return row, nil
}

// commit writes the mutated row conditioned on the version it was read at.
func (s *DefaultSlotService) commit(ctx context.Context, updated *models.Slot, prevVersion int) (*models.Slot, error) {
	updated.Version = prevVersion + 1
	updated.UpdatedAt = s.now()
	err := s.Repo.Replace(ctx, updated, prevVersion)
	if err == slotRepo.ErrConflict {
		return nil, newError(CodeConflict, "slot no longer available")
	}
	if err != nil {
		return nil, newError(CodeUnavailable, "slot store write failed: %v", err)
	}
	return updated, nil
}

// commitWithReplacement is commit plus the atomic insert of a replacement row.
func (s *DefaultSlotService) commitWithReplacement(ctx context.Context, updated *models.Slot, prevVersion int, replacement *models.Slot) (*models.Slot, error) {
	updated.Version = prevVersion + 1
	updated.UpdatedAt = s.now()
	err := s.Repo.ReplaceAndInsert(ctx, updated, prevVersion, replacement)
	if err == slotRepo.ErrConflict {
		return nil, newError(CodeConflict, "slot no longer available")
	}
	if err != nil {
		return nil, newError(CodeUnavailable, "slot store write failed: %v", err)
	}
	return updated, nil
}

// replacementOf builds the fresh available row that conserves inventory when
// a non-available slot is cancelled or rejected. Same resource, window,
// price and vendor; fresh identity and no holder.
func (s *DefaultSlotService) replacementOf(src *models.Slot) *models.Slot {
	now := s.now()
	return &models.Slot{
		ID:         uuid.New().String(),
		VendorID:   src.VendorID,
		ServiceID:  src.ServiceID,
		ResourceID: src.ResourceID,
		Date:       src.Date,
		StartTime:  src.StartTime,
		EndTime:    src.EndTime,
		Time:       src.Time,
		Price:      src.Price,
		Status:     models.SlotAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Lock transitions available → locked and starts the hold timer.
func (s *DefaultSlotService) Lock(ctx context.Context, slotID, userID, source string) (*models.Slot, error) {
	if userID == "" {
		return nil, newError(CodeValidation, "user id is required")
	}
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.Status != models.SlotAvailable {
		return nil, newError(CodeConflict, "slot no longer available")
	}

	upd := *row
	upd.Status = models.SlotLocked
	upd.UserID = userID
	upd.BookingSource = source
	exp := s.now().Add(s.HoldTTL())
	upd.HoldExpiresAt = &exp
	return s.commit(ctx, &upd, row.Version)
}

// Release transitions locked → available; only the holder may release.
func (s *DefaultSlotService) Release(ctx context.Context, slotID, userID string) (*models.Slot, error) {
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.Status != models.SlotLocked {
		return nil, newError(CodeConflict, "slot is not locked")
	}
	if row.UserID != userID {
		return nil, newError(CodeForbidden, "only the holder can release this slot")
	}

	upd := *row
	upd.Status = models.SlotAvailable
	upd.UserID = ""
	upd.BookingSource = ""
	upd.HoldExpiresAt = nil
	return s.commit(ctx, &upd, row.Version)
}

// SubmitPayment transitions locked → pending. An expired hold is released in
// the same call and reported as expired_hold.
func (s *DefaultSlotService) SubmitPayment(ctx context.Context, slotID, userID, paymentID string) (*models.Slot, error) {
	if paymentID == "" {
		return nil, newError(CodeValidation, "payment id is required")
	}
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.Status != models.SlotLocked {
		return nil, newError(CodeConflict, "slot is not locked")
	}
	if row.UserID != userID {
		return nil, newError(CodeForbidden, "only the holder can submit payment for this slot")
	}
	if row.HoldExpired(s.now()) {
		// The hold lapsed under the caller: release the row and fail the call.
		if _, relErr := s.ExpireLock(ctx, row); relErr != nil {
			utils.GetLogger().Warn("failed to release expired hold",
				zap.String("slotId", slotID), zap.Error(relErr))
		}
		return nil, newError(CodeExpiredHold, "your hold expired, please pick again")
	}

	upd := *row
	upd.Status = models.SlotPending
	upd.PaymentID = paymentID
	upd.HoldExpiresAt = nil
	return s.commit(ctx, &upd, row.Version)
}

// Confirm transitions pending → confirmed; only the slot's vendor may confirm.
func (s *DefaultSlotService) Confirm(ctx context.Context, slotID, vendorID string) (*models.Slot, error) {
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.VendorID != vendorID {
		return nil, newError(CodeForbidden, "slot belongs to another vendor")
	}
	if row.Status != models.SlotPending {
		return nil, newError(CodeConflict, "slot is not awaiting confirmation")
	}

	upd := *row
	upd.Status = models.SlotConfirmed
	return s.commit(ctx, &upd, row.Version)
}

// Reject transitions pending → cancelled and conserves inventory with a
// replacement available slot in the same transaction.
func (s *DefaultSlotService) Reject(ctx context.Context, slotID, vendorID, reason string) (*models.Slot, error) {
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.VendorID != vendorID {
		return nil, newError(CodeForbidden, "slot belongs to another vendor")
	}
	if row.Status != models.SlotPending {
		return nil, newError(CodeConflict, "slot is not awaiting confirmation")
	}

	upd := *row
	upd.Status = models.SlotCancelled
	upd.CancelReason = reason
	upd.CancelledBy = "vendor"
	return s.commitWithReplacement(ctx, &upd, row.Version, s.replacementOf(row))
}

// Cancel transitions locked/pending/confirmed → cancelled with a replacement.
// Cancelling an already cancelled slot is a benign no-op error and never
// creates a second replacement.
func (s *DefaultSlotService) Cancel(ctx context.Context, slotID string, actor Actor) (*models.Slot, error) {
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.Status == models.SlotCancelled {
		return nil, newError(CodeConflict, "booking is already cancelled")
	}

	var cancelledBy string
	switch {
	case actor.UserID != "" && row.UserID == actor.UserID:
		cancelledBy = "user"
	case actor.Phone != "" && row.CustomerPhone == actor.Phone:
		cancelledBy = "user"
	case actor.VendorID != "" && row.VendorID == actor.VendorID:
		cancelledBy = "vendor"
	default:
		return nil, newError(CodeForbidden, "not your booking")
	}

	switch row.Status {
	case models.SlotLocked, models.SlotPending, models.SlotConfirmed:
	default:
		return nil, newError(CodeConflict, "slot cannot be cancelled from its current state")
	}

	upd := *row
	upd.Status = models.SlotCancelled
	upd.CancelledBy = cancelledBy
	upd.HoldExpiresAt = nil
	return s.commitWithReplacement(ctx, &upd, row.Version, s.replacementOf(row))
}

// Complete transitions confirmed → completed.
func (s *DefaultSlotService) Complete(ctx context.Context, slotID, vendorID string) (*models.Slot, error) {
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.VendorID != vendorID {
		return nil, newError(CodeForbidden, "slot belongs to another vendor")
	}
	if row.Status != models.SlotConfirmed {
		return nil, newError(CodeConflict, "slot is not confirmed")
	}

	upd := *row
	upd.Status = models.SlotCompleted
	done := s.now()
	upd.CompletedAt = &done
	return s.commit(ctx, &upd, row.Version)
}

// Block transitions available → blocked for vendor maintenance windows.
func (s *DefaultSlotService) Block(ctx context.Context, slotID, vendorID, reason string) (*models.Slot, error) {
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.VendorID != vendorID {
		return nil, newError(CodeForbidden, "slot belongs to another vendor")
	}
	if row.Status != models.SlotAvailable {
		return nil, newError(CodeConflict, "only available slots can be blocked")
	}

	upd := *row
	upd.Status = models.SlotBlocked
	upd.BlockReason = reason
	return s.commit(ctx, &upd, row.Version)
}

// Unblock transitions blocked → available.
func (s *DefaultSlotService) Unblock(ctx context.Context, slotID, vendorID string) (*models.Slot, error) {
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.VendorID != vendorID {
		return nil, newError(CodeForbidden, "slot belongs to another vendor")
	}
	if row.Status != models.SlotBlocked {
		return nil, newError(CodeConflict, "slot is not blocked")
	}

	upd := *row
	upd.Status = models.SlotAvailable
	upd.BlockReason = ""
	return s.commit(ctx, &upd, row.Version)
}

// ManualBooking transitions available → confirmed for a walk-in customer.
// The row carries the customer's name and phone instead of a user id.
func (s *DefaultSlotService) ManualBooking(ctx context.Context, slotID, vendorID string, info CustomerInfo) (*models.Slot, error) {
	if info.Name == "" || info.Phone == "" {
		return nil, newError(CodeValidation, "walk-in bookings need a customer name and phone")
	}
	row, err := s.load(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if row.VendorID != vendorID {
		return nil, newError(CodeForbidden, "slot belongs to another vendor")
	}
	if row.Status != models.SlotAvailable {
		return nil, newError(CodeConflict, "slot no longer available")
	}

	upd := *row
	upd.Status = models.SlotConfirmed
	upd.BookingSource = models.SourceManual
	upd.CustomerName = info.Name
	upd.CustomerPhone = info.Phone
	upd.UserID = ""
	return s.commit(ctx, &upd, row.Version)
}

// CheckAndBook resolves a slot by (vendor, date, vendor-local start) and
// transitions it available → confirmed in one conditional write. Chat-only
// path: the agent has already re-confirmed intent with the user, so no hold
// is taken. A row that exists but is not available is a conflict; the caller
// offers alternatives.
func (s *DefaultSlotService) CheckAndBook(ctx context.Context, vendorID, date, hhmm string, info CustomerInfo) (*models.Slot, error) {
	if info.Phone == "" {
		return nil, newError(CodeValidation, "customer phone is required")
	}
	row, err := s.Repo.FindByVendorDateTime(ctx, vendorID, date, hhmm)
	if err == slotRepo.ErrNotFound {
		return nil, newError(CodeNotFound, "no slot at %s on %s", hhmm, date)
	}
	if err != nil {
		return nil, newError(CodeUnavailable, "slot store read failed: %v", err)
	}
	if row.Status != models.SlotAvailable {
		return nil, newError(CodeConflict, "no slot available at %s on %s", hhmm, date)
	}

	upd := *row
	upd.Status = models.SlotConfirmed
	upd.BookingSource = models.SourceChat
	upd.CustomerName = info.Name
	upd.CustomerPhone = info.Phone
	return s.commit(ctx, &upd, row.Version)
}

// ExpireLock releases a locked row whose hold lapsed. Safe to race: the
// version condition makes the second releaser a no-op conflict.
func (s *DefaultSlotService) ExpireLock(ctx context.Context, row *models.Slot) (*models.Slot, error) {
	if !row.HoldExpired(s.now()) {
		return nil, newError(CodeValidation, "hold has not expired")
	}
	upd := *row
	upd.Status = models.SlotAvailable
	upd.UserID = ""
	upd.BookingSource = ""
	upd.HoldExpiresAt = nil
	return s.commit(ctx, &upd, row.Version)
}

// SweepExpired is the sweeper's pass: release every lock past its TTL,
// skipping rows that fail, up to batch.
func (s *DefaultSlotService) SweepExpired(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = 500
	}
	rows, err := s.Repo.ListLockedExpired(ctx, s.now(), batch)
	if err != nil {
		return 0, newError(CodeUnavailable, "expired-lock scan failed: %v", err)
	}

	released := 0
	logger := utils.GetLogger()
	for i := range rows {
		if _, err := s.ExpireLock(ctx, &rows[i]); err != nil {
			// Individual failures are logged and skipped; a bad row must not
			// halt the sweep.
			logger.Warn("sweep: release failed",
				zap.String("slotId", rows[i].ID), zap.Error(err))
			continue
		}
		released++
	}
	return released, nil
}

// GetSlot reads a slot row.
func (s *DefaultSlotService) GetSlot(ctx context.Context, slotID string) (*models.Slot, error) {
	return s.load(ctx, slotID)
}

// ListUserSlots lists a user's bookings in the given statuses.
func (s *DefaultSlotService) ListUserSlots(ctx context.Context, userID string, statuses []string) ([]models.Slot, error) {
	rows, err := s.Repo.ListByUser(ctx, userID, statuses)
	if err != nil {
		return nil, newError(CodeUnavailable, "slot store read failed: %v", err)
	}
	return rows, nil
}
