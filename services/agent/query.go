// File: services/agent/query.go
package agent

import (
	"context"

	"bookwala/models"
	"bookwala/services/rules"
	"bookwala/utils"

	"go.uber.org/zap"
)

// query fetches whatever data the responder will need for this intent. It
// never writes; booking happens in the respond node.
func (a *Agent) query(ctx context.Context, st turnState) turnState {
	vendor, err := a.resolveVendor(ctx, st)
	if err != nil {
		utils.GetLogger().Error("vendor resolution failed",
			zap.String("phone", st.UserPhone), zap.Error(err))
		st.Query = &models.QueryResult{Success: false, Message: "venue unavailable"}
		return st
	}
	st.Vendor = vendor
	st.VendorID = vendor.ID

	switch st.Intent {
	case models.IntentAvailability, models.IntentBooking, models.IntentDate,
		models.IntentTime, models.IntentService, models.IntentConfirmation,
		models.IntentModification:
		return a.queryAvailability(ctx, st)

	case models.IntentPrice:
		st.Query = &models.QueryResult{
			Success: true,
			Kind:    "pricing",
			Vendor:  vendor.Summary(),
			Pricing: vendor.Services,
		}
		return st

	case models.IntentGreeting, models.IntentInformation:
		st.Query = &models.QueryResult{
			Success: true,
			Kind:    "vendor_info",
			Vendor:  vendor.Summary(),
		}
		return st

	default:
		st.Query = &models.QueryResult{Success: false}
		return st
	}
}

func (a *Agent) queryAvailability(ctx context.Context, st turnState) turnState {
	date := st.SelectedDate
	if date == "" {
		date = a.now().In(a.loc()).Format(rules.DateLayout)
		st.SelectedDate = date
	}

	window := rules.TimeWindow{Start: st.SelectedTime, End: st.SelectedTimeEnd}
	open, err := a.Availability.ListAvailableFiltered(ctx, st.VendorID, date, window, st.SelectedDuration)
	if err != nil {
		utils.GetLogger().Error("availability query failed",
			zap.String("vendorId", st.VendorID), zap.String("date", date), zap.Error(err))
		st.Query = &models.QueryResult{Success: false, Kind: "availability", Date: date}
		return st
	}

	result := &models.QueryResult{
		Success: len(open) > 0,
		Kind:    "availability",
		Date:    date,
		Slots:   open,
		Vendor:  st.Vendor.Summary(),
	}

	// Nothing that day: offer the nearest day with open slots instead of a
	// bare no. The substituted day becomes the result's date; the day the
	// user asked for survives in RequestedDate for the reply wording.
	if len(open) == 0 {
		nextDate, nextSlots, err := a.Availability.NextAvailableDate(ctx, st.VendorID, date, 7)
		if err != nil {
			utils.GetLogger().Warn("next-day fallback failed",
				zap.String("vendorId", st.VendorID), zap.Error(err))
		} else if nextDate != "" {
			result.Success = true
			result.Date = nextDate
			result.RequestedDate = date
			result.NextAvailableDate = nextDate
			result.Slots = nextSlots
		}
	}

	st.Query = result
	return st
}

// resolveVendor picks the venue for this turn: explicit id, then a catalog
// lookup by area and sport type, then name mention, then the configured
// default, then any vendor at all.
func (a *Agent) resolveVendor(ctx context.Context, st turnState) (*models.Vendor, error) {
	if st.VendorID != "" {
		return a.Vendors.GetByID(ctx, st.VendorID)
	}
	if area := st.entity(models.EntityArea); area != "" {
		vs, err := a.Vendors.List(ctx, st.entity(models.EntityServiceType), area, 1, 0)
		if err == nil && len(vs) > 0 {
			return &vs[0], nil
		}
	}
	if name := st.entity(models.EntityVendorName); name != "" {
		if v, err := a.Vendors.FindByName(ctx, name); err == nil {
			return v, nil
		}
	}
	if a.DefaultVendorID != "" {
		if v, err := a.Vendors.GetByID(ctx, a.DefaultVendorID); err == nil {
			return v, nil
		}
	}
	return a.Vendors.First(ctx)
}
