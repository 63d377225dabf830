// File: services/agent/respond.go
package agent

import (
	"context"
	"fmt"
	"strings"

	"bookwala/models"
	"bookwala/services/slot"
	"bookwala/utils"

	"go.uber.org/zap"
)

// respond attempts the booking when this turn authorizes one, then generates
// the outgoing text. The reply always reflects the real booking outcome;
// generation failure falls back to a template, never to silence.
func (a *Agent) respond(ctx context.Context, st turnState, conv *models.Conversation) turnState {
	if st.Intent == models.IntentCancellation {
		st = a.cancelLastBooking(ctx, st, conv)
	} else if a.shouldBook(st, conv) {
		st = a.book(ctx, st, conv)
	}

	req := models.ReplyRequest{
		Intent:    st.Intent,
		Entities:  st.Entities,
		History:   conv.History,
		UserPhone: st.UserPhone,
		Query:     st.Query,
		Booking:   st.Booking,
	}

	gctx, cancel := context.WithTimeout(ctx, nluTimeout)
	defer cancel()
	reply, err := a.NLU.Generate(gctx, req)
	if err != nil || strings.TrimSpace(reply) == "" {
		utils.GetLogger().Warn("reply generation failed, using template",
			zap.String("phone", st.UserPhone), zap.Error(err))
		reply = fallbackReply(st)
	}
	st.Reply = reply
	return st
}

// shouldBook gates the write: the user must have asked to book or confirmed
// an offer, and a concrete date and time must be resolvable.
func (a *Agent) shouldBook(st turnState, conv *models.Conversation) bool {
	if st.Intent != models.IntentBooking && st.Intent != models.IntentConfirmation {
		return false
	}
	if st.UserPhone == "" || st.SelectedDate == "" {
		return false
	}
	return st.SelectedTime != "" || timeFromOffer(conv) != ""
}

func (a *Agent) book(ctx context.Context, st turnState, conv *models.Conversation) turnState {
	hhmm := st.SelectedTime
	if hhmm == "" {
		hhmm = timeFromOffer(conv)
	}

	name := st.entity(models.EntityCustomerName)
	if name == "" {
		name = conv.PendingCustomerName
	}

	booked, err := a.Slots.CheckAndBook(ctx, st.VendorID, st.SelectedDate, hhmm,
		slot.CustomerInfo{Name: name, Phone: st.UserPhone})
	if err != nil {
		outcome := &models.BookingOutcome{
			Success: false,
			Date:    st.SelectedDate,
			Time:    hhmm,
			Reason:  err.Error(),
		}
		// On a lost race or a taken slot, hand the responder live
		// alternatives so it can re-offer instead of dead-ending.
		if slot.CodeOf(err) == slot.CodeConflict {
			if alts, aerr := a.Availability.ListAvailable(ctx, st.VendorID, st.SelectedDate); aerr == nil {
				outcome.Alternatives = alts
			}
		}
		st.Booking = outcome
		return st
	}

	utils.GetLogger().Info("chat booking confirmed",
		zap.String("slotId", booked.ID),
		zap.String("phone", st.UserPhone),
		zap.String("date", booked.Date),
		zap.String("time", booked.Time))

	st.Booking = &models.BookingOutcome{
		Success:   true,
		BookingID: booked.ID,
		Date:      booked.Date,
		Time:      booked.Time,
	}
	return st
}

// cancelLastBooking resolves "cancel my booking" against the booking id the
// conversation recorded. The phone on the row authorizes the cancel; a
// replacement slot reopens the window through the normal transition.
func (a *Agent) cancelLastBooking(ctx context.Context, st turnState, conv *models.Conversation) turnState {
	if conv.LastBookingID == "" {
		st.Query = &models.QueryResult{
			Success: false,
			Kind:    "cancellation",
			Message: "no recent booking on this conversation",
		}
		return st
	}

	cancelled, err := a.Slots.Cancel(ctx, conv.LastBookingID, slot.Actor{Phone: st.UserPhone})
	if err != nil {
		utils.GetLogger().Warn("chat cancellation failed",
			zap.String("phone", st.UserPhone),
			zap.String("bookingId", conv.LastBookingID), zap.Error(err))
		st.Query = &models.QueryResult{
			Success: false,
			Kind:    "cancellation",
			Message: err.Error(),
		}
		return st
	}

	utils.GetLogger().Info("chat booking cancelled",
		zap.String("slotId", cancelled.ID), zap.String("phone", st.UserPhone))
	conv.LastBookingID = ""
	st.Query = &models.QueryResult{
		Success: true,
		Kind:    "cancellation",
		Date:    cancelled.Date,
		Message: cancelled.Time,
	}
	return st
}

// romanUrdu guesses the user's register from common Roman-Urdu tokens.
func romanUrdu(text string) bool {
	s := " " + strings.ToLower(text) + " "
	for _, w := range []string{" hai ", " hei ", " kya ", " koi ", " kal ", " aaj ",
		" bajay ", " baje ", " karna ", " chahiye ", " ghanta ", " shaam ", " subah "} {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// fallbackReply produces a deterministic reply from the computed data when
// the model is unavailable. It must keep the conversation alive.
func fallbackReply(st turnState) string {
	urdu := romanUrdu(st.Message)

	if st.Booking != nil {
		if st.Booking.Success {
			if urdu {
				return fmt.Sprintf("Booking confirm ho gayi! %s ko %s bajay. Booking ID: %s",
					st.Booking.Date, st.Booking.Time, st.Booking.BookingID)
			}
			return fmt.Sprintf("Your booking is confirmed for %s at %s. Booking ID: %s",
				st.Booking.Date, st.Booking.Time, st.Booking.BookingID)
		}
		if len(st.Booking.Alternatives) > 0 {
			times := slotTimes(st.Booking.Alternatives)
			if urdu {
				return fmt.Sprintf("Maazrat, woh slot book ho chuka hai. Yeh times available hain: %s", times)
			}
			return fmt.Sprintf("Sorry, that slot was just taken. These times are still open: %s", times)
		}
		if urdu {
			return "Maazrat, woh slot available nahi hai. Koi aur time try karein?"
		}
		return "Sorry, that slot is not available. Would you like a different time?"
	}

	if q := st.Query; q != nil && q.Kind == "cancellation" {
		if q.Success {
			if urdu {
				return fmt.Sprintf("Aapki %s ki booking cancel ho gayi hai.", q.Date)
			}
			return fmt.Sprintf("Your booking for %s has been cancelled.", q.Date)
		}
		if urdu {
			return "Koi recent booking nahi mili. Kaunsi booking cancel karni hai?"
		}
		return "I couldn't find a recent booking to cancel. Which booking did you mean?"
	}

	if q := st.Query; q != nil && q.Kind == "availability" {
		if len(q.Slots) > 0 && q.NextAvailableDate == "" {
			times := slotTimes(q.Slots)
			if urdu {
				return fmt.Sprintf("%s ko yeh slots available hain: %s. Kaunsa book karein?", q.Date, times)
			}
			return fmt.Sprintf("Available slots on %s: %s. Which one should I book?", q.Date, times)
		}
		if q.NextAvailableDate != "" {
			times := slotTimes(q.Slots)
			if urdu {
				return fmt.Sprintf("%s ko kuch available nahi, lekin %s ko yeh slots hain: %s",
					q.RequestedDate, q.NextAvailableDate, times)
			}
			return fmt.Sprintf("Nothing open on %s, but %s has: %s",
				q.RequestedDate, q.NextAvailableDate, times)
		}
		if urdu {
			return fmt.Sprintf("Maazrat, %s ko koi slot available nahi hai.", q.Date)
		}
		return fmt.Sprintf("Sorry, no slots are available on %s.", q.Date)
	}

	if q := st.Query; q != nil && q.Kind == "pricing" && len(q.Pricing) > 0 {
		var parts []string
		for _, svc := range q.Pricing {
			parts = append(parts, fmt.Sprintf("%s: Rs %d/%dmin", svc.SportType, svc.BasePrice, svc.DurationMin))
		}
		return strings.Join(parts, ", ")
	}

	if st.Intent == models.IntentGreeting {
		if urdu {
			return "Assalamualaikum! Booking ke liye din aur time bata dein."
		}
		return "Hello! Tell me a day and time and I'll check availability for you."
	}

	if urdu {
		return "Samajh nahi aya. Kis din aur kis time ki booking chahiye?"
	}
	return "Sorry, I didn't catch that. Which day and time would you like to book?"
}

func slotTimes(slots []models.Slot) string {
	var times []string
	for i, s := range slots {
		if i == 6 {
			times = append(times, "...")
			break
		}
		times = append(times, s.Time)
	}
	return strings.Join(times, ", ")
}
