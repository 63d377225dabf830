// File: services/agent/classify.go
package agent

import (
	"context"
	"regexp"
	"strings"

	"bookwala/models"
	"bookwala/services/rules"
	"bookwala/utils"

	"go.uber.org/zap"
)

// Plain greetings short-circuit the classifier entirely: a "hi" must get a
// reply even when the model is down.
var greetingWords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "salam": true, "salaam": true,
	"aoa": true, "assalamualaikum": true, "assalamoalaikum": true,
	"asalam": true, "good morning": true, "good evening": true,
}

func isPlainGreeting(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.Trim(s, "!.?")
	if greetingWords[s] {
		return true
	}
	// "aoa bhai", "hello there" and similar two-word openers.
	fields := strings.Fields(s)
	return len(fields) <= 2 && len(fields) > 0 && greetingWords[fields[0]]
}

// classify labels the turn with an intent and normalized selections. Model
// failure degrades to unknown, never to a dropped message.
func (a *Agent) classify(ctx context.Context, st turnState, conv *models.Conversation) turnState {
	if isPlainGreeting(st.Message) {
		st.Intent = models.IntentGreeting
		st.Confidence = 1
		st.Entities = map[string]string{}
		return st
	}

	cctx, cancel := context.WithTimeout(ctx, nluTimeout)
	defer cancel()
	result, err := a.NLU.Classify(cctx, st.Message, conv.History)
	if err != nil {
		utils.GetLogger().Warn("classification failed",
			zap.String("phone", st.UserPhone), zap.Error(err))
		st.Intent = models.IntentUnknown
		st.Entities = map[string]string{}
		return st
	}

	st.Intent = result.Intent
	st.Confidence = result.Confidence
	st.Entities = result.Entities
	if st.Entities == nil {
		st.Entities = map[string]string{}
	}

	st = a.normalize(st, conv)
	return st
}

// normalize resolves raw date/time/duration mentions and merges them with
// what the conversation already holds.
func (a *Agent) normalize(st turnState, conv *models.Conversation) turnState {
	now := a.now()

	if raw := st.entity(models.EntityDate); raw != "" {
		date, err := rules.ResolveDate(raw, now, a.loc())
		if err != nil {
			utils.GetLogger().Warn("unparseable date, assuming today",
				zap.String("raw", raw), zap.String("phone", st.UserPhone))
			date = now.In(a.loc()).Format(rules.DateLayout)
		}
		st.SelectedDate = date
	} else if conv.SelectedDate != "" {
		st.SelectedDate = conv.SelectedDate
	}

	if raw := st.entity(models.EntityTime); raw != "" {
		if w, err := rules.ParseTimePhrase(raw); err == nil {
			st.SelectedTime = w.Start
			st.SelectedTimeEnd = w.End
		}
	}
	// "7 bajay" alone arrives as a time_selection with no extracted entity;
	// the whole message is the time phrase then.
	if st.SelectedTime == "" &&
		(st.Intent == models.IntentTime || st.Intent == models.IntentConfirmation) {
		if w, err := rules.ParseTimePhrase(st.Message); err == nil {
			st.SelectedTime = w.Start
			st.SelectedTimeEnd = w.End
		}
	}

	if raw := st.entity(models.EntityDuration); raw != "" {
		if h, err := rules.ParseDuration(raw); err == nil {
			st.SelectedDuration = h
		}
	}
	if st.SelectedDuration == 0 && conv.SelectedDurationHours > 0 {
		st.SelectedDuration = conv.SelectedDurationHours
	}

	return st
}

var offeredTimeRe = regexp.MustCompile(`\b(\d{2}:\d{2})\b`)

// timeFromOffer pulls the first HH:MM out of the assistant's previous message
// so a bare "yes" after an offer books the offered slot.
func timeFromOffer(conv *models.Conversation) string {
	if m := offeredTimeRe.FindStringSubmatch(conv.LastAssistantTurn()); m != nil {
		return m[1]
	}
	return ""
}
