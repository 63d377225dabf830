package models

// Intents the classifier may return.
const (
	IntentGreeting     = "greeting"
	IntentAvailability = "availability_inquiry"
	IntentBooking      = "booking_request"
	IntentPrice        = "price_inquiry"
	IntentService      = "service_selection"
	IntentDate         = "date_selection"
	IntentTime         = "time_selection"
	IntentConfirmation = "confirmation"
	IntentCancellation = "cancellation"
	IntentModification = "modification"
	IntentInformation  = "information"
	IntentPayment      = "payment_related"
	IntentNameProvided = "name_provided"
	IntentUnknown      = "unknown"
)

// Entity keys the extractor recognizes.
const (
	EntityServiceType  = "service_type"
	EntityVendorName   = "vendor_name"
	EntityArea         = "area"
	EntityDate         = "date"
	EntityTime         = "time"
	EntityDuration     = "duration"
	EntityCustomerName = "customer_name"
	EntityPhoneNumber  = "phone_number"
)

// IntentResult is the structured output of NLU classification.
type IntentResult struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

// QueryResult is what the agent's query node computed for the responder.
// Kind is one of "availability", "pricing", "vendor_info", "cancellation".
// When the next-day fallback fires, Date moves to the substituted day and
// RequestedDate keeps what the user asked for.
type QueryResult struct {
	Success           bool           `json:"success"`
	Kind              string         `json:"kind,omitempty"`
	Date              string         `json:"date,omitempty"`
	RequestedDate     string         `json:"requested_date,omitempty"`
	NextAvailableDate string         `json:"next_available_date,omitempty"`
	Slots             []Slot         `json:"slots,omitempty"`
	Vendor            *VendorSummary `json:"vendor,omitempty"`
	Pricing           []Service      `json:"pricing,omitempty"`
	Message           string         `json:"message,omitempty"`
}

// BookingOutcome is the result of a check-and-book attempt; the generated
// reply must report exactly this, never a success the slot service did not
// produce.
type BookingOutcome struct {
	Success      bool   `json:"success"`
	BookingID    string `json:"booking_id,omitempty"`
	Date         string `json:"date,omitempty"`
	Time         string `json:"time,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Alternatives []Slot `json:"alternatives,omitempty"`
}

// ReplyRequest is the context bundle handed to NLU response generation.
type ReplyRequest struct {
	Intent    string            `json:"intent"`
	Entities  map[string]string `json:"entities"`
	History   []Turn            `json:"history"`
	UserPhone string            `json:"user_phone"`
	Query     *QueryResult      `json:"query,omitempty"`
	Booking   *BookingOutcome   `json:"booking,omitempty"`
}

// ValidIntent reports whether s is a member of the intent enum.
func ValidIntent(s string) bool {
	switch s {
	case IntentGreeting, IntentAvailability, IntentBooking, IntentPrice,
		IntentService, IntentDate, IntentTime, IntentConfirmation,
		IntentCancellation, IntentModification, IntentInformation,
		IntentPayment, IntentNameProvided, IntentUnknown:
		return true
	}
	return false
}
