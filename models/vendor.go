package models

// DayHours is a single weekday's operating window, HH:MM strings.
// Close may read past midnight for overnight venues; the rules package
// normalizes wrapped ranges.
type DayHours struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

// Resource is a physical reservable thing (court, chair, console) owned by a vendor.
type Resource struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Capacity int    `bson:"capacity" json:"capacity"`
	Active   bool   `bson:"active" json:"active"`
}

// Service is a sellable offering pinning sport type, default duration and base price.
type Service struct {
	ID          string `bson:"id" json:"id"`
	SportType   string `bson:"sportType" json:"sport_type"`
	DurationMin int    `bson:"durationMin" json:"duration_min"`
	BasePrice   int64  `bson:"basePrice" json:"base_price"`
	Active      bool   `bson:"active" json:"active"`
}

// Vendor is read-only reference data for the booking engine; vendors are
// created out-of-band. Resources and services are embedded so a single read
// yields the whole catalogue.
type Vendor struct {
	ID             string              `bson:"id" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Area           string              `bson:"area" json:"area"`
	Address        string              `bson:"address" json:"address"`
	Phone          string              `bson:"phone" json:"phone"`
	Timezone       string              `bson:"timezone" json:"timezone"`
	OperatingHours map[string]DayHours `bson:"operatingHours" json:"operating_hours"`
	PaymentAccount string              `bson:"paymentAccount,omitempty" json:"payment_account,omitempty"`
	Resources      []Resource          `bson:"resources" json:"resources"`
	Services       []Service           `bson:"services" json:"services"`
}

// VendorSummary is the snapshot handed to the NLU responder for greetings,
// price answers and vendor info.
type VendorSummary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Area    string    `json:"area"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`
	Pricing []Service `json:"pricing"`
}

// Summary builds the NLU-facing snapshot.
func (v *Vendor) Summary() *VendorSummary {
	return &VendorSummary{
		ID:      v.ID,
		Name:    v.Name,
		Area:    v.Area,
		Address: v.Address,
		Phone:   v.Phone,
		Pricing: v.Services,
	}
}
