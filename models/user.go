package models

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
)

// User identifies a REST caller or a chat participant. Phone is the chat
// channel key and is unique; email is unique when present. Chat users are
// auto-provisioned on first inbound message and carry no password hash.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Phone        string    `bson:"phone" json:"phone"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role" json:"role"`
	VendorID     string    `bson:"vendorId,omitempty" json:"vendor_id,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updated_at"`
}
