// File: handlers/bundle.go
package handlers

import (
	paymentRepo "bookwala/database/repository/payment"
	vendorRepo "bookwala/database/repository/vendor"
	"bookwala/services/auth"
	"bookwala/services/availability"
	"bookwala/services/slot"
	"bookwala/services/whatsapp"

	"github.com/hibiken/asynq"
)

// TaskQueue is the slice of the asynq client the webhook needs.
type TaskQueue interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// HandlerBundle groups every endpoint's dependencies into one struct; routes
// are registered against its methods.
type HandlerBundle struct {
	Auth         auth.Service
	Slots        slot.Service
	Availability availability.Service
	Vendors      vendorRepo.Repository
	Payments     paymentRepo.Repository

	// Chat webhook path.
	Deduper whatsapp.Deduper
	Queue   TaskQueue
}
