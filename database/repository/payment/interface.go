// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"
	"errors"

	"bookwala/database"
	"bookwala/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no payment matches the given key.
var ErrNotFound = errors.New("payment not found")

type Repository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	SetStatus(ctx context.Context, id, status string) error
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a new MongoDB payment Repository.
func NewMongoPaymentRepo() Repository {
	db := database.MongoClient.Database("bookwala")
	return &mongoPaymentRepo{
		coll: db.Collection("payments"),
	}
}
