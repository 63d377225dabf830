// File: database/repository/user/interface.go
package userRepo

import (
	"context"
	"errors"

	"bookwala/database"
	"bookwala/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no user matches the given key.
var ErrNotFound = errors.New("user not found")

// ErrDuplicate is returned when a unique index (phone, email) rejects a write.
var ErrDuplicate = errors.New("user already exists")

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	EnsureIndexes() error
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new MongoDB user Repository.
func NewMongoUserRepo() Repository {
	db := database.MongoClient.Database("bookwala")
	return &mongoUserRepo{
		coll: db.Collection("users"),
	}
}
