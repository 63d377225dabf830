// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"time"

	"bookwala/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoSlotRepo) Insert(ctx context.Context, slot *models.Slot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	_, err := r.coll.InsertOne(ctx, slot)
	return err
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Replace is the single-row transactional write every state transition goes
// through. The filter on the previous version makes two racing transitions
// impossible: the loser matches no document and gets ErrConflict.
func (r *mongoSlotRepo) Replace(ctx context.Context, updated *models.Slot, prevVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": updated.ID, "version": prevVersion}
	res, err := r.coll.ReplaceOne(ctx, filter, updated)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
