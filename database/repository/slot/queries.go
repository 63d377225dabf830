// File: database/repository/slot/queries.go
package slotRepo

import (
	"context"
	"time"

	"bookwala/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoSlotRepo) ListByVendorDate(ctx context.Context, vendorID, date string, statuses []string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"vendorId": vendorID, "date": date}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) ListByUser(ctx context.Context, userID string, statuses []string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) ListLockedExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":        models.SlotLocked,
		"holdExpiresAt": bson.M{"$lt": cutoff},
	}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "holdExpiresAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) FindByVendorDateTime(ctx context.Context, vendorID, date, hhmm string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// A cancelled slot and its replacement share (vendor, date, time); prefer
	// the live row.
	filter := bson.M{
		"vendorId": vendorID,
		"date":     date,
		"time":     hhmm,
		"status":   bson.M{"$ne": models.SlotCancelled},
	}
	var slot models.Slot
	err := r.coll.FindOne(ctx, filter).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
