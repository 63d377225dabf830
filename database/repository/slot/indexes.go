// FILE: database/repository/slot/indexes.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the slots collection.
func (r *mongoSlotRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on slot ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Availability listing (primary query pattern)
		{
			Keys:    bson.D{{Key: "vendorId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("vendor_date_status_idx"),
		},
		// "My bookings" listing
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("user_status_idx"),
		},
		// Overlap checks per resource
		{
			Keys:    bson.D{{Key: "resourceId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("resource_start_idx"),
		},
		// Expired-lock sweep
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "holdExpiresAt", Value: 1}},
			Options: options.Index().SetName("status_hold_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}
