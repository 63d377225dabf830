// File: database/repository/slot/transaction.go
package slotRepo

import (
	"context"
	"fmt"

	"bookwala/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReplaceAndInsert transitions the source slot and inserts its replacement
// inside one Mongo session transaction, so cancel/reject can never cancel a
// row without conserving its inventory.
func (r *mongoSlotRepo) ReplaceAndInsert(ctx context.Context, updated *models.Slot, prevVersion int, replacement *models.Slot) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": updated.ID, "version": prevVersion}
		res, err := r.coll.ReplaceOne(sc, filter, updated)
		if err != nil {
			return fmt.Errorf("replace slot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrConflict
		}
		if _, err := r.coll.InsertOne(sc, replacement); err != nil {
			return fmt.Errorf("insert replacement slot failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrConflict {
			return ErrConflict
		}
		return fmt.Errorf("slot transaction failed: %w", err)
	}

	return nil
}
