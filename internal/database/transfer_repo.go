package database

import (
	"context"
	"fmt"
	"time"

	"amanda-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// transferRepository is the MongoDB implementation of TransferRepository.
type transferRepository struct {
	collection *mongo.Collection
}

// NewTransferRepository creates a TransferRepository backed by the
// transfers collection.
func NewTransferRepository(db *mongo.Database) TransferRepository {
	return &transferRepository{collection: db.Collection(collTransfers)}
}

func (r *transferRepository) Add(ctx context.Context, t *models.Transfer) error {
	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to insert transfer from %s: %w", t.SenderID, err)
	}
	return nil
}

func (r *transferRepository) SumSentSince(ctx context.Context, senderID string, since time.Time) (int64, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"sender_id":  senderID,
		"created_at": bson.M{"$gte": since},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query transfers of %s: %w", senderID, err)
	}
	defer cursor.Close(ctx)

	var transfers []models.Transfer
	if err := cursor.All(ctx, &transfers); err != nil {
		return 0, fmt.Errorf("failed to decode transfers of %s: %w", senderID, err)
	}

	var total int64
	for _, t := range transfers {
		total += t.Amount
	}
	return total, nil
}
