package database

import (
	"context"
	"fmt"

	"amanda-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// messageRepository is the MongoDB implementation of MessageRepository.
type messageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository creates a MessageRepository backed by the messages
// collection.
func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{collection: db.Collection(collMessages)}
}

func (r *messageRepository) Add(ctx context.Context, m *models.Message) error {
	if _, err := r.collection.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to insert message %s: %w", m.ID, err)
	}
	return nil
}

func (r *messageRepository) Recent(ctx context.Context, groupID string, n int) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(n))

	cursor, err := r.collection.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages for group %s: %w", groupID, err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages for group %s: %w", groupID, err)
	}

	// Newest-first from the index, oldest-first for the caller.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
