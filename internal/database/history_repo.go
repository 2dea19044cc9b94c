package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amanda-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxHistoryTurns caps the stored conversation length per chat.
const maxHistoryTurns = 50

// historyRepository is the MongoDB implementation of HistoryRepository.
type historyRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a HistoryRepository backed by the
// chat_histories collection.
func NewHistoryRepository(db *mongo.Database) HistoryRepository {
	return &historyRepository{collection: db.Collection(collHistories)}
}

func (r *historyRepository) Get(ctx context.Context, chatID string) ([]models.ChatTurn, error) {
	var history models.ChatHistory
	err := r.collection.FindOne(ctx, bson.M{"chat_id": chatID}).Decode(&history)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history %s: %w", chatID, err)
	}
	return history.Turns, nil
}

func (r *historyRepository) Append(ctx context.Context, chatID string, turns ...models.ChatTurn) error {
	// $slice keeps only the newest turns, dropping the oldest.
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{
			"$push": bson.M{
				"turns": bson.M{
					"$each":  turns,
					"$slice": -maxHistoryTurns,
				},
			},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to append chat history %s: %w", chatID, err)
	}
	return nil
}
