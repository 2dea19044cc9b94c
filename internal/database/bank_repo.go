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

// bankRepository is the MongoDB implementation of BankRepository.
type bankRepository struct {
	collection *mongo.Collection
}

// NewBankRepository creates a BankRepository backed by the banks collection.
func NewBankRepository(db *mongo.Database) BankRepository {
	return &bankRepository{collection: db.Collection(collBanks)}
}

func (r *bankRepository) Get(ctx context.Context, groupID string) (*models.Bank, error) {
	var bank models.Bank
	err := r.collection.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&bank)
	if errors.Is(err, mongo.ErrNoDocuments) {
		now := time.Now()
		bank = models.Bank{GroupID: groupID, CreatedAt: now, UpdatedAt: now}
		if _, ierr := r.collection.InsertOne(ctx, bank); ierr != nil && !mongo.IsDuplicateKeyError(ierr) {
			return nil, fmt.Errorf("failed to create bank for group %s: %w", groupID, ierr)
		}
		return &bank, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bank for group %s: %w", groupID, err)
	}
	return &bank, nil
}

func (r *bankRepository) RecordTax(ctx context.Context, groupID string, tax int64) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"group_id": groupID},
		bson.M{
			"$inc": bson.M{
				"balance":             tax,
				"total_tax_collected": tax,
				"total_transfers":     1,
			},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to record tax for group %s: %w", groupID, err)
	}
	return nil
}
