package database

import (
	"context"
	"fmt"
	"log"

	"amanda-bot/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the repositories.
const (
	collUsers     = "users"
	collGroups    = "groups"
	collBanks     = "banks"
	collTransfers = "transfers"
	collMessages  = "messages"
	collHistories = "chat_histories"
)

// ConnectDB establishes a connection to MongoDB using the provided
// configuration, verifies it with a ping and creates the indexes the
// repositories rely on. It returns the client and database handles.
func ConnectDB(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoDBURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	var result bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDBDatabase)

	if err := createIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	log.Println("Connected to MongoDB and ensured indexes")

	return client, db, nil
}

func createIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "balance", Value: -1}}},
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "level", Value: -1}}},
	}
	if _, err := db.Collection(collUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	groupIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}}, Options: unique},
	}
	if _, err := db.Collection(collGroups).Indexes().CreateMany(ctx, groupIndexes); err != nil {
		return fmt.Errorf("failed to create group indexes: %w", err)
	}

	bankIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}}, Options: unique},
	}
	if _, err := db.Collection(collBanks).Indexes().CreateMany(ctx, bankIndexes); err != nil {
		return fmt.Errorf("failed to create bank indexes: %w", err)
	}

	transferIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection(collTransfers).Indexes().CreateMany(ctx, transferIndexes); err != nil {
		return fmt.Errorf("failed to create transfer indexes: %w", err)
	}

	messageIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection(collMessages).Indexes().CreateMany(ctx, messageIndexes); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}

	historyIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "chat_id", Value: 1}}, Options: unique},
	}
	if _, err := db.Collection(collHistories).Indexes().CreateMany(ctx, historyIndexes); err != nil {
		return fmt.Errorf("failed to create chat history indexes: %w", err)
	}

	return nil
}
