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

// userRepository is the MongoDB implementation of UserRepository.
type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a UserRepository backed by the users collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection(collUsers)}
}

func defaultUser(userID, groupID, name string, now time.Time) *models.User {
	if name == "" {
		name = "Usuário"
	}
	return &models.User{
		UserID:  userID,
		GroupID: groupID,
		Name:    name,
		Balance: 0,
		XP:      0,
		Level:   1,
		Skills: models.Skills{
			Farming:        1,
			Mining:         1,
			Fishing:        1,
			Trading:        1,
			Gambling:       1,
			XPBoost:        1,
			WorkMultiplier: 1,
			RobChance:      0,
		},
		Inventory:    []models.InventoryItem{},
		Achievements: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (r *userRepository) GetOrCreate(ctx context.Context, userID, groupID, name string) (*models.User, error) {
	filter := bson.M{"user_id": userID, "group_id": groupID}

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	switch {
	case err == nil:
		if name != "" && user.Name != name {
			_, uerr := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"name": name}})
			if uerr != nil {
				return nil, fmt.Errorf("failed to refresh user name: %w", uerr)
			}
			user.Name = name
		}
		return &user, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		newUser := defaultUser(userID, groupID, name, time.Now())
		if _, ierr := r.collection.InsertOne(ctx, newUser); ierr != nil {
			// A concurrent first interaction may have won the insert.
			if mongo.IsDuplicateKeyError(ierr) {
				var existing models.User
				if ferr := r.collection.FindOne(ctx, filter).Decode(&existing); ferr == nil {
					return &existing, nil
				}
			}
			return nil, fmt.Errorf("failed to create user %s in group %s: %w", userID, groupID, ierr)
		}
		return newUser, nil
	default:
		return nil, fmt.Errorf("failed to load user %s in group %s: %w", userID, groupID, err)
	}
}

func (r *userRepository) Update(ctx context.Context, userID, groupID string, fields bson.M) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "group_id": groupID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s in group %s: %w", userID, groupID, err)
	}
	return nil
}

func (r *userRepository) TopByBalance(ctx context.Context, groupID string, n int) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "balance", Value: -1}}).
		SetLimit(int64(n))

	cursor, err := r.collection.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users for group %s: %w", groupID, err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode top users for group %s: %w", groupID, err)
	}
	return users, nil
}
