package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"amanda-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// groupRepository is the MongoDB implementation of GroupRepository.
// Active flags are mirrored in memory so the hot path of every inbound
// message does not hit the database.
type groupRepository struct {
	collection *mongo.Collection

	mu     sync.RWMutex
	active map[string]bool
}

// NewGroupRepository creates a GroupRepository and loads the active-flag
// cache from the groups collection.
func NewGroupRepository(ctx context.Context, db *mongo.Database) (GroupRepository, error) {
	r := &groupRepository{
		collection: db.Collection(collGroups),
		active:     make(map[string]bool),
	}

	cursor, err := r.collection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to load active groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode active groups: %w", err)
	}
	for _, g := range groups {
		r.active[g.GroupID] = true
	}
	return r, nil
}

func (r *groupRepository) Upsert(ctx context.Context, group *models.Group) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"group_id": group.GroupID},
		bson.M{
			"$set": bson.M{
				"name":         group.Name,
				"member_count": group.MemberCount,
				"admins":       group.Admins,
				"updated_at":   now,
			},
			"$setOnInsert": bson.M{
				"active":     false,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert group %s: %w", group.GroupID, err)
	}
	return nil
}

func (r *groupRepository) Get(ctx context.Context, groupID string) (*models.Group, error) {
	var group models.Group
	err := r.collection.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}
	return &group, nil
}

func (r *groupRepository) SetActive(ctx context.Context, groupID string, active bool) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"group_id": groupID},
		bson.M{
			"$set":         bson.M{"active": active, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set active=%t for group %s: %w", active, groupID, err)
	}

	r.mu.Lock()
	if active {
		r.active[groupID] = true
	} else {
		delete(r.active, groupID)
	}
	r.mu.Unlock()
	return nil
}

func (r *groupRepository) IsActive(groupID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active[groupID]
}
