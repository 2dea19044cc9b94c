package database

import (
	"context"
	"time"

	"amanda-bot/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository is the ledger: the single owner of per-(actor,group)
// economy records. Action modules read a record, apply business rules and
// request exactly one Update carrying every mutated field.
type UserRepository interface {
	// GetOrCreate returns the user record, lazily creating it with
	// defaults (level 1, balance 0) on first interaction within a group.
	// A changed display name is refreshed on read.
	GetOrCreate(ctx context.Context, userID, groupID, name string) (*models.User, error)
	// Update merges the given fields into the record and stamps updated_at.
	Update(ctx context.Context, userID, groupID string, fields bson.M) error
	// TopByBalance returns up to n users of the group, richest first.
	TopByBalance(ctx context.Context, groupID string, n int) ([]models.User, error)
}

// GroupRepository stores per-group state, including the economy active flag.
type GroupRepository interface {
	// Upsert refreshes the group snapshot whenever a group message is seen.
	// The active flag is preserved on existing records.
	Upsert(ctx context.Context, group *models.Group) error
	Get(ctx context.Context, groupID string) (*models.Group, error)
	SetActive(ctx context.Context, groupID string, active bool) error
	// IsActive answers from an in-memory cache loaded at startup.
	IsActive(groupID string) bool
}

// BankRepository stores the per-group tax vault.
type BankRepository interface {
	// Get returns the group's bank, lazily creating an empty one.
	Get(ctx context.Context, groupID string) (*models.Bank, error)
	// RecordTax credits the vault and bumps the transfer counters.
	RecordTax(ctx context.Context, groupID string, tax int64) error
}

// TransferRepository appends and sums immutable transfer records.
type TransferRepository interface {
	Add(ctx context.Context, t *models.Transfer) error
	// SumSentSince totals the amounts the sender transferred since the
	// given instant. Used for the rolling daily outbound cap.
	SumSentSince(ctx context.Context, senderID string, since time.Time) (int64, error)
}

// MessageRepository logs observed chat messages for the summarizer.
type MessageRepository interface {
	Add(ctx context.Context, m *models.Message) error
	// Recent returns up to n messages of the group, oldest first.
	Recent(ctx context.Context, groupID string, n int) ([]models.Message, error)
}

// HistoryRepository persists capped per-chat AI conversation history.
type HistoryRepository interface {
	Get(ctx context.Context, chatID string) ([]models.ChatTurn, error)
	Append(ctx context.Context, chatID string, turns ...models.ChatTurn) error
}
