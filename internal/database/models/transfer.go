package models

import "time"

// Transfer is an append-only record of a completed coin transfer.
// Records are only read back to enforce the sender's rolling daily cap.
type Transfer struct {
	ID         string    `bson:"id"`
	SenderID   string    `bson:"sender_id"`
	ReceiverID string    `bson:"receiver_id"`
	GroupID    string    `bson:"group_id"`
	Amount     int64     `bson:"amount"`
	Tax        int64     `bson:"tax"`
	CreatedAt  time.Time `bson:"created_at"`
}
