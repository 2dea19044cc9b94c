package models

import "time"

// Message is a logged inbound chat message. The log feeds the group
// summarizer command.
type Message struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"user_id"`
	UserName  string    `bson:"user_name,omitempty"`
	GroupID   string    `bson:"group_id,omitempty"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

// ChatTurn is one user or model message of a persisted AI conversation.
type ChatTurn struct {
	Role string `bson:"role"` // "user" or "model"
	Text string `bson:"text"`
}

// ChatHistory is the capped per-chat AI conversation history.
type ChatHistory struct {
	ChatID    string     `bson:"chat_id"`
	Turns     []ChatTurn `bson:"turns"`
	UpdatedAt time.Time  `bson:"updated_at"`
}
