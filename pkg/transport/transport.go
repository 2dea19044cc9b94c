// Package transport abstracts the messaging layer the bot runs on.
// Implementations deliver incoming messages on a channel and send
// replies back to their chat.
package transport

import "context"

// Message is one incoming chat message, normalized across transports.
type Message struct {
	ID       string
	ChatID   string
	SenderID string
	Sender   string
	Text     string
	IsGroup  bool
	// Mentions holds the member IDs tagged in the text.
	Mentions []string
	// ReplyToBot is set when the message quotes one of the bot's own.
	ReplyToBot bool
	// Image carries the raw bytes of an attached image, if any.
	Image         []byte
	ImageMimeType string
}

// Reply is an outgoing message.
type Reply struct {
	ChatID   string
	Text     string
	Mentions []string
}

// GroupInfo describes a group chat.
type GroupInfo struct {
	ID          string
	Name        string
	MemberCount int
	Admins      []string
}

// Sender delivers replies to chats.
type Sender interface {
	Send(ctx context.Context, reply Reply) error
}

// Listener yields incoming messages until the context is canceled or
// the transport closes. The returned channel is closed on shutdown.
type Listener interface {
	Listen(ctx context.Context) (<-chan Message, error)
}

// GroupInfoProvider fetches group metadata on demand.
type GroupInfoProvider interface {
	GroupInfo(ctx context.Context, chatID string) (*GroupInfo, error)
}

// Transport is the full surface the bot needs.
type Transport interface {
	Sender
	Listener
	GroupInfoProvider
}
