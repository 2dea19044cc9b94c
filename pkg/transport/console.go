package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Console is a stdin/stdout transport for local runs. Every line typed
// becomes a message in a fake group; lines starting with "dm " arrive
// as direct messages instead.
type Console struct {
	in  io.Reader
	out io.Writer

	chatID   string
	senderID string
	sender   string
}

// NewConsole creates a console transport reading from in and writing
// to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:       in,
		out:      out,
		chatID:   "console-group",
		senderID: "console-user@local",
		sender:   "Console",
	}
}

func (c *Console) Listen(ctx context.Context) (<-chan Message, error) {
	ch := make(chan Message)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			msg := Message{
				ID:       uuid.NewString(),
				ChatID:   c.chatID,
				SenderID: c.senderID,
				Sender:   c.sender,
				Text:     text,
				IsGroup:  true,
			}
			if rest, ok := strings.CutPrefix(text, "dm "); ok {
				msg.Text = rest
				msg.ChatID = c.senderID
				msg.IsGroup = false
			}
			select {
			case ch <- msg:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Printf("console transport: read: %v", err)
		}
	}()
	return ch, nil
}

func (c *Console) Send(_ context.Context, reply Reply) error {
	_, err := fmt.Fprintf(c.out, "[%s] %s\n", reply.ChatID, reply.Text)
	return err
}

func (c *Console) GroupInfo(_ context.Context, chatID string) (*GroupInfo, error) {
	return &GroupInfo{
		ID:          chatID,
		Name:        "Console Group",
		MemberCount: 1,
		Admins:      []string{c.senderID},
	}, nil
}
