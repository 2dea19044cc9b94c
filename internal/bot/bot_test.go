package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"amanda-bot/internal/config"
	"amanda-bot/internal/locales"
	"amanda-bot/pkg/transport"
)

func init() {
	locales.Init("pt")
}

type nopTransport struct{}

func (nopTransport) Send(context.Context, transport.Reply) error { return nil }
func (nopTransport) Listen(context.Context) (<-chan transport.Message, error) {
	ch := make(chan transport.Message)
	close(ch)
	return ch, nil
}
func (nopTransport) GroupInfo(context.Context, string) (*transport.GroupInfo, error) {
	return &transport.GroupInfo{}, nil
}

func testBot(t *testing.T) *Bot {
	t.Helper()
	cfg := &config.Config{
		BotName:         "Amanda",
		DefaultLanguage: "pt",
		Workers:         1,
		Economy:         config.DefaultEconomy(),
	}
	return New(nopTransport{}, nil, nil, nil, nil, cfg)
}

func TestAddressed(t *testing.T) {
	b := testBot(t)

	cases := []struct {
		name string
		msg  transport.Message
		want bool
	}{
		{"direct message always", transport.Message{IsGroup: false, Text: "oi"}, true},
		{"group with name", transport.Message{IsGroup: true, Text: "fala Amanda, tudo bem?"}, true},
		{"group with nickname", transport.Message{IsGroup: true, Text: "AMANDINHA me ajuda"}, true},
		{"group reply to bot", transport.Message{IsGroup: true, Text: "e isso?", ReplyToBot: true}, true},
		{"group chatter ignored", transport.Message{IsGroup: true, Text: "bom dia pessoal"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.addressed(tc.msg))
		})
	}
}
