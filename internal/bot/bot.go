// Package bot wires the transport to the economy router and the AI
// chat handler and runs the message loop.
package bot

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getsentry/sentry-go"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/ratelimit"

	"amanda-bot/internal/ai"
	"amanda-bot/internal/config"
	"amanda-bot/internal/database"
	"amanda-bot/internal/database/models"
	"amanda-bot/internal/economy"
	"amanda-bot/internal/locales"
	"amanda-bot/pkg/transport"
)

const (
	groupInfoTimeout = 5 * time.Second
	sendRetries      = 3
	sendRetryDelay   = 2 * time.Second
	summaryWindow    = 200
)

// Bot runs the message loop, dispatching each message to the economy
// router or, when the bot is addressed, to the AI chat handler.
type Bot struct {
	transport transport.Transport
	router    *economy.Router
	ai        *ai.Client // nil when no API key is configured
	groups    database.GroupRepository
	messages  database.MessageRepository
	cfg       *config.Config
	limiter   ratelimit.Limiter
	loc       *i18n.Localizer

	// nicknames that count as addressing the bot in a group.
	callSigns []string
}

// New creates the bot. aiClient may be nil; AI features then reply
// with a disabled notice.
func New(
	t transport.Transport,
	router *economy.Router,
	aiClient *ai.Client,
	groups database.GroupRepository,
	messages database.MessageRepository,
	cfg *config.Config,
) *Bot {
	name := strings.ToLower(cfg.BotName)
	return &Bot{
		transport: t,
		router:    router,
		ai:        aiClient,
		groups:    groups,
		messages:  messages,
		cfg:       cfg,
		limiter:   ratelimit.New(5),
		loc:       locales.NewLocalizer(cfg.DefaultLanguage),
		callSigns: []string{name, name + "inha"},
	}
}

// Run consumes messages until the context is canceled. Messages are
// handled on a bounded worker pool; the economy router serializes
// per-ledger access internally so concurrent handling is safe.
func (b *Bot) Run(ctx context.Context) error {
	messages, err := b.transport.Listen(ctx)
	if err != nil {
		return err
	}

	p := pool.New().WithMaxGoroutines(b.cfg.Workers)
	for msg := range messages {
		msg := msg
		p.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					sentry.CurrentHub().Recover(r)
					sentry.Flush(2 * time.Second)
					log.Printf("ERROR: panic handling message %s: %v", msg.ID, r)
				}
			}()
			b.handle(ctx, msg)
		})
	}
	p.Wait()
	return ctx.Err()
}

func (b *Bot) handle(ctx context.Context, msg transport.Message) {
	if msg.SenderID == "" || (msg.Text == "" && msg.Image == nil) {
		return
	}

	var info *transport.GroupInfo
	if msg.IsGroup {
		info = b.syncGroup(ctx, msg.ChatID)
		b.logMessage(ctx, msg)
	}

	if resp, handled := b.tryEconomy(ctx, msg, info); handled {
		if resp != nil {
			b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: resp.Text, Mentions: resp.Mentions})
		}
		return
	}

	if strings.EqualFold(strings.TrimSpace(msg.Text), "!resumo") {
		b.summarize(ctx, msg)
		return
	}

	if !b.addressed(msg) {
		return
	}
	b.chat(ctx, msg)
}

// tryEconomy runs the economy router. The returned bool mirrors the
// router's handled flag.
func (b *Bot) tryEconomy(ctx context.Context, msg transport.Message, info *transport.GroupInfo) (*economy.Response, bool) {
	req := &economy.Request{
		UserID:   msg.SenderID,
		UserName: msg.Sender,
		GroupID:  msg.ChatID,
		IsGroup:  msg.IsGroup,
		Text:     msg.Text,
		Mentions: msg.Mentions,
	}
	if info != nil {
		for _, admin := range info.Admins {
			if admin == msg.SenderID {
				req.IsAdmin = true
				break
			}
		}
	}

	resp, handled, err := b.router.Handle(ctx, req, b.loc)
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("ERROR: economy command failed: %v", err)
		return &economy.Response{Text: locales.GetMessage(b.loc, "MsgErrorGeneral", nil, nil)}, true
	}
	return resp, handled
}

// addressed reports whether the bot should answer the message with AI:
// always in direct chats, in groups only when called by name, mentioned
// or replied to.
func (b *Bot) addressed(msg transport.Message) bool {
	if !msg.IsGroup {
		return true
	}
	if msg.ReplyToBot {
		return true
	}
	text := strings.ToLower(msg.Text)
	for _, sign := range b.callSigns {
		if strings.Contains(text, sign) {
			return true
		}
	}
	return false
}

func (b *Bot) chat(ctx context.Context, msg transport.Message) {
	if b.ai == nil {
		b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: locales.GetMessage(b.loc, "MsgAIDisabled", nil, nil)})
		return
	}

	var reply string
	var err error
	if msg.Image != nil {
		reply, err = b.ai.DescribeImage(ctx, msg.ChatID, msg.ImageMimeType, msg.Image, msg.Text)
	} else {
		reply, err = b.ai.Chat(ctx, msg.ChatID, msg.Sender, msg.Text)
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			sentry.CaptureException(err)
			log.Printf("ERROR: AI reply failed: %v", err)
		}
		b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: locales.GetMessage(b.loc, "MsgAIError", nil, nil)})
		return
	}
	b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: reply})
}

func (b *Bot) summarize(ctx context.Context, msg transport.Message) {
	if b.ai == nil {
		b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: locales.GetMessage(b.loc, "MsgAIDisabled", nil, nil)})
		return
	}
	if !msg.IsGroup {
		b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: locales.GetMessage(b.loc, "MsgGroupOnly", nil, nil)})
		return
	}

	logged, err := b.messages.Recent(ctx, msg.ChatID, summaryWindow)
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("ERROR: load messages for summary: %v", err)
		b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: locales.GetMessage(b.loc, "MsgErrorGeneral", nil, nil)})
		return
	}
	if len(logged) < 5 {
		b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: locales.GetMessage(b.loc, "MsgSummaryEmpty", nil, nil)})
		return
	}

	summary, err := b.ai.Summarize(ctx, logged)
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("ERROR: summary failed: %v", err)
		b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: locales.GetMessage(b.loc, "MsgAIError", nil, nil)})
		return
	}
	b.send(ctx, transport.Reply{ChatID: msg.ChatID, Text: summary})
}

// syncGroup refreshes stored group metadata, tolerating slow or failing
// lookups: on error the group is still upserted with what is known.
func (b *Bot) syncGroup(ctx context.Context, chatID string) *transport.GroupInfo {
	infoCtx, cancel := context.WithTimeout(ctx, groupInfoTimeout)
	defer cancel()

	info, err := b.transport.GroupInfo(infoCtx, chatID)
	if err != nil {
		log.Printf("WARN: group info for %s: %v", chatID, err)
		info = &transport.GroupInfo{ID: chatID}
	}

	group := &models.Group{
		GroupID:     chatID,
		Name:        info.Name,
		MemberCount: info.MemberCount,
		Admins:      info.Admins,
	}
	if err := b.groups.Upsert(ctx, group); err != nil {
		sentry.CaptureException(err)
		log.Printf("ERROR: upsert group %s: %v", chatID, err)
	}
	return info
}

func (b *Bot) logMessage(ctx context.Context, msg transport.Message) {
	if msg.Text == "" {
		return
	}
	err := b.messages.Add(ctx, &models.Message{
		ID:        msg.ID,
		UserID:    msg.SenderID,
		UserName:  msg.Sender,
		GroupID:   msg.ChatID,
		Text:      msg.Text,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Printf("WARN: log message %s: %v", msg.ID, err)
	}
}

// send delivers a reply, rate limited, with bounded retries.
func (b *Bot) send(ctx context.Context, reply transport.Reply) {
	b.limiter.Take()
	err := backoff.Retry(func() error {
		return b.transport.Send(ctx, reply)
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(sendRetryDelay), sendRetries), ctx))
	if err != nil && !errors.Is(err, context.Canceled) {
		sentry.CaptureException(err)
		log.Printf("ERROR: send to %s: %v", reply.ChatID, err)
	}
}
