// Package economy implements the CBCoin virtual economy: earning
// actions, games, transfers, the shop and the per-group bank, on top of
// per-(user, group) ledgers in the document store.
package economy

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.mongodb.org/mongo-driver/bson"

	"amanda-bot/internal/config"
	"amanda-bot/internal/database"
	"amanda-bot/internal/database/models"
	"amanda-bot/internal/economy/levels"
	"amanda-bot/internal/locales"
)

// Response is the outcome of an economy command: the text to send back
// and the participant IDs to mention in it.
type Response struct {
	Text     string
	Mentions []string
}

// Service executes economy actions against the repositories. Calls for
// the same (user, group) pair are serialized by the router; the service
// itself only guards its random source.
type Service struct {
	users     database.UserRepository
	groups    database.GroupRepository
	banks     database.BankRepository
	transfers database.TransferRepository
	cfg       config.Economy
	curve     levels.Curve

	now func() time.Time

	randMu sync.Mutex
	rng    *rand.Rand
}

// NewService creates the economy service. now and rng default to the
// wall clock and a time-seeded source when nil.
func NewService(
	users database.UserRepository,
	groups database.GroupRepository,
	banks database.BankRepository,
	transfers database.TransferRepository,
	cfg config.Economy,
	now func() time.Time,
	rng *rand.Rand,
) *Service {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		users:     users,
		groups:    groups,
		banks:     banks,
		transfers: transfers,
		cfg:       cfg,
		curve:     levels.Curve{Base: cfg.XPPerLevel, Multiplier: cfg.LevelMultiplier},
		now:       now,
		rng:       rng,
	}
}

func (s *Service) randInt64(n int64) int64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Int63n(n)
}

func (s *Service) randIntn(n int) int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Intn(n)
}

func (s *Service) randFloat() float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Float64()
}

// formatDuration renders a duration for user-facing messages, second
// precision at most.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	sec := (d % time.Minute) / time.Second
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}

// ledgerFields collects the always-persisted ledger columns after an
// action mutates the user in memory.
func ledgerFields(u *models.User) bson.M {
	return bson.M{
		"balance":      u.Balance,
		"xp":           u.XP,
		"level":        u.Level,
		"achievements": u.Achievements,
	}
}

// grantXP applies an XP gain plus achievement checks to the in-memory
// user and returns the notices to append to the action's reply.
func (s *Service) grantXP(user *models.User, xp int, loc *i18n.Localizer) string {
	report := levels.AddXP(s.curve, user, xp, s.now())

	var sb strings.Builder
	if report.LevelsGained > 0 {
		sb.WriteString("\n")
		sb.WriteString(locales.GetMessage(loc, "MsgLevelUp", map[string]interface{}{
			"Level":  report.NewLevel,
			"Reward": report.Reward,
		}, nil))
	}
	for _, name := range levels.CheckAchievements(user) {
		sb.WriteString("\n")
		sb.WriteString(locales.GetMessage(loc, "MsgAchievementUnlocked", map[string]interface{}{
			"Name": name,
		}, nil))
	}
	return sb.String()
}

// cooldownReply builds the standard wait message.
func cooldownReply(loc *i18n.Localizer, remaining time.Duration) *Response {
	return &Response{Text: locales.GetMessage(loc, "MsgCooldown", map[string]interface{}{
		"Duration": formatDuration(remaining),
	}, nil)}
}

// dailyLimitReply builds the standard daily-cap message.
func dailyLimitReply(loc *i18n.Localizer, limit int, until time.Duration) *Response {
	return &Response{Text: locales.GetMessage(loc, "MsgDailyLimit", map[string]interface{}{
		"Limit": limit,
		"Until": formatDuration(until),
	}, nil)}
}
