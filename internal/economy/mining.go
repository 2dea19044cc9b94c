package economy

import (
	"context"
	"fmt"
	"math"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/economy/policy"
	"amanda-bot/internal/locales"
)

// Mine digs for coins. Yield scales with the mining skill; a small
// chance adds a rare collectible. XP is granted only on big hauls or
// rare finds.
func (s *Service) Mine(ctx context.Context, user *models.User, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	if cd := policy.CheckCooldown(user.LastMine, s.cfg.MineCooldown, now); !cd.Allowed {
		return cooldownReply(loc, cd.Remaining), nil
	}
	daily := policy.CheckDailyCap(user.LastMineReset, user.MineCount, s.cfg.MineDailyLimit, now)
	if !daily.Allowed {
		return dailyLimitReply(loc, s.cfg.MineDailyLimit, daily.UntilReset), nil
	}

	skill := user.Skills.Mining
	if skill <= 0 {
		skill = 1
	}
	amount := s.cfg.MineBase + s.randInt64(s.cfg.MineBonusMax+1)
	amount = int64(math.Round(float64(amount) * skill))

	var foundItem string
	if s.randFloat() < s.cfg.MineSpecialItemRate {
		foundItem = MiningItems[s.randIntn(len(MiningItems))]
		user.Inventory = append(user.Inventory, models.InventoryItem{
			ID:   "mineral",
			Name: foundItem,
		})
	}

	user.Balance += amount
	user.LastMine = now
	user.LastMineReset = daily.LastReset
	user.MineCount = daily.Count + 1

	var notices string
	var xp int
	if foundItem != "" || amount > s.cfg.MineXPThreshold {
		xp = 50 + s.randIntn(50)
	}
	notices = s.grantXP(user, xp, loc)

	fields := ledgerFields(user)
	fields["last_mine"] = user.LastMine
	fields["last_mine_reset"] = user.LastMineReset
	fields["mine_count"] = user.MineCount
	fields["inventory"] = user.Inventory
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("mine: %w", err)
	}

	var text string
	if foundItem != "" {
		text = locales.GetMessage(loc, "MsgMineItem", map[string]interface{}{
			"Amount": amount,
			"Item":   foundItem,
		}, nil)
	} else {
		text = locales.GetMessage(loc, "MsgMineSuccess", map[string]interface{}{
			"Amount": amount,
		}, nil)
	}
	return &Response{Text: text + notices}, nil
}
