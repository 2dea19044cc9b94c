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

// bestRod returns the index in the inventory of the user's best owned
// rod (highest multiplier) that still has durability, or -1.
func bestRod(user *models.User) int {
	best := -1
	var bestMult float64
	for i, item := range user.Inventory {
		rod, ok := Rods[item.ID]
		if !ok || item.Durability <= 0 {
			continue
		}
		if rod.Multiplier > bestMult {
			best = i
			bestMult = rod.Multiplier
		}
	}
	return best
}

// Fish casts once with the user's best rod. Each entry of the fish
// table is checked in order against a single roll; the first entry
// whose chance, scaled by the rod multiplier, covers the roll is the
// catch. The rod loses 1 to 3 durability per cast, caught or not.
func (s *Service) Fish(ctx context.Context, user *models.User, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	if cd := policy.CheckCooldown(user.LastFish, s.cfg.FishCooldown, now); !cd.Allowed {
		return cooldownReply(loc, cd.Remaining), nil
	}
	daily := policy.CheckDailyCap(user.LastFishReset, user.FishCount, s.cfg.FishDailyLimit, now)
	if !daily.Allowed {
		return dailyLimitReply(loc, s.cfg.FishDailyLimit, daily.UntilReset), nil
	}

	rodIdx := bestRod(user)
	if rodIdx < 0 {
		return &Response{Text: locales.GetMessage(loc, "MsgFishNoRod", nil, nil)}, nil
	}
	rod := Rods[user.Inventory[rodIdx].ID]

	user.LastFish = now
	user.LastFishReset = daily.LastReset
	user.FishCount = daily.Count + 1

	damage := 1 + s.randIntn(3)
	user.Inventory[rodIdx].Durability -= damage
	broke := user.Inventory[rodIdx].Durability <= 0
	durabilityLeft := user.Inventory[rodIdx].Durability
	if durabilityLeft < 0 {
		durabilityLeft = 0
	}
	if broke {
		user.Inventory = append(user.Inventory[:rodIdx], user.Inventory[rodIdx+1:]...)
	}

	roll := s.randFloat()
	var caught *Fish
	for i := range FishTable {
		if roll <= FishTable[i].Chance*rod.Multiplier {
			caught = &FishTable[i]
			break
		}
	}

	var text string
	var xp int
	if caught != nil {
		skill := user.Skills.Fishing
		if skill <= 0 {
			skill = 1
		}
		amount := int64(math.Round(float64(caught.Value) * skill))
		user.Balance += amount
		xp = caught.XP
		text = locales.GetMessage(loc, "MsgFishSuccess", map[string]interface{}{
			"Fish":       caught.Name,
			"Amount":     amount,
			"XP":         xp,
			"Durability": durabilityLeft,
		}, nil)
	} else {
		xp = 10
		text = locales.GetMessage(loc, "MsgFishFail", map[string]interface{}{"XP": xp}, nil)
	}
	notices := s.grantXP(user, xp, loc)

	if broke {
		text += "\n" + locales.GetMessage(loc, "MsgFishRodBroken", map[string]interface{}{
			"Rod": rod.Name,
		}, nil)
	}

	fields := ledgerFields(user)
	fields["last_fish"] = user.LastFish
	fields["last_fish_reset"] = user.LastFishReset
	fields["fish_count"] = user.FishCount
	fields["inventory"] = user.Inventory
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("fish: %w", err)
	}

	return &Response{Text: text + notices}, nil
}
