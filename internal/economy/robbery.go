package economy

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/economy/policy"
	"amanda-bot/internal/locales"
)

// Rob attempts to steal from another member of the same group. The
// stake is rolled up to a fraction of the target's balance (capped),
// then either moves to the robber or is half-forfeited as a penalty.
// A target holding an active escudo cannot be robbed at all.
func (s *Service) Rob(ctx context.Context, robber *models.User, targetID string, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	if targetID == "" {
		return &Response{Text: locales.GetMessage(loc, "MsgRobNoTarget", nil, nil)}, nil
	}
	if targetID == robber.UserID {
		return &Response{Text: locales.GetMessage(loc, "MsgRobSelf", nil, nil)}, nil
	}

	if cd := policy.CheckCooldown(robber.LastRob, s.cfg.RobCooldown, now); !cd.Allowed {
		return cooldownReply(loc, cd.Remaining), nil
	}
	daily := policy.CheckDailyCap(robber.LastRobReset, robber.RobCount, s.cfg.RobDailyLimit, now)
	if !daily.Allowed {
		return dailyLimitReply(loc, s.cfg.RobDailyLimit, daily.UntilReset), nil
	}

	target, err := s.users.GetOrCreate(ctx, targetID, robber.GroupID, "")
	if err != nil {
		return nil, fmt.Errorf("rob: load target: %w", err)
	}

	if shield, ok := target.ActiveEffect("rob_chance", now); ok && shield.Value == -1 {
		return &Response{
			Text:     locales.GetMessage(loc, "MsgRobImmune", map[string]interface{}{"Target": mentionTag(targetID)}, nil),
			Mentions: []string{targetID},
		}, nil
	}
	if target.Balance < s.cfg.RobMinTargetBal {
		return &Response{Text: locales.GetMessage(loc, "MsgRobTargetPoor", map[string]interface{}{
			"Min": s.cfg.RobMinTargetBal,
		}, nil)}, nil
	}

	maxSteal := int64(math.Floor(float64(target.Balance) * s.cfg.RobMaxStealPercent))
	if maxSteal > s.cfg.RobAbsoluteCap {
		maxSteal = s.cfg.RobAbsoluteCap
	}
	amount := 1 + s.randInt64(maxSteal)

	successRate := s.cfg.RobBaseSuccessRate + robber.Skills.RobChance
	if bonus, ok := robber.ActiveEffect("rob_chance", now); ok && bonus.Value > 0 {
		successRate += bonus.Value
	}
	if successRate > s.cfg.RobSuccessRateCap {
		successRate = s.cfg.RobSuccessRateCap
	}

	robber.LastRob = now
	robber.LastRobReset = daily.LastReset
	robber.RobCount = daily.Count + 1

	var text, notices string
	if s.randFloat() < successRate {
		// The transfer is symmetric: what leaves the target arrives
		// at the robber, nothing minted or burned.
		target.Balance -= amount
		robber.Balance += amount
		if err := s.users.Update(ctx, target.UserID, target.GroupID, map[string]interface{}{
			"balance": target.Balance,
		}); err != nil {
			return nil, fmt.Errorf("rob: debit target: %w", err)
		}
		xp := 60 + s.randIntn(60)
		text = locales.GetMessage(loc, "MsgRobSuccess", map[string]interface{}{
			"Amount": amount,
			"Target": mentionTag(targetID),
			"XP":     xp,
		}, nil)
		notices = s.grantXP(robber, xp, loc)
	} else {
		// A botched heist pays no XP, only the bail.
		penalty := int64(math.Round(float64(amount) * s.cfg.RobPenaltyPercent))
		if penalty > robber.Balance {
			penalty = robber.Balance
		}
		robber.Balance -= penalty
		text = locales.GetMessage(loc, "MsgRobFail", map[string]interface{}{
			"Penalty": penalty,
		}, nil)
	}

	fields := ledgerFields(robber)
	fields["last_rob"] = robber.LastRob
	fields["last_rob_reset"] = robber.LastRobReset
	fields["rob_count"] = robber.RobCount
	if err := s.users.Update(ctx, robber.UserID, robber.GroupID, fields); err != nil {
		return nil, fmt.Errorf("rob: %w", err)
	}

	return &Response{Text: text + notices, Mentions: []string{targetID}}, nil
}

// mentionTag renders a participant ID as a WhatsApp mention token,
// stripping the server suffix of a JID like 5511999@s.whatsapp.net.
func mentionTag(userID string) string {
	id := userID
	if at := strings.IndexByte(id, '@'); at >= 0 {
		id = id[:at]
	}
	return "@" + id
}
