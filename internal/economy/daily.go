package economy

import (
	"context"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/economy/policy"
	"amanda-bot/internal/locales"
)

// Daily pays the once-per-day claim: a fixed base plus a random bonus.
func (s *Service) Daily(ctx context.Context, user *models.User, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	if cd := policy.CheckCooldown(user.LastDaily, s.cfg.DailyCooldown, now); !cd.Allowed {
		return cooldownReply(loc, cd.Remaining), nil
	}

	amount := s.cfg.DailyBase + s.randInt64(s.cfg.DailyBonusMax+1)
	user.Balance += amount
	user.LastDaily = now
	notices := s.grantXP(user, 0, loc)

	fields := ledgerFields(user)
	fields["last_daily"] = user.LastDaily
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("daily: %w", err)
	}

	text := locales.GetMessage(loc, "MsgDailySuccess", map[string]interface{}{
		"Amount":  amount,
		"Balance": user.Balance,
	}, nil)
	return &Response{Text: text + notices}, nil
}
