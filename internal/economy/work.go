package economy

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.mongodb.org/mongo-driver/bson"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/economy/policy"
	"amanda-bot/internal/locales"
)

// Work runs one shift of the given profession. An empty or unknown
// profession picks a random one. Pay scales with the work multiplier
// skill and an active estrela effect; XP is granted only on success.
func (s *Service) Work(ctx context.Context, user *models.User, profession string, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	if cd := policy.CheckCooldown(user.LastWork, s.cfg.WorkCooldown, now); !cd.Allowed {
		return cooldownReply(loc, cd.Remaining), nil
	}

	job, ok := Jobs[strings.ToLower(strings.TrimSpace(profession))]
	if !ok {
		job = Jobs[jobOrder[s.randIntn(len(jobOrder))]]
	}

	user.LastWork = now
	fields := bson.M{"last_work": user.LastWork}

	if s.randFloat() >= job.SuccessRate {
		if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
			return nil, fmt.Errorf("work: %w", err)
		}
		return &Response{Text: locales.GetMessage(loc, "MsgWorkFail", map[string]interface{}{
			"Job": job.Name,
		}, nil)}, nil
	}

	multiplier := user.Skills.WorkMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	if boost, ok := user.ActiveEffect("work_multiplier", now); ok && boost.Value > 0 {
		multiplier *= boost.Value
	}
	pay := int64(math.Round(float64(job.Pay) * multiplier))

	user.Balance += pay
	xp := 40 + s.randIntn(40)
	notices := s.grantXP(user, xp, loc)

	for k, v := range ledgerFields(user) {
		fields[k] = v
	}
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("work: %w", err)
	}

	text := locales.GetMessage(loc, "MsgWorkSuccess", map[string]interface{}{
		"Job":    job.Name,
		"Amount": pay,
		"XP":     xp,
	}, nil)
	return &Response{Text: text + notices}, nil
}
