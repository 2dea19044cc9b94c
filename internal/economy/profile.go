package economy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/locales"
)

// Profile renders the user's ledger summary.
func (s *Service) Profile(user *models.User, loc *i18n.Localizer) *Response {
	achievements := "—"
	if len(user.Achievements) > 0 {
		achievements = strings.Join(user.Achievements, ", ")
	}
	_, into, next := s.curve.FromXP(user.XP)
	return &Response{Text: locales.GetMessage(loc, "MsgProfile", map[string]interface{}{
		"Name":         user.Name,
		"Balance":      user.Balance,
		"Level":        user.Level,
		"XP":           into,
		"NextXP":       next,
		"Achievements": achievements,
	}, nil)}
}

// Rank lists the group's top balances.
func (s *Service) Rank(ctx context.Context, groupID string, loc *i18n.Localizer) (*Response, error) {
	top, err := s.users.TopByBalance(ctx, groupID, 10)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	if len(top) == 0 {
		return &Response{Text: locales.GetMessage(loc, "MsgRankEmpty", nil, nil)}, nil
	}

	var sb strings.Builder
	sb.WriteString(locales.GetMessage(loc, "MsgRankHeader", nil, nil))
	for i, u := range top {
		sb.WriteString(locales.GetMessage(loc, "MsgRankLine", map[string]interface{}{
			"Position": i + 1,
			"Name":     u.Name,
			"Balance":  u.Balance,
			"Level":    u.Level,
		}, nil))
		sb.WriteString("\n")
	}
	return &Response{Text: strings.TrimRight(sb.String(), "\n")}, nil
}
