package economy

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/locales"
)

// checkBet validates the shared gambling preconditions and returns the
// parsed bet, or a user-facing refusal.
func (s *Service) checkBet(user *models.User, rawAmount string, loc *i18n.Localizer) (int64, *Response) {
	amount, err := strconv.ParseInt(strings.TrimSpace(rawAmount), 10, 64)
	if err != nil || amount <= 0 {
		return 0, nil // caller renders its usage message
	}
	if user.Level < s.cfg.GamesMinLevel {
		return 0, &Response{Text: locales.GetMessage(loc, "MsgGamesLevelRequired", map[string]interface{}{
			"Level": s.cfg.GamesMinLevel,
		}, nil)}
	}
	if amount < s.cfg.MinBet {
		return 0, &Response{Text: locales.GetMessage(loc, "MsgBetTooSmall", map[string]interface{}{
			"Min": s.cfg.MinBet,
		}, nil)}
	}
	if amount > s.cfg.MaxBet {
		return 0, &Response{Text: locales.GetMessage(loc, "MsgBetTooLarge", map[string]interface{}{
			"Max": s.cfg.MaxBet,
		}, nil)}
	}
	if amount > user.Balance {
		return 0, &Response{Text: locales.GetMessage(loc, "MsgInsufficientFunds", map[string]interface{}{
			"Missing": amount - user.Balance,
		}, nil)}
	}
	return amount, nil
}

// Flip bets on a coin toss. side is "cara" or "coroa"; a win pays the
// bet times the flip payout, a loss forfeits the bet.
func (s *Service) Flip(ctx context.Context, user *models.User, side, rawAmount string, loc *i18n.Localizer) (*Response, error) {
	side = strings.ToLower(strings.TrimSpace(side))
	if side != "cara" && side != "coroa" {
		return &Response{Text: locales.GetMessage(loc, "MsgFlipUsage", nil, nil)}, nil
	}
	amount, refusal := s.checkBet(user, rawAmount, loc)
	if refusal != nil {
		return refusal, nil
	}
	if amount == 0 {
		return &Response{Text: locales.GetMessage(loc, "MsgFlipUsage", nil, nil)}, nil
	}

	result := "cara"
	if s.randIntn(2) == 1 {
		result = "coroa"
	}

	var text string
	if result == side {
		winnings := int64(math.Round(float64(amount) * s.cfg.FlipPayout))
		user.Balance += winnings - amount
		text = locales.GetMessage(loc, "MsgFlipWin", map[string]interface{}{
			"Side":   result,
			"Amount": winnings - amount,
		}, nil)
	} else {
		user.Balance -= amount
		text = locales.GetMessage(loc, "MsgFlipLose", map[string]interface{}{
			"Side":   result,
			"Amount": amount,
		}, nil)
	}
	notices := s.grantXP(user, 0, loc)

	if err := s.users.Update(ctx, user.UserID, user.GroupID, ledgerFields(user)); err != nil {
		return nil, fmt.Errorf("flip: %w", err)
	}
	return &Response{Text: text + notices}, nil
}

// Slots spins three reels. Triple sevens pay x10, triple diamonds x7,
// any other triple x3 and a pair x1.5; the multiplier applies to the
// bet and the bet itself is consumed either way.
func (s *Service) Slots(ctx context.Context, user *models.User, rawAmount string, loc *i18n.Localizer) (*Response, error) {
	amount, refusal := s.checkBet(user, rawAmount, loc)
	if refusal != nil {
		return refusal, nil
	}
	if amount == 0 {
		return &Response{Text: locales.GetMessage(loc, "MsgSlotsUsage", nil, nil)}, nil
	}

	reels := [3]string{
		SlotSymbols[s.randIntn(len(SlotSymbols))],
		SlotSymbols[s.randIntn(len(SlotSymbols))],
		SlotSymbols[s.randIntn(len(SlotSymbols))],
	}
	display := strings.Join(reels[:], " | ")
	multiplier := slotMultiplier(reels)

	var text string
	if multiplier > 0 {
		winnings := int64(math.Round(float64(amount) * multiplier))
		user.Balance += winnings - amount
		text = locales.GetMessage(loc, "MsgSlotsWin", map[string]interface{}{
			"Reels":      display,
			"Amount":     winnings - amount,
			"Multiplier": multiplier,
		}, nil)
	} else {
		user.Balance -= amount
		text = locales.GetMessage(loc, "MsgSlotsLose", map[string]interface{}{
			"Reels":  display,
			"Amount": amount,
		}, nil)
	}
	notices := s.grantXP(user, 0, loc)

	if err := s.users.Update(ctx, user.UserID, user.GroupID, ledgerFields(user)); err != nil {
		return nil, fmt.Errorf("slots: %w", err)
	}
	return &Response{Text: text + notices}, nil
}

// slotMultiplier returns the payout multiplier for a spin, 0 on a loss.
func slotMultiplier(reels [3]string) float64 {
	if reels[0] == reels[1] && reels[1] == reels[2] {
		switch reels[0] {
		case "7️⃣":
			return slotTripleSevens
		case "💎":
			return slotTripleDiamonds
		default:
			return slotTriple
		}
	}
	if reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2] {
		return slotPair
	}
	return 0
}
