package economy

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/economy/policy"
	"amanda-bot/internal/locales"
)

// Transfer moves coins to another member of the group. A flat tax is
// taken from the gross amount and credited to the group bank; the
// sender is debited the gross, the receiver credited the net. Every
// completed transfer is recorded append-only for the daily-cap sum.
func (s *Service) Transfer(ctx context.Context, sender *models.User, receiverID, rawAmount string, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	if receiverID == "" {
		return &Response{Text: locales.GetMessage(loc, "MsgTransferUsage", nil, nil)}, nil
	}
	if receiverID == sender.UserID {
		return &Response{Text: locales.GetMessage(loc, "MsgTransferSelf", nil, nil)}, nil
	}
	amount, err := strconv.ParseInt(strings.TrimSpace(rawAmount), 10, 64)
	if err != nil || amount <= 0 {
		return &Response{Text: locales.GetMessage(loc, "MsgTransferUsage", nil, nil)}, nil
	}
	if amount < s.cfg.TransferMin {
		return &Response{Text: locales.GetMessage(loc, "MsgTransferMin", map[string]interface{}{
			"Min": s.cfg.TransferMin,
		}, nil)}, nil
	}
	if amount > s.cfg.TransferMax {
		return &Response{Text: locales.GetMessage(loc, "MsgTransferMax", map[string]interface{}{
			"Max": s.cfg.TransferMax,
		}, nil)}, nil
	}
	if amount > sender.Balance {
		return &Response{Text: locales.GetMessage(loc, "MsgInsufficientFunds", map[string]interface{}{
			"Missing": amount - sender.Balance,
		}, nil)}, nil
	}

	sentToday, err := s.transfers.SumSentSince(ctx, sender.UserID, policy.StartOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("transfer: daily sum: %w", err)
	}
	if sentToday+amount > s.cfg.TransferDailyCap {
		return &Response{Text: locales.GetMessage(loc, "MsgTransferDailyCap", map[string]interface{}{
			"Cap": s.cfg.TransferDailyCap,
		}, nil)}, nil
	}

	receiver, err := s.users.GetOrCreate(ctx, receiverID, sender.GroupID, "")
	if err != nil {
		return nil, fmt.Errorf("transfer: load receiver: %w", err)
	}

	tax := int64(math.Floor(float64(amount) * s.cfg.TransferTaxRate))
	net := amount - tax

	sender.Balance -= amount
	receiver.Balance += net

	if err := s.users.Update(ctx, sender.UserID, sender.GroupID, ledgerFields(sender)); err != nil {
		return nil, fmt.Errorf("transfer: debit sender: %w", err)
	}
	if err := s.users.Update(ctx, receiver.UserID, receiver.GroupID, map[string]interface{}{
		"balance": receiver.Balance,
	}); err != nil {
		return nil, fmt.Errorf("transfer: credit receiver: %w", err)
	}
	if err := s.banks.RecordTax(ctx, sender.GroupID, tax); err != nil {
		return nil, fmt.Errorf("transfer: record tax: %w", err)
	}
	if err := s.transfers.Add(ctx, &models.Transfer{
		ID:         uuid.NewString(),
		SenderID:   sender.UserID,
		ReceiverID: receiverID,
		GroupID:    sender.GroupID,
		Amount:     amount,
		Tax:        tax,
		CreatedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("transfer: record transfer: %w", err)
	}

	return &Response{
		Text: locales.GetMessage(loc, "MsgTransferSuccess", map[string]interface{}{
			"Amount":   amount,
			"Tax":      tax,
			"Net":      net,
			"Receiver": mentionTag(receiverID),
		}, nil),
		Mentions: []string{receiverID},
	}, nil
}
