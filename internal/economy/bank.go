package economy

import (
	"context"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/locales"
)

// BankStatus reports the group bank's balance and accumulated taxes.
func (s *Service) BankStatus(ctx context.Context, groupID string, loc *i18n.Localizer) (*Response, error) {
	bank, err := s.banks.Get(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("bank status: %w", err)
	}
	return &Response{Text: locales.GetMessage(loc, "MsgBankStatus", map[string]interface{}{
		"Balance":      bank.Balance,
		"TaxCollected": bank.TotalTaxCollected,
		"Transfers":    bank.TotalTransfers,
	}, nil)}, nil
}
