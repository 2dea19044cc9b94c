package economy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/locales"
)

// Shop lists everything for sale, effect items first, rods after.
func (s *Service) Shop(loc *i18n.Localizer) *Response {
	var sb strings.Builder
	sb.WriteString(locales.GetMessage(loc, "MsgShopHeader", nil, nil))
	for _, id := range shopOrder {
		var name string
		var price int64
		var level int
		if item, ok := ShopItems[id]; ok {
			name, price, level = item.Name, item.Price, item.MinLevel
		} else if rod, ok := Rods[id]; ok {
			name, price, level = rod.Name, rod.Price, rod.MinLevel
		} else {
			continue
		}
		sb.WriteString(locales.GetMessage(loc, "MsgShopItemLine", map[string]interface{}{
			"Name":  name,
			"Price": price,
			"Level": level,
		}, nil))
		sb.WriteString("\n")
	}
	return &Response{Text: strings.TrimRight(sb.String(), "\n")}
}

// Buy purchases a shop item or rod by id. Rods enter the inventory
// with full durability; effect items are held until used.
func (s *Service) Buy(ctx context.Context, user *models.User, itemName string, loc *i18n.Localizer) (*Response, error) {
	id := strings.ToLower(strings.TrimSpace(itemName))

	var name string
	var price int64
	var minLevel, durability int
	if item, ok := ShopItems[id]; ok {
		name, price, minLevel = item.Name, item.Price, item.MinLevel
	} else if rod, ok := Rods[id]; ok {
		name, price, minLevel, durability = rod.Name, rod.Price, rod.MinLevel, rod.Durability
	} else {
		return &Response{Text: locales.GetMessage(loc, "MsgBuyUnknownItem", map[string]interface{}{
			"Item": itemName,
		}, nil)}, nil
	}

	if user.Level < minLevel {
		return &Response{Text: locales.GetMessage(loc, "MsgBuyLevelRequired", map[string]interface{}{
			"Level": minLevel,
		}, nil)}, nil
	}
	for _, owned := range user.Inventory {
		if owned.ID == id {
			return &Response{Text: locales.GetMessage(loc, "MsgBuyAlreadyOwned", map[string]interface{}{
				"Item": name,
			}, nil)}, nil
		}
	}
	if user.Balance < price {
		return &Response{Text: locales.GetMessage(loc, "MsgInsufficientFunds", map[string]interface{}{
			"Missing": price - user.Balance,
		}, nil)}, nil
	}

	user.Balance -= price
	user.Inventory = append(user.Inventory, models.InventoryItem{
		ID:         id,
		Name:       name,
		Durability: durability,
	})
	notices := s.grantXP(user, 0, loc)

	fields := ledgerFields(user)
	fields["inventory"] = user.Inventory
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	text := locales.GetMessage(loc, "MsgBuySuccess", map[string]interface{}{
		"Item":  name,
		"Price": price,
	}, nil)
	return &Response{Text: text + notices}, nil
}

// InventoryList renders the user's inventory.
func (s *Service) InventoryList(user *models.User, loc *i18n.Localizer) *Response {
	if len(user.Inventory) == 0 {
		return &Response{Text: locales.GetMessage(loc, "MsgInventoryEmpty", nil, nil)}
	}
	var sb strings.Builder
	sb.WriteString(locales.GetMessage(loc, "MsgInventoryHeader", nil, nil))
	for _, item := range user.Inventory {
		if _, isRod := Rods[item.ID]; isRod {
			sb.WriteString(locales.GetMessage(loc, "MsgInventoryRodLine", map[string]interface{}{
				"Name":       item.Name,
				"Durability": item.Durability,
			}, nil))
		} else {
			sb.WriteString(locales.GetMessage(loc, "MsgInventoryItemLine", map[string]interface{}{
				"Name": item.Name,
			}, nil))
		}
		sb.WriteString("\n")
	}
	return &Response{Text: strings.TrimRight(sb.String(), "\n")}
}

// Use consumes an owned effect item, activating its effect for the
// item's duration. Rods are not usable; they work during fishing.
func (s *Service) Use(ctx context.Context, user *models.User, itemName string, loc *i18n.Localizer) (*Response, error) {
	id := strings.ToLower(strings.TrimSpace(itemName))
	if id == "" {
		return &Response{Text: locales.GetMessage(loc, "MsgUseUsage", nil, nil)}, nil
	}

	if _, isRod := Rods[id]; isRod {
		rod := Rods[id]
		return &Response{Text: locales.GetMessage(loc, "MsgUseNotUsable", map[string]interface{}{
			"Item": rod.Name,
		}, nil)}, nil
	}
	item, ok := ShopItems[id]
	if !ok {
		return &Response{Text: locales.GetMessage(loc, "MsgUseUnknownItem", map[string]interface{}{
			"Item": itemName,
		}, nil)}, nil
	}

	idx := -1
	for i, owned := range user.Inventory {
		if owned.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &Response{Text: locales.GetMessage(loc, "MsgUseNotOwned", map[string]interface{}{
			"Item": item.Name,
		}, nil)}, nil
	}

	now := s.now()
	until := now.Add(item.Duration)

	user.Inventory = append(user.Inventory[:idx], user.Inventory[idx+1:]...)
	if user.Effects == nil {
		user.Effects = make(map[string]models.Effect)
	}
	user.Effects[item.EffectKind] = models.Effect{
		Value:       item.EffectValue,
		ActiveUntil: until,
	}

	fields := ledgerFields(user)
	fields["inventory"] = user.Inventory
	fields["effects"] = user.Effects
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("use: %w", err)
	}

	return &Response{Text: locales.GetMessage(loc, "MsgUseSuccess", map[string]interface{}{
		"Item":  item.Name,
		"Until": until.Format("15:04"),
	}, nil)}, nil
}
