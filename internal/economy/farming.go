package economy

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"amanda-bot/internal/database/models"
	"amanda-bot/internal/locales"
)

// Plant buys a seed and starts growing it. One crop at a time.
func (s *Service) Plant(ctx context.Context, user *models.User, seedName string, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	seed, ok := Seeds[strings.ToLower(strings.TrimSpace(seedName))]
	if !ok {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmUnknownSeed", map[string]interface{}{
			"Seed": seedName,
		}, nil)}, nil
	}
	if user.Level < seed.MinLevel {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmLevelRequired", map[string]interface{}{
			"Level": seed.MinLevel,
		}, nil)}, nil
	}
	if user.Crop != nil {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmAlreadyPlanted", map[string]interface{}{
			"Crop": user.Crop.Name,
		}, nil)}, nil
	}
	if user.Balance < seed.Price {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmNoFunds", map[string]interface{}{
			"Missing": seed.Price - user.Balance,
		}, nil)}, nil
	}

	user.Balance -= seed.Price
	user.LastPlant = now
	user.Crop = &models.Crop{
		ID:            seed.ID,
		Name:          seed.CropName,
		Value:         seed.CropValue,
		XP:            seed.CropXP,
		PlantedAt:     now,
		ReadyAt:       now.Add(seed.GrowTime),
		HarvestWindow: seed.HarvestWindow,
	}

	fields := ledgerFields(user)
	fields["last_plant"] = user.LastPlant
	fields["crop"] = user.Crop
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("plant: %w", err)
	}

	return &Response{Text: locales.GetMessage(loc, "MsgFarmPlanted", map[string]interface{}{
		"Seed": seed.Name,
		"Ready": formatDuration(seed.GrowTime),
	}, nil)}, nil
}

// Harvest collects a ready crop. Payout and XP decay linearly from
// full value at the ready instant down to zero at the end of the
// harvest window; past the window the crop is rotted and cleared with
// no pay.
func (s *Service) Harvest(ctx context.Context, user *models.User, loc *i18n.Localizer) (*Response, error) {
	now := s.now()

	if user.Crop == nil {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmNoCrop", nil, nil)}, nil
	}
	crop := user.Crop

	if now.Before(crop.ReadyAt) {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmNotReady", map[string]interface{}{
			"Crop":      crop.Name,
			"Remaining": formatDuration(crop.ReadyAt.Sub(now)),
		}, nil)}, nil
	}

	deadline := crop.ReadyAt.Add(crop.HarvestWindow)
	if now.After(deadline) {
		user.Crop = nil
		user.LastHarvest = now
		fields := ledgerFields(user)
		fields["crop"] = nil
		fields["last_harvest"] = user.LastHarvest
		if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
			return nil, fmt.Errorf("harvest: %w", err)
		}
		return &Response{Text: locales.GetMessage(loc, "MsgFarmRotted", map[string]interface{}{
			"Crop": crop.Name,
		}, nil)}, nil
	}

	// Freshness bonus: 1 at ReadyAt, 0 at the deadline.
	elapsed := now.Sub(crop.ReadyAt)
	freshness := 1 - float64(elapsed)/float64(crop.HarvestWindow)
	if freshness < 0 {
		freshness = 0
	}
	skill := user.Skills.Farming
	if skill <= 0 {
		skill = 1
	}
	amount := int64(math.Round(float64(crop.Value) * freshness * skill))
	xp := int(math.Floor(float64(crop.XP) * freshness))

	user.Balance += amount
	user.Crop = nil
	user.LastHarvest = now
	notices := s.grantXP(user, xp, loc)

	fields := ledgerFields(user)
	fields["crop"] = nil
	fields["last_harvest"] = user.LastHarvest
	if err := s.users.Update(ctx, user.UserID, user.GroupID, fields); err != nil {
		return nil, fmt.Errorf("harvest: %w", err)
	}

	text := locales.GetMessage(loc, "MsgFarmHarvest", map[string]interface{}{
		"Crop":   crop.Name,
		"Amount": amount,
		"XP":     xp,
	}, nil)
	return &Response{Text: text + notices}, nil
}

// FarmStatus reports the state of the in-flight crop.
func (s *Service) FarmStatus(user *models.User, loc *i18n.Localizer) *Response {
	now := s.now()

	if user.Crop == nil {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmNoCrop", nil, nil)}
	}
	crop := user.Crop

	if now.Before(crop.ReadyAt) {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmStatusGrowing", map[string]interface{}{
			"Crop":      crop.Name,
			"Remaining": formatDuration(crop.ReadyAt.Sub(now)),
		}, nil)}
	}

	deadline := crop.ReadyAt.Add(crop.HarvestWindow)
	if now.After(deadline) {
		return &Response{Text: locales.GetMessage(loc, "MsgFarmRotted", map[string]interface{}{
			"Crop": crop.Name,
		}, nil)}
	}
	return &Response{Text: locales.GetMessage(loc, "MsgFarmStatusReady", map[string]interface{}{
		"Crop":   crop.Name,
		"Window": formatDuration(deadline.Sub(now)),
	}, nil)}
}
