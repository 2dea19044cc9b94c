package levels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"amanda-bot/internal/database/models"
)

var curve = Curve{Base: 1000, Multiplier: 1.5}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 1000, curve.XPForLevel(1))
	assert.Equal(t, 1500, curve.XPForLevel(2))
	assert.Equal(t, 2250, curve.XPForLevel(3))
	assert.Equal(t, 3375, curve.XPForLevel(4))
	// Out-of-range input clamps to level 1.
	assert.Equal(t, 1000, curve.XPForLevel(0))
}

func TestFromXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
		into  int
		next  int
	}{
		{0, 1, 0, 1000},
		{999, 1, 999, 1000},
		{1000, 2, 0, 1500},
		{1100, 2, 100, 1500},
		{2500, 3, 0, 2250},
		{2600, 3, 100, 2250},
		{-5, 1, 0, 1000},
	}
	for _, tc := range cases {
		level, into, next := curve.FromXP(tc.xp)
		assert.Equal(t, tc.level, level, "level for %d", tc.xp)
		assert.Equal(t, tc.into, into, "progress for %d", tc.xp)
		assert.Equal(t, tc.next, next, "next cost for %d", tc.xp)
	}
}

func TestAddXP(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("no level up keeps cumulative xp", func(t *testing.T) {
		user := &models.User{Level: 1}
		report := AddXP(curve, user, 500, now)

		assert.Equal(t, 500, report.XPGained)
		assert.Equal(t, 0, report.LevelsGained)
		assert.Equal(t, 1, user.Level)
		assert.Equal(t, 500, user.XP)
		assert.Zero(t, user.Balance)
	})

	t.Run("single level up pays the reward", func(t *testing.T) {
		user := &models.User{Level: 1, XP: 900}
		report := AddXP(curve, user, 200, now)

		assert.Equal(t, 1, report.LevelsGained)
		assert.Equal(t, 2, report.NewLevel)
		assert.Equal(t, int64(1000), report.Reward)
		assert.Equal(t, 2, user.Level)
		assert.Equal(t, 1100, user.XP, "xp stays cumulative across the level")
		assert.Equal(t, int64(1000), user.Balance)
	})

	t.Run("multiple levels sum rewards", func(t *testing.T) {
		// 1000 + 1500 = 2500 XP crosses levels 2 and 3 in one grant.
		user := &models.User{Level: 1}
		report := AddXP(curve, user, 2600, now)

		assert.Equal(t, 2, report.LevelsGained)
		assert.Equal(t, 3, report.NewLevel)
		assert.Equal(t, int64(3500), report.Reward)
		assert.Equal(t, 3, user.Level)
		assert.Equal(t, 2600, user.XP)
		assert.Equal(t, int64(3500), user.Balance)
	})

	t.Run("levels past the reward table pay nothing", func(t *testing.T) {
		// One XP short of level 7.
		total := 0
		for lvl := 1; lvl <= 6; lvl++ {
			total += curve.XPForLevel(lvl)
		}
		user := &models.User{Level: 6, XP: total - 1}
		report := AddXP(curve, user, 1, now)

		assert.Equal(t, 1, report.LevelsGained)
		assert.Equal(t, 7, user.Level)
		assert.Zero(t, report.Reward)
		assert.Zero(t, user.Balance)
	})

	t.Run("active xp boost scales the gain", func(t *testing.T) {
		user := &models.User{
			Level: 1,
			Effects: map[string]models.Effect{
				"xp_boost": {Value: 1.5, ActiveUntil: now.Add(time.Hour)},
			},
		}
		report := AddXP(curve, user, 100, now)

		assert.Equal(t, 150, report.XPGained)
		assert.Equal(t, 150, user.XP)
	})

	t.Run("expired xp boost is ignored", func(t *testing.T) {
		user := &models.User{
			Level: 1,
			Effects: map[string]models.Effect{
				"xp_boost": {Value: 1.5, ActiveUntil: now.Add(-time.Hour)},
			},
		}
		report := AddXP(curve, user, 100, now)

		assert.Equal(t, 100, report.XPGained)
	})

	t.Run("zero gain is a no-op", func(t *testing.T) {
		user := &models.User{Level: 1, XP: 50}
		report := AddXP(curve, user, 0, now)

		assert.Zero(t, report.XPGained)
		assert.Equal(t, 1, report.NewLevel)
		assert.Equal(t, 50, user.XP)
	})
}

func TestCheckAchievements(t *testing.T) {
	t.Run("millionaire", func(t *testing.T) {
		user := &models.User{Balance: 1000000}
		assert.Equal(t, []string{AchievementMillionaire}, CheckAchievements(user))
		// Idempotent on the second pass.
		assert.Empty(t, CheckAchievements(user))
	})

	t.Run("veteran and collector together", func(t *testing.T) {
		user := &models.User{
			Level:     20,
			Inventory: make([]models.InventoryItem, 10),
		}
		unlocked := CheckAchievements(user)
		assert.Equal(t, []string{AchievementVeteran, AchievementCollector}, unlocked)
	})

	t.Run("nothing earned", func(t *testing.T) {
		user := &models.User{Level: 5, Balance: 500}
		assert.Empty(t, CheckAchievements(user))
	})
}
