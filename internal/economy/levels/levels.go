// Package levels implements XP accumulation, level progression and
// achievement checks for economy actors.
package levels

import (
	"math"
	"time"

	"amanda-bot/internal/database/models"
)

// levelRewards is the CBCoin bonus paid out when a level is reached.
// Levels past the table pay nothing.
var levelRewards = map[int]int64{
	2: 1000,
	3: 2500,
	4: 5000,
	5: 10000,
}

// Achievement names.
const (
	AchievementMillionaire = "Milionário"
	AchievementVeteran     = "Veterano"
	AchievementCollector   = "Colecionador"
)

// Curve is the geometric XP progression. Base is the XP needed to
// leave level 1; each following level costs Multiplier times more.
type Curve struct {
	Base       int
	Multiplier float64
}

// XPForLevel returns the XP needed to advance from the given level to
// the next one.
func (c Curve) XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(float64(c.Base) * math.Pow(c.Multiplier, float64(level-1))))
}

// FromXP resolves a cumulative XP total into the level it implies, the
// progress into that level and the cost of the next one.
func (c Curve) FromXP(xp int) (level, into, next int) {
	if xp < 0 {
		xp = 0
	}
	level = 1
	for xp >= c.XPForLevel(level) {
		xp -= c.XPForLevel(level)
		level++
	}
	return level, xp, c.XPForLevel(level)
}

// Report describes the outcome of an XP grant.
type Report struct {
	XPGained     int
	LevelsGained int
	NewLevel     int
	Reward       int64
}

// AddXP applies an XP gain to the user in memory, scaling it by an
// active xp_boost effect. The stored XP is cumulative; the level is
// always re-derived from it, and rewards for every crossed level are
// summed and credited to the balance. The caller persists the mutated
// fields.
func AddXP(c Curve, user *models.User, xp int, now time.Time) Report {
	if xp <= 0 {
		return Report{NewLevel: user.Level}
	}

	if boost, ok := user.ActiveEffect("xp_boost", now); ok && boost.Value > 0 {
		xp = int(math.Round(float64(xp) * boost.Value))
	}

	user.XP += xp
	report := Report{XPGained: xp, NewLevel: user.Level}

	newLevel, _, _ := c.FromXP(user.XP)
	if newLevel > user.Level {
		for lvl := user.Level + 1; lvl <= newLevel; lvl++ {
			report.Reward += levelRewards[lvl]
		}
		report.LevelsGained = newLevel - user.Level
		report.NewLevel = newLevel
		user.Level = newLevel
		user.Balance += report.Reward
	}
	return report
}

// CheckAchievements inspects the user's ledger and appends any newly
// earned achievements, returning their names in unlock order.
func CheckAchievements(user *models.User) []string {
	var unlocked []string

	award := func(name string, earned bool) {
		if earned && !user.HasAchievement(name) {
			user.Achievements = append(user.Achievements, name)
			unlocked = append(unlocked, name)
		}
	}

	award(AchievementMillionaire, user.Balance >= 1000000)
	award(AchievementVeteran, user.Level >= 20)
	award(AchievementCollector, len(user.Inventory) >= 10)

	return unlocked
}
