package models

import "time"

// Skills holds the per-user multipliers that scale action outcomes.
// All values default to 1 (neutral) except RobChance, which is an
// additive success-probability bonus and defaults to 0.
type Skills struct {
	Farming        float64 `bson:"farming"`
	Mining         float64 `bson:"mining"`
	Fishing        float64 `bson:"fishing"`
	Trading        float64 `bson:"trading"`
	Gambling       float64 `bson:"gambling"`
	XPBoost        float64 `bson:"xp_boost"`
	WorkMultiplier float64 `bson:"work_multiplier"`
	RobChance      float64 `bson:"rob_chance"`
}

// Effect is a temporary modifier applied by using an inventory item.
// A RobChance effect with Value == -1 means full robbery immunity.
type Effect struct {
	Value       float64   `bson:"value"`
	ActiveUntil time.Time `bson:"active_until"`
}

// Active reports whether the effect is still in force at the given time.
func (e Effect) Active(now time.Time) bool {
	return e.ActiveUntil.After(now)
}

// InventoryItem is an owned copy of a shop or mining catalog item.
// Durability is only meaningful for tools (fishing rods).
type InventoryItem struct {
	ID         string `bson:"id"`
	Name       string `bson:"name"`
	Durability int    `bson:"durability,omitempty"`
}

// Crop is the single in-flight farming attempt of a user.
type Crop struct {
	ID            string        `bson:"id"`
	Name          string        `bson:"name"`
	Value         int64         `bson:"value"`
	XP            int           `bson:"xp"`
	PlantedAt     time.Time     `bson:"planted_at"`
	ReadyAt       time.Time     `bson:"ready_at"`
	HarvestWindow time.Duration `bson:"harvest_window"`
}

// User is the per-(actor,group) economy ledger record.
type User struct {
	UserID  string `bson:"user_id"`
	GroupID string `bson:"group_id"`
	Name    string `bson:"name"`

	Balance int64 `bson:"balance"`
	XP      int   `bson:"xp"`
	Level   int   `bson:"level"`

	Skills    Skills            `bson:"skills"`
	Inventory []InventoryItem   `bson:"inventory"`
	Effects   map[string]Effect `bson:"effects,omitempty"`

	LastDaily time.Time `bson:"last_daily"`
	LastWork  time.Time `bson:"last_work"`

	LastMine      time.Time `bson:"last_mine"`
	LastMineReset time.Time `bson:"last_mine_reset"`
	MineCount     int       `bson:"mine_count"`

	LastRob      time.Time `bson:"last_rob"`
	LastRobReset time.Time `bson:"last_rob_reset"`
	RobCount     int       `bson:"rob_count"`

	LastFish      time.Time `bson:"last_fish"`
	LastFishReset time.Time `bson:"last_fish_reset"`
	FishCount     int       `bson:"fish_count"`

	LastPlant   time.Time `bson:"last_plant"`
	LastHarvest time.Time `bson:"last_harvest"`
	Crop        *Crop     `bson:"crop,omitempty"`

	Achievements []string `bson:"achievements"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ActiveEffect returns the effect of the given kind if one is in force.
func (u *User) ActiveEffect(kind string, now time.Time) (Effect, bool) {
	if u.Effects == nil {
		return Effect{}, false
	}
	e, ok := u.Effects[kind]
	if !ok || !e.Active(now) {
		return Effect{}, false
	}
	return e, true
}

// HasAchievement reports whether the user already unlocked the achievement.
func (u *User) HasAchievement(name string) bool {
	for _, a := range u.Achievements {
		if a == name {
			return true
		}
	}
	return false
}
