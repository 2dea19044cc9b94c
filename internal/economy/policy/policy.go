// Package policy implements the time gates shared by every economy
// action: fixed cooldowns between attempts and per-day attempt caps
// that reset at local midnight.
package policy

import "time"

// CooldownResult reports whether an action is allowed and, when it is
// not, how long the actor still has to wait.
type CooldownResult struct {
	Allowed   bool
	Remaining time.Duration
}

// CheckCooldown gates an action on the time elapsed since its last use.
// The action becomes available again exactly at last+cooldown. A zero
// last time means the action was never used and is always allowed.
func CheckCooldown(last time.Time, cooldown time.Duration, now time.Time) CooldownResult {
	if last.IsZero() || cooldown <= 0 {
		return CooldownResult{Allowed: true}
	}
	readyAt := last.Add(cooldown)
	if now.Before(readyAt) {
		return CooldownResult{Remaining: readyAt.Sub(now)}
	}
	return CooldownResult{Allowed: true}
}

// DailyCapResult reports whether another attempt fits under the daily
// cap. Count and LastReset carry the ledger values after the calendar
// rollover is applied and must be persisted by the caller together with
// the action's outcome. UntilReset is how long until the next local
// midnight, for user-facing messages when the cap is hit.
type DailyCapResult struct {
	Allowed    bool
	Count      int
	LastReset  time.Time
	UntilReset time.Duration
}

// CheckDailyCap applies the calendar-day rollover and then the cap. The
// counter resets whenever now falls on a different local calendar day
// than lastReset, so a cap hit at 23:59 clears one minute later.
func CheckDailyCap(lastReset time.Time, count, limit int, now time.Time) DailyCapResult {
	if !sameDay(lastReset, now) {
		count = 0
		lastReset = now
	}
	if limit > 0 && count >= limit {
		return DailyCapResult{
			Count:      count,
			LastReset:  lastReset,
			UntilReset: untilMidnight(now),
		}
	}
	return DailyCapResult{Allowed: true, Count: count, LastReset: lastReset}
}

// sameDay reports whether two instants fall on the same local calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// untilMidnight returns the duration until the next local midnight.
func untilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// StartOfDay returns local midnight of the day containing t. Transfer
// accounting sums amounts sent since this instant.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
