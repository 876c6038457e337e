// Package quest generates daily, weekly and achievement missions whose
// targets scale with the player's level and recent performance.
package quest

import (
	"math"

	"haggle-shop/internal/model"
)

// Type identifies a quest formula.
type Type string

const (
	DailySales        Type = "daily_sales"
	DailyProfit       Type = "daily_profit"
	DailyCategory     Type = "daily_category"
	DailyPurchases    Type = "daily_purchases"
	WeeklySales       Type = "weekly_sales"
	WeeklyProfit      Type = "weekly_profit"
	MainTotalProfit   Type = "main_total_profit"
	MainTotalSales    Type = "main_total_sales"
	RareCollect       Type = "rare_collect"
	NegotiationMaster Type = "negotiation_master"
)

// RarePoolUnlock gates rare collection quests.
const RarePoolUnlock = "rarePool"

// LevelConfig is the quest scaling row of one level. Its customer range
// only shapes targets; the customers a shop really gets per day come from
// the progression level table and reach quests as PlayerSnapshot.MaxCustomers.
type LevelConfig struct {
	MinCustomers int
	MaxCustomers int
	BaseProfit   int
	Difficulty   float64
}

var levelConfigs = map[int]LevelConfig{
	1: {MinCustomers: 5, MaxCustomers: 8, BaseProfit: 150, Difficulty: 1.0},
	2: {MinCustomers: 6, MaxCustomers: 10, BaseProfit: 250, Difficulty: 1.2},
	3: {MinCustomers: 8, MaxCustomers: 12, BaseProfit: 400, Difficulty: 1.4},
	4: {MinCustomers: 10, MaxCustomers: 14, BaseProfit: 600, Difficulty: 1.7},
	5: {MinCustomers: 12, MaxCustomers: 16, BaseProfit: 900, Difficulty: 2.0},
}

// ConfigFor returns the scaling row of a level. Levels outside 1-5 use level 1.
func ConfigFor(level int) LevelConfig {
	if cfg, ok := levelConfigs[level]; ok {
		return cfg
	}
	return levelConfigs[1]
}

// AvgCustomers is the rounded midpoint of the level's customer range.
func (c LevelConfig) AvgCustomers() int {
	return round(float64(c.MinCustomers+c.MaxCustomers) / 2)
}

// PlayerSnapshot is the part of the player state quest generation reads.
// MaxCustomers is the most customers the shop can serve in a day; zero
// means unknown and falls back to the quest table.
type PlayerSnapshot struct {
	Level              int
	Cash               int
	Reputation         int
	InventorySize      int
	Unlocks            []string
	DailySuccessStreak int
	MaxCustomers       int
}

// Snapshot captures the quest inputs of a player state.
func Snapshot(s *model.PlayerState) PlayerSnapshot {
	return PlayerSnapshot{
		Level:              s.Level,
		Cash:               s.Cash,
		Reputation:         s.Reputation,
		InventorySize:      len(s.Inventory),
		Unlocks:            s.Unlocks,
		DailySuccessStreak: s.DailySuccessStreak,
	}
}

// CustomerCap is the highest daily sales target the player can reach.
func (p PlayerSnapshot) CustomerCap() int {
	limit := ConfigFor(p.Level).MaxCustomers
	if p.MaxCustomers > 0 && p.MaxCustomers < limit {
		return p.MaxCustomers
	}
	return limit
}

// HasUnlock reports whether the unlock flag is set.
func (p PlayerSnapshot) HasUnlock(flag string) bool {
	for _, u := range p.Unlocks {
		if u == flag {
			return true
		}
	}
	return false
}

// BaseTarget computes the unadjusted target of a quest type.
func BaseTarget(qt Type, p PlayerSnapshot) int {
	cfg := ConfigFor(p.Level)
	avg := cfg.AvgCustomers()
	level := float64(p.Level)

	switch qt {
	case DailySales:
		return clampInt(int(math.Ceil(float64(avg)*0.7)), 3, avg)
	case DailyProfit:
		return round(float64(cfg.BaseProfit) * math.Pow(1.35, level-1))
	case DailyCategory:
		if p.Level >= 4 {
			return 2
		}
		return 1
	case DailyPurchases:
		return max(1, round(float64(avg)*0.4))
	case WeeklySales:
		return clampInt(avg*4, avg*3, avg*5)
	case WeeklyProfit:
		return round(float64(cfg.BaseProfit*4) * math.Pow(1.2, level-1))
	case MainTotalProfit:
		return round(float64(cfg.BaseProfit*10) * math.Pow(1.35, level-1))
	case MainTotalSales:
		return round(float64(avg) * level * 5)
	case RareCollect:
		return max(1, p.Level/2)
	case NegotiationMaster:
		return max(3, round(float64(avg)*0.8*level))
	}
	return 0
}

// AdjustForStreak scales a target by the daily success streak: +10% after
// three good days, -10% after two bad ones. Daily sales targets are then
// kept within [3, maxCustomers].
func AdjustForStreak(qt Type, target int, p PlayerSnapshot) int {
	switch {
	case p.DailySuccessStreak >= 3:
		target = round(float64(target) * 1.1)
	case p.DailySuccessStreak <= -2:
		target = round(float64(target) * 0.9)
	}
	if qt == DailySales {
		target = clampInt(target, 3, p.CustomerCap())
	}
	return target
}

// Target is the streak adjusted target of a quest type.
func Target(qt Type, p PlayerSnapshot) int {
	return AdjustForStreak(qt, BaseTarget(qt, p), p)
}

// round rounds half up, matching the game's historical rounding.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
