package progression

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"haggle-shop/internal/event"
	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/quest"
)

// Day-end costs.
const (
	baseRent          = 100
	rentPerLevel      = 25
	baseUtilities     = 30
	utilitiesPerLevel = 10
	taxRatePercent    = 5
)

// A new market trend starts with trendChance per day, raised by market sense.
const (
	trendChance         = 0.15
	trendChancePerSkill = 0.03
	trendMinBonus       = 10.0
	trendMaxBonus       = 40.0
	trendMinDays        = 2
	trendMaxDays        = 5
)

// Settlement is the result of closing a day.
type Settlement struct {
	Day       int                   `json:"day"`
	Rent      int                   `json:"rent"`
	Tax       int                   `json:"tax"`
	Utilities int                   `json:"utilities"`
	Total     int                   `json:"total"`
	Summary   model.DailyFinancials `json:"summary"`
}

// DayCosts returns rent, tax and utilities owed at the end of a day.
func DayCosts(level, cash int) (rent, tax, utilities int) {
	rent = baseRent + (level-1)*rentPerLevel
	if cash > 0 {
		tax = cash * taxRatePercent / 100
	}
	utilities = baseUtilities + (level-1)*utilitiesPerLevel
	return rent, tax, utilities
}

// ServeCustomer counts a served customer. Reaching the daily limit sets
// DayEndPending; the day is not advanced.
func (e *Engine) ServeCustomer() bool {
	s := e.state
	s.CustomersServed++
	e.progress(model.RequirementServeCustomers, 1)
	if s.CustomersServed >= s.DailyCustomerLimit {
		s.DayEndPending = true
	}
	e.markDirty()
	return s.DayEndPending
}

// CheckLevelUp raises the level by one when cash and reputation both meet
// the current level's targets and the level is below MaxLevel. The new
// level's unlocks are added and exactly one skill point is awarded.
func (e *Engine) CheckLevelUp() bool {
	s := e.state
	cfg := Level(s.Level)
	if s.Level >= MaxLevel || s.Cash < cfg.CashTarget || s.Reputation < cfg.ReputationTarget {
		return false
	}

	s.Level++
	for _, u := range Level(s.Level).Unlocks {
		if !s.HasUnlock(u) {
			s.Unlocks = append(s.Unlocks, u)
		}
	}
	s.SkillPoints++
	e.markDirty()

	e.emit(event.LevelUp, fmt.Sprintf("level:%d", s.Level))
	log.Info().Int("level", s.Level).Int("day", s.Day).Msg("level up")
	e.checkLevels()
	return true
}

// AdvanceDay settles the current day and starts the next one.
func (e *Engine) AdvanceDay() Settlement {
	s := e.state
	closing := s.Day

	rent, tax, utilities := DayCosts(s.Level, s.Cash)
	total := rent + tax + utilities
	s.Cash -= total
	e.record(model.RecordExpense, model.LedgerRent, rent, "rent")
	e.record(model.RecordExpense, model.LedgerTax, tax, "tax")
	e.record(model.RecordExpense, model.LedgerUtilities, utilities, "utilities")

	summary := DailySummary(s.Financials, closing)
	s.DailyFinancials = append(s.DailyFinancials, summary)
	e.updateStreak(summary.NetProfit)

	s.Day++
	s.DailyStats = model.DailyStats{}
	s.CustomersServed = 0
	s.DayEndPending = false
	s.Trends = tickTrends(s.Trends)
	s.Events = tickEvents(s.Events)

	e.refreshMissions(closing)

	cfg := Level(s.Level)
	s.DailyCustomerLimit = rng.IntRange(e.src, cfg.MinCustomers, cfg.MaxCustomers)
	e.rollTrend()

	e.markDirty()
	e.emit(event.Notification, fmt.Sprintf("day:%d", s.Day))
	log.Info().
		Int("day", closing).
		Int("expenses", total).
		Int("net_profit", summary.NetProfit).
		Int("cash", s.Cash).
		Int("streak", s.DailySuccessStreak).
		Msg("day settled")

	return Settlement{Day: closing, Rent: rent, Tax: tax, Utilities: utilities, Total: total, Summary: summary}
}

// EndDay runs the level-up check and then starts the next day.
func (e *Engine) EndDay() (bool, Settlement) {
	leveled := e.CheckLevelUp()
	return leveled, e.AdvanceDay()
}

// DailySummary aggregates every ledger entry of day.
func DailySummary(records []model.FinancialRecord, day int) model.DailyFinancials {
	out := model.DailyFinancials{Day: day}
	for _, r := range records {
		if r.Day != day {
			continue
		}
		switch r.Type {
		case model.RecordIncome:
			out.Income += r.Amount
		case model.RecordExpense:
			out.Expense += r.Amount
		}
	}
	out.NetProfit = out.Income - out.Expense
	return out
}

// updateStreak extends a run of profitable or unprofitable days.
func (e *Engine) updateStreak(netProfit int) {
	s := e.state
	if netProfit > 0 {
		if s.DailySuccessStreak < 0 {
			s.DailySuccessStreak = 0
		}
		s.DailySuccessStreak++
		return
	}
	if s.DailySuccessStreak > 0 {
		s.DailySuccessStreak = 0
	}
	s.DailySuccessStreak--
}

// refreshMissions replaces daily missions, keeps unclaimed weekly and
// achievement missions, and merges in the missions of a new week and the
// achievements of the current level.
func (e *Engine) refreshMissions(closingDay int) {
	s := e.state
	p := e.snapshot()

	kept := make([]model.Mission, 0, len(s.Missions))
	for _, m := range s.Missions {
		if m.Type != model.MissionDaily {
			kept = append(kept, m)
		}
	}
	kept = append(kept, e.quests.DailyMissions(p, s.Day)...)

	if quest.WeekOf(s.Day) != quest.WeekOf(closingDay) {
		kept = quest.MergeByID(kept, e.unclaimed(e.quests.WeeklyMissions(p, s.Day)))
	}
	kept = quest.MergeByID(kept, e.unclaimed(e.quests.AchievementMissions(p)))
	s.Missions = kept
}

// unclaimed drops missions whose id was already paid out.
func (e *Engine) unclaimed(missions []model.Mission) []model.Mission {
	out := missions[:0:0]
	for _, m := range missions {
		if !e.state.IsClaimed(m.ID) {
			out = append(out, m)
		}
	}
	return out
}

// rollTrend may start a new market trend on an unlocked category.
func (e *Engine) rollTrend() {
	chance := trendChance + trendChancePerSkill*float64(e.SkillLevel(SkillMarketSense))
	if !rng.Chance(e.src, chance) {
		return
	}
	categories := e.state.UnlockedCategories()
	if len(categories) == 0 {
		return
	}
	trend := model.MarketTrend{
		Category: rng.Pick(e.src, categories),
		Bonus:    rng.Between(e.src, trendMinBonus, trendMaxBonus),
		DaysLeft: rng.IntRange(e.src, trendMinDays, trendMaxDays),
	}
	e.state.Trends = append(e.state.Trends, trend)
	e.state.Events = append(e.state.Events, model.MarketEvent{
		ID:       uuid.NewString(),
		Name:     "trend:" + string(trend.Category),
		DaysLeft: trend.DaysLeft,
	})
	e.emit(event.Notification, "trend:"+string(trend.Category))
	log.Debug().Str("category", string(trend.Category)).Float64("bonus", trend.Bonus).Msg("market trend started")
}

func tickTrends(trends []model.MarketTrend) []model.MarketTrend {
	var out []model.MarketTrend
	for _, t := range trends {
		t.DaysLeft--
		if t.DaysLeft > 0 {
			out = append(out, t)
		}
	}
	return out
}

func tickEvents(events []model.MarketEvent) []model.MarketEvent {
	var out []model.MarketEvent
	for _, ev := range events {
		ev.DaysLeft--
		if ev.DaysLeft > 0 {
			out = append(out, ev)
		}
	}
	return out
}
