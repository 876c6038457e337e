package quest

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
)

// Validation errors. They never leave the generator; an invalid quest is
// rerolled or replaced by a fallback.
var (
	ErrInvalidQuest      = errors.New("invalid quest")
	ErrLocked            = fmt.Errorf("%w: required unlock missing", ErrInvalidQuest)
	ErrTargetTooHigh     = fmt.Errorf("%w: target above customer limit", ErrInvalidQuest)
	ErrInventoryTooSmall = fmt.Errorf("%w: target above inventory size", ErrInvalidQuest)
	ErrTargetBelowOne    = fmt.Errorf("%w: target below one", ErrInvalidQuest)
)

// Template describes one concrete quest a bucket can produce.
type Template struct {
	QuestType   Type
	MissionType model.MissionType
	Category    model.Category
}

// Requirement returns the progress key the template listens to.
func (t Template) Requirement() model.RequirementType {
	switch t.QuestType {
	case DailySales, WeeklySales, MainTotalSales:
		return model.RequirementSellItems
	case DailyProfit, WeeklyProfit, MainTotalProfit:
		return model.RequirementEarnProfit
	case DailyCategory:
		return model.SellCategoryRequirement(t.Category)
	case DailyPurchases:
		return model.RequirementBuyItems
	case RareCollect:
		return model.RequirementCollectRare
	case NegotiationMaster:
		return model.RequirementNegotiateSuccess
	}
	return model.RequirementServeCustomers
}

// Buckets lists the templates of every quest type in reroll order.
var Buckets = map[Type][]Template{
	DailySales:        {{QuestType: DailySales, MissionType: model.MissionDaily}},
	DailyProfit:       {{QuestType: DailyProfit, MissionType: model.MissionDaily}},
	DailyCategory:     categoryTemplates(),
	DailyPurchases:    {{QuestType: DailyPurchases, MissionType: model.MissionDaily}},
	WeeklySales:       {{QuestType: WeeklySales, MissionType: model.MissionWeekly}},
	WeeklyProfit:      {{QuestType: WeeklyProfit, MissionType: model.MissionWeekly}},
	MainTotalProfit:   {{QuestType: MainTotalProfit, MissionType: model.MissionAchievement}},
	MainTotalSales:    {{QuestType: MainTotalSales, MissionType: model.MissionAchievement}},
	RareCollect:       {{QuestType: RareCollect, MissionType: model.MissionAchievement}},
	NegotiationMaster: {{QuestType: NegotiationMaster, MissionType: model.MissionAchievement}},
}

func categoryTemplates() []Template {
	var out []Template
	for _, c := range model.AllCategories() {
		out = append(out, Template{QuestType: DailyCategory, MissionType: model.MissionDaily, Category: c})
	}
	return out
}

// Quest types generated per mission list.
var (
	dailyTypes       = []Type{DailySales, DailyProfit, DailyCategory, DailyPurchases}
	weeklyTypes      = []Type{WeeklySales, WeeklyProfit}
	achievementTypes = []Type{MainTotalProfit, MainTotalSales, RareCollect, NegotiationMaster}
)

// Validate checks a generated mission against the player. A daily sales
// target above the player's customer cap is corrected in place; every
// other failure invalidates the mission.
func Validate(m model.Mission, t Template, p PlayerSnapshot) (model.Mission, error) {
	switch t.QuestType {
	case DailyCategory:
		if !p.HasUnlock(string(t.Category)) {
			return m, ErrLocked
		}
	case RareCollect:
		if !p.HasUnlock(RarePoolUnlock) {
			return m, ErrLocked
		}
	}

	maxCustomers := p.CustomerCap()
	for i, r := range m.Requirements {
		if m.Type == model.MissionDaily && r.Type == model.RequirementSellItems && r.Target > maxCustomers {
			if maxCustomers < 1 {
				return m, ErrTargetTooHigh
			}
			m.Requirements = append([]model.Requirement(nil), m.Requirements...)
			m.Requirements[i].Target = maxCustomers
			r.Target = maxCustomers
		}
		if r.Type == model.RequirementBuyItems && r.Target > p.InventorySize {
			return m, ErrInventoryTooSmall
		}
		if m.Type == model.MissionDaily && r.Target < 1 {
			return m, ErrTargetBelowOne
		}
	}
	m.MaxProgress = totalTarget(m.Requirements)
	return m, nil
}

// Generator builds missions. It is safe to share only if its source is.
type Generator struct {
	src rng.Source
}

// NewGenerator creates a generator drawing template picks from src.
func NewGenerator(src rng.Source) *Generator {
	return &Generator{src: src}
}

// Generate produces a valid mission of the quest type or nil. A random
// template of the bucket is tried first, then the rest of the bucket in
// order, wrapping around.
func (g *Generator) Generate(qt Type, p PlayerSnapshot, idPrefix string) *model.Mission {
	bucket := Buckets[qt]
	if len(bucket) == 0 {
		return nil
	}

	first := rng.Index(g.src, len(bucket))
	order := append([]Template{bucket[first]}, bucket[first+1:]...)
	order = append(order, bucket[:first]...)

	for _, t := range order {
		m, err := Validate(build(t, p, idPrefix), t, p)
		if err != nil {
			log.Debug().Err(err).Str("quest", string(qt)).Str("category", string(t.Category)).Msg("quest rerolled")
			continue
		}
		return &m
	}
	return nil
}

// DailyMissions generates the missions of a day. It never returns an empty list.
func (g *Generator) DailyMissions(p PlayerSnapshot, day int) []model.Mission {
	prefix := fmt.Sprintf("qt-d%d", day)
	out := g.generateAll(dailyTypes, p, prefix)
	if len(out) == 0 {
		log.Warn().Int("day", day).Msg("no valid daily quest, using fallback")
		return []model.Mission{FallbackDaily(p, day)}
	}
	return out
}

// WeeklyMissions generates the missions of the week containing day. It never
// returns an empty list.
func (g *Generator) WeeklyMissions(p PlayerSnapshot, day int) []model.Mission {
	week := WeekOf(day)
	prefix := fmt.Sprintf("qt-w%d", week)
	out := g.generateAll(weeklyTypes, p, prefix)
	if len(out) == 0 {
		log.Warn().Int("week", week).Msg("no valid weekly quest, using fallback")
		return []model.Mission{FallbackWeekly(p, week)}
	}
	return out
}

// AchievementMissions generates the milestones of the player's level. Ids
// depend only on level and quest type, so regenerating is idempotent.
func (g *Generator) AchievementMissions(p PlayerSnapshot) []model.Mission {
	return g.generateAll(achievementTypes, p, fmt.Sprintf("qt-l%d", p.Level))
}

func (g *Generator) generateAll(types []Type, p PlayerSnapshot, prefix string) []model.Mission {
	var out []model.Mission
	for _, qt := range types {
		if m := g.Generate(qt, p, prefix); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// WeekOf returns the 1-based week of a 1-based day.
func WeekOf(day int) int {
	if day < 1 {
		return 1
	}
	return (day-1)/7 + 1
}

func build(t Template, p PlayerSnapshot, prefix string) model.Mission {
	target := Target(t.QuestType, p)
	return model.Mission{
		ID:          prefix + "-" + string(t.QuestType),
		QuestType:   string(t.QuestType),
		Title:       "quest." + string(t.QuestType),
		Description: describe(t, target),
		Type:        t.MissionType,
		Requirements: []model.Requirement{
			{Type: t.Requirement(), Target: target},
		},
		Rewards:     Rewards(t.MissionType, p.Level),
		MaxProgress: target,
		Level:       p.Level,
	}
}

func describe(t Template, target int) string {
	if t.Category != "" {
		return fmt.Sprintf("%s %d (%s)", t.QuestType, target, t.Category)
	}
	return fmt.Sprintf("%s %d", t.QuestType, target)
}

// Rewards returns the payout of a mission type at a level.
func Rewards(mt model.MissionType, level int) []model.Reward {
	cfg := ConfigFor(level)
	scaled := func(f float64) int {
		return int(math.Round(float64(cfg.BaseProfit) * cfg.Difficulty * f))
	}

	switch mt {
	case model.MissionWeekly:
		return []model.Reward{
			{Type: model.RewardCash, Amount: scaled(2)},
			{Type: model.RewardReputation, Amount: 5},
			{Type: model.RewardExperience, Amount: 60},
		}
	case model.MissionAchievement:
		return []model.Reward{
			{Type: model.RewardCash, Amount: scaled(5)},
			{Type: model.RewardReputation, Amount: 10},
			{Type: model.RewardExperience, Amount: 150},
		}
	default:
		return []model.Reward{
			{Type: model.RewardCash, Amount: scaled(0.5)},
			{Type: model.RewardExperience, Amount: 20},
		}
	}
}

// FallbackDaily is the trivial daily mission used when nothing validates.
func FallbackDaily(p PlayerSnapshot, day int) model.Mission {
	return model.Mission{
		ID:           fmt.Sprintf("qt-d%d-fallback", day),
		QuestType:    "fallback_daily",
		Title:        "quest.fallback_daily",
		Description:  "serve_customers 1",
		Type:         model.MissionDaily,
		Requirements: []model.Requirement{{Type: model.RequirementServeCustomers, Target: 1}},
		Rewards:      []model.Reward{{Type: model.RewardExperience, Amount: 10}},
		MaxProgress:  1,
		Level:        p.Level,
	}
}

// FallbackWeekly is the trivial weekly mission used when nothing validates.
func FallbackWeekly(p PlayerSnapshot, week int) model.Mission {
	return model.Mission{
		ID:           fmt.Sprintf("qt-w%d-fallback", week),
		QuestType:    "fallback_weekly",
		Title:        "quest.fallback_weekly",
		Description:  "sell_items 3",
		Type:         model.MissionWeekly,
		Requirements: []model.Requirement{{Type: model.RequirementSellItems, Target: 3}},
		Rewards:      []model.Reward{{Type: model.RewardExperience, Amount: 30}},
		MaxProgress:  3,
		Level:        p.Level,
	}
}
