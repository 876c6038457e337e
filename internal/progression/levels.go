// Package progression is the day and level state machine of a shop: serving
// customers, day-end settlement, level-ups, experience, skills, trades and
// mission claims.
package progression

// MaxLevel is the highest level reachable through level-up checks.
const MaxLevel = 8

// Feature unlocks granted alongside category unlocks.
const (
	UnlockRarePool     = "rarePool"
	UnlockAppraisalPro = "appraisalPro"
)

// LevelConfig holds the thresholds for leaving a level and what reaching it grants.
type LevelConfig struct {
	Level            int
	CashTarget       int
	ReputationTarget int
	MinCustomers     int
	MaxCustomers     int
	Unlocks          []string
}

var levels = []LevelConfig{
	{Level: 1, CashTarget: 2000, ReputationTarget: 30, MinCustomers: 5, MaxCustomers: 8, Unlocks: []string{"electronics", "books"}},
	{Level: 2, CashTarget: 4000, ReputationTarget: 40, MinCustomers: 6, MaxCustomers: 9, Unlocks: []string{"toys"}},
	{Level: 3, CashTarget: 7000, ReputationTarget: 50, MinCustomers: 6, MaxCustomers: 10, Unlocks: []string{"fashion", "sports"}},
	{Level: 4, CashTarget: 12000, ReputationTarget: 60, MinCustomers: 7, MaxCustomers: 11, Unlocks: []string{"jewelry", UnlockRarePool}},
	{Level: 5, CashTarget: 20000, ReputationTarget: 70, MinCustomers: 8, MaxCustomers: 12, Unlocks: []string{"art"}},
	{Level: 6, CashTarget: 32000, ReputationTarget: 78, MinCustomers: 9, MaxCustomers: 13, Unlocks: []string{"antiques"}},
	{Level: 7, CashTarget: 50000, ReputationTarget: 86, MinCustomers: 10, MaxCustomers: 14, Unlocks: []string{UnlockAppraisalPro}},
	{Level: 8, CashTarget: 80000, ReputationTarget: 95, MinCustomers: 10, MaxCustomers: 15},
}

// Level returns the config of a level, clamped to [1, MaxLevel].
func Level(level int) LevelConfig {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levels[level-1]
}

// UnlocksUpTo returns every unlock granted from level 1 through level.
func UnlocksUpTo(level int) []string {
	var out []string
	for l := 1; l <= level && l <= MaxLevel; l++ {
		out = append(out, levels[l-1].Unlocks...)
	}
	return out
}

// Skill is a static skill definition.
type Skill struct {
	ID          string
	Name        string
	Description string
	MaxLevel    int
}

// Skill ids.
const (
	SkillAppraisal   = "appraisal"
	SkillCharisma    = "charisma"
	SkillNegotiation = "negotiation"
	SkillMarketSense = "market_sense"
)

// SkillUpgradeCost is the skill points one upgrade costs.
const SkillUpgradeCost = 1

var skills = map[string]Skill{
	SkillAppraisal:   {ID: SkillAppraisal, Name: "Appraisal", Description: "Cheaper appraisals", MaxLevel: 5},
	SkillCharisma:    {ID: SkillCharisma, Name: "Charisma", Description: "Extra reputation from good deals", MaxLevel: 5},
	SkillNegotiation: {ID: SkillNegotiation, Name: "Negotiation", Description: "Extra experience from closed deals", MaxLevel: 5},
	SkillMarketSense: {ID: SkillMarketSense, Name: "Market sense", Description: "Spot market trends earlier", MaxLevel: 5},
}

// Skills returns the skill table in a stable order.
func Skills() []Skill {
	return []Skill{skills[SkillAppraisal], skills[SkillCharisma], skills[SkillNegotiation], skills[SkillMarketSense]}
}

// LookupSkill returns the skill with id.
func LookupSkill(id string) (Skill, bool) {
	s, ok := skills[id]
	return s, ok
}
