// Package model defines the data models shared by the shop simulation core.
package model

import "time"

// Category is one of the eight item categories.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryJewelry     Category = "jewelry"
	CategoryArt         Category = "art"
	CategoryAntiques    Category = "antiques"
	CategoryToys        Category = "toys"
	CategoryBooks       Category = "books"
	CategorySports      Category = "sports"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryFashion,
		CategoryJewelry,
		CategoryArt,
		CategoryAntiques,
		CategoryToys,
		CategoryBooks,
		CategorySports,
	}
}

// Authenticity describes whether an item is genuine.
type Authenticity string

const (
	Authentic  Authenticity = "authentic"
	Fake       Authenticity = "fake"
	Suspicious Authenticity = "suspicious"
)

// Rarity of an item.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityVeryRare  Rarity = "very_rare"
	RarityLegendary Rarity = "legendary"
)

// Item is a collectible that can be bought from or sold to customers.
// Condition is kept within [0,100].
type Item struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Category      Category     `json:"category"`
	BaseValue     int          `json:"baseValue"`
	Condition     int          `json:"condition"`
	Authenticity  Authenticity `json:"authenticity"`
	Rarity        Rarity       `json:"rarity"`
	TrendBonus    float64      `json:"trendBonus"`
	PurchasePrice *int         `json:"purchasePrice,omitempty"`
}

// CustomerType is one of the seven customer archetypes.
type CustomerType string

const (
	CustomerCollector CustomerType = "collector"
	CustomerStudent   CustomerType = "student"
	CustomerTrader    CustomerType = "trader"
	CustomerNostalgic CustomerType = "nostalgic"
	CustomerHunter    CustomerType = "hunter"
	CustomerTourist   CustomerType = "tourist"
	CustomerExpert    CustomerType = "expert"
)

// Intent is what the customer came to do.
type Intent string

const (
	// IntentBuy means the customer buys an item from the player.
	IntentBuy Intent = "buy"
	// IntentSell means the customer sells an item to the player.
	IntentSell Intent = "sell"
)

// Customer is generated fresh for every negotiation.
type Customer struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        CustomerType `json:"type"`
	Intent      Intent       `json:"intent"`
	Patience    int          `json:"patience"`
	Budget      int          `json:"budget"`
	Knowledge   int          `json:"knowledge"`
	Preferences []Category   `json:"preferences"`
	Avatar      string       `json:"avatar"`
}

// MissionType groups missions by lifetime.
type MissionType string

const (
	MissionDaily       MissionType = "daily"
	MissionWeekly      MissionType = "weekly"
	MissionAchievement MissionType = "achievement"
)

// RequirementType is the progress key a mission listens to.
type RequirementType string

const (
	RequirementSellItems        RequirementType = "sell_items"
	RequirementBuyItems         RequirementType = "buy_items"
	RequirementEarnProfit       RequirementType = "earn_profit"
	RequirementCollectRare      RequirementType = "collect_rare"
	RequirementNegotiateSuccess RequirementType = "negotiate_success"
	RequirementServeCustomers   RequirementType = "serve_customers"
)

// SellCategoryRequirement is the progress key for selling items of one category.
func SellCategoryRequirement(c Category) RequirementType {
	return RequirementType("sell_category:" + string(c))
}

// Requirement is one measurable goal of a mission.
type Requirement struct {
	Type    RequirementType `json:"type"`
	Target  int             `json:"target"`
	Current int             `json:"current"`
}

// RewardType is what a mission pays out.
type RewardType string

const (
	RewardCash       RewardType = "cash"
	RewardReputation RewardType = "reputation"
	RewardExperience RewardType = "experience"
	RewardItem       RewardType = "item"
)

// Reward is a single payout of a mission.
type Reward struct {
	Type   RewardType `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

// Mission is a daily, weekly or achievement goal.
type Mission struct {
	ID           string        `json:"id"`
	QuestType    string        `json:"questType"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Type         MissionType   `json:"type"`
	Requirements []Requirement `json:"requirements"`
	Rewards      []Reward      `json:"rewards"`
	Progress     int           `json:"progress"`
	MaxProgress  int           `json:"maxProgress"`
	Completed    bool          `json:"completed"`
	Level        int           `json:"level"`
}

// Ledger entry types.
const (
	RecordIncome  = "income"
	RecordExpense = "expense"
)

// Ledger categories.
const (
	LedgerSale          = "sale"
	LedgerPurchase      = "purchase"
	LedgerRent          = "rent"
	LedgerTax           = "tax"
	LedgerUtilities     = "utilities"
	LedgerMissionReward = "mission_reward"
	LedgerAppraisal     = "appraisal"
)

// FinancialRecord is an append-only ledger entry.
type FinancialRecord struct {
	ID          string `json:"id"`
	Day         int    `json:"day"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// DailyFinancials aggregates the ledger of a single day.
type DailyFinancials struct {
	Day       int `json:"day"`
	Income    int `json:"income"`
	Expense   int `json:"expense"`
	NetProfit int `json:"netProfit"`
}

// DailyStats counts the activity of the current day.
type DailyStats struct {
	Sales                  int `json:"sales"`
	Purchases              int `json:"purchases"`
	Revenue                int `json:"revenue"`
	Spent                  int `json:"spent"`
	Profit                 int `json:"profit"`
	SuccessfulNegotiations int `json:"successfulNegotiations"`
	FailedNegotiations     int `json:"failedNegotiations"`
}

// MarketTrend raises the value of one category for a number of days.
type MarketTrend struct {
	Category Category `json:"category"`
	Bonus    float64  `json:"bonus"`
	DaysLeft int      `json:"daysLeft"`
}

// MarketEvent is a named temporary modifier shown to the player.
type MarketEvent struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DaysLeft int    `json:"daysLeft"`
}

// PlayerState is the complete mutable state of one save slot.
// Reputation and Trust are kept within [0,100].
type PlayerState struct {
	Level              int            `json:"level"`
	Experience         int            `json:"experience"`
	ExperienceLevel    int            `json:"experienceLevel"`
	SkillPoints        int            `json:"skillPoints"`
	Cash               int            `json:"cash"`
	Reputation         int            `json:"reputation"`
	Trust              int            `json:"trust"`
	Day                int            `json:"day"`
	DailySuccessStreak int            `json:"dailySuccessStreak"`
	CustomersServed    int            `json:"customersServed"`
	DailyCustomerLimit int            `json:"dailyCustomerLimit"`
	DayEndPending      bool           `json:"dayEndPending"`
	PlayerSkills       map[string]int `json:"playerSkills"`
	Unlocks            []string       `json:"unlocks"`

	Inventory       []Item            `json:"inventory"`
	Missions        []Mission         `json:"missions"`
	ClaimedMissions []string          `json:"claimedMissions"`
	Financials      []FinancialRecord `json:"financials"`
	DailyFinancials []DailyFinancials `json:"dailyFinancials"`
	DailyStats      DailyStats        `json:"dailyStats"`
	Trends          []MarketTrend     `json:"trends"`
	Events          []MarketEvent     `json:"events"`
}

// HasUnlock reports whether the unlock flag is set.
func (p *PlayerState) HasUnlock(flag string) bool {
	for _, u := range p.Unlocks {
		if u == flag {
			return true
		}
	}
	return false
}

// UnlockedCategories returns the categories the player may trade in.
func (p *PlayerState) UnlockedCategories() []Category {
	var out []Category
	for _, c := range AllCategories() {
		if p.HasUnlock(string(c)) {
			out = append(out, c)
		}
	}
	return out
}

// IsClaimed reports whether the mission reward was already paid.
func (p *PlayerState) IsClaimed(missionID string) bool {
	for _, id := range p.ClaimedMissions {
		if id == missionID {
			return true
		}
	}
	return false
}

// SaveVersion is the current layout version of SaveData.
const SaveVersion = 1

// SaveData is the persisted blob of a save slot.
type SaveData struct {
	Version int         `json:"version"`
	Slot    string      `json:"slot"`
	SavedAt time.Time   `json:"savedAt"`
	State   PlayerState `json:"state"`
}

// ClampPercent clamps v to [0,100].
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
