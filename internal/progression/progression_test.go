package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haggle-shop/internal/bargain"
	"haggle-shop/internal/event"
	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/repository"
)

// newEngine starts a fresh level 1 save where every draw is 0.5: the daily
// category quest lands on books and the customer limit is 7.
func newEngine(t *testing.T) (*Engine, *event.Queue) {
	t.Helper()
	src := rng.NewSequence(0.5)
	q := event.NewQueue()
	return New(NewPlayerState(DefaultOptions(), src), src, q), q
}

func stockItem(id string, paid int) model.Item {
	return model.Item{
		ID:            id,
		Name:          "Walkman",
		Category:      model.CategoryElectronics,
		BaseValue:     100,
		Condition:     50,
		Authenticity:  model.Authentic,
		Rarity:        model.RarityCommon,
		PurchasePrice: &paid,
	}
}

func names(events []event.Event) []event.Name {
	var out []event.Name
	for _, ev := range events {
		out = append(out, ev.Name)
	}
	return out
}

func TestNewPlayerState(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()

	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 1, s.ExperienceLevel)
	assert.Equal(t, 1, s.Day)
	assert.Equal(t, 1000, s.Cash)
	assert.Equal(t, 50, s.Reputation)
	assert.Equal(t, 50, s.Trust)
	assert.Equal(t, 7, s.DailyCustomerLimit)
	assert.ElementsMatch(t, []string{"electronics", "books"}, s.Unlocks)
	assert.NotNil(t, s.PlayerSkills)

	// 3 daily (purchases need stock), 2 weekly, 3 achievements (no rare pool)
	assert.Len(t, s.Missions, 8)
	assert.False(t, e.Dirty())
}

func TestAdvanceDaySettlement(t *testing.T) {
	e, q := newEngine(t)
	q.Drain()

	st := e.AdvanceDay()

	assert.Equal(t, Settlement{
		Day: 1, Rent: 100, Tax: 50, Utilities: 30, Total: 180,
		Summary: model.DailyFinancials{Day: 1, Income: 0, Expense: 180, NetProfit: -180},
	}, st)

	s := e.State()
	assert.Equal(t, 820, s.Cash)
	assert.Equal(t, 2, s.Day)
	assert.Equal(t, -1, s.DailySuccessStreak)
	assert.Equal(t, 7, s.DailyCustomerLimit)
	assert.Equal(t, []model.DailyFinancials{st.Summary}, s.DailyFinancials)

	require.Len(t, s.Financials, 3)
	assert.Equal(t, model.LedgerRent, s.Financials[0].Category)
	assert.Equal(t, model.LedgerTax, s.Financials[1].Category)
	assert.Equal(t, model.LedgerUtilities, s.Financials[2].Category)
	for _, r := range s.Financials {
		assert.Equal(t, 1, r.Day)
		assert.Equal(t, model.RecordExpense, r.Type)
		assert.NotEmpty(t, r.ID)
	}

	assert.Len(t, s.Missions, 8, "achievements must not duplicate")
	assert.Equal(t, "qt-d2-daily_sales", s.Missions[5].ID)
	assert.True(t, e.Dirty())
	assert.Contains(t, names(q.Drain()), event.Notification)
}

func TestAdvanceDayProfitableDayExtendsStreak(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Inventory = []model.Item{stockItem("w1", 100)}
	s.DailySuccessStreak = -3

	require.True(t, e.SellItem("w1", 300))
	st := e.AdvanceDay()

	assert.Equal(t, 65, st.Tax)
	assert.Equal(t, 195, st.Total)
	assert.Equal(t, 105, st.Summary.NetProfit)
	assert.Equal(t, 1105, s.Cash)
	assert.Equal(t, 1, s.DailySuccessStreak)
	assert.Equal(t, model.DailyStats{}, s.DailyStats)
}

func TestAdvanceDayResetsServeCounter(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.DailyCustomerLimit = 1
	require.True(t, e.ServeCustomer())

	e.AdvanceDay()

	assert.Zero(t, s.CustomersServed)
	assert.False(t, s.DayEndPending)
}

func TestAdvanceDayTicksTrends(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Trends = []model.MarketTrend{
		{Category: model.CategoryBooks, Bonus: 20, DaysLeft: 1},
		{Category: model.CategoryElectronics, Bonus: 10, DaysLeft: 3},
	}
	s.Events = []model.MarketEvent{{ID: "e1", Name: "fair", DaysLeft: 1}}

	e.AdvanceDay()

	assert.Equal(t, []model.MarketTrend{{Category: model.CategoryElectronics, Bonus: 10, DaysLeft: 2}}, s.Trends)
	assert.Empty(t, s.Events)
}

func TestAdvanceDayNewWeekAddsWeeklyMissions(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Day = 7

	e.AdvanceDay()

	for _, id := range []string{"qt-w1-weekly_sales", "qt-w2-weekly_sales", "qt-w2-weekly_profit"} {
		assert.GreaterOrEqual(t, indexOf(s.Missions, id), 0, id)
	}
}

func TestAdvanceDaySkipsClaimedAchievements(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	id := "qt-l1-main_total_sales"
	idx := indexOf(s.Missions, id)
	require.GreaterOrEqual(t, idx, 0)
	s.Missions[idx].Completed = true
	require.True(t, e.ClaimMissionReward(id))

	e.AdvanceDay()

	assert.Negative(t, indexOf(s.Missions, id))
}

func indexOf(missions []model.Mission, id string) int {
	for i, m := range missions {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func TestCheckLevelUp(t *testing.T) {
	e, q := newEngine(t)
	s := e.State()

	assert.False(t, e.CheckLevelUp(), "below cash target")

	s.Cash = 2000
	s.Reputation = 30
	q.Drain()
	assert.True(t, e.CheckLevelUp())
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 1, s.SkillPoints)
	assert.True(t, s.HasUnlock("toys"))
	assert.Equal(t, []event.Name{event.LevelUp}, names(q.Drain()))

	assert.False(t, e.CheckLevelUp(), "level 2 needs 4000 cash")
	assert.Equal(t, 2, s.Level)
}

func TestCheckLevelUpNeedsReputation(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Cash = 100000
	s.Reputation = 29

	assert.False(t, e.CheckLevelUp())
	assert.Equal(t, 1, s.Level)
}

func TestCheckLevelUpCappedAtMaxLevel(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Level = MaxLevel
	s.Cash = 1_000_000
	s.Reputation = 100

	assert.False(t, e.CheckLevelUp())
	assert.Equal(t, MaxLevel, s.Level)
	assert.Zero(t, s.SkillPoints)
}

func TestEndDay(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Cash = 2000
	s.Reputation = 40

	leveled, st := e.EndDay()

	assert.True(t, leveled)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 2, s.Day)
	// settled at the new level: rent 125, tax 100, utilities 40
	assert.Equal(t, 265, st.Total)
	assert.Equal(t, 1735, s.Cash)
}

func TestServeCustomer(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()

	for i := 1; i < s.DailyCustomerLimit; i++ {
		assert.False(t, e.ServeCustomer())
	}
	assert.True(t, e.ServeCustomer())
	assert.True(t, s.DayEndPending)
	assert.Equal(t, 1, s.Day, "serving never advances the day")

	_, ok := e.NextCustomer()
	assert.False(t, ok)
}

func TestSpendCash(t *testing.T) {
	e, q := newEngine(t)

	assert.False(t, e.SpendCash(1001))
	assert.Equal(t, 1000, e.State().Cash)
	assert.Equal(t, []event.Name{event.Error}, names(q.Drain()))
	assert.False(t, e.Dirty())

	assert.False(t, e.SpendCash(-5))
	assert.True(t, e.SpendCash(1000))
	assert.Zero(t, e.State().Cash)
	assert.True(t, e.Dirty())

	e.MarkSaved()
	assert.False(t, e.Dirty())
}

func TestReputationAndTrustClamp(t *testing.T) {
	e, _ := newEngine(t)
	e.State().Reputation = 90

	assert.Equal(t, 100, e.UpdateReputation(1000))
	assert.Equal(t, 0, e.UpdateReputation(-1000))
	assert.Equal(t, 100, e.UpdateTrust(75))
	assert.Equal(t, 0, e.UpdateTrust(-101))
}

func TestAddExperienceAwardsSkillPointDelta(t *testing.T) {
	e, q := newEngine(t)
	s := e.State()
	q.Drain()

	assert.False(t, e.AddExperience(50))
	assert.Equal(t, 1, s.ExperienceLevel)

	assert.True(t, e.AddExperience(200))
	assert.Equal(t, 250, s.Experience)
	assert.Equal(t, 3, s.ExperienceLevel)
	assert.Equal(t, 1, s.SkillPoints)
	assert.Equal(t, 1, s.Level, "experience never moves the gated level")

	assert.True(t, e.AddExperience(100))
	assert.Equal(t, 4, s.ExperienceLevel)
	assert.Equal(t, 2, s.SkillPoints)

	assert.Contains(t, names(q.Drain()), event.LevelUp)
	assert.False(t, e.AddExperience(0))
	assert.False(t, e.AddExperience(-10))
}

func TestUpgradeSkill(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()

	assert.False(t, e.UpgradeSkill(SkillAppraisal), "no points")
	s.SkillPoints = 10
	assert.False(t, e.UpgradeSkill("juggling"))

	for i := 0; i < 5; i++ {
		require.True(t, e.UpgradeSkill(SkillAppraisal))
	}
	assert.False(t, e.UpgradeSkill(SkillAppraisal), "max level")
	assert.Equal(t, 5, s.PlayerSkills[SkillAppraisal])
	assert.Equal(t, 5, s.SkillPoints)
}

func TestUseAppraisal(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	item := stockItem("a1", 100)

	got, ok := e.UseAppraisal(item)
	require.True(t, ok)
	assert.Equal(t, 150, got.MarketValue)
	assert.Equal(t, model.Authentic, got.Authenticity)
	assert.Equal(t, 950, s.Cash)
	assert.Equal(t, model.LedgerAppraisal, s.Financials[len(s.Financials)-1].Category)

	s.PlayerSkills[SkillAppraisal] = 2
	s.Unlocks = append(s.Unlocks, UnlockAppraisalPro)
	assert.Equal(t, 20, e.AppraisalCost())

	s.Cash = 10
	_, ok = e.UseAppraisal(item)
	assert.False(t, ok)
	assert.Equal(t, 10, s.Cash)
}

func TestBuyItem(t *testing.T) {
	e, q := newEngine(t)
	s := e.State()
	s.Inventory = nil
	q.Drain()

	item := stockItem("b1", 0)
	item.PurchasePrice = nil
	item.Rarity = model.RarityRare

	assert.False(t, e.BuyItem(item, 5000))
	assert.Empty(t, s.Inventory)

	require.True(t, e.BuyItem(item, 120))
	assert.Equal(t, 880, s.Cash)
	require.Len(t, s.Inventory, 1)
	require.NotNil(t, s.Inventory[0].PurchasePrice)
	assert.Equal(t, 120, *s.Inventory[0].PurchasePrice)
	assert.Equal(t, 1, s.DailyStats.Purchases)
	assert.Equal(t, 120, s.DailyStats.Spent)
	assert.Equal(t, PurchaseExperience, s.Experience)

	assert.Equal(t, []event.Name{event.Error, event.Buy}, names(q.Drain()))
}

func TestSellItem(t *testing.T) {
	e, q := newEngine(t)
	s := e.State()
	s.Inventory = []model.Item{stockItem("s1", 100), stockItem("s2", 100)}
	q.Drain()

	assert.False(t, e.SellItem("missing", 100))

	require.True(t, e.SellItem("s1", 160))
	assert.Equal(t, 1160, s.Cash)
	require.Len(t, s.Inventory, 1)
	assert.Equal(t, "s2", s.Inventory[0].ID)
	assert.Equal(t, 60, s.DailyStats.Profit)
	assert.Equal(t, 160, s.DailyStats.Revenue)
	assert.Equal(t, []event.Name{event.Sell, event.Coin}, names(q.Drain()))

	sales := s.Missions[indexOf(s.Missions, "qt-d1-daily_sales")]
	assert.Equal(t, 1, sales.Requirements[0].Current)
	profit := s.Missions[indexOf(s.Missions, "qt-d1-daily_profit")]
	assert.Equal(t, 60, profit.Requirements[0].Current)
}

func TestClaimMissionReward(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Missions = []model.Mission{
		{ID: "done", Completed: true, Rewards: []model.Reward{
			{Type: model.RewardCash, Amount: 75},
			{Type: model.RewardReputation, Amount: 5},
			{Type: model.RewardExperience, Amount: 20},
		}},
		{ID: "open", Requirements: []model.Requirement{{Type: model.RequirementSellItems, Target: 3}}},
		{ID: "gift", Completed: true, Rewards: []model.Reward{{Type: model.RewardItem}}},
	}

	assert.True(t, e.ClaimMissionReward("done"))
	assert.Equal(t, 1075, s.Cash)
	assert.Equal(t, 55, s.Reputation)
	assert.Equal(t, 20, s.Experience)
	assert.Equal(t, []string{"done"}, s.ClaimedMissions)
	assert.Negative(t, indexOf(s.Missions, "done"))

	assert.False(t, e.ClaimMissionReward("done"), "claimed once")
	assert.False(t, e.ClaimMissionReward("open"), "not completed")
	assert.False(t, e.ClaimMissionReward("nope"))
	assert.Equal(t, 1075, s.Cash)

	assert.True(t, e.ClaimMissionReward("gift"))
	require.Len(t, s.Inventory, 1)
	assert.NotEqual(t, model.RarityCommon, s.Inventory[0].Rarity)
}

func TestNextCustomer(t *testing.T) {
	e, _ := newEngine(t)

	enc, ok := e.NextCustomer()
	require.True(t, ok)
	assert.Equal(t, model.IntentSell, enc.Customer.Intent, "empty inventory means every customer sells")
	assert.Contains(t, []model.Category{model.CategoryElectronics, model.CategoryBooks}, enc.Item.Category)

	e.State().Inventory = []model.Item{stockItem("i1", 10)}
	e.src = rng.NewSequence(0.1, 0.9)
	enc, ok = e.NextCustomer()
	require.True(t, ok)
	assert.Equal(t, model.IntentBuy, enc.Customer.Intent)
	assert.Equal(t, "i1", enc.Item.ID)
}

func TestCompleteNegotiationBuysFromSeller(t *testing.T) {
	e, q := newEngine(t)
	s := e.State()
	item := stockItem("n1", 0)
	item.PurchasePrice = nil
	c := model.Customer{ID: "c", Type: model.CustomerTrader, Intent: model.IntentSell, Patience: 60, Budget: 1000, Knowledge: 50}

	sess := e.StartNegotiation(Encounter{Customer: c, Item: item})
	assert.False(t, e.CompleteNegotiation(sess), "session still open")

	offer, err := sess.Present()
	require.NoError(t, err)
	assert.Equal(t, 94, offer)
	_, err = sess.Accept()
	require.NoError(t, err)
	q.Drain()

	assert.True(t, e.CompleteNegotiation(sess))
	assert.Equal(t, 906, s.Cash)
	assert.Len(t, s.Inventory, 1)
	assert.Equal(t, 1, s.CustomersServed)
	assert.Equal(t, 1, s.DailyStats.SuccessfulNegotiations)
	assert.Contains(t, names(q.Drain()), event.Buy)
}

func TestCompleteNegotiationAppliesExpertPenalty(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Inventory = []model.Item{stockItem("f1", 50)}
	s.Inventory[0].Authenticity = model.Fake
	c := model.Customer{ID: "x", Type: model.CustomerExpert, Intent: model.IntentBuy, Patience: 50, Budget: 1000, Knowledge: 95}

	sess := e.StartNegotiation(Encounter{Customer: c, Item: s.Inventory[0]})
	_, err := sess.Present()
	require.NoError(t, err)
	require.Equal(t, bargain.StateRejected, sess.State())

	assert.False(t, e.CompleteNegotiation(sess))
	assert.Equal(t, 40, s.Reputation)
	assert.Equal(t, 35, s.Trust)
	assert.Equal(t, 1, s.DailyStats.FailedNegotiations)
	assert.Len(t, s.Inventory, 1)
}

func TestCompleteNegotiationExpertSellerWithFake(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	fake := stockItem("f2", 0)
	fake.PurchasePrice = nil
	fake.Authenticity = model.Fake
	c := model.Customer{ID: "x", Type: model.CustomerExpert, Intent: model.IntentSell, Patience: 50, Budget: 1000, Knowledge: 95}

	sess := e.StartNegotiation(Encounter{Customer: c, Item: fake})
	offer, err := sess.Present()
	require.NoError(t, err)
	require.Equal(t, bargain.StateOfferPresented, sess.State())
	assert.Positive(t, offer)

	_, err = sess.Accept()
	require.NoError(t, err)
	assert.True(t, e.CompleteNegotiation(sess))
	assert.Equal(t, 50, s.Reputation)
	assert.Equal(t, 50, s.Trust)
	assert.Equal(t, 1000-offer, s.Cash)
	require.Len(t, s.Inventory, 1)
	assert.Equal(t, model.Fake, s.Inventory[0].Authenticity)
}

type stubLoader struct {
	data *model.SaveData
	err  error
}

func (l stubLoader) Load(context.Context, string) (*model.SaveData, error) {
	return l.data, l.err
}

func TestLoadOrNew(t *testing.T) {
	ctx := context.Background()
	src := rng.NewSequence(0.5)

	t.Run("missing save starts fresh", func(t *testing.T) {
		s, loaded := LoadOrNew(ctx, stubLoader{err: repository.ErrSaveNotFound}, "a", DefaultOptions(), src)
		assert.False(t, loaded)
		assert.Equal(t, 1, s.Day)
	})

	t.Run("malformed save starts fresh", func(t *testing.T) {
		err := errors.Join(repository.ErrMalformedSave, errors.New("bad json"))
		s, loaded := LoadOrNew(ctx, stubLoader{err: err}, "a", DefaultOptions(), src)
		assert.False(t, loaded)
		assert.Equal(t, 1000, s.Cash)
	})

	t.Run("saved state is normalised", func(t *testing.T) {
		data := &model.SaveData{Version: model.SaveVersion, State: model.PlayerState{Level: 3, Day: 9, Cash: 42, Reputation: 130}}
		s, loaded := LoadOrNew(ctx, stubLoader{data: data}, "a", DefaultOptions(), src)
		assert.True(t, loaded)
		assert.Equal(t, 9, s.Day)
		assert.Equal(t, 100, s.Reputation)
		assert.NotNil(t, s.PlayerSkills)
	})
}

func TestLevelTable(t *testing.T) {
	assert.Equal(t, 1, Level(0).Level)
	assert.Equal(t, MaxLevel, Level(99).Level)
	assert.Contains(t, UnlocksUpTo(4), UnlockRarePool)
	assert.NotContains(t, UnlocksUpTo(3), UnlockRarePool)
	assert.Len(t, Skills(), 4)
}

func TestSnapshotCarriesRealCustomerCap(t *testing.T) {
	e, _ := newEngine(t)
	s := e.State()
	s.Level = 3

	p := e.snapshot()
	assert.Equal(t, Level(3).MaxCustomers, p.MaxCustomers)
	assert.Equal(t, 10, p.CustomerCap())

	s.DailySuccessStreak = 5
	for _, m := range e.quests.DailyMissions(e.snapshot(), s.Day) {
		for _, r := range m.Requirements {
			if r.Type == model.RequirementSellItems {
				assert.LessOrEqual(t, r.Target, Level(3).MaxCustomers, m.ID)
			}
		}
	}
}
