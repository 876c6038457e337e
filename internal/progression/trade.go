package progression

import (
	"math"

	"github.com/rs/zerolog/log"

	"haggle-shop/internal/bargain"
	"haggle-shop/internal/customer"
	"haggle-shop/internal/event"
	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
	"haggle-shop/internal/shop"
)

// Experience awarded per trade.
const (
	SaleExperience     = 10
	PurchaseExperience = 5
)

// BaseAppraisalCost is the price of one appraisal before discounts.
const BaseAppraisalCost = 50

// Encounter is a customer walking in together with the item in question:
// an item they bring to sell, or a piece of stock they want to buy.
type Encounter struct {
	Customer model.Customer `json:"customer"`
	Item     model.Item     `json:"item"`
}

// NextCustomer generates the next customer of the day. Buyers pick an item
// from the inventory; with an empty inventory every customer is a seller.
// It returns false once the daily limit is reached.
func (e *Engine) NextCustomer() (Encounter, bool) {
	s := e.state
	if s.DayEndPending {
		return Encounter{}, false
	}

	c := customer.Generate(e.src)
	if c.Intent == model.IntentBuy && len(s.Inventory) > 0 {
		return Encounter{Customer: c, Item: rng.Pick(e.src, s.Inventory)}, true
	}

	c.Intent = model.IntentSell
	item := shop.GenerateItem(e.src, s.UnlockedCategories(), s.Trends)
	return Encounter{Customer: c, Item: item}, true
}

// StartNegotiation opens a bargaining session for an encounter at the
// player's current level.
func (e *Engine) StartNegotiation(enc Encounter) *bargain.Session {
	return bargain.NewSession(e.src, enc.Customer, enc.Item, e.state.Level)
}

// CompleteNegotiation applies the outcome of a finished session: the trade
// at the agreed price, the session's reputation and trust changes, the
// negotiation stats and the served customer. It returns whether a trade happened.
func (e *Engine) CompleteNegotiation(sess *bargain.Session) bool {
	if !sess.Done() {
		return false
	}

	rep, trust := sess.Deltas()
	e.UpdateReputation(rep)
	e.UpdateTrust(trust)

	traded := false
	if sess.State() == bargain.StateAccepted {
		price := sess.FinalPrice()
		switch sess.Customer().Intent {
		case model.IntentSell:
			traded = e.BuyItem(sess.Item(), price)
		default:
			traded = e.SellItem(sess.Item().ID, price)
		}
	}

	e.RecordNegotiation(traded)
	if traded {
		e.AddExperience(2 * e.SkillLevel(SkillNegotiation))
	}
	e.ServeCustomer()
	return traded
}

// BuyItem buys item from a customer at price. On insufficient funds nothing
// changes and false is returned.
func (e *Engine) BuyItem(item model.Item, price int) bool {
	if !e.SpendCash(price) {
		return false
	}
	s := e.state

	paid := price
	item.PurchasePrice = &paid
	s.Inventory = append(s.Inventory, item)
	e.record(model.RecordExpense, model.LedgerPurchase, price, item.Name)

	s.DailyStats.Purchases++
	s.DailyStats.Spent += price

	e.progress(model.RequirementBuyItems, 1)
	if shop.IsRareOrBetter(item.Rarity) {
		e.progress(model.RequirementCollectRare, 1)
	}
	e.emit(event.Buy, item.ID)
	e.AddExperience(PurchaseExperience)
	log.Debug().Str("item", item.Name).Int("price", price).Msg("item bought")
	return true
}

// SellItem sells the inventory item with itemID at price. It returns false
// when the item is not in the inventory.
func (e *Engine) SellItem(itemID string, price int) bool {
	s := e.state
	idx := -1
	for i, it := range s.Inventory {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 || price < 0 {
		return false
	}

	item := s.Inventory[idx]
	s.Inventory = append(s.Inventory[:idx:idx], s.Inventory[idx+1:]...)
	s.Cash += price
	e.record(model.RecordIncome, model.LedgerSale, price, item.Name)

	cost := int(math.Floor(shop.BuyPrice(item, shop.CalculateItemValue(item))))
	profit := price - cost
	s.DailyStats.Sales++
	s.DailyStats.Revenue += price
	s.DailyStats.Profit += profit

	e.progress(model.RequirementSellItems, 1)
	e.progress(model.SellCategoryRequirement(item.Category), 1)
	if profit > 0 {
		e.progress(model.RequirementEarnProfit, profit)
		if bonus := e.SkillLevel(SkillCharisma) / 2; bonus > 0 {
			e.UpdateReputation(bonus)
		}
	}
	e.markDirty()

	e.emit(event.Sell, item.ID)
	e.emit(event.Coin, "")
	e.AddExperience(SaleExperience)
	log.Debug().Str("item", item.Name).Int("price", price).Int("profit", profit).Msg("item sold")
	return true
}

// RecordNegotiation counts a finished negotiation in the day's stats.
func (e *Engine) RecordNegotiation(success bool) {
	if success {
		e.state.DailyStats.SuccessfulNegotiations++
		e.progress(model.RequirementNegotiateSuccess, 1)
	} else {
		e.state.DailyStats.FailedNegotiations++
	}
	e.markDirty()
}

// AppraisalCost is the current price of an appraisal: 5 cheaper per
// appraisal skill level and halved with the appraisalPro unlock.
func (e *Engine) AppraisalCost() int {
	cost := BaseAppraisalCost - 5*e.SkillLevel(SkillAppraisal)
	if e.state.HasUnlock(UnlockAppraisalPro) {
		cost /= 2
	}
	return max(cost, 0)
}

// UseAppraisal pays for an appraisal of item. Without enough cash nothing
// is revealed and false is returned.
func (e *Engine) UseAppraisal(item model.Item) (shop.Appraisal, bool) {
	cost := e.AppraisalCost()
	if !e.SpendCash(cost) {
		return shop.Appraisal{}, false
	}
	e.record(model.RecordExpense, model.LedgerAppraisal, cost, item.Name)
	e.emit(event.Click, "appraisal")
	return shop.Appraise(item), true
}
