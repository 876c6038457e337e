package shop

import (
	"math"

	"haggle-shop/internal/model"
)

// rarityMultipliers scale the market value of an item.
var rarityMultipliers = map[model.Rarity]float64{
	model.RarityCommon:    1,
	model.RarityRare:      1.5,
	model.RarityVeryRare:  2.5,
	model.RarityLegendary: 4,
}

// bargainRarityMultipliers only feed the negotiation band. They are not the
// valuation multipliers above and must not be merged with them.
var bargainRarityMultipliers = map[model.Rarity]float64{
	model.RarityCommon:    0.9,
	model.RarityRare:      1.2,
	model.RarityVeryRare:  1.4,
	model.RarityLegendary: 1.5,
}

// RarityMultiplier returns the valuation multiplier of a rarity.
// Unknown rarities count as common.
func RarityMultiplier(r model.Rarity) float64 {
	if m, ok := rarityMultipliers[r]; ok {
		return m
	}
	return 1
}

// BargainRarityMultiplier returns the multiplier used when computing offer bands.
func BargainRarityMultiplier(r model.Rarity) float64 {
	if m, ok := bargainRarityMultipliers[r]; ok {
		return m
	}
	return bargainRarityMultipliers[model.RarityCommon]
}

// CalculateItemValue returns the market value of an item:
//
//	baseValue × (1 + condition/100) × rarityMultiplier × (1 + trendBonus/100)
//
// floored to an integer and never negative.
func CalculateItemValue(item model.Item) int {
	condition := float64(model.ClampPercent(item.Condition))
	value := float64(item.BaseValue) *
		(1 + condition/100) *
		RarityMultiplier(item.Rarity) *
		(1 + item.TrendBonus/100)

	if value <= 0 {
		return 0
	}
	return int(math.Floor(value))
}

// DefaultBuyPrice is what the shop is assumed to have paid for an item
// without a recorded purchase price.
func DefaultBuyPrice(marketPrice int) float64 {
	return float64(marketPrice) * 0.7
}

// BuyPrice returns the recorded purchase price or the default buy price.
func BuyPrice(item model.Item, marketPrice int) float64 {
	if item.PurchasePrice != nil {
		return float64(*item.PurchasePrice)
	}
	return DefaultBuyPrice(marketPrice)
}

// Appraisal is what the appraisal tool reveals about an item.
type Appraisal struct {
	ItemID       string             `json:"itemId"`
	MarketValue  int                `json:"marketValue"`
	Authenticity model.Authenticity `json:"authenticity"`
	Rarity       model.Rarity       `json:"rarity"`
}

// Appraise inspects an item.
func Appraise(item model.Item) Appraisal {
	return Appraisal{
		ItemID:       item.ID,
		MarketValue:  CalculateItemValue(item),
		Authenticity: item.Authenticity,
		Rarity:       item.Rarity,
	}
}
