// Package shop provides the item catalog and the pure economy primitives:
// rarity and condition tables, market valuation and stock generation.
package shop

import (
	"github.com/google/uuid"

	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
)

// ItemTemplate is a catalog entry that stock items are generated from.
type ItemTemplate struct {
	Name      string
	Category  model.Category
	BaseValue int
}

// Catalog contains every item template keyed by category.
// Add new templates here; generation picks them up automatically.
var Catalog = map[model.Category][]ItemTemplate{
	model.CategoryElectronics: {
		{Name: "Walkman Cassette Player", Category: model.CategoryElectronics, BaseValue: 120},
		{Name: "Handheld Game Console", Category: model.CategoryElectronics, BaseValue: 180},
		{Name: "Instant Film Camera", Category: model.CategoryElectronics, BaseValue: 150},
	},
	model.CategoryFashion: {
		{Name: "Leather Bomber Jacket", Category: model.CategoryFashion, BaseValue: 140},
		{Name: "Designer Silk Scarf", Category: model.CategoryFashion, BaseValue: 90},
		{Name: "Limited Sneakers", Category: model.CategoryFashion, BaseValue: 200},
	},
	model.CategoryJewelry: {
		{Name: "Silver Pocket Watch", Category: model.CategoryJewelry, BaseValue: 260},
		{Name: "Pearl Necklace", Category: model.CategoryJewelry, BaseValue: 320},
		{Name: "Signet Ring", Category: model.CategoryJewelry, BaseValue: 210},
	},
	model.CategoryArt: {
		{Name: "Signed Lithograph", Category: model.CategoryArt, BaseValue: 350},
		{Name: "Oil Landscape", Category: model.CategoryArt, BaseValue: 420},
		{Name: "Bronze Statuette", Category: model.CategoryArt, BaseValue: 380},
	},
	model.CategoryAntiques: {
		{Name: "Brass Ship Compass", Category: model.CategoryAntiques, BaseValue: 300},
		{Name: "Porcelain Vase", Category: model.CategoryAntiques, BaseValue: 340},
		{Name: "Mantel Clock", Category: model.CategoryAntiques, BaseValue: 280},
	},
	model.CategoryToys: {
		{Name: "Tin Robot", Category: model.CategoryToys, BaseValue: 80},
		{Name: "Boxed Action Figure", Category: model.CategoryToys, BaseValue: 110},
		{Name: "Die-cast Race Car", Category: model.CategoryToys, BaseValue: 60},
	},
	model.CategoryBooks: {
		{Name: "First Edition Novel", Category: model.CategoryBooks, BaseValue: 160},
		{Name: "Vintage Comic Issue", Category: model.CategoryBooks, BaseValue: 100},
		{Name: "Illustrated Atlas", Category: model.CategoryBooks, BaseValue: 130},
	},
	model.CategorySports: {
		{Name: "Signed Baseball", Category: model.CategorySports, BaseValue: 190},
		{Name: "Retro Jersey", Category: model.CategorySports, BaseValue: 120},
		{Name: "Wooden Tennis Racket", Category: model.CategorySports, BaseValue: 70},
	},
}

// weighted is one outcome of a weighted draw.
type weighted[T any] struct {
	value  T
	weight float64
}

var rarityWeights = []weighted[model.Rarity]{
	{model.RarityCommon, 0.60},
	{model.RarityRare, 0.25},
	{model.RarityVeryRare, 0.11},
	{model.RarityLegendary, 0.04},
}

var authenticityWeights = []weighted[model.Authenticity]{
	{model.Authentic, 0.85},
	{model.Suspicious, 0.10},
	{model.Fake, 0.05},
}

func drawWeighted[T any](src rng.Source, table []weighted[T]) T {
	roll := src.Next()
	acc := 0.0
	for _, w := range table {
		acc += w.weight
		if roll < acc {
			return w.value
		}
	}
	return table[len(table)-1].value
}

// GenerateItem draws a stock item from the unlocked categories. When no
// category is unlocked every category is eligible. The trend bonus of an
// active trend on the drawn category is applied.
func GenerateItem(src rng.Source, unlocked []model.Category, trends []model.MarketTrend) model.Item {
	categories := unlocked
	if len(categories) == 0 {
		categories = model.AllCategories()
	}
	category := rng.Pick(src, categories)
	tmpl := rng.Pick(src, Catalog[category])

	return model.Item{
		ID:           uuid.NewString(),
		Name:         tmpl.Name,
		Category:     category,
		BaseValue:    tmpl.BaseValue,
		Condition:    rng.IntRange(src, 20, 100),
		Authenticity: drawWeighted(src, authenticityWeights),
		Rarity:       drawWeighted(src, rarityWeights),
		TrendBonus:   TrendBonusFor(category, trends),
	}
}

// GenerateRareItem draws an authentic item of at least rare rarity.
func GenerateRareItem(src rng.Source, unlocked []model.Category, trends []model.MarketTrend) model.Item {
	item := GenerateItem(src, unlocked, trends)
	item.Authenticity = model.Authentic
	if item.Rarity == model.RarityCommon {
		item.Rarity = model.RarityRare
	}
	return item
}

// TrendBonusFor sums the bonuses of every active trend on the category.
func TrendBonusFor(category model.Category, trends []model.MarketTrend) float64 {
	bonus := 0.0
	for _, t := range trends {
		if t.Category == category && t.DaysLeft > 0 {
			bonus += t.Bonus
		}
	}
	return bonus
}

// IsRareOrBetter reports whether the rarity counts towards rare collections.
func IsRareOrBetter(r model.Rarity) bool {
	return r == model.RarityRare || r == model.RarityVeryRare || r == model.RarityLegendary
}
