// Property-based tests for item valuation.
package shop

import (
	"testing"

	"pgregory.net/rapid"

	"haggle-shop/internal/model"
)

var rarities = []model.Rarity{
	model.RarityCommon,
	model.RarityRare,
	model.RarityVeryRare,
	model.RarityLegendary,
}

func drawItem(t *rapid.T) model.Item {
	return model.Item{
		BaseValue:  rapid.IntRange(0, 10000).Draw(t, "baseValue"),
		Condition:  rapid.IntRange(0, 100).Draw(t, "condition"),
		Rarity:     rapid.SampledFrom(rarities).Draw(t, "rarity"),
		TrendBonus: rapid.Float64Range(-50, 200).Draw(t, "trendBonus"),
	}
}

// TestItemValueNonNegativeProperty: for any item, the value is never negative.
func TestItemValueNonNegativeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := drawItem(t)
		if v := CalculateItemValue(item); v < 0 {
			t.Fatalf("value %d is negative for %+v", v, item)
		}
	})
}

// TestItemValueMonotonicInConditionProperty: raising condition never lowers value.
func TestItemValueMonotonicInConditionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := drawItem(t)
		better := item
		better.Condition = rapid.IntRange(item.Condition, 100).Draw(t, "betterCondition")

		if CalculateItemValue(better) < CalculateItemValue(item) {
			t.Fatalf("value dropped when condition rose %d -> %d", item.Condition, better.Condition)
		}
	})
}

// TestItemValueMonotonicInTrendProperty: raising the trend bonus never lowers value.
func TestItemValueMonotonicInTrendProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		item := drawItem(t)
		hotter := item
		hotter.TrendBonus = item.TrendBonus + rapid.Float64Range(0, 100).Draw(t, "extraTrend")

		if CalculateItemValue(hotter) < CalculateItemValue(item) {
			t.Fatalf("value dropped when trend rose %.2f -> %.2f", item.TrendBonus, hotter.TrendBonus)
		}
	})
}
