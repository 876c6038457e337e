package bargain

import (
	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
)

// Reaction is how the customer feels about the player's price.
type Reaction string

const (
	ReactionPositive Reaction = "positive"
	ReactionNeutral  Reaction = "neutral"
	ReactionNegative Reaction = "negative"
)

var reactionEmoji = map[Reaction]string{
	ReactionPositive: "☺️",
	ReactionNeutral:  "🤔",
	ReactionNegative: "😠",
}

// Emoji returns the face shown for a reaction.
func (r Reaction) Emoji() string {
	return reactionEmoji[r]
}

// Message keys outside the reaction pools. Values are i18n keys.
const (
	MsgFinalNoDeal   = "bargain.final.no_deal"
	MsgExpertFake    = "bargain.expert.fake"
	MsgHaggleAccept  = "bargain.haggle.accept"
	MsgHaggleWalkout = "bargain.haggle.walkout"
	MsgClosingDeal   = "bargain.closing.deal"
	MsgClosingNoDeal = "bargain.closing.no_deal"
)

// messagePools holds the positive, neutral and negative pools per intent.
var messagePools = map[model.Intent]map[Reaction][]string{
	model.IntentBuy: {
		ReactionPositive: {"bargain.buy.positive.1", "bargain.buy.positive.2", "bargain.buy.positive.3"},
		ReactionNeutral:  {"bargain.buy.neutral.1", "bargain.buy.neutral.2", "bargain.buy.neutral.3"},
		ReactionNegative: {"bargain.buy.negative.1", "bargain.buy.negative.2", "bargain.buy.negative.3"},
	},
	model.IntentSell: {
		ReactionPositive: {"bargain.sell.positive.1", "bargain.sell.positive.2", "bargain.sell.positive.3"},
		ReactionNeutral:  {"bargain.sell.neutral.1", "bargain.sell.neutral.2", "bargain.sell.neutral.3"},
		ReactionNegative: {"bargain.sell.negative.1", "bargain.sell.negative.2", "bargain.sell.negative.3"},
	},
}

// PickMessage draws a message key from the pool of the intent and reaction.
func PickMessage(src rng.Source, intent model.Intent, reaction Reaction) string {
	pools, ok := messagePools[intent]
	if !ok {
		pools = messagePools[model.IntentBuy]
	}
	return rng.Pick(src, pools[reaction])
}

// ClosingMessage returns the key said when a session ends.
func ClosingMessage(accepted bool) string {
	if accepted {
		return MsgClosingDeal
	}
	return MsgClosingNoDeal
}

// classify maps a fractional price gap to a reaction.
func classify(priceDifference, tolerance float64) Reaction {
	switch {
	case priceDifference < tolerance:
		return ReactionPositive
	case priceDifference > NegativeGap:
		return ReactionNegative
	default:
		return ReactionNeutral
	}
}
