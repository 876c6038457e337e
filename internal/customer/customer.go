// Package customer generates the procedural customers the player negotiates with.
package customer

import (
	"github.com/google/uuid"

	"haggle-shop/internal/model"
	"haggle-shop/internal/pkg/rng"
)

// Jitter applied independently to each generated customer.
const (
	PatienceJitter = 10
	BudgetJitter   = 100
)

// Archetype holds the baseline stats of a customer type.
type Archetype struct {
	Type        model.CustomerType
	Budget      int
	Patience    int
	Knowledge   int
	Preferences []model.Category
}

// Archetypes contains the seven customer profiles keyed by type.
var Archetypes = map[model.CustomerType]Archetype{
	model.CustomerCollector: {
		Type: model.CustomerCollector, Budget: 800, Patience: 70, Knowledge: 80,
		Preferences: []model.Category{model.CategoryAntiques, model.CategoryArt, model.CategoryToys},
	},
	model.CustomerStudent: {
		Type: model.CustomerStudent, Budget: 200, Patience: 50, Knowledge: 30,
		Preferences: []model.Category{model.CategoryBooks, model.CategoryElectronics},
	},
	model.CustomerTrader: {
		Type: model.CustomerTrader, Budget: 600, Patience: 40, Knowledge: 70,
		Preferences: []model.Category{model.CategoryElectronics, model.CategoryJewelry},
	},
	model.CustomerNostalgic: {
		Type: model.CustomerNostalgic, Budget: 400, Patience: 80, Knowledge: 40,
		Preferences: []model.Category{model.CategoryToys, model.CategoryBooks, model.CategorySports},
	},
	model.CustomerHunter: {
		Type: model.CustomerHunter, Budget: 500, Patience: 30, Knowledge: 60,
		Preferences: []model.Category{model.CategoryFashion, model.CategorySports},
	},
	model.CustomerTourist: {
		Type: model.CustomerTourist, Budget: 350, Patience: 60, Knowledge: 20,
		Preferences: []model.Category{model.CategoryArt, model.CategoryFashion},
	},
	model.CustomerExpert: {
		Type: model.CustomerExpert, Budget: 1000, Patience: 50, Knowledge: 95,
		Preferences: []model.Category{model.CategoryAntiques, model.CategoryJewelry, model.CategoryArt},
	},
}

// typeOrder fixes the order archetypes are sampled from, since map order is random.
var typeOrder = []model.CustomerType{
	model.CustomerCollector,
	model.CustomerStudent,
	model.CustomerTrader,
	model.CustomerNostalgic,
	model.CustomerHunter,
	model.CustomerTourist,
	model.CustomerExpert,
}

var names = []string{
	"Alex", "Sam", "Jordan", "Riley", "Morgan", "Casey", "Taylor", "Jamie",
	"Avery", "Quinn", "Rowan", "Sky", "Robin", "Dana", "Emery", "Hayden",
}

var avatars = []string{"🧑", "👩", "👨", "🧓", "👵", "👴", "🧑‍🎓", "🧑‍💼", "🕵️", "🧑‍🎨"}

// Types returns the archetype types in sampling order.
func Types() []model.CustomerType {
	out := make([]model.CustomerType, len(typeOrder))
	copy(out, typeOrder)
	return out
}

// Generate samples a customer: a uniformly chosen archetype with patience
// jittered by ±10 and budget by ±100, a random name, avatar and intent.
func Generate(src rng.Source) model.Customer {
	arch := Archetypes[rng.Pick(src, typeOrder)]

	intent := model.IntentBuy
	if rng.Chance(src, 0.5) {
		intent = model.IntentSell
	}

	prefs := make([]model.Category, len(arch.Preferences))
	copy(prefs, arch.Preferences)

	return model.Customer{
		ID:          uuid.NewString(),
		Name:        rng.Pick(src, names),
		Type:        arch.Type,
		Intent:      intent,
		Patience:    arch.Patience + rng.IntRange(src, -PatienceJitter, PatienceJitter),
		Budget:      arch.Budget + rng.IntRange(src, -BudgetJitter, BudgetJitter),
		Knowledge:   arch.Knowledge,
		Preferences: prefs,
		Avatar:      rng.Pick(src, avatars),
	}
}

// Prefers reports whether the customer favours the category.
func Prefers(c model.Customer, category model.Category) bool {
	for _, p := range c.Preferences {
		if p == category {
			return true
		}
	}
	return false
}
