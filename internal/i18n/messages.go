package i18n

var english = map[string]string{
	"bargain.buy.positive.1":  "That's a fair price, I like it!",
	"bargain.buy.positive.2":  "Sounds good to me.",
	"bargain.buy.positive.3":  "You drive a reasonable bargain.",
	"bargain.buy.neutral.1":   "Hmm, that's a bit steep. How about this?",
	"bargain.buy.neutral.2":   "Let's meet somewhere in the middle.",
	"bargain.buy.neutral.3":   "I could stretch a little, not that far.",
	"bargain.buy.negative.1":  "That's way too expensive!",
	"bargain.buy.negative.2":  "Are you serious? No way.",
	"bargain.buy.negative.3":  "I can find this cheaper elsewhere.",
	"bargain.sell.positive.1": "Deal, that works for me.",
	"bargain.sell.positive.2": "I can live with that offer.",
	"bargain.sell.positive.3": "Nice, you know what it's worth.",
	"bargain.sell.neutral.1":  "A little low. Can you go higher?",
	"bargain.sell.neutral.2":  "I was hoping for a bit more.",
	"bargain.sell.neutral.3":  "Let's find a number we both like.",
	"bargain.sell.negative.1": "That's an insult to this piece!",
	"bargain.sell.negative.2": "You can't be serious with that offer.",
	"bargain.sell.negative.3": "I'd rather keep it than take that.",
	"bargain.final.no_deal":   "We're too far apart. No deal.",
	"bargain.expert.fake":     "This is a fake! I can't believe you'd try that.",
	"bargain.haggle.accept":   "Alright, you have a deal.",
	"bargain.haggle.walkout":  "I've had enough haggling. Goodbye.",
	"bargain.closing.deal":    "Pleasure doing business!",
	"bargain.closing.no_deal": "Maybe next time.",

	"quest.daily_sales":        "Sell items to customers today",
	"quest.daily_profit":       "Earn profit today",
	"quest.daily_category":     "Sell items from a featured category",
	"quest.daily_purchases":    "Buy items from customers today",
	"quest.weekly_sales":       "Sell items this week",
	"quest.weekly_profit":      "Earn profit this week",
	"quest.main_total_profit":  "Reach a lifetime profit milestone",
	"quest.main_total_sales":   "Reach a lifetime sales milestone",
	"quest.rare_collect":       "Collect rare items",
	"quest.negotiation_master": "Close successful negotiations",
	"quest.fallback_daily":     "Serve a customer",
	"quest.fallback_weekly":    "Make a few sales this week",

	"api.bad_request":             "The request could not be read.",
	"api.day_end_pending":         "No more customers today. Close the shop to start a new day.",
	"api.negotiation_in_progress": "Finish the current negotiation first.",
	"api.no_negotiation":          "There is no negotiation going on.",
	"api.negotiation_closed":      "This negotiation is already over.",
	"api.mission_not_claimable":   "That mission cannot be claimed.",
	"api.skill_not_upgradable":    "That skill cannot be upgraded.",
	"api.insufficient_funds":      "Not enough cash.",
	"api.busy":                    "The shop is busy, try again.",
	"api.internal":                "Something went wrong.",
}

var spanish = map[string]string{
	"bargain.buy.positive.1":  "¡Es un precio justo, me gusta!",
	"bargain.buy.positive.2":  "Me parece bien.",
	"bargain.buy.positive.3":  "Negocias de forma razonable.",
	"bargain.buy.neutral.1":   "Mmm, algo caro. ¿Qué tal esto?",
	"bargain.buy.neutral.2":   "Encontrémonos a mitad de camino.",
	"bargain.buy.neutral.3":   "Puedo subir un poco, no tanto.",
	"bargain.buy.negative.1":  "¡Eso es demasiado caro!",
	"bargain.buy.negative.2":  "¿En serio? De ninguna manera.",
	"bargain.buy.negative.3":  "Lo encuentro más barato en otro sitio.",
	"bargain.sell.positive.1": "Trato hecho, me sirve.",
	"bargain.sell.positive.2": "Puedo aceptar esa oferta.",
	"bargain.sell.positive.3": "Bien, sabes lo que vale.",
	"bargain.sell.neutral.1":  "Un poco bajo. ¿Puedes subir?",
	"bargain.sell.neutral.2":  "Esperaba algo más.",
	"bargain.sell.neutral.3":  "Busquemos un número que nos guste a ambos.",
	"bargain.sell.negative.1": "¡Eso es un insulto para esta pieza!",
	"bargain.sell.negative.2": "No puedes hablar en serio.",
	"bargain.sell.negative.3": "Prefiero quedármelo.",
	"bargain.final.no_deal":   "Estamos demasiado lejos. No hay trato.",
	"bargain.expert.fake":     "¡Esto es falso! No puedo creer que lo intentes.",
	"bargain.closing.deal":    "¡Un placer hacer negocios!",
	"bargain.closing.no_deal": "Quizás la próxima vez.",

	"api.day_end_pending":       "No hay más clientes hoy. Cierra la tienda para empezar un nuevo día.",
	"api.mission_not_claimable": "No puedes reclamar esa misión.",
}

// DefaultCatalog returns a catalog with the bundled English and Spanish
// tables, defaulting to English.
func DefaultCatalog() *Catalog {
	c := NewCatalog("en")
	c.Add("en", english)
	c.Add("es", spanish)
	return c
}
