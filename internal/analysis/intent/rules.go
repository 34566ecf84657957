package intent

import (
	"strings"

	"github.com/pedefacil/backend/internal/model/conversation"
)

// rule pairs keyword groups with a ready-made intent template. Every group
// must match (OR within a group, AND across groups).
type rule struct {
	groups [][]string
	result conversation.IntentResult
}

// The table is evaluated top to bottom and the first match wins, so the
// order is part of the contract: "quero ver o cardápio de um restaurante
// perto" must resolve to the nearby-restaurants rule, not the menu rule.
var ruleTable = []rule{
	{
		groups: [][]string{
			{"restaurante"},
			{"próximo", "proximo", "perto"},
		},
		result: conversation.IntentResult{
			ReplyMessage:    "📍 Para encontrar restaurantes próximos, me envie a sua localização!",
			ActionCodes:     []int{CodeNearbyRestaurants},
			WaitForResponse: true,
			Context:         "waiting_location_for_restaurants",
		},
	},
	{
		groups: [][]string{
			{"cardápio", "cardapio", "menu", "pratos"},
		},
		result: conversation.IntentResult{
			ReplyMessage:    "🍽️ Um momento, vou buscar o cardápio para você.",
			ActionCodes:     []int{CodeMenuCategories},
			WaitForResponse: true,
			Context:         "menu_selection",
		},
	},
	{
		groups: [][]string{
			{"horário", "horario", "funcionamento", "aberto"},
		},
		result: conversation.IntentResult{
			ReplyMessage:    "🕐 Vou verificar os horários de funcionamento.",
			ActionCodes:     []int{CodeOpeningHours},
			WaitForResponse: false,
			Context:         "opening_hours",
		},
	},
	{
		groups: [][]string{
			{"pedido", "comprar"},
		},
		result: conversation.IntentResult{
			ReplyMessage:    "🛒 Vou consultar os seus pedidos.",
			ActionCodes:     []int{CodeOrderStatus},
			WaitForResponse: true,
			Context:         "order_selection",
		},
	},
	{
		groups: [][]string{
			{"promoção", "promocao", "desconto", "oferta"},
		},
		result: conversation.IntentResult{
			ReplyMessage:    "🏷️ Deixa eu ver as promoções ativas.",
			ActionCodes:     []int{CodePromotions},
			WaitForResponse: false,
			Context:         "promotions",
		},
	},
}

// Match runs the keyword heuristics over one message. The boolean is false
// when no rule applies, which is the signal to escalate to the language
// model, not an error.
func Match(text string) (conversation.IntentResult, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return conversation.IntentResult{}, false
	}

	for _, r := range ruleTable {
		if matchesAll(normalized, r.groups) {
			result := r.result
			result.ActionCodes = append([]int(nil), r.result.ActionCodes...)
			return result, true
		}
	}
	return conversation.IntentResult{}, false
}

func matchesAll(normalized string, groups [][]string) bool {
	for _, group := range groups {
		if !matchesAny(normalized, group) {
			return false
		}
	}
	return true
}

func matchesAny(normalized string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}
