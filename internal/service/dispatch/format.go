package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/pedefacil/backend/internal/model/catalog"
)

// formatCurrency renders a pt-BR money amount with two decimals.
func formatCurrency(value float64) string {
	return "R$ " + strings.ReplaceAll(fmt.Sprintf("%.2f", value), ".", ",")
}

// formatDate renders the localized day/month/year form.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatDiscount(kind catalog.DiscountType, value float64) string {
	if kind == catalog.DiscountPercentage {
		return fmt.Sprintf("%.0f%% de desconto", value)
	}
	return formatCurrency(value) + " de desconto"
}

var statusEmojis = map[string]string{
	"pending":    "⏳",
	"confirmed":  "✅",
	"delivering": "🛵",
	"delivered":  "📦",
	"cancelled":  "❌",
}

var statusLabels = map[string]string{
	"pending":    "Pendente",
	"confirmed":  "Confirmado",
	"delivering": "A caminho",
	"delivered":  "Entregue",
	"cancelled":  "Cancelado",
}

var paymentEmojis = map[string]string{
	"pix":    "💠",
	"cash":   "💵",
	"card":   "💳",
	"credit": "💳",
	"debit":  "💳",
}

func statusEmoji(status string) string {
	if emoji, ok := statusEmojis[strings.ToLower(status)]; ok {
		return emoji
	}
	return "ℹ️"
}

func statusLabel(status string) string {
	if label, ok := statusLabels[strings.ToLower(status)]; ok {
		return label
	}
	return status
}

func paymentEmoji(method string) string {
	if emoji, ok := paymentEmojis[strings.ToLower(method)]; ok {
		return emoji
	}
	return "💰"
}
