package dispatch

import (
	"testing"
	"time"

	"github.com/pedefacil/backend/internal/model/catalog"
)

func TestFormatCurrency(t *testing.T) {
	if got := formatCurrency(12.3); got != "R$ 12,30" {
		t.Fatalf("formatCurrency(12.3) = %q", got)
	}
	if got := formatCurrency(9.999); got != "R$ 10,00" {
		t.Fatalf("formatCurrency(9.999) = %q", got)
	}
}

func TestFormatDiscount(t *testing.T) {
	if got := formatDiscount(catalog.DiscountPercentage, 20); got != "20% de desconto" {
		t.Fatalf("percentage discount = %q", got)
	}
	if got := formatDiscount(catalog.DiscountFixed, 9.9); got != "R$ 9,90 de desconto" {
		t.Fatalf("fixed discount = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := formatDate(d); got != "05/03/2026" {
		t.Fatalf("formatDate = %q", got)
	}
}

func TestStatusAndPaymentEmoji(t *testing.T) {
	if statusEmoji("Pending") != "⏳" {
		t.Fatal("pending emoji mismatch")
	}
	if statusEmoji("whatever") != "ℹ️" {
		t.Fatal("unknown status should use the neutral emoji")
	}
	if paymentEmoji("PIX") != "💠" {
		t.Fatal("pix emoji mismatch")
	}
}
