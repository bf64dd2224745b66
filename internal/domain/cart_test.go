package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCartProjection_Totals(t *testing.T) {
	p := NewCartProjection([]CartLine{
		{ProductID: "p1", UnitPriceCents: 3000, Quantity: 2},
		{ProductID: "p2", UnitPriceCents: 1250, Quantity: 1},
	})
	assert.Equal(t, 3, p.ItemCount)
	assert.Equal(t, int64(7250), p.SubtotalCents)
	assert.Equal(t, "72.50", p.Subtotal)
}

func TestNewCartProjection_Empty(t *testing.T) {
	p := NewCartProjection(nil)
	assert.Equal(t, 0, p.ItemCount)
	assert.Equal(t, int64(0), p.SubtotalCents)
	assert.NotNil(t, p.Lines)
	assert.Empty(t, p.Lines)
}

func TestNewCartProjection_CopiesLines(t *testing.T) {
	lines := []CartLine{{ProductID: "p1", UnitPriceCents: 100, Quantity: 1}}
	p := NewCartProjection(lines)
	lines[0].Quantity = 9
	assert.Equal(t, 1, p.Lines[0].Quantity)
}

func TestListPriceCents(t *testing.T) {
	assert.Equal(t, int64(10000), ListPriceCents(9000, 10))
	assert.Equal(t, int64(9000), ListPriceCents(9000, 0))
	assert.Equal(t, int64(9000), ListPriceCents(9000, 100))
	// 99.99 at 15% off was 117.635... -> 117.64
	assert.Equal(t, int64(11764), ListPriceCents(9999, 15))
}

func TestSettingsRedacted(t *testing.T) {
	s := AdminSettings{PaymentSecretKey: "sk_test_123456"}
	assert.Equal(t, "****3456", s.Redacted().PaymentSecretKey)
	assert.Equal(t, "", AdminSettings{}.Redacted().PaymentSecretKey)
}
