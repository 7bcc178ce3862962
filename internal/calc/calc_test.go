package calc

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{0.1 + 0.2, 0.3},
		{10, 10},
		{19.994, 19.99},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundMoney(tt.in), "RoundMoney(%v)", tt.in)
	}
}

func TestLineItemTotals(t *testing.T) {
	got := LineItemTotals(3, 19.99, 7.333)

	assert.Equal(t, 59.97, got.LineTotal)
	assert.Equal(t, 22.0, got.LineCost)
	assert.Equal(t, 37.97, got.LineProfit)
}

func TestLineItemTotalsProfitFromRoundedParts(t *testing.T) {
	got := LineItemTotals(1, 0.1, 0.3)

	assert.Equal(t, -0.2, got.LineProfit)
}

func TestOrderTotals(t *testing.T) {
	lines := []Line{
		{Quantity: 2, LineTotals: LineItemTotals(2, 1500, 900)},
		{Quantity: 1, LineTotals: LineItemTotals(1, 0.1, 0.05)},
		{Quantity: 3, LineTotals: LineItemTotals(3, 0.2, 0.1)},
	}

	got := OrderTotals(lines)

	assert.Equal(t, 3000.7, got.TotalAmount)
	assert.Equal(t, 1800.35, got.TotalCost)
	assert.Equal(t, 1200.35, got.TotalProfit)
	assert.Equal(t, 6, got.ItemsCount)
}

func TestOrderTotalsEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, OrderTotals(nil))
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^ORD-20250307-\d{4}$`)

	for i := 0; i < 200; i++ {
		n := NewOrderNumber(now)
		assert.Regexp(t, pattern, n)
		suffix := n[len(n)-4:]
		assert.GreaterOrEqual(t, suffix, "1000")
		assert.LessOrEqual(t, suffix, "9999")
	}
}
