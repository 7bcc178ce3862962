// Package calc holds the money arithmetic of an order. All functions are pure.
package calc

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds to two decimals, half away from zero, on the shortest
// decimal form of v so that 1.005 rounds to 1.01.
func RoundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

type LineTotals struct {
	LineTotal  float64
	LineCost   float64
	LineProfit float64
}

func LineItemTotals(quantity int, sellingPrice, costPrice float64) LineTotals {
	q := decimal.NewFromInt(int64(quantity))
	total := decimal.NewFromFloat(sellingPrice).Mul(q).Round(2)
	cost := decimal.NewFromFloat(costPrice).Mul(q).Round(2)

	t, _ := total.Float64()
	c, _ := cost.Float64()
	p, _ := total.Sub(cost).Round(2).Float64()
	return LineTotals{LineTotal: t, LineCost: c, LineProfit: p}
}

type Line struct {
	Quantity int
	LineTotals
}

type Totals struct {
	TotalAmount float64
	TotalCost   float64
	TotalProfit float64
	ItemsCount  int
}

// OrderTotals sums already rounded line values.
func OrderTotals(lines []Line) Totals {
	amount, cost := decimal.Zero, decimal.Zero
	count := 0
	for _, l := range lines {
		amount = amount.Add(decimal.NewFromFloat(l.LineTotal))
		cost = cost.Add(decimal.NewFromFloat(l.LineCost))
		count += l.Quantity
	}
	amount = amount.Round(2)
	cost = cost.Round(2)

	a, _ := amount.Float64()
	c, _ := cost.Float64()
	p, _ := amount.Sub(cost).Round(2).Float64()
	return Totals{TotalAmount: a, TotalCost: c, TotalProfit: p, ItemsCount: count}
}

// NewOrderNumber returns ORD-YYYYMMDD-NNNN with NNNN in [1000, 9999].
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%d", now.Format("20060102"), 1000+rand.IntN(9000))
}
