package model

import "time"

type Dashboard struct {
	TodayRevenue      float64 `json:"today_revenue"`
	TodayProfit       float64 `json:"today_profit"`
	TodayOrders       int     `json:"today_orders"`
	LowStockCount     int     `json:"low_stock_count"`
	TotalProducts     int     `json:"total_products"`
	StockValue        float64 `json:"stock_value"`
	StockValueSelling float64 `json:"stock_value_selling"`
}

// OrderTotalsRow is the slice of an order header the aggregations need.
type OrderTotalsRow struct {
	CreatedAt   time.Time `db:"created_at"`
	TotalAmount float64   `db:"total_amount"`
	TotalCost   float64   `db:"total_cost"`
	TotalProfit float64   `db:"total_profit"`
}

type DailyRevenue struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	Cost       float64 `json:"cost"`
	Profit     float64 `json:"profit"`
	OrderCount int     `json:"order_count"`
}

type TopProduct struct {
	ProductID     string  `db:"product_id" json:"product_id"`
	ProductName   string  `db:"product_name" json:"product_name"`
	TotalQuantity int     `db:"total_quantity" json:"total_quantity"`
	TotalRevenue  float64 `db:"total_revenue" json:"total_revenue"`
	TotalProfit   float64 `db:"total_profit" json:"total_profit"`
}

type CategorySales struct {
	Category      Category `db:"category" json:"category"`
	TotalQuantity int      `db:"total_quantity" json:"total_quantity"`
	TotalRevenue  float64  `db:"total_revenue" json:"total_revenue"`
	TotalProfit   float64  `db:"total_profit" json:"total_profit"`
}

type MonthlySummary struct {
	Month      string  `json:"month"`
	Revenue    float64 `json:"revenue"`
	Profit     float64 `json:"profit"`
	OrderCount int     `json:"order_count"`
}
