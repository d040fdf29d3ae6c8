package analytics

import "time"

// Summary is the business dashboard aggregate. Cached in redis for a
// few minutes since it joins three tables.
type Summary struct {
	BusinessID      string    `json:"business_id"`
	TotalPlants     int       `json:"total_plants"`
	PlantsForSale   int       `json:"plants_for_sale"`
	LowStockPlants  int       `json:"low_stock_plants"`
	PlantsOverdue   int       `json:"plants_overdue"`
	PendingOrders   int       `json:"pending_orders"`
	CompletedOrders int       `json:"completed_orders"`
	Revenue         float64   `json:"revenue"`
	GeneratedAt     time.Time `json:"generated_at"`
}
