package orders

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Order struct {
	ID         string      `json:"id"`
	BuyerID    string      `json:"buyer_id"`
	BusinessID string      `json:"business_id"`
	Status     string      `json:"status"`
	Total      float64     `json:"total"`
	Items      []OrderItem `json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type OrderItem struct {
	OrderID   string  `json:"order_id"`
	PlantID   string  `json:"plant_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
