package inventory

import "time"

type Plant struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Name       string    `json:"name"`
	Species    string    `json:"species"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	RouteOrder int       `json:"route_order"`
	ForSale    bool      `json:"for_sale"`
	CreatedAt  time.Time `json:"created_at"`
}
