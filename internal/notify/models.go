package notify

import "time"

type DeviceToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

// Reminder is the payload published for a business whose plants are due
// for watering.
type Reminder struct {
	BusinessID string   `json:"business_id"`
	PlantIDs   []string `json:"plant_ids"`
	SentAt     time.Time `json:"sent_at"`
}
