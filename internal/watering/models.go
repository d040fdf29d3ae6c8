package watering

import "time"

type Schedule struct {
	PlantID      string    `json:"plant_id"`
	IntervalDays int       `json:"interval_days"`
	LastWatered  time.Time `json:"last_watered"`
	NextDue      time.Time `json:"next_due"`
}

type LogEntry struct {
	ID        string    `json:"id"`
	PlantID   string    `json:"plant_id"`
	Method    string    `json:"method"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	WateredAt time.Time `json:"watered_at"`
}

// ChecklistItem is one due plant on the watering checklist, ordered the way
// the business laid out its nursery.
type ChecklistItem struct {
	PlantID      string    `json:"plant_id"`
	Name         string    `json:"name"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	IntervalDays int       `json:"interval_days"`
	LastWatered  time.Time `json:"last_watered"`
	NextDue      time.Time `json:"next_due"`
	OverdueDays  int       `json:"overdue_days"`
}
