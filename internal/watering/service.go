package watering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dinasim/greener-sub003/internal/db"
	"github.com/dinasim/greener-sub003/internal/navigation"
	"github.com/dinasim/greener-sub003/internal/shared/geo"

	"github.com/google/uuid"
)

var nowFn = time.Now

// ErrNoDuePlants wraps navigation.ErrEmptyRoute so callers building a guided
// session can treat both as "nothing to route".
var ErrNoDuePlants = fmt.Errorf("%w: no plants due for watering", navigation.ErrEmptyRoute)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// MarkWatered records a watering for a plant and returns the next due time.
// It satisfies navigation.WateringMarker: the guided-route controller calls
// it when the user confirms a waypoint.
func (s *Service) MarkWatered(ctx context.Context, plantID, method string, coords *geo.Coordinates) (time.Time, error) {
	var intervalDays int
	err := s.db.QueryRow(ctx, `
		SELECT interval_days FROM watering_schedules WHERE plant_id=$1
	`, plantID).Scan(&intervalDays)
	if err != nil {
		return time.Time{}, err
	}

	now := nowFn()
	if _, err := s.db.Exec(ctx, `
		UPDATE watering_schedules SET last_watered=$2 WHERE plant_id=$1
	`, plantID, now); err != nil {
		return time.Time{}, err
	}

	if coords != nil {
		_, err = s.db.Exec(ctx, `
			INSERT INTO watering_logs (id, plant_id, method, location, watered_at)
			VALUES ($1,$2,$3, ST_SetSRID(ST_MakePoint($4,$5), 4326)::geography, $6)
		`, uuid.NewString(), plantID, method, coords.Lng, coords.Lat, now)
	} else {
		_, err = s.db.Exec(ctx, `
			INSERT INTO watering_logs (id, plant_id, method, watered_at)
			VALUES ($1,$2,$3,$4)
		`, uuid.NewString(), plantID, method, now)
	}
	if err != nil {
		return time.Time{}, err
	}

	return NextDue(now, intervalDays), nil
}

func (s *Service) UpsertSchedule(ctx context.Context, plantID string, intervalDays int) (Schedule, error) {
	if intervalDays <= 0 {
		return Schedule{}, errors.New("interval_days must be positive")
	}
	sched := Schedule{PlantID: plantID, IntervalDays: intervalDays}
	err := s.db.QueryRow(ctx, `
		INSERT INTO watering_schedules (plant_id, interval_days)
		VALUES ($1,$2)
		ON CONFLICT (plant_id) DO UPDATE SET interval_days=EXCLUDED.interval_days
		RETURNING COALESCE(last_watered, 'epoch'::timestamptz)
	`, plantID, intervalDays).Scan(&sched.LastWatered)
	if err != nil {
		return Schedule{}, err
	}
	if sched.LastWatered.Unix() == 0 {
		sched.LastWatered = time.Time{}
	}
	sched.NextDue = NextDue(sched.LastWatered, intervalDays)
	return sched, nil
}

func (s *Service) GetSchedule(ctx context.Context, plantID string) (Schedule, error) {
	var sched Schedule
	err := s.db.QueryRow(ctx, `
		SELECT plant_id, interval_days, COALESCE(last_watered, 'epoch'::timestamptz)
		FROM watering_schedules WHERE plant_id=$1
	`, plantID).Scan(&sched.PlantID, &sched.IntervalDays, &sched.LastWatered)
	if err != nil {
		return Schedule{}, err
	}
	if sched.LastWatered.Unix() == 0 {
		sched.LastWatered = time.Time{}
	}
	sched.NextDue = NextDue(sched.LastWatered, sched.IntervalDays)
	return sched, nil
}

// Checklist lists the business's due plants in nursery walking order.
func (s *Service) Checklist(ctx context.Context, businessID string) ([]ChecklistItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, ST_Y(p.location::geometry), ST_X(p.location::geometry),
		       s.interval_days, COALESCE(s.last_watered, 'epoch'::timestamptz)
		FROM plants p
		JOIN watering_schedules s ON s.plant_id = p.id
		WHERE p.business_id=$1
		  AND (s.last_watered IS NULL OR s.last_watered + (s.interval_days * interval '1 day') <= NOW())
		ORDER BY p.route_order, p.created_at
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := nowFn()
	var items []ChecklistItem
	for rows.Next() {
		var item ChecklistItem
		if err := rows.Scan(&item.PlantID, &item.Name, &item.Lat, &item.Lng, &item.IntervalDays, &item.LastWatered); err != nil {
			return nil, err
		}
		if item.LastWatered.Unix() == 0 {
			item.LastWatered = time.Time{}
		}
		item.NextDue = NextDue(item.LastWatered, item.IntervalDays)
		item.OverdueDays = OverdueDays(item.LastWatered, item.IntervalDays, now)
		items = append(items, item)
	}
	return items, nil
}

// BuildRoute turns the due checklist (or an explicit plant selection) into an
// ordered waypoint list for the navigation controller. Plants without a
// recorded location become manual-only waypoints.
func (s *Service) BuildRoute(ctx context.Context, businessID string, plantIDs []string) ([]navigation.Waypoint, error) {
	items, err := s.Checklist(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if len(plantIDs) > 0 {
		items = filterByIDs(items, plantIDs)
	}
	if len(items) == 0 {
		return nil, ErrNoDuePlants
	}

	waypoints := make([]navigation.Waypoint, 0, len(items))
	for _, item := range items {
		var target *geo.Coordinates
		if item.Lat != nil && item.Lng != nil {
			target = &geo.Coordinates{Lat: *item.Lat, Lng: *item.Lng}
		}
		wp, err := navigation.NewWaypoint(item.PlantID, item.Name, target)
		if err != nil {
			return nil, err
		}
		waypoints = append(waypoints, wp)
	}
	return waypoints, nil
}

// filterByIDs keeps the requested plants in the caller's order.
func filterByIDs(items []ChecklistItem, ids []string) []ChecklistItem {
	byID := make(map[string]ChecklistItem, len(items))
	for _, item := range items {
		byID[item.PlantID] = item
	}
	var out []ChecklistItem
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

func (s *Service) History(ctx context.Context, plantID string) ([]LogEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, plant_id, method, ST_Y(location::geometry), ST_X(location::geometry), watered_at
		FROM watering_logs WHERE plant_id=$1
		ORDER BY watered_at DESC
	`, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.PlantID, &e.Method, &e.Lat, &e.Lng, &e.WateredAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
