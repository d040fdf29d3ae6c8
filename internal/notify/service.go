package notify

import (
	"context"
	"time"

	"github.com/dinasim/greener-sub003/internal/db"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

var nowFn = time.Now

type Service struct {
	db  db.Querier
	pub Publisher
}

func NewService(db db.Querier, pub Publisher) *Service {
	return &Service{db: db, pub: pub}
}

func (s *Service) RegisterToken(ctx context.Context, input DeviceToken) (DeviceToken, error) {
	if input.Platform == "" {
		input.Platform = "unknown"
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO device_tokens (user_id, token, platform)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id, token) DO UPDATE SET platform=EXCLUDED.platform
		RETURNING created_at
	`, input.UserID, input.Token, input.Platform)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return DeviceToken{}, err
	}
	return input, nil
}

func (s *Service) RemoveToken(ctx context.Context, userID, token string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM device_tokens WHERE user_id=$1 AND token=$2
	`, userID, token)
	return err
}

func (s *Service) TokensForUser(ctx context.Context, userID string) ([]DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, token, platform, created_at
		FROM device_tokens WHERE user_id=$1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []DeviceToken
	for rows.Next() {
		var t DeviceToken
		if err := rows.Scan(&t.UserID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// SendOverdueReminder publishes a watering reminder for every plant of
// the business whose schedule is past due. Returns the number of plants
// included; zero means nothing was published.
func (s *Service) SendOverdueReminder(ctx context.Context, businessID string) (int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id
		FROM plants p
		JOIN watering_schedules ws ON ws.plant_id = p.id
		WHERE p.business_id=$1
		  AND ws.last_watered + make_interval(days => ws.interval_days) <= now()
		ORDER BY p.route_order
	`, businessID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var plantIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		plantIDs = append(plantIDs, id)
	}
	if len(plantIDs) == 0 {
		return 0, nil
	}

	if s.pub != nil {
		reminder := Reminder{BusinessID: businessID, PlantIDs: plantIDs, SentAt: nowFn()}
		if err := s.pub.Publish(ctx, "watering.reminder", reminder); err != nil {
			return 0, err
		}
	}
	return len(plantIDs), nil
}
