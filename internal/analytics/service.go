package analytics

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/dinasim/greener-sub003/internal/db"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

var nowFn = time.Now

type Service struct {
	db    db.Querier
	cache *redis.Client
}

func NewService(db db.Querier, cache *redis.Client) *Service {
	return &Service{db: db, cache: cache}
}

func cacheKey(businessID string) string {
	return "analytics:" + businessID + ":dashboard"
}

// Dashboard returns the business summary, served from the redis cache
// when a fresh copy exists.
func (s *Service) Dashboard(ctx context.Context, businessID string) (Summary, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey(businessID)).Bytes()
		if err == nil {
			var cached Summary
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	summary, err := s.compute(ctx, businessID)
	if err != nil {
		return Summary{}, err
	}

	if s.cache != nil {
		raw, _ := json.Marshal(summary)
		if err := s.cache.Set(ctx, cacheKey(businessID), raw, cacheTTL).Err(); err != nil {
			log.Printf("analytics cache set error: %v", err)
		}
	}
	return summary, nil
}

// Invalidate drops the cached dashboard, called after writes that
// change the aggregates.
func (s *Service) Invalidate(ctx context.Context, businessID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(businessID)).Err(); err != nil {
		log.Printf("analytics cache del error: %v", err)
	}
}

func (s *Service) compute(ctx context.Context, businessID string) (Summary, error) {
	summary := Summary{BusinessID: businessID, GeneratedAt: nowFn()}

	row := s.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE for_sale),
		       count(*) FILTER (WHERE quantity <= 3)
		FROM plants WHERE business_id=$1
	`, businessID)
	if err := row.Scan(&summary.TotalPlants, &summary.PlantsForSale, &summary.LowStockPlants); err != nil {
		return Summary{}, err
	}

	row = s.db.QueryRow(ctx, `
		SELECT count(*) FILTER (WHERE status='pending'),
		       count(*) FILTER (WHERE status='completed'),
		       COALESCE(sum(total) FILTER (WHERE status='completed'), 0)
		FROM orders WHERE business_id=$1
	`, businessID)
	if err := row.Scan(&summary.PendingOrders, &summary.CompletedOrders, &summary.Revenue); err != nil {
		return Summary{}, err
	}

	row = s.db.QueryRow(ctx, `
		SELECT count(*)
		FROM plants p
		JOIN watering_schedules ws ON ws.plant_id = p.id
		WHERE p.business_id=$1
		  AND ws.last_watered + make_interval(days => ws.interval_days) <= now()
	`, businessID)
	if err := row.Scan(&summary.PlantsOverdue); err != nil {
		return Summary{}, err
	}

	return summary, nil
}
