package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/dinasim/greener-sub003/internal/db"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// Publisher pushes order lifecycle events to the message broker. A nil
// publisher disables events without changing service behavior.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

var allowedTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
}

type Service struct {
	db  db.Querier
	pub Publisher
}

func NewService(db db.Querier, pub Publisher) *Service {
	return &Service{db: db, pub: pub}
}

func (s *Service) CreateOrder(ctx context.Context, input Order) (Order, error) {
	input.ID = uuid.NewString()
	input.Status = StatusPending

	var total float64
	for _, item := range input.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	input.Total = total

	row := s.db.QueryRow(ctx, `
		INSERT INTO orders (id, buyer_id, business_id, status, total)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, input.ID, input.BuyerID, input.BusinessID, input.Status, input.Total)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Order{}, err
	}

	for i := range input.Items {
		input.Items[i].OrderID = input.ID
		_, err := s.db.Exec(ctx, `
			INSERT INTO order_items (order_id, plant_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4)
		`, input.ID, input.Items[i].PlantID, input.Items[i].Quantity, input.Items[i].UnitPrice)
		if err != nil {
			return Order{}, err
		}
		_, err = s.db.Exec(ctx, `
			UPDATE plants SET quantity = quantity - $2 WHERE id=$1 AND quantity >= $2
		`, input.Items[i].PlantID, input.Items[i].Quantity)
		if err != nil {
			return Order{}, err
		}
	}

	s.publish(ctx, "order.created", input)
	return input, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, buyer_id, business_id, status, total, created_at, updated_at
		FROM orders WHERE id=$1
	`, id)
	var o Order
	if err := row.Scan(&o.ID, &o.BuyerID, &o.BusinessID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT order_id, plant_id, quantity, unit_price
		FROM order_items WHERE order_id=$1
	`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.OrderID, &item.PlantID, &item.Quantity, &item.UnitPrice); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, item)
	}
	return o, nil
}

// UpdateStatus moves the order along pending -> confirmed -> ready ->
// completed, with cancellation allowed until the order is ready.
func (s *Service) UpdateStatus(ctx context.Context, id, next string) (Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !transitionAllowed(order.Status, next) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	row := s.db.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE id=$1
		RETURNING updated_at
	`, id, next)
	if err := row.Scan(&order.UpdatedAt); err != nil {
		return Order{}, err
	}
	order.Status = next

	if next == StatusCancelled {
		for _, item := range order.Items {
			if _, err := s.db.Exec(ctx, `
				UPDATE plants SET quantity = quantity + $2 WHERE id=$1
			`, item.PlantID, item.Quantity); err != nil {
				return Order{}, err
			}
		}
	}

	s.publish(ctx, "order.status."+next, order)
	return order, nil
}

func (s *Service) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return s.list(ctx, `
		SELECT id, buyer_id, business_id, status, total, created_at, updated_at
		FROM orders WHERE buyer_id=$1
		ORDER BY created_at DESC
	`, buyerID)
}

func (s *Service) ListByBusiness(ctx context.Context, businessID string) ([]Order, error) {
	return s.list(ctx, `
		SELECT id, buyer_id, business_id, status, total, created_at, updated_at
		FROM orders WHERE business_id=$1
		ORDER BY created_at DESC
	`, businessID)
}

func (s *Service) list(ctx context.Context, query, arg string) ([]Order, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.BusinessID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, key string, order Order) {
	if s.pub == nil {
		return
	}
	// Broker failures must not fail the order write.
	_ = s.pub.Publish(ctx, key, order)
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
