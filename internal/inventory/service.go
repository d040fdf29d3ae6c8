package inventory

import (
	"context"

	"github.com/dinasim/greener-sub003/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) CreatePlant(ctx context.Context, input Plant) (Plant, error) {
	input.ID = uuid.NewString()
	var err error
	if input.Lat != nil && input.Lng != nil {
		err = s.db.QueryRow(ctx, `
			INSERT INTO plants (id, business_id, name, species, price, quantity, location, route_order, for_sale)
			VALUES ($1,$2,$3,$4,$5,$6, ST_SetSRID(ST_MakePoint($7,$8), 4326)::geography, $9, $10)
			RETURNING created_at
		`, input.ID, input.BusinessID, input.Name, input.Species, input.Price, input.Quantity,
			*input.Lng, *input.Lat, input.RouteOrder, input.ForSale).Scan(&input.CreatedAt)
	} else {
		err = s.db.QueryRow(ctx, `
			INSERT INTO plants (id, business_id, name, species, price, quantity, route_order, for_sale)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING created_at
		`, input.ID, input.BusinessID, input.Name, input.Species, input.Price, input.Quantity,
			input.RouteOrder, input.ForSale).Scan(&input.CreatedAt)
	}
	if err != nil {
		return Plant{}, err
	}
	return input, nil
}

func (s *Service) UpdatePlant(ctx context.Context, id string, patch Plant) (Plant, error) {
	plant, err := s.GetPlant(ctx, id)
	if err != nil {
		return Plant{}, err
	}
	if patch.Name != "" {
		plant.Name = patch.Name
	}
	if patch.Species != "" {
		plant.Species = patch.Species
	}
	if patch.Price != 0 {
		plant.Price = patch.Price
	}
	if patch.Quantity != 0 {
		plant.Quantity = patch.Quantity
	}
	if patch.Lat != nil && patch.Lng != nil {
		plant.Lat = patch.Lat
		plant.Lng = patch.Lng
	}
	if patch.RouteOrder != 0 {
		plant.RouteOrder = patch.RouteOrder
	}

	if plant.Lat != nil && plant.Lng != nil {
		_, err = s.db.Exec(ctx, `
			UPDATE plants
			SET name=$2, species=$3, price=$4, quantity=$5,
			    location=ST_SetSRID(ST_MakePoint($6,$7), 4326)::geography,
			    route_order=$8, for_sale=$9
			WHERE id=$1
		`, plant.ID, plant.Name, plant.Species, plant.Price, plant.Quantity,
			*plant.Lng, *plant.Lat, plant.RouteOrder, plant.ForSale)
	} else {
		_, err = s.db.Exec(ctx, `
			UPDATE plants
			SET name=$2, species=$3, price=$4, quantity=$5, route_order=$6, for_sale=$7
			WHERE id=$1
		`, plant.ID, plant.Name, plant.Species, plant.Price, plant.Quantity,
			plant.RouteOrder, plant.ForSale)
	}
	if err != nil {
		return Plant{}, err
	}
	return plant, nil
}

func (s *Service) GetPlant(ctx context.Context, id string) (Plant, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, business_id, name, species, price, quantity,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       route_order, for_sale, created_at
		FROM plants WHERE id=$1
	`, id)
	var p Plant
	if err := row.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Species, &p.Price, &p.Quantity,
		&p.Lat, &p.Lng, &p.RouteOrder, &p.ForSale, &p.CreatedAt); err != nil {
		return Plant{}, err
	}
	return p, nil
}

func (s *Service) DeletePlant(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM plants WHERE id=$1`, id)
	return err
}

// ListByBusiness returns the business's plants in nursery walking order, the
// same order watering routes traverse.
func (s *Service) ListByBusiness(ctx context.Context, businessID string) ([]Plant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, business_id, name, species, price, quantity,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       route_order, for_sale, created_at
		FROM plants WHERE business_id=$1
		ORDER BY route_order, created_at
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		var p Plant
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Species, &p.Price, &p.Quantity,
			&p.Lat, &p.Lng, &p.RouteOrder, &p.ForSale, &p.CreatedAt); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// SearchNearby finds marketplace plants for sale within the given radius.
func (s *Service) SearchNearby(ctx context.Context, lat, lng, radiusKm float64) ([]Plant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, business_id, name, species, price, quantity,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       route_order, for_sale, created_at
		FROM plants
		WHERE for_sale AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($1,$2), 4326)::geography, $3)
		ORDER BY created_at DESC
	`, lng, lat, radiusKm*1000)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		var p Plant
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Species, &p.Price, &p.Quantity,
			&p.Lat, &p.Lng, &p.RouteOrder, &p.ForSale, &p.CreatedAt); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// LowStock lists plants at or below the given quantity, used by the
// analytics dashboard.
func (s *Service) LowStock(ctx context.Context, businessID string, threshold int) ([]Plant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, business_id, name, species, price, quantity,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       route_order, for_sale, created_at
		FROM plants WHERE business_id=$1 AND quantity <= $2
		ORDER BY quantity
	`, businessID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		var p Plant
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Species, &p.Price, &p.Quantity,
			&p.Lat, &p.Lng, &p.RouteOrder, &p.ForSale, &p.CreatedAt); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, nil
}
