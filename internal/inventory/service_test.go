package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var errInventory = errors.New("inventory error")

func TestCreatePlantWithLocation(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	lat, lng := 32.0, 34.8
	mock.ExpectQuery(`INSERT INTO plants`).
		WithArgs(pgxmock.AnyArg(), "biz-1", "Monstera", "Monstera deliciosa", 49.9, 4, 34.8, 32.0, 2, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	plant, err := svc.CreatePlant(context.Background(), Plant{
		BusinessID: "biz-1",
		Name:       "Monstera",
		Species:    "Monstera deliciosa",
		Price:      49.9,
		Quantity:   4,
		Lat:        &lat,
		Lng:        &lng,
		RouteOrder: 2,
		ForSale:    true,
	})
	if err != nil {
		t.Fatalf("create plant: %v", err)
	}
	if plant.ID == "" {
		t.Fatalf("expected plant id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePlantWithoutLocation(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO plants`).
		WithArgs(pgxmock.AnyArg(), "biz-1", "Indoor fern", "", 0.0, 1, 0, false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock)
	plant, err := svc.CreatePlant(context.Background(), Plant{
		BusinessID: "biz-1",
		Name:       "Indoor fern",
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("create plant: %v", err)
	}
	if plant.Lat != nil {
		t.Fatalf("expected no coordinates")
	}
}

func TestGetPlantScansNullLocation(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, business_id, name, species, price, quantity`).
		WithArgs("plant-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "business_id", "name", "species", "price", "quantity", "lat", "lng", "route_order", "for_sale", "created_at"}).
			AddRow("plant-1", "biz-1", "Fern", "", 10.0, 2, nil, nil, 0, false, time.Now()))

	svc := NewService(mock)
	plant, err := svc.GetPlant(context.Background(), "plant-1")
	if err != nil {
		t.Fatalf("get plant: %v", err)
	}
	if plant.Lat != nil || plant.Lng != nil {
		t.Fatalf("expected nil coordinates for unlocated plant")
	}
}

func TestUpdatePlantKeepsLocation(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	lat, lng := 32.0, 34.8
	mock.ExpectQuery(`SELECT id, business_id, name, species, price, quantity`).
		WithArgs("plant-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "business_id", "name", "species", "price", "quantity", "lat", "lng", "route_order", "for_sale", "created_at"}).
			AddRow("plant-1", "biz-1", "Monstera", "", 49.9, 4, &lat, &lng, 2, true, time.Now()))

	mock.ExpectExec(`UPDATE plants`).
		WithArgs("plant-1", "Monstera XL", "", 49.9, 4, 34.8, 32.0, 2, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock)
	plant, err := svc.UpdatePlant(context.Background(), "plant-1", Plant{Name: "Monstera XL"})
	if err != nil {
		t.Fatalf("update plant: %v", err)
	}
	if plant.Name != "Monstera XL" || plant.Lat == nil {
		t.Fatalf("unexpected plant: %+v", plant)
	}
}

func TestListByBusiness(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	lat, lng := 32.0, 34.8
	mock.ExpectQuery(`SELECT id, business_id, name, species, price, quantity`).
		WithArgs("biz-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "business_id", "name", "species", "price", "quantity", "lat", "lng", "route_order", "for_sale", "created_at"}).
			AddRow("plant-1", "biz-1", "Monstera", "", 49.9, 4, &lat, &lng, 1, true, time.Now()).
			AddRow("plant-2", "biz-1", "Fern", "", 19.9, 2, nil, nil, 2, false, time.Now()))

	svc := NewService(mock)
	plants, err := svc.ListByBusiness(context.Background(), "biz-1")
	if err != nil || len(plants) != 2 {
		t.Fatalf("list: %v", err)
	}
}

func TestSearchNearbyError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, business_id, name, species, price, quantity`).
		WithArgs(34.8, 32.0, 5000.0).
		WillReturnError(errInventory)

	svc := NewService(mock)
	if _, err := svc.SearchNearby(context.Background(), 32.0, 34.8, 5); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLowStock(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, business_id, name, species, price, quantity`).
		WithArgs("biz-1", 3).
		WillReturnRows(pgxmock.NewRows([]string{"id", "business_id", "name", "species", "price", "quantity", "lat", "lng", "route_order", "for_sale", "created_at"}).
			AddRow("plant-2", "biz-1", "Fern", "", 19.9, 1, nil, nil, 2, false, time.Now()))

	svc := NewService(mock)
	plants, err := svc.LowStock(context.Background(), "biz-1", 3)
	if err != nil || len(plants) != 1 {
		t.Fatalf("low stock: %v", err)
	}
}

func TestDeletePlantError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM plants`).WithArgs("plant-err").WillReturnError(errInventory)

	svc := NewService(mock)
	if err := svc.DeletePlant(context.Background(), "plant-err"); err == nil {
		t.Fatalf("expected error")
	}
}
