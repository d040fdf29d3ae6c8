package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passthrough(c *fiber.Ctx) error { return c.Next() }

func TestNotifyHandlersRegisterToken(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO device_tokens`).
		WithArgs("user-1", "tok-abc", "ios").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/notify"), NewService(mock, nil), passthrough)

	body, _ := json.Marshal(DeviceToken{UserID: "user-1", Token: "tok-abc", Platform: "ios"})
	req := httptest.NewRequest(http.MethodPost, "/notify/tokens", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %v", err)
	}
}

func TestNotifyHandlersRegisterTokenMissingFields(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/notify"), NewService(nil, nil), passthrough)

	req := httptest.NewRequest(http.MethodPost, "/notify/tokens", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}

func TestNotifyHandlersReminder(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs("biz-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("plant-1"))

	app := fiber.New()
	RegisterRoutes(app.Group("/notify"), NewService(mock, &fakePublisher{}), passthrough)

	req := httptest.NewRequest(http.MethodPost, "/notify/reminders/biz-1", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("reminder status: %v", err)
	}

	var out map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["plants_due"] != 1 {
		t.Fatalf("expected 1 due plant, got %d", out["plants_due"])
	}
}
