package notify

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

type fakePublisher struct {
	keys     []string
	payloads []any
}

func (f *fakePublisher) Publish(_ context.Context, key string, payload any) error {
	f.keys = append(f.keys, key)
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestRegisterTokenUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO device_tokens`).
		WithArgs("user-1", "tok-abc", "android").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock, nil)
	token, err := svc.RegisterToken(context.Background(), DeviceToken{UserID: "user-1", Token: "tok-abc", Platform: "android"})
	if err != nil {
		t.Fatalf("register token: %v", err)
	}
	if token.CreatedAt.IsZero() {
		t.Fatalf("expected created_at")
	}
}

func TestRegisterTokenDefaultsPlatform(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO device_tokens`).
		WithArgs("user-1", "tok-abc", "unknown").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	svc := NewService(mock, nil)
	if _, err := svc.RegisterToken(context.Background(), DeviceToken{UserID: "user-1", Token: "tok-abc"}); err != nil {
		t.Fatalf("register token: %v", err)
	}
}

func TestSendOverdueReminderPublishes(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs("biz-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("plant-1").AddRow("plant-2"))

	pub := &fakePublisher{}
	svc := NewService(mock, pub)
	count, err := svc.SendOverdueReminder(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("send reminder: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 due plants, got %d", count)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "watering.reminder" {
		t.Fatalf("unexpected keys: %v", pub.keys)
	}
	reminder, ok := pub.payloads[0].(Reminder)
	if !ok || len(reminder.PlantIDs) != 2 {
		t.Fatalf("unexpected payload: %+v", pub.payloads[0])
	}
}

func TestSendOverdueReminderNothingDue(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT p.id`).
		WithArgs("biz-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	pub := &fakePublisher{}
	svc := NewService(mock, pub)
	count, err := svc.SendOverdueReminder(context.Background(), "biz-1")
	if err != nil || count != 0 {
		t.Fatalf("expected zero due, got %d (%v)", count, err)
	}
	if len(pub.keys) != 0 {
		t.Fatalf("expected no publish, got %v", pub.keys)
	}
}

func TestTokensForUser(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT user_id, token, platform, created_at`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "token", "platform", "created_at"}).
			AddRow("user-1", "tok-a", "ios", time.Now()).
			AddRow("user-1", "tok-b", "android", time.Now()))

	svc := NewService(mock, nil)
	tokens, err := svc.TokensForUser(context.Background(), "user-1")
	if err != nil || len(tokens) != 2 {
		t.Fatalf("tokens: %v", err)
	}
}
