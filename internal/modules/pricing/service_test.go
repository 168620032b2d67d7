package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the cgo-free "sqlite" database/sql driver used below.
	_ "modernc.org/sqlite"

	"liveroom/internal/domain"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:pricing_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&domain.HostRate{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(db, 70, time.Minute)
}

func TestQuoteFallsBackToDefaults(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	for duration, price := range DefaultPrices {
		q, err := svc.Quote(ctx, 42, duration)
		if err != nil {
			t.Fatalf("Quote(%d) returned error: %v", duration, err)
		}
		if q.Price != price {
			t.Fatalf("duration %d: expected default price %v, got %v", duration, price, q.Price)
		}
		if q.CommissionPercent != 70 {
			t.Fatalf("expected default commission, got %v", q.CommissionPercent)
		}
		if q.HostEarnings+q.PlatformFee != q.Price {
			t.Fatalf("split must sum to price: %v + %v != %v", q.HostEarnings, q.PlatformFee, q.Price)
		}
	}

	if _, err := svc.Quote(ctx, 42, 45); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestQuoteUsesCustomRate(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SetRate(ctx, 7, 60, 200, 55); err != nil {
		t.Fatalf("SetRate returned error: %v", err)
	}

	q, err := svc.Quote(ctx, 7, 60)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Price != 200 || q.HostEarnings != 110 || q.PlatformFee != 90 {
		t.Fatalf("unexpected split: %+v", q)
	}

	// Other durations of the same host keep the defaults.
	q, err = svc.Quote(ctx, 7, 30)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Price != DefaultPrices[30] {
		t.Fatalf("expected default price for uncustomized duration, got %v", q.Price)
	}
}

func TestSetRateValidatesAndUpserts(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.SetRate(ctx, 7, 45, 100, 50); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := svc.SetRate(ctx, 7, 60, 0, 50); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := svc.SetRate(ctx, 7, 60, 100, 101); !errors.Is(err, ErrInvalidCommission) {
		t.Fatalf("expected ErrInvalidCommission, got %v", err)
	}

	if _, err := svc.SetRate(ctx, 7, 60, 100, 50); err != nil {
		t.Fatalf("SetRate returned error: %v", err)
	}
	if _, err := svc.SetRate(ctx, 7, 60, 150, 60); err != nil {
		t.Fatalf("repeat SetRate returned error: %v", err)
	}

	var cnt int64
	svc.db.Model(&domain.HostRate{}).Where("host_id = ?", 7).Count(&cnt)
	if cnt != 1 {
		t.Fatalf("expected a single upserted row, got %d", cnt)
	}

	q, err := svc.Quote(ctx, 7, 60)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Price != 150 || q.CommissionPercent != 60 {
		t.Fatalf("expected the upserted rate, got %+v", q)
	}
}

func TestQuoteRoundsSplitToCents(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	// 99.99 at 33.33% -> 33.326667, rounded to 33.33.
	if _, err := svc.SetRate(ctx, 9, 30, 99.99, 33.33); err != nil {
		t.Fatalf("SetRate returned error: %v", err)
	}
	q, err := svc.Quote(ctx, 9, 30)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.HostEarnings != 33.33 {
		t.Fatalf("expected earnings 33.33, got %v", q.HostEarnings)
	}
	if q.PlatformFee != 66.66 {
		t.Fatalf("expected fee 66.66, got %v", q.PlatformFee)
	}
}

func TestRateCacheExpiryAndInvalidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	// Prime the cache with the empty rate set.
	q, err := svc.Quote(ctx, 7, 60)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Price != DefaultPrices[60] {
		t.Fatalf("expected default price, got %v", q.Price)
	}

	// Insert behind the cache's back: still served stale inside the TTL.
	err = svc.db.Create(&domain.HostRate{HostID: 7, DurationMinutes: 60, Price: 300, CommissionPercent: 80}).Error
	if err != nil {
		t.Fatalf("insert returned error: %v", err)
	}
	q, _ = svc.Quote(ctx, 7, 60)
	if q.Price != DefaultPrices[60] {
		t.Fatalf("expected stale cached price inside TTL, got %v", q.Price)
	}

	// Past the TTL the row is observed.
	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	q, _ = svc.Quote(ctx, 7, 60)
	if q.Price != 300 {
		t.Fatalf("expected refreshed price after TTL, got %v", q.Price)
	}

	// SetRate invalidates immediately, no TTL wait.
	svc.now = func() time.Time { return base }
	if _, err := svc.SetRate(ctx, 7, 60, 250, 75); err != nil {
		t.Fatalf("SetRate returned error: %v", err)
	}
	q, _ = svc.Quote(ctx, 7, 60)
	if q.Price != 250 {
		t.Fatalf("expected invalidated cache to reload, got %v", q.Price)
	}
}
