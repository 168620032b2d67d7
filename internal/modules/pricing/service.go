package pricing

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"liveroom/internal/domain"
)

var (
	ErrInvalidDuration   = errors.New("unsupported show duration")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidCommission = errors.New("commission percent must be within [0,100]")
)

// DefaultPrices is the platform price table used when a host has no
// custom rate for the requested duration.
var DefaultPrices = map[int]float64{
	30: 50,
	60: 90,
	90: 120,
}

// Quote is the computed price and revenue split for one booking.
type Quote struct {
	Price             float64 `json:"price"`
	CommissionPercent float64 `json:"commission_percent"`
	HostEarnings      float64 `json:"host_earnings"`
	PlatformFee       float64 `json:"platform_fee"`
}

type cacheEntry struct {
	rates     map[int]domain.HostRate
	expiresAt time.Time
}

// Service derives prices and the host/platform split. Reads go through
// a TTL cache of host rate rows; writes invalidate explicitly. A stale
// read inside the TTL is an accepted, bounded inconsistency.
type Service struct {
	db                *gorm.DB
	defaultCommission float64
	ttl               time.Duration

	mu    sync.RWMutex
	cache map[int64]cacheEntry

	now func() time.Time
}

func NewService(db *gorm.DB, defaultCommission float64, ttl time.Duration) *Service {
	return &Service{
		db:                db,
		defaultCommission: defaultCommission,
		ttl:               ttl,
		cache:             make(map[int64]cacheEntry),
		now:               time.Now,
	}
}

// Quote computes price, earnings and platform fee for a host and
// duration. Pure apart from the cached rate lookup.
func (s *Service) Quote(ctx context.Context, hostID int64, durationMinutes int) (*Quote, error) {
	if !domain.ValidShowDuration(durationMinutes) {
		return nil, ErrInvalidDuration
	}

	price := DefaultPrices[durationMinutes]
	commission := s.defaultCommission

	rates, err := s.hostRates(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if rate, ok := rates[durationMinutes]; ok {
		price = rate.Price
		commission = rate.CommissionPercent
	}

	earnings := round2(price * commission / 100)
	return &Quote{
		Price:             price,
		CommissionPercent: commission,
		HostEarnings:      earnings,
		PlatformFee:       round2(price - earnings),
	}, nil
}

// SetRate upserts a host's custom rate for one duration and invalidates
// the cached rates so the next quote observes it.
func (s *Service) SetRate(ctx context.Context, hostID int64, durationMinutes int, price, commissionPercent float64) (*domain.HostRate, error) {
	if !domain.ValidShowDuration(durationMinutes) {
		return nil, ErrInvalidDuration
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if commissionPercent < 0 || commissionPercent > 100 {
		return nil, ErrInvalidCommission
	}

	rate := &domain.HostRate{
		HostID:            hostID,
		DurationMinutes:   durationMinutes,
		Price:             price,
		CommissionPercent: commissionPercent,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "host_id"}, {Name: "duration_minutes"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "commission_percent", "updated_at"}),
	}).Create(rate).Error
	if err != nil {
		return nil, err
	}

	s.Invalidate(hostID)
	return rate, nil
}

// Invalidate drops the cached rates for one host. Fire-and-forget from
// the caller's perspective; in-flight quotes may still read the old row.
func (s *Service) Invalidate(hostID int64) {
	s.mu.Lock()
	delete(s.cache, hostID)
	s.mu.Unlock()
}

func (s *Service) hostRates(ctx context.Context, hostID int64) (map[int]domain.HostRate, error) {
	s.mu.RLock()
	entry, ok := s.cache[hostID]
	s.mu.RUnlock()
	if ok && s.now().Before(entry.expiresAt) {
		return entry.rates, nil
	}

	var rows []domain.HostRate
	if err := s.db.WithContext(ctx).Where("host_id = ?", hostID).Find(&rows).Error; err != nil {
		return nil, err
	}

	rates := make(map[int]domain.HostRate, len(rows))
	for _, r := range rows {
		rates[r.DurationMinutes] = r
	}

	s.mu.Lock()
	s.cache[hostID] = cacheEntry{rates: rates, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return rates, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
