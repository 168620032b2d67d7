package domain

import "time"

// HostEarning is the append-only ledger row recorded when a show
// completes. Never updated or deleted afterwards.
type HostEarning struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	BookingID         int64     `json:"booking_id" gorm:"not null;uniqueIndex"`
	HostID            int64     `json:"host_id" gorm:"not null;index"`
	GrossAmount       float64   `json:"gross_amount" gorm:"not null"`
	CommissionPercent float64   `json:"commission_percent" gorm:"not null"`
	NetEarnings       float64   `json:"net_earnings" gorm:"not null"`
	PlatformFee       float64   `json:"platform_fee" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at"`
}

func (HostEarning) TableName() string { return "host_earnings" }
