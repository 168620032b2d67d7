package domain

import "time"

// HostRate is a host's custom price for one show duration. Hosts without
// a row fall back to the platform default table and commission.
type HostRate struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	HostID            int64     `json:"host_id" gorm:"not null;uniqueIndex:idx_host_rates_host_duration"`
	DurationMinutes   int       `json:"duration_minutes" gorm:"not null;uniqueIndex:idx_host_rates_host_duration"`
	Price             float64   `json:"price" gorm:"not null"`
	CommissionPercent float64   `json:"commission_percent" gorm:"not null"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (HostRate) TableName() string { return "host_rates" }
