package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret string

	RTCTokenSecret string
	RTCTokenTTL    time.Duration

	// Operating window for private shows, hour-of-day [open, close).
	ShowOpenHour  int
	ShowCloseHour int

	LockWait time.Duration

	DefaultCommissionPercent float64
	RateCacheTTL             time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "file:liveroom.db?cache=shared"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RTCTokenSecret: getEnv("RTC_TOKEN_SECRET", ""),
		RTCTokenTTL:    time.Duration(getEnvInt("RTC_TOKEN_TTL_MIN", 120)) * time.Minute,

		ShowOpenHour:  getEnvInt("SHOW_OPEN_HOUR", 8),
		ShowCloseHour: getEnvInt("SHOW_CLOSE_HOUR", 23),

		LockWait: time.Duration(getEnvInt("LOCK_WAIT_SEC", 3)) * time.Second,

		DefaultCommissionPercent: getEnvFloat("DEFAULT_COMMISSION_PERCENT", 70),
		RateCacheTTL:             time.Duration(getEnvInt("RATE_CACHE_TTL_MIN", 10)) * time.Minute,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
