package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"liveroom/internal/config"
	"liveroom/internal/database"
	"liveroom/internal/middleware"
	"liveroom/internal/modules/booking"
	"liveroom/internal/modules/call"
	"liveroom/internal/modules/pricing"
	"liveroom/internal/notification"
	jwtsvc "liveroom/internal/pkg/jwt"
	"liveroom/internal/pkg/rtctoken"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	if cfg.RTCTokenSecret == "" {
		log.Fatal("RTC_TOKEN_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	identity := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	issuer := rtctoken.New(cfg.RTCTokenSecret, cfg.RTCTokenTTL)

	callService := call.NewService(db, issuer, cfg.LockWait, cfg.RTCTokenTTL, log.Printf)
	callHandler := call.NewHandler(callService)

	pricingService := pricing.NewService(db, cfg.DefaultCommissionPercent, cfg.RateCacheTTL)
	pricingHandler := pricing.NewHandler(pricingService)

	notifService := notification.NewService(db, log.Printf)
	notifHandler := notification.NewHandler(notifService)

	bookingService := booking.NewService(
		db,
		pricingService,
		issuer,
		notifService,
		booking.HourWindow{Open: cfg.ShowOpenHour, Close: cfg.ShowCloseHour},
		booking.LogReleaser{Loggerf: log.Printf},
		cfg.LockWait,
		cfg.RTCTokenTTL,
		log.Printf,
	)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.ErrorLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(identity))
	{
		callHandler.RegisterRoutes(protected)
		bookingHandler.RegisterRoutes(protected, middleware.AdminOnly())
		pricingHandler.RegisterRoutes(protected)
		notifHandler.RegisterRoutes(protected)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
