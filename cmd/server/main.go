package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stayease/hotel-booking/internal/config"
	"github.com/stayease/hotel-booking/internal/database"
	"github.com/stayease/hotel-booking/internal/handler"
	"github.com/stayease/hotel-booking/internal/logger"
	"github.com/stayease/hotel-booking/internal/middleware"
	"github.com/stayease/hotel-booking/internal/queue"
	"github.com/stayease/hotel-booking/internal/repository"
	"github.com/stayease/hotel-booking/internal/router"
	queuepublisher "github.com/stayease/hotel-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // no .env in production is fine
	logger.InitLoggers()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.ErrorLogger.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		logger.ErrorLogger.Fatalf("migrations failed: %v", err)
	}

	// Redis is optional: when unreachable, caching and rate limiting are
	// simply disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.InfoLogger.Warn("redis unavailable, cache and rate limit disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	events := queuepublisher.NewPublisher()

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	hotelHandler := handler.NewHotelHandler(hotelRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, hotelRepo, userRepo, events)
	userHandler := handler.NewUserHandler(userRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	var cache echo.MiddlewareFunc
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	gate := middleware.JWTAuth(cfg.JWTSecret, tokenRepo, userRepo)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, gate)
	router.RegisterHotels(e, hotelHandler, gate, cache)
	router.RegisterBookings(e, bookingHandler, gate, cache)
	router.RegisterUsers(e, userHandler, gate)

	go queue.StartBookingConsumer()

	addr := ":" + cfg.Port
	logger.InfoLogger.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		logger.ErrorLogger.Fatal(err)
	}
}
