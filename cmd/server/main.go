package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/database"
	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/payment"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/router"
	"github.com/iliyamo/hotel-room-reservation/internal/scheduler"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}

	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	verifier := payment.NewClient(cfg.PaymentBaseURL, &http.Client{Timeout: 10 * time.Second})
	svc := service.NewReservationService(reservations, verifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async entry points: payment-event consumer and cancellation sweeper.
	go func() {
		if err := queue.StartPaymentConsumer(ctx, svc); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()
	if cfg.SweepEnabled {
		go scheduler.NewSweeper(svc, cfg.SweepInterval).Run(ctx)
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens))
	router.RegisterReservations(e, handler.NewReservationHandler(svc), cfg.JWTSecret, rdb, cfg.RateLimitRPM)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
