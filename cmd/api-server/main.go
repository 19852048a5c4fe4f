package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
	"github.com/Luisxcv/neuro-insight-agenda/internal/api"
	"github.com/Luisxcv/neuro-insight-agenda/internal/booking"
	"github.com/Luisxcv/neuro-insight-agenda/internal/config"
	"github.com/Luisxcv/neuro-insight-agenda/internal/db"
	"github.com/Luisxcv/neuro-insight-agenda/internal/patient"
	redisclient "github.com/Luisxcv/neuro-insight-agenda/internal/redis"
	"github.com/Luisxcv/neuro-insight-agenda/internal/token"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisPoolSize)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)

	accounts := account.NewService(account.NewPgRepository(pgPool), issuer, cfg.BcryptCost)
	bookings := booking.NewService(booking.NewPgRepository(pgPool), locker)
	patients := patient.NewService(patient.NewPgRepository(pgPool))

	handler := api.NewRouter(api.RouterConfig{
		Accounts:      accounts,
		Bookings:      bookings,
		Patients:      patients,
		PgPool:        pgPool,
		Redis:         rdb,
		Env:           cfg.Env,
		Version:       version,
		CORSOrigins:   cfg.CORSOrigins,
		AuthRateLimit: cfg.AuthRateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	case <-rootCtx.Done():
		log.Println("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}

	log.Println("api-server stopped")
}
