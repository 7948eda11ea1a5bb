package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/glossifi/storefront/internal/auth"
	"github.com/glossifi/storefront/internal/catalog"
	"github.com/glossifi/storefront/internal/config"
	"github.com/glossifi/storefront/internal/httpx"
	kafkax "github.com/glossifi/storefront/internal/kafka"
	"github.com/glossifi/storefront/internal/logger"
	"github.com/glossifi/storefront/internal/orders"
	"github.com/glossifi/storefront/internal/postgres"
	"github.com/glossifi/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.New(logger.Options{Service: cfg.ServiceName, Env: cfg.Env, Level: cfg.LogLevel})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pChanged := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	pChanged.Start(ctx)

	// Services
	catalogSvc := catalog.NewService(&catalog.PostgresRepo{DB: db}, &catalog.RedisListCache{RDB: rdb})
	orderSvc := orders.NewService(
		&orders.PostgresRepo{DB: db},
		&orders.RedisStatusCache{RDB: rdb},
		pCreated, pChanged,
		cfg.ServiceName,
	)
	authSvc := auth.NewService(
		&auth.PostgresRepo{DB: db},
		&auth.Sessions{RDB: rdb, TTL: cfg.SessionTTL},
	)

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Auth: authSvc, SessionTTL: cfg.SessionTTL}).Register(router)
	(&httpx.ProductsHandler{Catalog: catalogSvc, Auth: authSvc}).Register(router)
	(&httpx.OrdersHandler{Orders: orderSvc, Auth: authSvc}).Register(router)
	(&httpx.DashboardHandler{Catalog: catalogSvc, Orders: orderSvc, Auth: authSvc}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		lg.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	lg.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close() // flush queued events, then close the writer
	pChanged.Close()
	pCreated.WaitClosed()
	pChanged.WaitClosed()
}
