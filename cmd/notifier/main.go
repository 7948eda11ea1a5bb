package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/glossifi/storefront/internal/config"
	kafkax "github.com/glossifi/storefront/internal/kafka"
	"github.com/glossifi/storefront/internal/logger"
	"github.com/glossifi/storefront/internal/notifier"
	"github.com/glossifi/storefront/internal/orders"
	"github.com/glossifi/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg := logger.New(logger.Options{Service: cfg.ServiceName + "-notifier", Env: cfg.Env, Level: cfg.LogLevel})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	topics := []string{orders.TopicOrderCreated, orders.TopicOrderStatusChanged}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topics, workers)

	go func() {
		lg.Info("notifier consumer started", "group", group, "topics", topics, "workers", workers)
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			lg.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	lg.Info("shutting down consumer")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
