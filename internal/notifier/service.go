// Package notifier turns order lifecycle events into customer
// notifications. The slog sink stands in for the mail sender.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/glossifi/storefront/internal/kafka"
	"github.com/glossifi/storefront/internal/orders"
	"github.com/glossifi/storefront/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderEvent is the consumer handler for order.created and
// order.status.changed. Returning nil commits the offset.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	switch env.EventType {
	case orders.EventOrderCreated, orders.EventOrderStatusChanged:
	default:
		return nil // not ours
	}

	// dedup by event_id so redeliveries never double-notify
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	return s.dispatch(env)
}

func (s *Service) dispatch(env orders.Envelope) error {
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		slog.Info("order confirmation queued",
			"order_id", p.OrderID,
			"email", p.CustomerEmail,
			"total", p.TotalAmount,
			"items", len(p.Items),
		)
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		slog.Info("order status notification queued",
			"order_id", p.OrderID,
			"email", p.CustomerEmail,
			"from", p.From,
			"to", p.To,
		)
	}
	return nil
}
