package orders

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/glossifi/storefront/internal/apperr"
	kafkax "github.com/glossifi/storefront/internal/kafka"
)

type Service struct {
	repo    Repo
	cache   StatusCache // optional
	created EventSink   // optional, topic order.created
	changed EventSink   // optional, topic order.status.changed
	name    string
}

func NewService(repo Repo, cache StatusCache, created, changed EventSink, serviceName string) *Service {
	return &Service{repo: repo, cache: cache, created: created, changed: changed, name: serviceName}
}

type LineItemInput struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type PlaceInput struct {
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	ShippingAddress string          `json:"shippingAddress"`
	Items           []LineItemInput `json:"items"`
}

// Place validates the submitted cart and persists it as a PENDING order,
// decrementing stock all-or-nothing. The caller-supplied unit prices are
// trusted at this layer and fixed into the order.
func (s *Service) Place(ctx context.Context, in PlaceInput, traceID string) (Order, error) {
	items, err := validatePlace(in)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		ID:              uuid.NewString(),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		Items:           items,
		TotalAmount:     Total(items),
		Status:          StatusPending,
	}

	placed, err := s.repo.Place(ctx, o)
	if err != nil {
		return Order{}, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, placed.ID, placed.Status)
	}
	s.publishCreated(placed, traceID)
	return placed, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// Status serves the status field alone, preferring the cache.
func (s *Service) Status(ctx context.Context, id string) (Status, error) {
	if s.cache != nil {
		if st, ok := s.cache.Get(ctx, id); ok {
			return st, nil
		}
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		s.cache.Set(ctx, id, o.Status)
	}
	return o.Status, nil
}

func (s *Service) List(ctx context.Context, status *Status) ([]Order, error) {
	return s.repo.List(ctx, status)
}

// UpdateStatus moves an order along the transition graph.
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status, traceID string) (Order, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	updated, err := s.repo.UpdateStatus(ctx, id, to)
	if err != nil {
		return Order{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, id, updated.Status)
	}
	s.publishStatusChanged(updated, before.Status, traceID)
	return updated, nil
}

func (s *Service) Stats(ctx context.Context, recent int) (Stats, error) {
	return s.repo.Stats(ctx, recent)
}

func validatePlace(in PlaceInput) ([]LineItem, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, apperr.Invalid("customerName", "required")
	}
	email := strings.TrimSpace(in.CustomerEmail)
	if email == "" {
		return nil, apperr.Invalid("customerEmail", "required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Invalid("customerEmail", "malformed email address")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return nil, apperr.Invalid("shippingAddress", "required")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Invalid("items", "at least one item required")
	}

	items := make([]LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, apperr.Invalid("items.productId", "required")
		}
		if it.Quantity < 1 {
			return nil, apperr.Invalid("items.quantity", "must be >= 1")
		}
		if it.Price.Sign() <= 0 {
			return nil, apperr.Invalid("items.price", "must be positive")
		}
		items = append(items, LineItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return items, nil
}

func (s *Service) publishCreated(o Order, traceID string) {
	if s.created == nil {
		return
	}
	items := make([]ItemQty, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemQty{ProductID: it.ProductID, Qty: it.Quantity})
	}
	s.publish(s.created, EventOrderCreated, o.ID, traceID, OrderCreatedPayload{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         items,
		TotalAmount:   o.TotalAmount.String(),
	})
}

func (s *Service) publishStatusChanged(o Order, from Status, traceID string) {
	if s.changed == nil {
		return
	}
	s.publish(s.changed, EventOrderStatusChanged, o.ID, traceID, OrderStatusChangedPayload{
		OrderID:       o.ID,
		CustomerEmail: o.CustomerEmail,
		From:          from,
		To:            o.Status,
	})
}

func (s *Service) publish(sink EventSink, eventType, orderID, traceID string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.name,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	sink.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
