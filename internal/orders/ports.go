package orders

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type Repo interface {
	// Place persists the order and decrements stock for every line item in a
	// single all-or-nothing step. It returns *ProductNotFoundError or
	// *InsufficientStockError without any side effects on failure.
	Place(ctx context.Context, o Order) (Order, error)

	Get(ctx context.Context, id string) (Order, error)

	// List returns orders newest first, optionally filtered by status.
	List(ctx context.Context, status *Status) ([]Order, error)

	// UpdateStatus applies the transition atomically against the current
	// status, returning *InvalidTransitionError when the graph forbids it.
	UpdateStatus(ctx context.Context, id string, to Status) (Order, error)

	Stats(ctx context.Context, recent int) (Stats, error)
}

// Stats feeds the admin dashboard.
type Stats struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	PendingOrders int             `json:"pendingOrders"`
	RecentOrders  []Order         `json:"recentOrders"`
}

// EventSink is where order lifecycle events go; the kafka producer
// satisfies it. Publishing is fire-and-forget.
type EventSink interface {
	Publish(key, value []byte, headers ...kafka.Header)
}

// StatusCache is a best-effort read cache for an order's status.
type StatusCache interface {
	Get(ctx context.Context, orderID string) (Status, bool)
	Set(ctx context.Context, orderID string, s Status)
}
