package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID       string    `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Items         []ItemQty `json:"items"`
	TotalAmount   string    `json:"total_amount"`
}

type OrderStatusChangedPayload struct {
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	From          Status `json:"from"`
	To            Status `json:"to"`
}
