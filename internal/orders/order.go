package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// ProductNotFoundError names the missing product a line item referenced.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Shortage records one product whose stock could not cover the request.
type Shortage struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError fails the whole placement; nothing is decremented.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		n := s.Name
		if n == "" {
			n = s.ProductID
		}
		names = append(names, n)
	}
	return "insufficient stock for " + strings.Join(names, ", ")
}

type LineItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID              string          `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone,omitempty"`
	ShippingAddress string          `json:"shippingAddress"`
	Items           []LineItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Total sums price x quantity over the items with exact decimal arithmetic.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
