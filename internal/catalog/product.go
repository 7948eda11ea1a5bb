package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glossifi/storefront/internal/apperr"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ParsePrice accepts a decimal string and requires it to be positive.
// Prices are kept exact end to end; floats never enter the picture.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, apperr.Invalid("price", "not a valid decimal")
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, apperr.Invalid("price", "must be positive")
	}
	return d, nil
}
