package redisx

import "time"

const (
	// Admin session: sess:{token} -> admin_id
	KeySession = "sess:%s"

	// Cache status order: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Catalog list cache: products:all | products:featured
	KeyProductsAll      = "products:all"
	KeyProductsFeatured = "products:featured"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLProductList = 1 * time.Minute
	TTLDedup       = 48 * time.Hour
)
