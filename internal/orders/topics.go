package orders

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
)

// Partition key = order_id so every event for one order stays ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
