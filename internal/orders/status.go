package orders

import "fmt"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ParseStatus rejects anything outside the five known statuses.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := validNext[st]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// InvalidTransitionError reports a move the status graph forbids.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
