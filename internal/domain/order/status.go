package order

import (
	"fmt"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
)

// Status represents the lifecycle state of an Order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw string into a Status.
// Returns a *domain.ValidationError for unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", &domain.ValidationError{
			Fields: map[string]string{"status": fmt.Sprintf("invalid: %q", raw)},
		}
	}
	return s, nil
}
