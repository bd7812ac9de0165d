package order

import "time"

// StatusChanged is raised every time an order enters a status, including the
// initial Pending status on creation.
type StatusChanged struct {
	ID         int64
	OrderID    string
	UserID     int64
	Status     Status
	OccurredAt time.Time
}

// NewStatusChanged captures the current status of o. OccurredAt is the timestamp
// recorded for that status.
func NewStatusChanged(o *Order) StatusChanged {
	occurredAt := o.CreatedAt()
	switch o.Status() {
	case Processing:
		occurredAt = *o.processingStartedAt
	case Completed:
		occurredAt = *o.completedAt
	case Unknown, Pending:
	}

	return StatusChanged{
		ID:         o.ID(),
		OrderID:    o.OrderID(),
		UserID:     o.UserID(),
		Status:     o.Status(),
		OccurredAt: occurredAt,
	}
}
