// Package orderrepo maps the order aggregate to the "orders" table.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The external order id is unique and status is indexed for the per-status scans
// used by metrics and recovery.
type OrderDTO struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement"`
	OrderID             string          `gorm:"size:64;not null;uniqueIndex"`
	UserID              int64           `gorm:"not null"`
	ItemIDs             pq.Int64Array   `gorm:"type:bigint[];not null"`
	TotalAmount         decimal.Decimal `gorm:"type:numeric;not null"`
	Status              int             `gorm:"not null;index"`
	CreatedAt           time.Time       `gorm:"not null"`
	ProcessingStartedAt *time.Time
	CompletedAt         *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:                  o.ID(),
		OrderID:             o.OrderID(),
		UserID:              o.UserID(),
		ItemIDs:             pq.Int64Array(o.ItemIDs()),
		TotalAmount:         o.TotalAmount().Decimal(),
		Status:              int(o.Status()),
		CreatedAt:           o.CreatedAt(),
		ProcessingStartedAt: o.ProcessingStartedAt(),
		CompletedAt:         o.CompletedAt(),
	}
}

// toDomain reconstructs the aggregate using RestoreOrder, so rows whose status and
// timestamps disagree are reported instead of loaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	amount, err := kernel.NewAmount(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		dto.ID,
		dto.OrderID,
		dto.UserID,
		[]int64(dto.ItemIDs),
		amount,
		order.Status(dto.Status),
		dto.CreatedAt,
		dto.ProcessingStartedAt,
		dto.CompletedAt,
	)
}
