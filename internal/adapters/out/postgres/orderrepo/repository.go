package orderrepo

import (
	"context"
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormOrderRepository implements OrderRepository using GORM.
// The db handle decides whether calls run inside a transaction.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order and assigns the generated id to the aggregate.
// The database must be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return order.ErrDuplicateOrderID
		}
		return err
	}

	return aggregate.AssignID(dto.ID)
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", dto.ID)
	}

	return nil
}

// Get retrieves an order by its surrogate id.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves an order by its external order id.
func (r *GormOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("status = ?", int(status)).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// GetAllByStatus returns every order in the given status ordered by id.
func (r *GormOrderRepository) GetAllByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos, "status = ?", int(status)).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// ExistsWithOrderIDPrefix matches the prefix literally; LIKE wildcards in it are escaped.
func (r *GormOrderRepository) ExistsWithOrderIDPrefix(ctx context.Context, prefix string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where(`order_id LIKE ? ESCAPE '\'`, likeEscaper.Replace(prefix)+"%").
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
