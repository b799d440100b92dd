package postgres

import (
	"context"

	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// CreateOrder persists the order header.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Omit("Items").Create(orderM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("order rejected by the database")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt

	return nil
}

// CreateOrderItems persists the line items of an order.
func (repo *orderRepository) CreateOrderItems(ctx context.Context, items []*entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	itemModels := make([]*model.OrderItemModel, 0, len(items))
	for _, item := range items {
		itemModels = append(itemModels, fromOrderItemDomain(item))
	}

	if err := repo.db.WithContext(ctx).Create(&itemModels).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrOrderNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order items")
	}

	for i, itemM := range itemModels {
		items[i].ID = itemM.ID
		items[i].CreatedAt = itemM.CreatedAt
	}

	return nil
}

// FindOrderByID retrieves an order with its items.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// ListOrdersByUser returns the user's orders with items, newest first.
func (repo *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	return findOrders(repo.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		Where("user_id = ?", userID).
		Order("created_at DESC"))
}

// ListGuestOrdersByPhone returns up to limit guest orders placed with the phone number, newest first.
func (repo *orderRepository) ListGuestOrdersByPhone(ctx context.Context, phone string, limit int) ([]*entity.Order, error) {
	return findOrders(repo.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		Where("customer_phone = ? AND user_id IS NULL", phone).
		Order("created_at DESC").
		Limit(limit))
}

func findOrders(query *gorm.DB) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := query.Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

func orderItemsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// UpdateOrderStatus writes the status and the timestamps set in update.
func (repo *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, update entity.OrderStatusUpdate) error {
	values := map[string]any{"status": string(update.Status)}
	if update.ConfirmedAt != nil {
		values["confirmed_at"] = *update.ConfirmedAt
	}
	if update.PreparedAt != nil {
		values["prepared_at"] = *update.PreparedAt
	}
	if update.DeliveredAt != nil {
		values["delivered_at"] = *update.DeliveredAt
	}
	if update.CancelledAt != nil {
		values["cancelled_at"] = *update.CancelledAt
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// OrderStatsByUser counts the user's orders and sums their totals.
func (repo *orderRepository) OrderStatsByUser(ctx context.Context, userID uuid.UUID) (*entity.OrderStats, error) {
	var row struct {
		TotalOrders int
		TotalSpent  decimal.Decimal
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(total), 0) AS total_spent").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return nil, errors.Wrap(err, "failed to compute order stats")
	}

	return &entity.OrderStats{
		TotalOrders: row.TotalOrders,
		TotalSpent:  row.TotalSpent,
	}, nil
}

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]*entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, toOrderItemDomain(itemM))
	}

	return &entity.Order{
		ID:                  data.ID,
		UserID:              data.UserID,
		CustomerName:        data.CustomerName,
		CustomerPhone:       data.CustomerPhone,
		CustomerAddress:     data.CustomerAddress,
		CustomerCity:        data.CustomerCity,
		DeliveryMode:        entity.DeliveryMode(data.DeliveryMode),
		Status:              entity.OrderStatus(data.Status),
		SpecialInstructions: data.SpecialInstructions,
		Subtotal:            data.Subtotal,
		DeliveryFee:         data.DeliveryFee,
		Total:               data.Total,
		PaymentMethod:       data.PaymentMethod,
		PaymentStatus:       entity.PaymentStatus(data.PaymentStatus),
		CreatedAt:           data.CreatedAt,
		ConfirmedAt:         data.ConfirmedAt,
		PreparedAt:          data.PreparedAt,
		DeliveredAt:         data.DeliveredAt,
		CancelledAt:         data.CancelledAt,
		Items:               items,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	return &model.OrderModel{
		ID:                  data.ID,
		UserID:              data.UserID,
		CustomerName:        data.CustomerName,
		CustomerPhone:       data.CustomerPhone,
		CustomerAddress:     data.CustomerAddress,
		CustomerCity:        data.CustomerCity,
		DeliveryMode:        string(data.DeliveryMode),
		Status:              string(data.Status),
		SpecialInstructions: data.SpecialInstructions,
		Subtotal:            data.Subtotal,
		DeliveryFee:         data.DeliveryFee,
		Total:               data.Total,
		PaymentMethod:       data.PaymentMethod,
		PaymentStatus:       string(data.PaymentStatus),
	}
}

func toOrderItemDomain(data *model.OrderItemModel) *entity.OrderItem {
	return &entity.OrderItem{
		ID:              data.ID,
		OrderID:         data.OrderID,
		ProductID:       data.ProductID,
		ProductName:     data.ProductName,
		ProductPrice:    data.ProductPrice,
		ProductImageURL: data.ProductImageURL,
		Quantity:        data.Quantity,
		UnitPrice:       data.UnitPrice,
		TotalPrice:      data.TotalPrice,
		SpecialRequests: data.SpecialRequests,
		CreatedAt:       data.CreatedAt,
	}
}

func fromOrderItemDomain(data *entity.OrderItem) *model.OrderItemModel {
	return &model.OrderItemModel{
		ID:              data.ID,
		OrderID:         data.OrderID,
		ProductID:       data.ProductID,
		ProductName:     data.ProductName,
		ProductPrice:    data.ProductPrice,
		ProductImageURL: data.ProductImageURL,
		Quantity:        data.Quantity,
		UnitPrice:       data.UnitPrice,
		TotalPrice:      data.TotalPrice,
		SpecialRequests: data.SpecialRequests,
	}
}
