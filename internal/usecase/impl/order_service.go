package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bistro/internal/domain/constants"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/domain/service"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	orderRepo repository.OrderRepository
	auth      usecase.AuthContext
	qrService service.QRCodeService
	now       func() time.Time
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo repository.OrderRepository
	Auth      usecase.AuthContext
	QRService service.QRCodeService
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		orderRepo: params.OrderRepo,
		auth:      params.Auth,
		qrService: params.QRService,
		now:       time.Now,
		logger:    params.Logger,
	}
}

// MyOrders lists the orders of the signed-in user, newest first.
func (srv *orderService) MyOrders(ctx context.Context) ([]*entity.Order, error) {
	user := srv.auth.CurrentUser()
	if user == nil {
		return nil, errors.Wrap(domainerrors.ErrSignInRequired, "order history requires a session")
	}

	orders, err := srv.orderRepo.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to list orders"))
	}

	return orders, nil
}

// GuestOrdersByPhone finds the latest guest orders placed with a phone number.
func (srv *orderService) GuestOrdersByPhone(ctx context.Context, phone string) ([]*entity.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("phone is required"), "invalid lookup")
	}

	orders, err := srv.orderRepo.ListGuestOrdersByPhone(ctx, phone, constants.GuestOrderLookupLimit)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to look up guest orders"))
	}

	return orders, nil
}

func (srv *orderService) Order(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to find order"))
	}

	return order, nil
}

// UpdateStatus moves the order to status and stamps the matching timestamp.
func (srv *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	if !status.IsValid() {
		return errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("unknown order status "+string(status)), "invalid status")
	}

	if err := srv.orderRepo.UpdateOrderStatus(ctx, id, statusUpdate(status, srv.now().UTC())); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to update order status"))
	}

	srv.logger.Info("Order status updated", "orderID", id, "status", string(status))

	return nil
}

// Cancel cancels an order that is neither completed nor already cancelled.
func (srv *orderService) Cancel(ctx context.Context, id uuid.UUID) error {
	order, err := srv.Order(ctx, id)
	if err != nil {
		return err
	}

	if order.Status == entity.OrderStatusCompleted || order.Status == entity.OrderStatusCancelled {
		return errors.Wrap(domainerrors.ErrOrderNotCancellable.WithDetails("order is "+string(order.Status)), "cannot cancel order")
	}

	return srv.UpdateStatus(ctx, id, entity.OrderStatusCancelled)
}

// Stats counts the orders of the signed-in user and sums what they spent.
func (srv *orderService) Stats(ctx context.Context) (*entity.OrderStats, error) {
	user := srv.auth.CurrentUser()
	if user == nil {
		return nil, errors.Wrap(domainerrors.ErrSignInRequired, "order stats require a session")
	}

	stats, err := srv.orderRepo.OrderStatsByUser(ctx, user.ID)
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to compute order stats"))
	}

	return stats, nil
}

// PickupTicket is only issued for pickup orders.
func (srv *orderService) PickupTicket(ctx context.Context, id uuid.UUID) ([]byte, error) {
	order, err := srv.Order(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.DeliveryMode != entity.DeliveryModePickup {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("order is not a pickup order"), "no pickup ticket")
	}

	png, err := srv.qrService.GeneratePickupTicket(order.Number())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup ticket")
	}

	return png, nil
}

func statusUpdate(status entity.OrderStatus, at time.Time) entity.OrderStatusUpdate {
	update := entity.OrderStatusUpdate{Status: status}

	switch status {
	case entity.OrderStatusConfirmed:
		update.ConfirmedAt = &at
	case entity.OrderStatusPreparing:
		update.PreparedAt = &at
	case entity.OrderStatusCompleted:
		update.DeliveredAt = &at
	case entity.OrderStatusCancelled:
		update.CancelledAt = &at
	}

	return update
}
