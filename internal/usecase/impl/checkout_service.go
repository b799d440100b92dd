package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"bistro/config"
	"bistro/internal/domain/constants"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	"bistro/internal/domain/repository"
	"bistro/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const defaultMinPhoneLength = 8

// checkoutForm is the normalized checkout input as validated.
type checkoutForm struct {
	Name         string              `json:"name" validate:"required"`
	Phone        string              `json:"phone" validate:"required"`
	Address      string              `json:"address" validate:"required_if=DeliveryMode delivery"`
	City         string              `json:"city" validate:"required_if=DeliveryMode delivery"`
	DeliveryMode entity.DeliveryMode `json:"delivery_mode" validate:"oneof=delivery pickup"`
	Notes        string              `json:"notes"`
}

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	cart           usecase.CartUsecase
	draft          usecase.ProfileDraftUsecase
	auth           usecase.AuthContext
	txManager      repository.TransactionManager
	deliveryFee    decimal.Decimal
	minPhoneLength int
	validate       *validator.Validate
	logger         *slog.Logger
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	Cart      usecase.CartUsecase
	Draft     usecase.ProfileDraftUsecase
	Auth      usecase.AuthContext
	TxManager repository.TransactionManager
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	fee := decimal.Zero
	minPhoneLength := defaultMinPhoneLength
	if params.Config != nil && params.Config.Checkout != nil {
		fee = decimal.NewFromFloat(params.Config.Checkout.DeliveryFee)
		if params.Config.Checkout.MinPhoneLength > 0 {
			minPhoneLength = params.Config.Checkout.MinPhoneLength
		}
	}

	return &checkoutService{
		cart:           params.Cart,
		draft:          params.Draft,
		auth:           params.Auth,
		txManager:      params.TxManager,
		deliveryFee:    fee,
		minPhoneLength: minPhoneLength,
		validate:       newValidator(),
		logger:         params.Logger,
	}
}

// PlaceOrder stores the cart as an order with its items in one transaction, then takes the
// ordered lines off the cart. Items added meanwhile stay for the next order.
func (srv *checkoutService) PlaceOrder(ctx context.Context, input *usecase.CheckoutInput) (*entity.Receipt, error) {
	lines := srv.cart.Lines()
	if len(lines) == 0 {
		return nil, errors.Wrap(domainerrors.ErrEmptyCart, "nothing to order")
	}

	form, err := srv.validateForm(input)
	if err != nil {
		return nil, err
	}

	user := srv.auth.CurrentUser()
	if form.DeliveryMode == entity.DeliveryModeDelivery && user == nil {
		return nil, errors.Wrap(domainerrors.ErrSignInRequired, "delivery requires a signed-in user")
	}

	patch := entity.ProfileDraftPatch{
		Name:         &form.Name,
		Phone:        &form.Phone,
		DeliveryMode: &form.DeliveryMode,
	}
	if form.DeliveryMode == entity.DeliveryModeDelivery {
		patch.Address = &form.Address
		patch.City = &form.City
	}
	srv.draft.UpdateUserInfo(patch)

	order := srv.buildOrder(form, user, lines)
	items := buildOrderItems(lines)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		if err := orderRepo.CreateOrder(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		for _, item := range items {
			item.OrderID = order.ID
		}

		if err := orderRepo.CreateOrderItems(ctx, items); err != nil {
			return errors.Wrap(err, "failed to create order items")
		}

		return nil
	})
	if err != nil {
		return nil, domainerrors.NewBackendUnavailableError(errors.Wrap(err, "failed to place order"))
	}
	order.Items = items

	srv.cart.Deduct(lines)

	receipt := &entity.Receipt{
		Order:         order,
		Number:        order.Number(),
		ItemCount:     totalItems(lines),
		EstimatedTime: estimatedTime(form.DeliveryMode),
	}
	srv.logger.Info("Order placed",
		"orderID", order.ID,
		"deliveryMode", string(form.DeliveryMode),
		"total", order.Total.String(),
	)

	return receipt, nil
}

func (srv *checkoutService) validateForm(input *usecase.CheckoutInput) (*checkoutForm, error) {
	if input == nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("checkout form is required"), "invalid checkout")
	}

	form := &checkoutForm{
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		DeliveryMode: input.DeliveryMode,
		Notes:        strings.TrimSpace(input.Notes),
	}
	if form.DeliveryMode == "" {
		form.DeliveryMode = entity.DeliveryModeDelivery
	}

	if err := srv.validate.Struct(form); err != nil {
		return nil, validationError(err)
	}

	if utf8.RuneCountInString(form.Phone) < srv.minPhoneLength {
		details := "phone must be at least " + strconv.Itoa(srv.minPhoneLength) + " characters"

		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails(details), "validation failed")
	}

	// Pickup orders carry no address.
	if form.DeliveryMode == entity.DeliveryModePickup {
		form.Address = ""
		form.City = ""
	}

	return form, nil
}

func (srv *checkoutService) buildOrder(form *checkoutForm, user *entity.User, lines []entity.CartLine) *entity.Order {
	subtotal := totalPrice(lines)
	fee := decimal.Zero
	if form.DeliveryMode == entity.DeliveryModeDelivery {
		fee = srv.deliveryFee
	}
	paymentMethod := entity.PaymentMethodCash

	order := &entity.Order{
		CustomerName:  form.Name,
		CustomerPhone: form.Phone,
		DeliveryMode:  form.DeliveryMode,
		Status:        entity.OrderStatusPending,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         subtotal.Add(fee),
		PaymentMethod: &paymentMethod,
		PaymentStatus: entity.PaymentStatusPending,
	}

	if user != nil {
		userID := user.ID
		order.UserID = &userID
	}
	if form.DeliveryMode == entity.DeliveryModeDelivery {
		order.CustomerAddress = &form.Address
		order.CustomerCity = &form.City
	}
	if form.Notes != "" {
		order.SpecialInstructions = &form.Notes
	}

	return order
}

func buildOrderItems(lines []entity.CartLine) []*entity.OrderItem {
	items := make([]*entity.OrderItem, 0, len(lines))

	for _, line := range lines {
		productID := strconv.FormatInt(line.ID, 10)
		item := &entity.OrderItem{
			ProductID:    &productID,
			ProductName:  line.Name,
			ProductPrice: line.Price,
			Quantity:     line.Quantity,
			UnitPrice:    line.Price,
			TotalPrice:   line.Subtotal(),
		}
		if line.Image != "" {
			image := line.Image
			item.ProductImageURL = &image
		}
		items = append(items, item)
	}

	return items
}

func estimatedTime(mode entity.DeliveryMode) string {
	if mode == entity.DeliveryModePickup {
		return constants.EstimatedTimePickup
	}

	return constants.EstimatedTimeDelivery
}
