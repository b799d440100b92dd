package impl

import (
	"context"
	"testing"

	"bistro/internal/domain/constants"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	mockRepo "bistro/internal/mocks/repository"
	"bistro/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	cart      usecase.CartUsecase
	draft     usecase.ProfileDraftUsecase
	auth      *stubAuth
	txManager *mockRepo.MockTransactionManager
	factory   *mockRepo.MockRepositoryFactory
	orderRepo *mockRepo.MockOrderRepository
	svc       usecase.CheckoutUsecase
}

func newCheckoutFixture(t *testing.T, user *entity.User) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{
		cart:      NewCartService(newDiscardLogger()),
		draft:     NewProfileDraftService(newDiscardLogger()),
		auth:      newStubAuth(user),
		txManager: mockRepo.NewMockTransactionManager(t),
		factory:   mockRepo.NewMockRepositoryFactory(t),
		orderRepo: mockRepo.NewMockOrderRepository(t),
	}

	f.svc = NewCheckoutService(CheckoutServiceParams{
		Cart:      f.cart,
		Draft:     f.draft,
		Auth:      f.auth,
		TxManager: f.txManager,
		Config:    newTestConfig(),
		Logger:    newDiscardLogger(),
	})

	return f
}

// fillCart adds two burgers and one fries: 2*1200 + 400.
func (f *checkoutFixture) fillCart() {
	burger := entity.CartProduct{ID: 1, Name: "Classic", Price: decimal.NewFromInt(1200), Image: "classic.png"}
	f.cart.AddItem(burger)
	f.cart.AddItem(burger)
	f.cart.AddItem(entity.CartProduct{ID: 2, Name: "Frites", Price: decimal.NewFromInt(400)})
}

// expectStoredOrder assigns orderID on insert and captures the stored rows.
func (f *checkoutFixture) expectStoredOrder(orderID uuid.UUID) (*entity.Order, *[]*entity.OrderItem) {
	stored := &entity.Order{}
	var items []*entity.OrderItem

	expectTransaction(f.txManager, f.factory)
	f.factory.EXPECT().NewOrderRepository().Return(f.orderRepo).Once()
	f.orderRepo.EXPECT().
		CreateOrder(mock.Anything, mock.AnythingOfType("*entity.Order")).
		RunAndReturn(func(_ context.Context, order *entity.Order) error {
			order.ID = orderID
			*stored = *order

			return nil
		}).
		Once()
	f.orderRepo.EXPECT().
		CreateOrderItems(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, rows []*entity.OrderItem) error {
			items = rows

			return nil
		}).
		Once()

	return stored, &items
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, newTestUser())

	_, err := f.svc.PlaceOrder(context.Background(), &usecase.CheckoutInput{Name: "Ada", Phone: "0600000000"})
	assert.True(t, errors.Is(err, domainerrors.ErrEmptyCart))
}

func TestCheckoutService_PlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   *usecase.CheckoutInput
		details string
	}{
		{
			name:    "missing form",
			details: "checkout form is required",
		},
		{
			name:    "missing name",
			input:   &usecase.CheckoutInput{Phone: "0600000000", DeliveryMode: entity.DeliveryModePickup},
			details: "name is required",
		},
		{
			name:    "missing phone",
			input:   &usecase.CheckoutInput{Name: "Ada", DeliveryMode: entity.DeliveryModePickup},
			details: "phone is required",
		},
		{
			name:    "short phone",
			input:   &usecase.CheckoutInput{Name: "Ada", Phone: "0601", DeliveryMode: entity.DeliveryModePickup},
			details: "phone must be at least 8 characters",
		},
		{
			name:    "delivery without address",
			input:   &usecase.CheckoutInput{Name: "Ada", Phone: "0600000000", City: "Paris"},
			details: "address is required",
		},
		{
			name:    "unknown delivery mode",
			input:   &usecase.CheckoutInput{Name: "Ada", Phone: "0600000000", DeliveryMode: "drone"},
			details: "delivery_mode must be one of: delivery pickup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newCheckoutFixture(t, newTestUser())
			f.fillCart()

			_, err := f.svc.PlaceOrder(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			assert.Contains(t, err.Error(), tt.details)
			assert.Equal(t, 3, f.cart.TotalItems())
		})
	}
}

func TestCheckoutService_PlaceOrder_DeliveryRequiresSignIn(t *testing.T) {
	f := newCheckoutFixture(t, nil)
	f.fillCart()

	_, err := f.svc.PlaceOrder(context.Background(), &usecase.CheckoutInput{
		Name:    "Ada",
		Phone:   "0600000000",
		Address: "1 rue de Rivoli",
		City:    "Paris",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrSignInRequired))
	assert.Equal(t, 3, f.cart.TotalItems())
}

func TestCheckoutService_PlaceOrder_GuestPickup(t *testing.T) {
	f := newCheckoutFixture(t, nil)
	f.fillCart()
	address := "5 avenue Foch"
	f.draft.UpdateUserInfo(entity.ProfileDraftPatch{Address: &address})

	orderID := uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000001")
	stored, items := f.expectStoredOrder(orderID)

	receipt, err := f.svc.PlaceOrder(context.Background(), &usecase.CheckoutInput{
		Name:         " Ada ",
		Phone:        "0600000000",
		Address:      "ignored for pickup",
		DeliveryMode: entity.DeliveryModePickup,
	})
	require.NoError(t, err)

	assert.Equal(t, "a1b2c3d4", receipt.Number)
	assert.Equal(t, 3, receipt.ItemCount)
	assert.Equal(t, constants.EstimatedTimePickup, receipt.EstimatedTime)

	assert.Equal(t, "Ada", stored.CustomerName)
	assert.Nil(t, stored.UserID)
	assert.Nil(t, stored.CustomerAddress)
	assert.Nil(t, stored.CustomerCity)
	assert.Nil(t, stored.SpecialInstructions)
	assert.Equal(t, entity.OrderStatusPending, stored.Status)
	assert.Equal(t, entity.PaymentStatusPending, stored.PaymentStatus)
	require.NotNil(t, stored.PaymentMethod)
	assert.Equal(t, entity.PaymentMethodCash, *stored.PaymentMethod)
	assert.True(t, stored.DeliveryFee.IsZero())
	assert.True(t, decimal.NewFromInt(2800).Equal(stored.Total), "total %s", stored.Total)

	require.Len(t, *items, 2)
	burger := (*items)[0]
	assert.Equal(t, orderID, burger.OrderID)
	require.NotNil(t, burger.ProductID)
	assert.Equal(t, "1", *burger.ProductID)
	assert.Equal(t, 2, burger.Quantity)
	assert.True(t, decimal.NewFromInt(2400).Equal(burger.TotalPrice))
	require.NotNil(t, burger.ProductImageURL)
	assert.Equal(t, "classic.png", *burger.ProductImageURL)
	assert.Nil(t, (*items)[1].ProductImageURL)
	assert.Len(t, receipt.Order.Items, 2)

	assert.Empty(t, f.cart.Lines())

	draft := f.draft.Draft()
	assert.Equal(t, "Ada", draft.Name)
	assert.Equal(t, entity.DeliveryModePickup, draft.DeliveryMode)
	assert.Equal(t, "5 avenue Foch", draft.Address)
}

func TestCheckoutService_PlaceOrder_SignedInDelivery(t *testing.T) {
	user := newTestUser()
	f := newCheckoutFixture(t, user)
	f.fillCart()

	stored, _ := f.expectStoredOrder(uuid.New())

	receipt, err := f.svc.PlaceOrder(context.Background(), &usecase.CheckoutInput{
		Name:    "Ada",
		Phone:   "0600000000",
		Address: "1 rue de Rivoli",
		City:    "Paris",
		Notes:   "  ring twice ",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.EstimatedTimeDelivery, receipt.EstimatedTime)

	require.NotNil(t, stored.UserID)
	assert.Equal(t, user.ID, *stored.UserID)
	assert.Equal(t, entity.DeliveryModeDelivery, stored.DeliveryMode)
	require.NotNil(t, stored.CustomerAddress)
	assert.Equal(t, "1 rue de Rivoli", *stored.CustomerAddress)
	require.NotNil(t, stored.SpecialInstructions)
	assert.Equal(t, "ring twice", *stored.SpecialInstructions)
	assert.True(t, decimal.NewFromInt(1500).Equal(stored.DeliveryFee))
	assert.True(t, decimal.NewFromInt(4300).Equal(stored.Total), "total %s", stored.Total)

	assert.True(t, f.draft.HasUserInfo())
	assert.Equal(t, "Paris", f.draft.Draft().City)
}

func TestCheckoutService_PlaceOrder_StoreFailureKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t, nil)
	f.fillCart()

	expectTransaction(f.txManager, f.factory)
	f.factory.EXPECT().NewOrderRepository().Return(f.orderRepo).Once()
	f.orderRepo.EXPECT().CreateOrder(mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	_, err := f.svc.PlaceOrder(context.Background(), &usecase.CheckoutInput{
		Name:         "Ada",
		Phone:        "0600000000",
		DeliveryMode: entity.DeliveryModePickup,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrBackendUnavailable))
	assert.Equal(t, 3, f.cart.TotalItems())
}

func TestCheckoutService_PlaceOrder_KeepsItemsAddedDuringStore(t *testing.T) {
	f := newCheckoutFixture(t, nil)
	f.fillCart()

	expectTransaction(f.txManager, f.factory)
	f.factory.EXPECT().NewOrderRepository().Return(f.orderRepo).Once()
	f.orderRepo.EXPECT().
		CreateOrder(mock.Anything, mock.AnythingOfType("*entity.Order")).
		RunAndReturn(func(context.Context, *entity.Order) error {
			// The user keeps shopping while the order is written.
			f.cart.AddItem(entity.CartProduct{ID: 1, Name: "Classic", Price: decimal.NewFromInt(1200)})
			f.cart.AddItem(entity.CartProduct{ID: 3, Name: "Soda", Price: decimal.NewFromInt(300)})

			return nil
		}).
		Once()
	f.orderRepo.EXPECT().CreateOrderItems(mock.Anything, mock.Anything).Return(nil).Once()

	receipt, err := f.svc.PlaceOrder(context.Background(), &usecase.CheckoutInput{
		Name:         "Ada",
		Phone:        "0600000000",
		DeliveryMode: entity.DeliveryModePickup,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, receipt.ItemCount)

	lines := f.cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(3), lines[1].ID)
	assert.Equal(t, 1, lines[1].Quantity)
}
