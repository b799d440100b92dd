package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bistro/config"
	"bistro/internal/delivery/api/response"
	"bistro/internal/delivery/api/router"
	"bistro/internal/delivery/api/router/handler"
	"bistro/internal/domain/entity"
	domainerrors "bistro/internal/domain/errors"
	mockUsecase "bistro/internal/mocks/usecase"
	"bistro/internal/usecase"
	"bistro/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	e         *echo.Echo
	cart      usecase.CartUsecase
	draft     usecase.ProfileDraftUsecase
	favorites *mockUsecase.MockFavoritesUsecase
	session   *mockUsecase.MockSessionUsecase
	catalog   *mockUsecase.MockCatalogUsecase
	checkout  *mockUsecase.MockCheckoutUsecase
	orders    *mockUsecase.MockOrderUsecase
	reviews   *mockUsecase.MockReviewUsecase
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
	Meta  *response.MetaInfo  `json:"meta"`
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.Env.Debug = true
	cfg.HTTP.MaxRequestBodySize = "100KB"

	f := &apiFixture{
		cart:      impl.NewCartService(logger),
		draft:     impl.NewProfileDraftService(logger),
		favorites: mockUsecase.NewMockFavoritesUsecase(t),
		session:   mockUsecase.NewMockSessionUsecase(t),
		catalog:   mockUsecase.NewMockCatalogUsecase(t),
		checkout:  mockUsecase.NewMockCheckoutUsecase(t),
		orders:    mockUsecase.NewMockOrderUsecase(t),
		reviews:   mockUsecase.NewMockReviewUsecase(t),
	}

	f.e = NewEcho(cfg, logger)
	router.NewRouter(router.RouterParams{
		CartHandler:         handler.NewCartHandler(handler.CartHandlerParams{CartUC: f.cart, Logger: logger}),
		FavoritesHandler:    handler.NewFavoritesHandler(handler.FavoritesHandlerParams{FavoritesUC: f.favorites, Logger: logger}),
		ProfileDraftHandler: handler.NewProfileDraftHandler(f.draft),
		SessionHandler:      handler.NewSessionHandler(handler.SessionHandlerParams{SessionUC: f.session, Logger: logger}),
		CatalogHandler:      handler.NewCatalogHandler(f.catalog),
		CheckoutHandler:     handler.NewCheckoutHandler(handler.CheckoutHandlerParams{CheckoutUC: f.checkout, Logger: logger}),
		OrderHandler:        handler.NewOrderHandler(handler.OrderHandlerParams{OrderUC: f.orders, Logger: logger}),
		ReviewHandler:       handler.NewReviewHandler(f.reviews),
		EventsHandler: handler.NewEventsHandler(handler.EventsHandlerParams{
			CartUC:      f.cart,
			FavoritesUC: f.favorites,
			SessionUC:   f.session,
			Logger:      logger,
		}),
	}).RegisterRoutes(f.e)

	return f
}

func (f *apiFixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	f.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func TestAPI_Health_RequestID(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"data":{"status":"ok"},"meta":{"request_id":"req-42"}}`, rec.Body.String())
}

func TestAPI_CartFlow(t *testing.T) {
	f := newAPIFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/cart/items", `{"id":1,"name":"Classic","price":"12.50","image":"classic.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	f.do(t, http.MethodPost, "/cart/items", `{"id":1,"name":"Renamed","price":"99"}`)
	f.do(t, http.MethodPost, "/cart/items", `{"id":2,"name":"Frites","price":"4"}`)

	rec, env := f.do(t, http.MethodPatch, "/cart/items/2", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot entity.CartSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Equal(t, uint64(4), snapshot.Version)
	assert.Equal(t, 5, snapshot.TotalItems)
	assert.Equal(t, "37", snapshot.TotalPrice.String())
	require.Len(t, snapshot.Lines, 2)
	assert.Equal(t, "Classic", snapshot.Lines[0].Name)

	f.do(t, http.MethodDelete, "/cart/items/1", "")
	_, env = f.do(t, http.MethodGet, "/cart", "")
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Equal(t, 3, snapshot.TotalItems)

	_, env = f.do(t, http.MethodDelete, "/cart", "")
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	assert.Empty(t, snapshot.Lines)
	assert.True(t, snapshot.TotalPrice.IsZero())
}

func TestAPI_RequestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		expectedCode int
		errorCode    string
	}{
		{name: "missing cart item name", method: http.MethodPost, target: "/cart/items", body: `{"id":1}`, expectedCode: http.StatusBadRequest, errorCode: "VALIDATION_ERROR"},
		{name: "malformed body", method: http.MethodPost, target: "/cart/items", body: `{"id":`, expectedCode: http.StatusBadRequest, errorCode: "INVALID_INPUT"},
		{name: "non numeric cart id", method: http.MethodDelete, target: "/cart/items/abc", expectedCode: http.StatusBadRequest, errorCode: "INVALID_ID"},
		{name: "malformed order id", method: http.MethodGet, target: "/orders/not-a-uuid", expectedCode: http.StatusBadRequest, errorCode: "INVALID_ID"},
		{name: "toggle without id", method: http.MethodPost, target: "/favorites/toggle", body: `{"name":"Salade"}`, expectedCode: http.StatusBadRequest, errorCode: "VALIDATION_ERROR"},
		{name: "unknown route", method: http.MethodGet, target: "/nope", expectedCode: http.StatusNotFound, errorCode: "HTTP_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newAPIFixture(t)

			rec, env := f.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.errorCode, env.Error.Code)
			require.NotNil(t, env.Meta)
			assert.NotEmpty(t, env.Meta.RequestID)
		})
	}
}

func TestAPI_DomainErrors(t *testing.T) {
	t.Run("sign-in required", func(t *testing.T) {
		f := newAPIFixture(t)
		f.favorites.EXPECT().
			ToggleFavorite(mock.Anything, entity.FavoriteProduct{ID: "7", Name: "Salade"}).
			Return(false, errors.Wrap(domainerrors.ErrSignInRequired, "anonymous")).
			Once()

		rec, env := f.do(t, http.MethodPost, "/favorites/toggle", `{"id":"7","name":"Salade"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "SIGN_IN_REQUIRED", env.Error.Code)
		assert.Nil(t, env.Error.Details)
	})

	t.Run("validation details reach the client", func(t *testing.T) {
		f := newAPIFixture(t)
		f.checkout.EXPECT().
			PlaceOrder(mock.Anything, &usecase.CheckoutInput{Name: "Ada", Phone: "06"}).
			Return(nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("phone must be at least 8 characters"), "validation failed")).
			Once()

		rec, env := f.do(t, http.MethodPost, "/checkout", `{"name":"Ada","phone":"06"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		assert.Equal(t, "phone must be at least 8 characters", env.Error.Details)
	})

	t.Run("backend failure hides the cause", func(t *testing.T) {
		f := newAPIFixture(t)
		f.catalog.EXPECT().
			Categories(mock.Anything).
			Return(nil, domainerrors.NewBackendUnavailableError(errors.New("dial tcp 10.0.0.1:5432"))).
			Once()

		rec, env := f.do(t, http.MethodGet, "/catalog/categories", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "BACKEND_UNAVAILABLE", env.Error.Code)
		assert.Nil(t, env.Error.Details)
		assert.NotContains(t, rec.Body.String(), "10.0.0.1")
	})

	t.Run("unexpected error", func(t *testing.T) {
		f := newAPIFixture(t)
		f.orders.EXPECT().MyOrders(mock.Anything).Return(nil, errors.New("boom")).Once()

		rec, env := f.do(t, http.MethodGet, "/orders", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestAPI_ProductsByCategoryQuery(t *testing.T) {
	f := newAPIFixture(t)
	products := []*entity.Product{{ID: uuid.New(), Name: "Classic"}}
	f.catalog.EXPECT().ProductsByCategory(mock.Anything, "burgers").Return(products, nil).Once()

	rec, env := f.do(t, http.MethodGet, "/catalog/products?category=burgers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result []*entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result, 1)
	assert.Equal(t, "Classic", result[0].Name)
}

func TestAPI_AddReview(t *testing.T) {
	f := newAPIFixture(t)
	productID := uuid.New()
	f.reviews.EXPECT().
		AddReview(mock.Anything, productID, &usecase.ReviewInput{Rating: 5, Comment: "Best burger in town"}).
		Return(&entity.Review{ID: uuid.New(), ProductID: productID, Rating: 5}, nil).
		Once()

	rec, _ := f.do(t, http.MethodPost, "/catalog/products/"+productID.String()+"/reviews", `{"rating":5,"comment":"Best burger in town"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAPI_SignUpAwaitingConfirmation(t *testing.T) {
	f := newAPIFixture(t)
	f.session.EXPECT().SignUp(mock.Anything, mock.AnythingOfType("*usecase.SignUpInput")).Return(nil, nil).Once()

	rec, env := f.do(t, http.MethodPost, "/session/sign-up", `{"full_name":"Ada","email":"ada@example.com","password":"secret1","confirm_password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"user":null,"confirmation_required":true}`, string(env.Data))
}

func TestAPI_PickupTicket(t *testing.T) {
	f := newAPIFixture(t)
	orderID := uuid.New()
	f.orders.EXPECT().PickupTicket(mock.Anything, orderID).Return([]byte("\x89PNG"), nil).Once()

	rec, _ := f.do(t, http.MethodGet, "/orders/"+orderID.String()+"/ticket", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "\x89PNG", rec.Body.String())
}

func TestAPI_ProfileDraft(t *testing.T) {
	f := newAPIFixture(t)

	rec, env := f.do(t, http.MethodPatch, "/profile-draft", `{"name":"Ada","phone":"0600000000","delivery_mode":"pickup"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Ada","phone":"0600000000","address":"","city":"","delivery_mode":"pickup","has_user_info":true}`, string(env.Data))
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, scanner *bufio.Scanner) sseEvent {
	t.Helper()

	var ev sseEvent
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		case line == "" && ev.name != "":
			return ev
		}
	}
	require.NoError(t, scanner.Err())
	t.Fatal("event stream ended")

	return ev
}

func TestAPI_EventStream(t *testing.T) {
	f := newAPIFixture(t)

	var sessionListener func(usecase.SessionChange)
	subscribed := make(chan struct{})
	f.favorites.EXPECT().Subscribe(mock.Anything).Return(func() {}).Once()
	f.favorites.EXPECT().Snapshot().Return(entity.FavoritesSnapshot{Source: entity.FavoritesSourceLocal, Entries: []entity.FavoriteEntry{}}).Once()
	f.session.EXPECT().
		Subscribe(mock.Anything).
		RunAndReturn(func(listener func(usecase.SessionChange)) func() {
			sessionListener = listener
			close(subscribed)

			return func() {}
		}).
		Once()
	f.session.EXPECT().CurrentUser().Return(nil).Once()

	srv := httptest.NewServer(f.e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	req.Header.Set(echo.HeaderAccept, "text/event-stream")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get(echo.HeaderContentType))

	scanner := bufio.NewScanner(resp.Body)
	initial := map[string]string{}
	for range 3 {
		ev := readEvent(t, scanner)
		initial[ev.name] = ev.data
	}
	assert.JSONEq(t, `{"version":0,"lines":[],"total_items":0,"total_price":"0"}`, initial[handler.EventCart])
	assert.JSONEq(t, `{"event":"","signed_in":false,"user":null}`, initial[handler.EventSession])
	assert.Contains(t, initial[handler.EventFavorites], `"source":"local"`)

	<-subscribed
	f.cart.AddItem(entity.CartProduct{ID: 9, Name: "Tacos"})
	ev := readEvent(t, scanner)
	assert.Equal(t, handler.EventCart, ev.name)
	assert.Contains(t, ev.data, `"version":1`)

	user := &entity.User{ID: uuid.New(), Email: "ada@example.com"}
	sessionListener(usecase.SessionChange{Event: usecase.SessionEventSignedIn, Current: user})
	ev = readEvent(t, scanner)
	assert.Equal(t, handler.EventSession, ev.name)
	assert.Contains(t, ev.data, `"signed_in":true`)
}
