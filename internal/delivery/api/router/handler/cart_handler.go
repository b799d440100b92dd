package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"bistro/internal/delivery/api/response"
	"bistro/internal/domain/entity"
	"bistro/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler exposes the in-memory cart.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

// AddCartItemRequest represents the request body for adding a product to the cart
type AddCartItemRequest struct {
	ID    int64           `json:"id" validate:"required"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// UpdateQuantityRequest represents the request body for changing a line quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the current cart snapshot
func (h *CartHandler) GetCart(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.cartUC.Snapshot())
}

// AddItem adds one unit of a product
func (h *CartHandler) AddItem(c echo.Context) error {
	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}

	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	snapshot := h.cartUC.AddItem(entity.CartProduct{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
	})

	return response.Success(c, http.StatusOK, snapshot)
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quantity input")
	}

	return response.Success(c, http.StatusOK, h.cartUC.UpdateQuantity(id, req.Quantity))
}

// RemoveItem drops a line
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid product ID")
	}

	return response.Success(c, http.StatusOK, h.cartUC.RemoveItem(id))
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.cartUC.Clear())
}
