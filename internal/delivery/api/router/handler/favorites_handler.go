package handler

import (
	"log/slog"
	"net/http"

	"bistro/internal/delivery/api/response"
	"bistro/internal/domain/entity"
	"bistro/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// FavoritesHandlerParams holds dependencies for FavoritesHandler, injected by Fx.
type FavoritesHandlerParams struct {
	fx.In

	FavoritesUC usecase.FavoritesUsecase
	Logger      *slog.Logger
}

// FavoritesHandler exposes the favorites store.
type FavoritesHandler struct {
	favoritesUC usecase.FavoritesUsecase
	logger      *slog.Logger
}

// NewFavoritesHandler is the constructor for FavoritesHandler
func NewFavoritesHandler(params FavoritesHandlerParams) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesUC: params.FavoritesUC,
		logger:      params.Logger,
	}
}

// ToggleFavoriteRequest represents the request body for toggling a favorite
type ToggleFavoriteRequest struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL *string         `json:"image_url"`
}

// FavoriteStatus is the favorite flag of one product
type FavoriteStatus struct {
	ProductID string `json:"product_id"`
	Favorite  bool   `json:"favorite"`
}

// GetFavorites returns the favorites snapshot
func (h *FavoritesHandler) GetFavorites(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.favoritesUC.Snapshot())
}

// GetFavoriteStatus tells whether one product is a favorite
func (h *FavoritesHandler) GetFavoriteStatus(c echo.Context) error {
	productID := c.Param("productId")

	return response.Success(c, http.StatusOK, FavoriteStatus{
		ProductID: productID,
		Favorite:  h.favoritesUC.IsFavorite(productID),
	})
}

// ToggleFavorite adds or removes a product
func (h *FavoritesHandler) ToggleFavorite(c echo.Context) error {
	var req ToggleFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid favorite input")
	}

	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	favorite, err := h.favoritesUC.ToggleFavorite(c.Request().Context(), entity.FavoriteProduct{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, FavoriteStatus{ProductID: req.ID, Favorite: favorite})
}

// ClearFavorites empties the collection
func (h *FavoritesHandler) ClearFavorites(c echo.Context) error {
	if err := h.favoritesUC.ClearFavorites(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, h.favoritesUC.Snapshot())
}
