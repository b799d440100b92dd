// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bistro/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CartHandler         *handler.CartHandler
	FavoritesHandler    *handler.FavoritesHandler
	ProfileDraftHandler *handler.ProfileDraftHandler
	SessionHandler      *handler.SessionHandler
	CatalogHandler      *handler.CatalogHandler
	CheckoutHandler     *handler.CheckoutHandler
	OrderHandler        *handler.OrderHandler
	ReviewHandler       *handler.ReviewHandler
	EventsHandler       *handler.EventsHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	cartHandler         *handler.CartHandler
	favoritesHandler    *handler.FavoritesHandler
	profileDraftHandler *handler.ProfileDraftHandler
	sessionHandler      *handler.SessionHandler
	catalogHandler      *handler.CatalogHandler
	checkoutHandler     *handler.CheckoutHandler
	orderHandler        *handler.OrderHandler
	reviewHandler       *handler.ReviewHandler
	eventsHandler       *handler.EventsHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cartHandler:         params.CartHandler,
		favoritesHandler:    params.FavoritesHandler,
		profileDraftHandler: params.ProfileDraftHandler,
		sessionHandler:      params.SessionHandler,
		catalogHandler:      params.CatalogHandler,
		checkoutHandler:     params.CheckoutHandler,
		orderHandler:        params.OrderHandler,
		reviewHandler:       params.ReviewHandler,
		eventsHandler:       params.EventsHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/events", r.eventsHandler.Stream)

	cartGroup := e.Group("/cart")
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.DELETE("", r.cartHandler.ClearCart)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PATCH("/items/:id", r.cartHandler.UpdateQuantity)
		cartGroup.DELETE("/items/:id", r.cartHandler.RemoveItem)
	}

	favoritesGroup := e.Group("/favorites")
	{
		favoritesGroup.GET("", r.favoritesHandler.GetFavorites)
		favoritesGroup.DELETE("", r.favoritesHandler.ClearFavorites)
		favoritesGroup.POST("/toggle", r.favoritesHandler.ToggleFavorite)
		favoritesGroup.GET("/:productId", r.favoritesHandler.GetFavoriteStatus)
	}

	e.GET("/profile-draft", r.profileDraftHandler.GetDraft)
	e.PATCH("/profile-draft", r.profileDraftHandler.UpdateDraft)

	sessionGroup := e.Group("/session")
	{
		sessionGroup.GET("", r.sessionHandler.GetSession)
		sessionGroup.POST("/sign-in", r.sessionHandler.SignIn)
		sessionGroup.POST("/sign-up", r.sessionHandler.SignUp)
		sessionGroup.POST("/sign-out", r.sessionHandler.SignOut)
		sessionGroup.PATCH("/profile", r.sessionHandler.UpdateProfile)
	}

	catalogGroup := e.Group("/catalog")
	{
		catalogGroup.GET("/categories", r.catalogHandler.ListCategories)
		catalogGroup.GET("/products", r.catalogHandler.ListProducts)
		catalogGroup.GET("/popular", r.catalogHandler.ListPopularProducts)
		catalogGroup.GET("/products/:id", r.catalogHandler.GetProduct)
		catalogGroup.POST("/products/:id/reviews", r.reviewHandler.AddReview)
	}

	e.PUT("/reviews/:id", r.reviewHandler.UpdateReview)

	e.POST("/checkout", r.checkoutHandler.PlaceOrder)

	ordersGroup := e.Group("/orders")
	{
		ordersGroup.GET("", r.orderHandler.ListMyOrders)
		ordersGroup.GET("/stats", r.orderHandler.GetStats)
		ordersGroup.GET("/lookup", r.orderHandler.LookupGuestOrders)
		ordersGroup.GET("/:id", r.orderHandler.GetOrder)
		ordersGroup.PATCH("/:id/status", r.orderHandler.UpdateStatus)
		ordersGroup.POST("/:id/cancel", r.orderHandler.CancelOrder)
		ordersGroup.GET("/:id/ticket", r.orderHandler.GetPickupTicket)
	}
}
