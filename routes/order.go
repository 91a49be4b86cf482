package routes

import (
	"github.com/devahmid/27Degres-bis-sub001/config"
	orderControllers "github.com/devahmid/27Degres-bis-sub001/controllers/order"
	"github.com/devahmid/27Degres-bis-sub001/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	adminOnly := middleware.RequireAdmin(cfg.AdminAPIKey)

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// Create a new order from the caller's cart
		orders.POST("", orderControllers.PlaceOrderHandler(svc.Orders))

		// Own orders, or every order for admins
		orders.GET("", orderControllers.GetOrdersHandler(svc.Orders))

		// Aggregates over the whole order book (admin)
		orders.GET("/statistics", adminOnly, orderControllers.GetStatisticsHandler(svc.Orders))

		orders.GET("/:id", orderControllers.GetOrderHandler(svc.Orders))

		// Status, payment and notes (admin)
		orders.PATCH("/:id", adminOnly, orderControllers.UpdateOrderHandler(svc.Orders))

		// Cancel and restore stock
		orders.DELETE("/:id/cancel", orderControllers.CancelOrderHandler(svc.Orders))
	}
}
