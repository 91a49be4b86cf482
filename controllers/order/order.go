package orderControllers

import (
	"net/http"

	"github.com/devahmid/27Degres-bis-sub001/controllers/respond"
	"github.com/devahmid/27Degres-bis-sub001/middleware"
	"github.com/devahmid/27Degres-bis-sub001/services/orders"
	"github.com/gin-gonic/gin"
)

// callerFrom builds the order caller from the identity set by the auth middleware.
func callerFrom(c *gin.Context) orders.Caller {
	return orders.Caller{
		UserID:    c.GetString(middleware.ContextUserID),
		Email:     c.GetString(middleware.ContextEmail),
		Admin:     middleware.IsAdmin(c),
		RequestID: c.GetString(middleware.ContextRequestID),
	}
}

// PlaceOrderHandler handles POST /orders.
func PlaceOrderHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orders.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := svc.Create(c.Request.Context(), callerFrom(c), req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GetOrdersHandler handles GET /orders. Admins see every order and may filter by
// user_id; members see their own.
func GetOrdersHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), callerFrom(c), orders.ListFilter{
			Status:        c.Query("status"),
			PaymentStatus: c.Query("payment_status"),
			UserID:        c.Query("user_id"),
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetOrderHandler handles GET /orders/:id.
func GetOrderHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		order, err := svc.Get(c.Request.Context(), callerFrom(c), id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderHandler handles PATCH /orders/:id (admin).
func UpdateOrderHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		var req orders.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := svc.Update(c.Request.Context(), callerFrom(c), id, req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// CancelOrderHandler handles DELETE /orders/:id/cancel.
func CancelOrderHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		order, err := svc.Cancel(c.Request.Context(), callerFrom(c), id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GetStatisticsHandler handles GET /orders/statistics (admin).
func GetStatisticsHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Statistics(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
