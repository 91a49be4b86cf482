package routes

import (
	"github.com/devahmid/27Degres-bis-sub001/config"
	deliveryControllers "github.com/devahmid/27Degres-bis-sub001/controllers/delivery"
	productControllers "github.com/devahmid/27Degres-bis-sub001/controllers/product"
	userControllers "github.com/devahmid/27Degres-bis-sub001/controllers/user"
	"github.com/devahmid/27Degres-bis-sub001/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers the customer-facing endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	auth := middleware.ValidateToken(cfg.JWTSecret)

	userGroup := r.Group("/user")
	userGroup.Use(auth)
	{
		userGroup.GET("/", userControllers.GetUser(svc.Users))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(svc.Users)) // PUT /user/
	}

	products := r.Group("/products")
	products.Use(auth)
	{
		products.GET("", productControllers.GetProducts(svc.Catalog))
		products.GET("/:id", productControllers.GetProductByID(svc.Catalog))
	}

	deliveryMethods := r.Group("/delivery-methods")
	deliveryMethods.Use(auth)
	{
		deliveryMethods.GET("", deliveryControllers.GetActiveMethods(svc.Delivery))
	}
}
