package routes

import (
	"github.com/devahmid/27Degres-bis-sub001/config"
	deliveryControllers "github.com/devahmid/27Degres-bis-sub001/controllers/delivery"
	orderControllers "github.com/devahmid/27Degres-bis-sub001/controllers/order"
	productcontroller "github.com/devahmid/27Degres-bis-sub001/controllers/product"
	userControllers "github.com/devahmid/27Degres-bis-sub001/controllers/user"
	"github.com/devahmid/27Degres-bis-sub001/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires an admin token or the
// API key.
func SetupAdminRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.OptionalToken(cfg.JWTSecret), middleware.RequireAdmin(cfg.AdminAPIKey))
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(svc.Users))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(svc.Catalog))
			productAdmin.GET("", productcontroller.GetProducts(svc.Catalog))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(svc.Catalog))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(svc.Catalog))
			productAdmin.GET("/:id", productcontroller.GetProductByID(svc.Catalog))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(svc.Catalog))
			productAdmin.PUT("/:id/stock", productcontroller.SetStock(svc.Catalog))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(svc.Catalog))
		}

		// ─────────── Delivery Methods ───────────
		deliveryAdmin := adminGroup.Group("/delivery-methods")
		{
			deliveryAdmin.GET("", deliveryControllers.GetAllMethods(svc.Delivery))
			deliveryAdmin.POST("", deliveryControllers.CreateMethod(svc.Delivery))
			deliveryAdmin.GET("/:id", deliveryControllers.GetMethod(svc.Delivery))
			deliveryAdmin.PUT("/:id", deliveryControllers.UpdateMethod(svc.Delivery))
			deliveryAdmin.DELETE("/:id", deliveryControllers.DeleteMethod(svc.Delivery))
		}

		// ─────────── Live Order Feed ───────────
		adminGroup.GET("/orders/ws", orderControllers.OrderWebSocketHandler(svc.Hub))
	}
}
