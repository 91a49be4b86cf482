package routes

import (
	"net/http"
	"time"

	"github.com/devahmid/27Degres-bis-sub001/config"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/middleware"
	"github.com/devahmid/27Degres-bis-sub001/realtime"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"github.com/devahmid/27Degres-bis-sub001/services/delivery"
	"github.com/devahmid/27Degres-bis-sub001/services/orders"
	"github.com/devahmid/27Degres-bis-sub001/services/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	DB       *gorm.DB
	Catalog  *catalog.Service
	Delivery *delivery.Service
	Users    *users.Service
	Orders   *orders.Service
	Hub      *realtime.Hub
}

// NewRouter builds the gin engine with the shared middleware stack and every route.
func NewRouter(cfg *config.Config, svc Services, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	// Spreadsheet imports are the largest uploads we take.
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(r, cfg, svc)
	return r
}

// SetupRoutes is the single entry-point that wires up the health, user, order and
// admin route groups.
func SetupRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	r.GET("/health", healthHandler(svc.DB))

	// User routes (JWT-protected)
	SetupUserRoutes(r, cfg, svc)

	// Order routes (JWT-protected, admin-only where noted)
	SetupOrderRoutes(r, cfg, svc)

	// Admin routes (admin token or API key)
	SetupAdminRoutes(r, cfg, svc)
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
