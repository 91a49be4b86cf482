package productcontroller

import (
	"net/http"

	"github.com/devahmid/27Degres-bis-sub001/controllers/respond"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func GetProducts(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := catalog.ListFilter{
			Search: c.Query("search"),
			Status: c.Query("status"),
			SortBy: c.DefaultQuery("sort_by", "created_at"),
			Order:  c.DefaultQuery("order", "desc"),
		}

		if v := c.Query("min_price"); v != "" {
			mp, err := decimal.NewFromString(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			filter.MinPrice = &mp
		}
		if v := c.Query("max_price"); v != "" {
			mp, err := decimal.NewFromString(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			filter.MaxPrice = &mp
		}

		products, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
