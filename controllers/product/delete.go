package productcontroller

import (
	"net/http"

	"github.com/devahmid/27Degres-bis-sub001/controllers/respond"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"github.com/gin-gonic/gin"
)

// DeleteProduct retires a product. Past orders still resolve it.
func DeleteProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
