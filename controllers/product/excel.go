package productcontroller

import (
	"net/http"

	"github.com/devahmid/27Degres-bis-sub001/controllers/respond"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"github.com/gin-gonic/gin"
)

// ImportProductsFromExcel upserts products from an uploaded .xlsx "file" field.
func ImportProductsFromExcel(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		result, err := svc.ImportXLSX(c.Request.Context(), file, excelFileHeader.Size)
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Products imported",
			"created_count": result.Created,
			"updated_count": result.Updated,
			"skipped_count": result.Skipped,
		})
	}
}
