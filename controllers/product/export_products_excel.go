package productcontroller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/devahmid/27Degres-bis-sub001/controllers/respond"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportProductsToExcel streams the catalog as an .xlsx attachment.
func ExportProductsToExcel(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := svc.ExportXLSX(c.Request.Context(), &buf); err != nil {
			respond.Error(c, err)
			return
		}

		filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
