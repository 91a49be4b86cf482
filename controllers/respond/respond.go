// Package respond maps service errors onto HTTP responses.
package respond

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/devahmid/27Degres-bis-sub001/apperrors"
	"github.com/gin-gonic/gin"
)

// Status returns the HTTP status for an error of the service taxonomy.
func Status(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body. Stock errors also carry the available and
// requested quantities. Unexpected errors are not echoed to the client.
func Error(c *gin.Context, err error) {
	status := Status(err)
	_ = c.Error(err)

	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		body["error"] = http.StatusText(status)
	}

	var stockErr *apperrors.StockError
	if errors.As(err, &stockErr) {
		body["product_id"] = stockErr.ProductID
		body["available"] = stockErr.Available
		body["requested"] = stockErr.Requested
	}
	c.JSON(status, body)
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
