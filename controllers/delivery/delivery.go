package deliveryControllers

import (
	"net/http"

	"github.com/devahmid/27Degres-bis-sub001/controllers/respond"
	"github.com/devahmid/27Degres-bis-sub001/services/delivery"
	"github.com/gin-gonic/gin"
)

// GetActiveMethods handles GET /delivery-methods.
func GetActiveMethods(svc *delivery.Service) gin.HandlerFunc {
	return listMethods(svc, true)
}

// GetAllMethods handles GET /admin/delivery-methods.
func GetAllMethods(svc *delivery.Service) gin.HandlerFunc {
	return listMethods(svc, false)
}

func listMethods(svc *delivery.Service, activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		methods, err := svc.List(c.Request.Context(), activeOnly)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, methods)
	}
}

func GetMethod(svc *delivery.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		method, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, method)
	}
}

func CreateMethod(svc *delivery.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input delivery.MethodInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		method, err := svc.Create(c.Request.Context(), input)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, method)
	}
}

func UpdateMethod(svc *delivery.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		var patch delivery.MethodPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		method, err := svc.Update(c.Request.Context(), id, patch)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, method)
	}
}

// DeleteMethod fails while orders still reference the method.
func DeleteMethod(svc *delivery.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := respond.ParamID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Delivery method deleted successfully"})
	}
}
