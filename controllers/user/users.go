package userControllers

import (
	"net/http"

	"github.com/devahmid/27Degres-bis-sub001/controllers/respond"
	"github.com/devahmid/27Degres-bis-sub001/middleware"
	"github.com/devahmid/27Degres-bis-sub001/services/users"
	"github.com/gin-gonic/gin"
)

// GET /user
func GetUser(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Me(c.Request.Context(),
			c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextEmail))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PUT /user
func UpdateUser(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input users.ProfileUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID := c.GetString(middleware.ContextUserID)
		if _, err := svc.Me(c.Request.Context(), userID, c.GetString(middleware.ContextEmail)); err != nil {
			respond.Error(c, err)
			return
		}
		user, err := svc.UpdateProfile(c.Request.Context(), userID, input)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
