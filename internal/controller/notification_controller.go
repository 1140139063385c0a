package controller

import (
	"net/http"

	"marketplace-bidding-service/internal/middleware"
	"marketplace-bidding-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationController struct {
	Service *service.NotificationService
}

func NewNotificationController(s *service.NotificationService) *NotificationController {
	return &NotificationController{Service: s}
}

// GET /notification/user
func (ctl *NotificationController) GetUserNotifications(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	list, err := ctl.Service.GetForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": list})
}

// GET /notification/seller
func (ctl *NotificationController) GetSellerNotifications(c *gin.Context) {
	shopID := c.MustGet(middleware.CtxSellerID).(primitive.ObjectID)
	list, err := ctl.Service.GetForShop(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": list})
}
