package controller

import (
	"net/http"

	"marketplace-bidding-service/internal/dto"
	"marketplace-bidding-service/internal/middleware"
	"marketplace-bidding-service/internal/model"
	"marketplace-bidding-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// El CRUD de productos vive en otro servicio; acá solo está la compra
// inmediata porque termina la subasta.
type ProductController struct {
	Auctions *service.AuctionService
}

func NewProductController(auctions *service.AuctionService) *ProductController {
	return &ProductController{Auctions: auctions}
}

// POST /product/buy-now — compra al precio de compra inmediata, cierra la subasta
func (ctl *ProductController) BuyNow(c *gin.Context) {
	var req dto.BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
		return
	}

	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	shipping := model.Shipping{
		AddressLine1: req.Shipping.AddressLine1,
		City:         req.Shipping.City,
		PostalCode:   req.Shipping.PostalCode,
		Province:     req.Shipping.Province,
		Country:      req.Shipping.Country,
		Comments:     req.Shipping.Comments,
	}

	order, err := ctl.Auctions.BuyNow(c.Request.Context(), productID, userID, shipping)
	middleware.RecordOperation("buy_now", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}
