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

type BidController struct {
	Service *service.BidService
}

func NewBidController(s *service.BidService) *BidController {
	return &BidController{Service: s}
}

// POST /bid/ — oferta de un usuario sobre una subasta directa
func (ctl *BidController) PlaceUserBid(c *gin.Context) {
	ctl.placeBid(c, service.Actor{
		ID:   c.MustGet(middleware.CtxUserID).(primitive.ObjectID),
		Kind: model.BidderKindUser,
	})
}

// POST /bid/seller-bid — oferta de una tienda sobre un pedido de comprador
func (ctl *BidController) PlaceSellerBid(c *gin.Context) {
	ctl.placeBid(c, service.Actor{
		ID:   c.MustGet(middleware.CtxSellerID).(primitive.ObjectID),
		Kind: model.BidderKindShop,
	})
}

func (ctl *BidController) placeBid(c *gin.Context, bidder service.Actor) {
	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
		return
	}

	bid, err := ctl.Service.PlaceBid(c.Request.Context(), service.PlaceBidCommand{
		ProductID: productID,
		Bidder:    bidder,
		Amount:    req.Amount,
	})
	middleware.RecordOperation("place_bid", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "bid": bid})
}

// GET /bid/product/:productId — pública
func (ctl *BidController) GetBidsByProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
		return
	}

	bids, err := ctl.Service.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bids": bids})
}

// GET /bid/seller — ofertas recibidas por la tienda
func (ctl *BidController) GetSellerBids(c *gin.Context) {
	sellerID := c.MustGet(middleware.CtxSellerID).(primitive.ObjectID)
	bids, err := ctl.Service.GetBySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bids": bids})
}

// GET /bid/seller-placed — ofertas colocadas por la tienda (subasta inversa)
func (ctl *BidController) GetSellerPlacedBids(c *gin.Context) {
	sellerID := c.MustGet(middleware.CtxSellerID).(primitive.ObjectID)
	bids, err := ctl.Service.GetPlacedByShop(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bids": bids})
}

// GET /bid/user — ofertas del usuario como comprador
func (ctl *BidController) GetUserBids(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	bids, err := ctl.Service.GetByBuyer(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bids": bids})
}

// PUT /bid/:bidId/status — el dueño del pedido acepta/rechaza ofertas de tiendas
func (ctl *BidController) UpdateStatusAsUser(c *gin.Context) {
	ctl.updateStatus(c, service.Actor{
		ID:   c.MustGet(middleware.CtxUserID).(primitive.ObjectID),
		Kind: model.BidderKindUser,
	}, "")
}

// PUT /bid/:bidId/seller-status — la tienda gestiona ofertas sobre sus productos
func (ctl *BidController) UpdateStatusAsSeller(c *gin.Context) {
	ctl.updateStatus(c, service.Actor{
		ID:   c.MustGet(middleware.CtxSellerID).(primitive.ObjectID),
		Kind: model.BidderKindShop,
	}, "")
}

// PUT /bid/:bidId/checkout — el comprador finaliza su oferta
func (ctl *BidController) Checkout(c *gin.Context) {
	ctl.updateStatus(c, service.Actor{
		ID:   c.MustGet(middleware.CtxUserID).(primitive.ObjectID),
		Kind: model.BidderKindUser,
	}, model.BidStatusCompleted)
}

func (ctl *BidController) updateStatus(c *gin.Context, actor service.Actor, forceStatus string) {
	bidID, err := primitive.ObjectIDFromHex(c.Param("bidId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid bid id"})
		return
	}

	newStatus := forceStatus
	if newStatus == "" {
		var req dto.UpdateBidStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		newStatus = req.Status
	}

	bid, err := ctl.Service.UpdateBidStatus(c.Request.Context(), bidID, newStatus, actor)
	middleware.RecordOperation("update_bid_status", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bid": bid})
}
