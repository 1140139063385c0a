package controller

import (
	"net/http"
	"time"

	"marketplace-bidding-service/internal/middleware"
	"marketplace-bidding-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuctionController struct {
	Service *service.AuctionService
	// Clave compartida opcional para proteger el disparo del barrido
	SweepTriggerKey string
}

func NewAuctionController(s *service.AuctionService, sweepKey string) *AuctionController {
	return &AuctionController{Service: s, SweepTriggerKey: sweepKey}
}

// GET /auction/active — pública
func (ctl *AuctionController) GetActive(c *gin.Context) {
	products, err := ctl.Service.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "auctions": products})
}

// GET /auction/details/:id — pública, incluye el historial de ofertas
func (ctl *AuctionController) GetDetails(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
		return
	}

	p, err := ctl.Service.GetDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "auction": p})
}

// GET /auction/my-bids — subastas donde el usuario ofertó
func (ctl *AuctionController) GetMyBids(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	products, err := ctl.Service.GetMyBids(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "auctions": products})
}

// GET /auction/won-auctions — subastas ganadas por el usuario
func (ctl *AuctionController) GetWonAuctions(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	products, err := ctl.Service.GetWonAuctions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "auctions": products})
}

// POST /auction/check-expired — dispara el barrido de subastas vencidas.
// Si hay clave configurada se exige en el header X-Sweep-Key.
func (ctl *AuctionController) CheckExpired(c *gin.Context) {
	if ctl.SweepTriggerKey != "" && c.GetHeader("X-Sweep-Key") != ctl.SweepTriggerKey {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "invalid sweep key"})
		return
	}

	closed, err := ctl.Service.CloseExpiredAuctions(c.Request.Context(), time.Now().UTC())
	middleware.RecordOperation("close_sweep", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.RecordAuctionsClosed(closed)

	c.JSON(http.StatusOK, gin.H{"success": true, "closed": closed})
}

// POST /auction/:id/end — cierre manual por parte de la tienda
func (ctl *AuctionController) EndAuction(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
		return
	}

	p, err := ctl.Service.EndAuction(c.Request.Context(), id)
	middleware.RecordOperation("end_auction", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.RecordAuctionsClosed(1)

	c.JSON(http.StatusOK, gin.H{"success": true, "auction": p})
}
