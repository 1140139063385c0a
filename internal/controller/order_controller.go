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

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// POST /order/create-order — convierte el checkout en una orden por tienda
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	cmd := service.CreateOrderCommand{
		UserID:    c.MustGet(middleware.CtxUserID).(primitive.ObjectID),
		OrderType: req.OrderType,
		Shipping: model.Shipping{
			AddressLine1: req.Shipping.AddressLine1,
			City:         req.Shipping.City,
			PostalCode:   req.Shipping.PostalCode,
			Province:     req.Shipping.Province,
			Country:      req.Shipping.Country,
			Comments:     req.Shipping.Comments,
		},
		PaymentInfo: model.PaymentInfo{
			ID:     req.PaymentInfo.ID,
			Type:   req.PaymentInfo.Type,
			Status: req.PaymentInfo.Status,
		},
	}

	if req.BidID != "" {
		bidID, err := primitive.ObjectIDFromHex(req.BidID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid bid id"})
			return
		}
		cmd.BidID = bidID
	}

	for _, item := range req.Cart {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id in cart"})
			return
		}
		line := model.CartItem{
			ProductID: productID,
			Name:      item.Name,
			Qty:       item.Qty,
			Price:     item.Price,
			IsAuction: item.IsAuction,
			IsBid:     item.IsBid,
		}
		if item.ShopID != "" {
			shopID, err := primitive.ObjectIDFromHex(item.ShopID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid shop id in cart"})
				return
			}
			line.ShopID = shopID
		}
		cmd.Cart = append(cmd.Cart, line)
	}

	orders, err := ctl.Service.CreateOrder(c.Request.Context(), cmd)
	middleware.RecordOperation("create_order", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "orders": orders})
}

// PUT /order/:orderId/status — la tienda avanza el estado de la orden
func (ctl *OrderController) UpdateStatusAsSeller(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	ctl.updateStatus(c, req.Status, service.Actor{
		ID:   c.MustGet(middleware.CtxSellerID).(primitive.ObjectID),
		Kind: model.BidderKindShop,
	})
}

// PUT /order/:orderId/refund-request — el comprador pide la devolución
func (ctl *OrderController) RequestRefund(c *gin.Context) {
	ctl.updateStatus(c, model.OrderStatusRefundRequest, service.Actor{
		ID:   c.MustGet(middleware.CtxUserID).(primitive.ObjectID),
		Kind: model.BidderKindUser,
	})
}

// PUT /order/:orderId/refund-success — la tienda acepta la devolución
func (ctl *OrderController) AcceptRefund(c *gin.Context) {
	ctl.updateStatus(c, model.OrderStatusRefundSuccess, service.Actor{
		ID:   c.MustGet(middleware.CtxSellerID).(primitive.ObjectID),
		Kind: model.BidderKindShop,
	})
}

func (ctl *OrderController) updateStatus(c *gin.Context, newStatus string, actor service.Actor) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
		return
	}

	ord, err := ctl.Service.UpdateOrderStatus(c.Request.Context(), orderID, newStatus, actor)
	middleware.RecordOperation("update_order_status", err == nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": ord})
}

// GET /order/user — órdenes del comprador
func (ctl *OrderController) GetUserOrders(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	orders, err := ctl.Service.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// GET /order/seller — órdenes de la tienda
func (ctl *OrderController) GetSellerOrders(c *gin.Context) {
	shopID := c.MustGet(middleware.CtxSellerID).(primitive.ObjectID)
	orders, err := ctl.Service.GetByShop(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}
