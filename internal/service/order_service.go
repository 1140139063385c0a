package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-bidding-service/internal/model"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrFinalState        = errors.New("no se puede cambiar el estado de una orden en estado final")
)

// Estados válidos (conjunto cerrado, ya no texto libre)
var validOrderStates = map[string]bool{
	model.OrderStatusProcessing:    true,
	model.OrderStatusTransferred:   true,
	model.OrderStatusDelivered:     true,
	model.OrderStatusRefundRequest: true,
	model.OrderStatusRefundSuccess: true,
}

// Transiciones permitidas para la tienda vendedora
var sellerTransitions = map[string][]string{
	model.OrderStatusProcessing:    {model.OrderStatusTransferred, model.OrderStatusDelivered},
	model.OrderStatusTransferred:   {model.OrderStatusDelivered},
	model.OrderStatusRefundRequest: {model.OrderStatusRefundSuccess},
}

// Transiciones permitidas para el comprador
var userTransitions = map[string][]string{
	model.OrderStatusDelivered: {model.OrderStatusRefundRequest},
}

// Estados finales
var finalOrderStates = map[string]bool{
	model.OrderStatusRefundSuccess: true,
}

type CreateOrderCommand struct {
	Cart        []model.CartItem
	Shipping    model.Shipping
	UserID      primitive.ObjectID
	OrderType   string
	BidID       primitive.ObjectID
	PaymentInfo model.PaymentInfo
}

type OrderService struct {
	orders        OrderRepository
	products      ProductRepository
	bids          BidRepository
	shops         ShopRepository
	notifier      Notifier
	serviceCharge float64 // fracción retenida por el marketplace sobre el total
}

func NewOrderService(orders OrderRepository, products ProductRepository, bids BidRepository, shops ShopRepository, notifier Notifier, serviceCharge float64) *OrderService {
	return &OrderService{
		orders:        orders,
		products:      products,
		bids:          bids,
		shops:         shops,
		notifier:      notifier,
		serviceCharge: serviceCharge,
	}
}

// CreateOrder convierte un checkout en una orden por cada tienda presente en
// el carrito. El descuento de stock es best-effort por ítem: una línea que
// falla no revierte las demás (no hay garantía todo-o-nada entre documentos).
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) ([]*model.Order, error) {
	if len(cmd.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.resolveShops(ctx, cmd.Cart)
	if err != nil {
		return nil, err
	}

	// Agrupar por tienda preservando el orden de aparición
	groups := make(map[primitive.ObjectID][]model.CartItem)
	var shopOrder []primitive.ObjectID
	for _, item := range items {
		if _, seen := groups[item.ShopID]; !seen {
			shopOrder = append(shopOrder, item.ShopID)
		}
		groups[item.ShopID] = append(groups[item.ShopID], item)
	}

	payment := cmd.PaymentInfo
	if payment.Status == "" {
		payment.Status = "pending"
	}

	var created []*model.Order
	for _, shopID := range shopOrder {
		group := groups[shopID]

		var total float64
		for _, item := range group {
			total += item.Price * float64(item.Qty)
		}

		order := &model.Order{
			Cart:            group,
			ShippingAddress: cmd.Shipping,
			UserID:          cmd.UserID,
			ShopID:          shopID,
			TotalPrice:      total,
			Status:          model.OrderStatusProcessing,
			OrderType:       inferOrderType(cmd.OrderType, group),
			BidID:           cmd.BidID,
			PaymentInfo:     payment,
		}

		if err := s.orders.Insert(ctx, order); err != nil {
			return created, fmt.Errorf("no se pudo crear la orden para la tienda %s: %w", shopID.Hex(), err)
		}
		created = append(created, order)

		// Descontar stock línea por línea
		for _, item := range group {
			if err := s.products.AdjustStock(ctx, item.ProductID, -item.Qty, item.Qty); err != nil {
				logrus.WithFields(logrus.Fields{
					"product": item.ProductID.Hex(),
					"order":   order.ID.Hex(),
				}).Error("no se pudo descontar stock: ", err)
			}
		}

		s.notify(ctx, NotificationEvent{
			Type:          NotifyOrderState,
			RecipientID:   shopID,
			RecipientType: model.BidderKindShop,
			OrderID:       order.ID,
			Amount:        total,
			Message:       fmt.Sprintf("Nueva orden por %.2f", total),
		})
	}

	// Checkout de una oferta: la finaliza
	if !cmd.BidID.IsZero() {
		if err := s.bids.UpdateStatus(ctx, cmd.BidID, model.BidStatusCompleted, true); err != nil {
			logrus.WithField("bid", cmd.BidID.Hex()).Error("no se pudo finalizar la oferta: ", err)
		}
	}

	return created, nil
}

// resolveShops completa el ShopID de cada línea que no lo trae, leyendo el
// producto referenciado.
func (s *OrderService) resolveShops(ctx context.Context, cart []model.CartItem) ([]model.CartItem, error) {
	out := make([]model.CartItem, len(cart))
	copy(out, cart)
	for i := range out {
		if !out[i].ShopID.IsZero() {
			continue
		}
		p, err := s.products.FindByID(ctx, out[i].ProductID)
		if err != nil {
			return nil, fmt.Errorf("producto %s del carrito: %w", out[i].ProductID.Hex(), err)
		}
		out[i].ShopID = p.ShopID
	}
	return out, nil
}

// inferOrderType: subasta > oferta > carrito, salvo que el request ya lo traiga.
func inferOrderType(explicit string, group []model.CartItem) string {
	if explicit != "" {
		return explicit
	}
	hasBid := false
	for _, item := range group {
		if item.IsAuction {
			return model.OrderTypeAuction
		}
		if item.IsBid {
			hasBid = true
		}
	}
	if hasBid {
		return model.OrderTypeBid
	}
	return model.OrderTypeCart
}

// UpdateOrderStatus valida y realiza la transición entre estados según las
// reglas de negocio, con los efectos de cada estado:
//   - Delivered: marca entrega y pago cobrado, y acredita a la tienda el
//     total menos la comisión del marketplace
//   - Refund Success: devuelve el stock de cada línea
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string, actor Actor) (*model.Order, error) {
	ord, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	current := ord.Status

	// Mismo estado: no hacemos nada
	if current == newStatus {
		return ord, nil
	}
	if finalOrderStates[current] {
		return nil, ErrFinalState
	}
	if !validOrderStates[newStatus] {
		return nil, ErrInvalidTransition
	}

	isSeller := actor.Kind == model.BidderKindShop && actor.ID == ord.ShopID
	isBuyer := actor.Kind == model.BidderKindUser && actor.ID == ord.UserID
	if !isSeller && !isBuyer {
		return nil, ErrForbidden
	}

	allowedAsSeller := isSeller && contains(sellerTransitions[current], newStatus)
	allowedAsBuyer := isBuyer && contains(userTransitions[current], newStatus)
	if !allowedAsSeller && !allowedAsBuyer {
		return nil, ErrInvalidTransition
	}

	now := time.Now().UTC()

	switch newStatus {
	case model.OrderStatusDelivered:
		if err := s.orders.MarkDelivered(ctx, ord.ID, now); err != nil {
			return nil, err
		}
		ord.DeliveredAt = &now
		ord.PaymentInfo.Status = "Succeeded"

		// Acreditación atómica del neto ($inc): no pisa el saldo existente
		net := ord.TotalPrice * (1 - s.serviceCharge)
		if err := s.shops.CreditBalance(ctx, ord.ShopID, net); err != nil {
			logrus.WithFields(logrus.Fields{
				"order": ord.ID.Hex(),
				"shop":  ord.ShopID.Hex(),
			}).Error("no se pudo acreditar el saldo de la tienda: ", err)
		}

	case model.OrderStatusRefundSuccess:
		if err := s.orders.SetStatus(ctx, ord.ID, newStatus); err != nil {
			return nil, err
		}
		// Reversa del stock línea por línea
		for _, item := range ord.Cart {
			if err := s.products.AdjustStock(ctx, item.ProductID, item.Qty, -item.Qty); err != nil {
				logrus.WithFields(logrus.Fields{
					"product": item.ProductID.Hex(),
					"order":   ord.ID.Hex(),
				}).Error("no se pudo devolver el stock: ", err)
			}
		}

	default:
		// El pasaje a despacho NO vuelve a descontar stock: se descuenta una
		// sola vez, al crear la orden
		if err := s.orders.SetStatus(ctx, ord.ID, newStatus); err != nil {
			return nil, err
		}
	}

	ord.Status = newStatus

	s.notify(ctx, NotificationEvent{
		Type:          NotifyOrderState,
		RecipientID:   ord.UserID,
		RecipientType: model.BidderKindUser,
		OrderID:       ord.ID,
		Message:       fmt.Sprintf("Tu orden pasó a estado %s", newStatus),
	})

	return ord, nil
}

// Getters
func (s *OrderService) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

func (s *OrderService) GetByShop(ctx context.Context, shopID primitive.ObjectID) ([]*model.Order, error) {
	return s.orders.FindByShop(ctx, shopID)
}

func (s *OrderService) notify(ctx context.Context, event NotificationEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		logrus.WithFields(logrus.Fields{
			"type":      event.Type,
			"recipient": event.RecipientID.Hex(),
		}).Warn("no se pudo publicar la notificación: ", err)
	}
}
