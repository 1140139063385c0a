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
	ErrAuctionNotExpired = errors.New("la subasta todavía no llegó a su hora de cierre")
	ErrNoBuyNowPrice     = errors.New("la publicación no tiene precio de compra inmediata")
)

type AuctionService struct {
	products ProductRepository
	orders   OrderRepository
	notifier Notifier
}

func NewAuctionService(products ProductRepository, orders OrderRepository, notifier Notifier) *AuctionService {
	return &AuctionService{
		products: products,
		orders:   orders,
		notifier: notifier,
	}
}

// pickWinner elige la oferta ganadora recorriendo el historial completo:
// máxima en subasta directa, mínima en pedido de comprador. No se confía en
// la posición dentro del array.
func pickWinner(p *model.Product) *model.WinningBid {
	if len(p.Bids) == 0 {
		return nil
	}
	best := p.Bids[0]
	for _, b := range p.Bids[1:] {
		if p.IsBuyerRequest {
			if b.Amount < best.Amount {
				best = b
			}
		} else if b.Amount > best.Amount {
			best = b
		}
	}
	return &model.WinningBid{
		BidderID:   best.BidderID,
		BidderType: best.BidderType,
		Amount:     best.Amount,
		Timestamp:  best.Timestamp,
	}
}

// CloseExpiredAuctions es el barrido: finaliza toda subasta vencida que siga
// abierta. Devuelve cuántas cerró efectivamente este caller.
//
// La transición auction_ended false→true es la guarda atómica: si dos barridos
// (o un barrido y un cierre manual) corren a la vez sobre el mismo producto,
// solo el que gana el update crea la orden.
func (s *AuctionService) CloseExpiredAuctions(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.products.FindExpiredAuctions(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, p := range expired {
		won, err := s.closeOne(ctx, p, now)
		if err != nil {
			logrus.WithField("product", p.ID.Hex()).Error("error cerrando subasta: ", err)
			continue
		}
		if won {
			closed++
		}
	}
	return closed, nil
}

// EndAuction cierra una subasta puntual. Solo aplica si la hora de cierre ya
// pasó; si otro caller la cerró antes, devuelve ErrAuctionEnded.
func (s *AuctionService) EndAuction(ctx context.Context, productID primitive.ObjectID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsAuction {
		return nil, ErrNotAuction
	}
	if p.AuctionEnded {
		return nil, ErrAuctionEnded
	}
	now := time.Now().UTC()
	if now.Before(p.AuctionEndTime) {
		return nil, ErrAuctionNotExpired
	}

	won, err := s.closeOne(ctx, p, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Alguien más ganó la transición entre la lectura y el update
		return nil, ErrAuctionEnded
	}

	p.AuctionEnded = true
	p.WinningBid = pickWinner(p)
	return p, nil
}

func (s *AuctionService) closeOne(ctx context.Context, p *model.Product, now time.Time) (bool, error) {
	winner := pickWinner(p)

	won, err := s.products.MarkAuctionEnded(ctx, p.ID, winner, now)
	if err != nil || !won {
		return false, err
	}

	if winner == nil {
		// Sin ofertas: la subasta queda finalizada y no se genera orden
		return true, nil
	}

	order := s.buildAuctionOrder(p, winner, model.OrderTypeAuction)
	if err := s.orders.Insert(ctx, order); err != nil {
		return true, fmt.Errorf("subasta cerrada pero no se pudo crear la orden: %w", err)
	}

	s.notify(ctx, NotificationEvent{
		Type:          NotifyAuctionWon,
		RecipientID:   winner.BidderID,
		RecipientType: winner.BidderType,
		ProductID:     p.ID,
		OrderID:       order.ID,
		Amount:        winner.Amount,
		Message:       fmt.Sprintf("Ganaste la subasta de %s por %.2f", p.Name, winner.Amount),
	})

	return true, nil
}

// buildAuctionOrder arma la orden de una sola línea al monto ganador.
func (s *AuctionService) buildAuctionOrder(p *model.Product, winner *model.WinningBid, orderType string) *model.Order {
	order := &model.Order{
		Cart: []model.CartItem{{
			ProductID: p.ID,
			ShopID:    p.ShopID,
			Name:      p.Name,
			Qty:       1,
			Price:     winner.Amount,
			IsAuction: true,
		}},
		TotalPrice:  winner.Amount,
		Status:      model.OrderStatusProcessing,
		OrderType:   orderType,
		PaymentInfo: model.PaymentInfo{Status: "pending"},
	}

	if p.IsBuyerRequest {
		// En pedidos de comprador gana una tienda: el comprador es el dueño
		// del pedido y la tienda ganadora es la vendedora
		order.UserID = p.UserID
		order.ShopID = winner.BidderID
		order.Cart[0].ShopID = winner.BidderID
	} else {
		order.UserID = winner.BidderID
		order.ShopID = p.ShopID
	}
	return order
}

// BuyNow finaliza la subasta en el acto al precio de compra inmediata.
func (s *AuctionService) BuyNow(ctx context.Context, productID, userID primitive.ObjectID, shipping model.Shipping) (*model.Order, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsAuction {
		return nil, ErrNotAuction
	}
	if p.BuyNowPrice <= 0 {
		return nil, ErrNoBuyNowPrice
	}
	now := time.Now().UTC()
	if p.AuctionEnded || !now.Before(p.AuctionEndTime) {
		return nil, ErrAuctionEnded
	}

	winner := &model.WinningBid{
		BidderID:   userID,
		BidderType: model.BidderKindUser,
		Amount:     p.BuyNowPrice,
		Timestamp:  now,
	}

	won, err := s.products.MarkAuctionEnded(ctx, p.ID, winner, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrAuctionEnded
	}

	order := s.buildAuctionOrder(p, winner, model.OrderTypeBuyNow)
	order.ShippingAddress = shipping
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("compra inmediata sin orden: %w", err)
	}

	s.notify(ctx, NotificationEvent{
		Type:          NotifyAuctionWon,
		RecipientID:   p.ShopID,
		RecipientType: model.BidderKindShop,
		ProductID:     p.ID,
		OrderID:       order.ID,
		Amount:        p.BuyNowPrice,
		Message:       fmt.Sprintf("%s se vendió por compra inmediata a %.2f", p.Name, p.BuyNowPrice),
	})

	return order, nil
}

// Vistas de subastas
func (s *AuctionService) GetActive(ctx context.Context) ([]*model.Product, error) {
	return s.products.FindActiveAuctions(ctx, time.Now().UTC())
}

func (s *AuctionService) GetDetails(ctx context.Context, productID primitive.ObjectID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsAuction {
		return nil, ErrNotAuction
	}
	return p, nil
}

func (s *AuctionService) GetMyBids(ctx context.Context, userID primitive.ObjectID) ([]*model.Product, error) {
	return s.products.FindAuctionsByBidder(ctx, userID)
}

func (s *AuctionService) GetWonAuctions(ctx context.Context, userID primitive.ObjectID) ([]*model.Product, error) {
	return s.products.FindWonAuctions(ctx, userID)
}

func (s *AuctionService) notify(ctx context.Context, event NotificationEvent) {
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
