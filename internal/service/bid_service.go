package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-bidding-service/internal/model"
	"marketplace-bidding-service/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errores de negocio exportados (los usa el controller)
var (
	ErrInvalidBid      = errors.New("oferta inválida")
	ErrNotAuction      = errors.New("el producto no está en subasta")
	ErrAuctionEnded    = errors.New("la subasta ya finalizó")
	ErrBidTooLow       = errors.New("la oferta no alcanza el mínimo")
	ErrBidTooHigh      = errors.New("la oferta supera el máximo")
	ErrOwnProduct      = errors.New("no se puede ofertar sobre un producto propio")
	ErrWrongBidderKind = errors.New("este tipo de cuenta no puede ofertar en esta publicación")
	ErrForbidden       = errors.New("forbidden")
	ErrBidFinalState   = errors.New("la oferta ya está en un estado final")
	ErrInvalidStatus   = errors.New("estado de oferta inválido")
)

type PlaceBidCommand struct {
	ProductID primitive.ObjectID
	Bidder    Actor
	Amount    float64
}

type BidService struct {
	products ProductRepository
	bids     BidRepository
	notifier Notifier
}

func NewBidService(products ProductRepository, bids BidRepository, notifier Notifier) *BidService {
	return &BidService{
		products: products,
		bids:     bids,
		notifier: notifier,
	}
}

// PlaceBid valida la oferta contra el precio vigente y la registra.
// La aceptación es un único update condicional sobre current_price
// (compare-and-swap): si otro request ganó la carrera, se relee y se
// revalida contra el estado fresco.
func (s *BidService) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (*model.Bid, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser positivo", ErrInvalidBid)
	}

	p, err := s.products.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	// Hasta 2 intentos: la primera pasada usa la lectura inicial, la segunda
	// solo corre si el CAS perdió contra una oferta concurrente.
	for attempt := 0; ; attempt++ {
		now := time.Now().UTC()

		if err := s.validate(p, cmd, now); err != nil {
			return nil, err
		}

		entry := model.BidEntry{
			BidderID:   cmd.Bidder.ID,
			BidderType: cmd.Bidder.Kind,
			Amount:     cmd.Amount,
			Timestamp:  now,
		}

		err = s.products.AppendBid(ctx, p.ID, p.CurrentPrice, now, entry)
		if err == nil {
			return s.recordBid(ctx, p, entry)
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		if attempt >= 1 {
			return nil, fmt.Errorf("%w: el precio cambió mientras se procesaba la oferta", ErrInvalidBid)
		}

		// Perdimos la carrera: releer y revalidar
		p, err = s.products.FindByID(ctx, cmd.ProductID)
		if err != nil {
			return nil, err
		}
	}
}

func (s *BidService) validate(p *model.Product, cmd PlaceBidCommand, now time.Time) error {
	if !p.IsAuction {
		return ErrNotAuction
	}
	if p.AuctionEnded || !now.Before(p.AuctionEndTime) {
		return ErrAuctionEnded
	}

	if p.IsBuyerRequest {
		// Pedido de comprador: solo ofertan tiendas, hacia abajo
		if cmd.Bidder.Kind != model.BidderKindShop {
			return ErrWrongBidderKind
		}
		if p.ShopID == cmd.Bidder.ID {
			return ErrOwnProduct
		}
		max := s.base(p) - p.IncrementValue
		if cmd.Amount > max {
			return fmt.Errorf("%w: la oferta debe ser como máximo %.2f", ErrBidTooHigh, max)
		}
		return nil
	}

	// Subasta directa: solo ofertan usuarios, hacia arriba
	if cmd.Bidder.Kind != model.BidderKindUser {
		return ErrWrongBidderKind
	}
	if !p.UserID.IsZero() && p.UserID == cmd.Bidder.ID {
		return ErrOwnProduct
	}
	min := s.base(p) + p.IncrementValue
	if cmd.Amount < min {
		return fmt.Errorf("%w: la oferta debe ser como mínimo %.2f", ErrBidTooLow, min)
	}
	return nil
}

// base devuelve el precio vigente: la última oferta aceptada, o el precio
// inicial si todavía no hay ofertas.
func (s *BidService) base(p *model.Product) float64 {
	if p.CurrentPrice != 0 {
		return p.CurrentPrice
	}
	return p.StartingPrice
}

// recordBid persiste el registro Bid independiente y dispara las
// notificaciones (best-effort).
func (s *BidService) recordBid(ctx context.Context, p *model.Product, entry model.BidEntry) (*model.Bid, error) {
	bid := &model.Bid{
		ProductID:  p.ID,
		BidderID:   entry.BidderID,
		BidderType: entry.BidderType,
		BidAmount:  entry.Amount,
		Status:     model.BidStatusPending,
		CreatedAt:  entry.Timestamp,
	}
	if p.IsBuyerRequest {
		bid.BuyerID = p.UserID        // el dueño del pedido compra
		bid.SellerID = entry.BidderID // la tienda que ofertó vende
	} else {
		bid.BuyerID = entry.BidderID
		bid.SellerID = p.ShopID
	}

	if err := s.bids.Insert(ctx, bid); err != nil {
		return nil, fmt.Errorf("no se pudo guardar la oferta: %w", err)
	}

	// Avisar al dueño de la publicación
	owner := NotificationEvent{
		Type:      NotifyBidPlaced,
		ProductID: p.ID,
		BidID:     bid.ID,
		Amount:    entry.Amount,
		Message:   fmt.Sprintf("Nueva oferta de %.2f sobre %s", entry.Amount, p.Name),
	}
	if p.IsBuyerRequest {
		owner.RecipientID = p.UserID
		owner.RecipientType = model.BidderKindUser
	} else {
		owner.RecipientID = p.ShopID
		owner.RecipientType = model.BidderKindShop
	}
	s.notify(ctx, owner)

	// Avisar al oferente anterior que fue superado
	if n := len(p.Bids); n > 0 {
		prev := p.Bids[n-1]
		if prev.BidderID != entry.BidderID {
			s.notify(ctx, NotificationEvent{
				Type:          NotifyOutbid,
				RecipientID:   prev.BidderID,
				RecipientType: prev.BidderType,
				ProductID:     p.ID,
				Amount:        entry.Amount,
				Message:       fmt.Sprintf("Tu oferta sobre %s fue superada (%.2f)", p.Name, entry.Amount),
			})
		}
	}

	return bid, nil
}

// Transiciones permitidas sobre el estado de una oferta
var bidTransitions = map[string][]string{
	model.BidStatusPending:  {model.BidStatusAccepted, model.BidStatusRejected, model.BidStatusCompleted},
	model.BidStatusAccepted: {model.BidStatusCompleted},
}

// UpdateBidStatus realiza la transición de estado de una oferta.
// Quién puede hacer qué depende del rol:
//   - el comprador dueño de la oferta puede aceptarla/rechazarla (ofertas de
//     tiendas sobre su pedido) y finalizarla en el checkout
//   - la tienda vendedora puede aceptar/rechazar ofertas sobre sus productos
func (s *BidService) UpdateBidStatus(ctx context.Context, bidID primitive.ObjectID, newStatus string, actor Actor) (*model.Bid, error) {
	switch newStatus {
	case model.BidStatusAccepted, model.BidStatusRejected, model.BidStatusCompleted:
	default:
		return nil, ErrInvalidStatus
	}

	bid, err := s.bids.FindByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	isBuyer := actor.Kind == model.BidderKindUser && actor.ID == bid.BuyerID
	isSeller := actor.Kind == model.BidderKindShop && actor.ID == bid.SellerID
	if !isBuyer && !isSeller {
		return nil, ErrForbidden
	}
	// Solo el comprador finaliza su propia oferta en el checkout
	if newStatus == model.BidStatusCompleted && !isBuyer {
		return nil, ErrForbidden
	}

	if !contains(bidTransitions[bid.Status], newStatus) {
		if bid.Status == model.BidStatusRejected || bid.Status == model.BidStatusCompleted {
			return nil, ErrBidFinalState
		}
		return nil, ErrInvalidStatus
	}

	checkedOut := newStatus == model.BidStatusCompleted
	if err := s.bids.UpdateStatus(ctx, bid.ID, newStatus, checkedOut); err != nil {
		return nil, err
	}
	bid.Status = newStatus
	if checkedOut {
		bid.IsCheckedOut = true
	}

	s.notify(ctx, NotificationEvent{
		Type:          NotifyBidStatus,
		RecipientID:   bid.BuyerID,
		RecipientType: model.BidderKindUser,
		ProductID:     bid.ProductID,
		BidID:         bid.ID,
		Amount:        bid.BidAmount,
		Message:       fmt.Sprintf("Tu oferta pasó a estado %s", newStatus),
	})

	return bid, nil
}

// Getters
func (s *BidService) GetByProduct(ctx context.Context, productID primitive.ObjectID) ([]*model.Bid, error) {
	return s.bids.FindByProduct(ctx, productID)
}

func (s *BidService) GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*model.Bid, error) {
	return s.bids.FindBySeller(ctx, sellerID)
}

func (s *BidService) GetPlacedByShop(ctx context.Context, shopID primitive.ObjectID) ([]*model.Bid, error) {
	return s.bids.FindPlacedByShop(ctx, shopID)
}

func (s *BidService) GetByBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]*model.Bid, error) {
	return s.bids.FindByBuyer(ctx, buyerID)
}

// notify publica el evento y se traga el error: las notificaciones nunca
// hacen fallar la operación que las originó.
func (s *BidService) notify(ctx context.Context, event NotificationEvent) {
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

func contains(arr []string, s string) bool {
	for _, v := range arr {
		if v == s {
			return true
		}
	}
	return false
}
