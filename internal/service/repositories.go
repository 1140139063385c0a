package service

import (
	"context"
	"time"

	"marketplace-bidding-service/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interfaces que debe implementar repository

type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	AppendBid(ctx context.Context, productID primitive.ObjectID, expectedPrice float64, now time.Time, entry model.BidEntry) error
	MarkAuctionEnded(ctx context.Context, productID primitive.ObjectID, winning *model.WinningBid, now time.Time) (bool, error)
	FindExpiredAuctions(ctx context.Context, now time.Time) ([]*model.Product, error)
	FindActiveAuctions(ctx context.Context, now time.Time) ([]*model.Product, error)
	FindAuctionsByBidder(ctx context.Context, bidderID primitive.ObjectID) ([]*model.Product, error)
	FindWonAuctions(ctx context.Context, bidderID primitive.ObjectID) ([]*model.Product, error)
	AdjustStock(ctx context.Context, productID primitive.ObjectID, stockDelta, soldDelta int) error
}

type BidRepository interface {
	Insert(ctx context.Context, b *model.Bid) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Bid, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, checkedOut bool) error
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]*model.Bid, error)
	FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*model.Bid, error)
	FindPlacedByShop(ctx context.Context, shopID primitive.ObjectID) ([]*model.Bid, error)
	FindByBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]*model.Bid, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Order, error)
	FindByShop(ctx context.Context, shopID primitive.ObjectID) ([]*model.Order, error)
}

type ShopRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Shop, error)
	CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error
}

type NotificationRepository interface {
	Insert(ctx context.Context, n *model.Notification) error
	FindByRecipient(ctx context.Context, recipientID primitive.ObjectID, recipientType string) ([]*model.Notification, error)
}

// Tipos de evento de notificación
const (
	NotifyBidPlaced  = "bid_placed"
	NotifyOutbid     = "outbid"
	NotifyBidStatus  = "bid_status"
	NotifyAuctionWon = "auction_won"
	NotifyOrderState = "order_status"
)

type NotificationEvent struct {
	Type          string             `json:"type"`
	RecipientID   primitive.ObjectID `json:"recipientId"`
	RecipientType string             `json:"recipientType"`
	ProductID     primitive.ObjectID `json:"productId,omitempty"`
	BidID         primitive.ObjectID `json:"bidId,omitempty"`
	OrderID       primitive.ObjectID `json:"orderId,omitempty"`
	Amount        float64            `json:"amount,omitempty"`
	Message       string             `json:"message"`
}

// Notifier publica eventos de notificación. Siempre best-effort: los services
// loguean el error y siguen, nunca hacen fallar la operación de dominio.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent) error
}

// Actor identifica a quien ejecuta la operación (cookie de user o de seller).
type Actor struct {
	ID   primitive.ObjectID
	Kind string // model.BidderKindUser | model.BidderKindShop
}
