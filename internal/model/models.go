// models.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipo de oferente: resuelve contra la colección de usuarios o de tiendas.
const (
	BidderKindUser = "User"
	BidderKindShop = "Shop"
)

// Estados de una oferta (Bid)
const (
	BidStatusPending   = "pending"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
	BidStatusCompleted = "completed"
)

// Tipos de orden
const (
	OrderTypeCart    = "cart"
	OrderTypeAuction = "auction"
	OrderTypeBid     = "bid"
	OrderTypeBuyNow  = "buy_now"
)

// Estados de una orden (conjunto cerrado, ver transiciones en el service)
const (
	OrderStatusProcessing    = "Processing"
	OrderStatusTransferred   = "Transferred to delivery partner"
	OrderStatusDelivered     = "Delivered"
	OrderStatusRefundRequest = "Refund Requested"
	OrderStatusRefundSuccess = "Refund Success"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	ShopID      primitive.ObjectID `bson:"shop_id" json:"shopId"`
	// UserID solo existe en pedidos de comprador (subasta inversa)
	UserID  primitive.ObjectID `bson:"user_id,omitempty" json:"userId,omitempty"`
	Price   float64            `bson:"price" json:"price"`
	Stock   int                `bson:"stock" json:"stock"`
	SoldOut int                `bson:"sold_out" json:"soldOut"`

	// Campos de subasta
	IsAuction        bool        `bson:"is_auction" json:"isAuction"`
	IsBuyerRequest   bool        `bson:"is_buyer_request" json:"isBuyerRequest"`
	StartingPrice    float64     `bson:"starting_price" json:"startingPrice"`
	CurrentPrice     float64     `bson:"current_price" json:"currentPrice"`
	IncrementValue   float64     `bson:"increment_value" json:"incrementValue"`
	BuyNowPrice      float64     `bson:"buy_now_price,omitempty" json:"buyNowPrice,omitempty"`
	AuctionStartTime time.Time   `bson:"auction_start_time" json:"auctionStartTime"`
	AuctionEndTime   time.Time   `bson:"auction_end_time" json:"auctionEndTime"`
	AuctionEnded     bool        `bson:"auction_ended" json:"auctionEnded"`
	Bids             []BidEntry  `bson:"bids" json:"bids"`
	WinningBid       *WinningBid `bson:"winning_bid,omitempty" json:"winningBid,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// BidEntry es la entrada embebida en el historial de ofertas del producto.
type BidEntry struct {
	BidderID   primitive.ObjectID `bson:"bidder_id" json:"bidderId"`
	BidderType string             `bson:"bidder_type" json:"bidderType"`
	Amount     float64            `bson:"amount" json:"amount"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// WinningBid solo se completa cuando la subasta cierra.
type WinningBid struct {
	BidderID   primitive.ObjectID `bson:"bidder_id" json:"bidderId"`
	BidderType string             `bson:"bidder_type" json:"bidderType"`
	Amount     float64            `bson:"amount" json:"amount"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// Bid es el registro independiente (desnormalizado) de cada oferta aceptada.
// BidderType decide contra qué colección se resuelve BidderID.
type Bid struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID    primitive.ObjectID `bson:"product_id" json:"productId"`
	BuyerID      primitive.ObjectID `bson:"buyer_id" json:"buyerId"`
	SellerID     primitive.ObjectID `bson:"seller_id" json:"sellerId"`
	BidderID     primitive.ObjectID `bson:"bidder_id" json:"bidderId"`
	BidderType   string             `bson:"bidder_type" json:"bidderType"`
	BidAmount    float64            `bson:"bid_amount" json:"bidAmount"`
	Status       string             `bson:"status" json:"status"`
	IsCheckedOut bool               `bson:"is_checked_out" json:"isCheckedOut"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	ShopID    primitive.ObjectID `bson:"shop_id" json:"shopId"`
	Name      string             `bson:"name" json:"name"`
	Qty       int                `bson:"qty" json:"qty"`
	Price     float64            `bson:"price" json:"price"`
	IsAuction bool               `bson:"is_auction" json:"isAuction"`
	IsBid     bool               `bson:"is_bid" json:"isBid"`
}

type Shipping struct {
	AddressLine1 string `bson:"address_line1" json:"addressLine1"`
	City         string `bson:"city" json:"city"`
	PostalCode   string `bson:"postal_code" json:"postalCode"`
	Province     string `bson:"province" json:"province"`
	Country      string `bson:"country" json:"country"`
	Comments     string `bson:"comments" json:"comments"`
}

type PaymentInfo struct {
	ID     string `bson:"id,omitempty" json:"id,omitempty"`
	Type   string `bson:"type,omitempty" json:"type,omitempty"`
	Status string `bson:"status" json:"status"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Cart            []CartItem         `bson:"cart" json:"cart"`
	ShippingAddress Shipping           `bson:"shipping_address" json:"shippingAddress"`
	UserID          primitive.ObjectID `bson:"user_id" json:"userId"`
	ShopID          primitive.ObjectID `bson:"shop_id" json:"shopId"`
	TotalPrice      float64            `bson:"total_price" json:"totalPrice"`
	Status          string             `bson:"status" json:"status"`
	OrderType       string             `bson:"order_type" json:"orderType"`
	BidID           primitive.ObjectID `bson:"bid_id,omitempty" json:"bidId,omitempty"`
	PaymentInfo     PaymentInfo        `bson:"payment_info" json:"paymentInfo"`
	DeliveredAt     *time.Time         `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Shop struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	AvailableBalance float64            `bson:"available_balance" json:"availableBalance"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
}

// Notification se persiste desde el consumer de Rabbit.
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID       string             `bson:"event_id" json:"eventId"`
	Type          string             `bson:"type" json:"type"`
	RecipientID   primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	RecipientType string             `bson:"recipient_type" json:"recipientType"`
	ProductID     primitive.ObjectID `bson:"product_id,omitempty" json:"productId,omitempty"`
	BidID         primitive.ObjectID `bson:"bid_id,omitempty" json:"bidId,omitempty"`
	OrderID       primitive.ObjectID `bson:"order_id,omitempty" json:"orderId,omitempty"`
	Amount        float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	Message       string             `bson:"message" json:"message"`
	Read          bool               `bson:"read" json:"read"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
