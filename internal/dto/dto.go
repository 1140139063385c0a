// dto.go
package dto

// PlaceBidRequest lo usan tanto usuarios (subasta directa) como tiendas (pedido de comprador)
type PlaceBidRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

type UpdateBidStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BuyNowRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Shipping  ShippingDTO `json:"shipping"`
}

// ShippingDTO para la dirección y comentario
type ShippingDTO struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Province     string `json:"province"`
	Country      string `json:"country"`
	Comments     string `json:"comments"`
}

type CartItemDTO struct {
	ProductID string  `json:"productId" binding:"required"`
	ShopID    string  `json:"shopId"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty" binding:"required"`
	Price     float64 `json:"price"`
	IsAuction bool    `json:"isAuction"`
	IsBid     bool    `json:"isBid"`
}

type PaymentInfoDTO struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type CreateOrderRequest struct {
	Cart        []CartItemDTO  `json:"cart" binding:"required,min=1"`
	Shipping    ShippingDTO    `json:"shippingAddress"`
	TotalPrice  float64        `json:"totalPrice"`
	OrderType   string         `json:"orderType"`
	BidID       string         `json:"bidId"`
	PaymentInfo PaymentInfoDTO `json:"paymentInfo"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
