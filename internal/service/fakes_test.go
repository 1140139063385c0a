package service

import (
	"context"
	"sync"
	"time"

	"marketplace-bidding-service/internal/model"
	"marketplace-bidding-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fakes en memoria que imitan la semántica de los updates condicionales de
// los repositorios Mongo.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*model.Product

	// onAppend se ejecuta una sola vez antes del primer AppendBid para
	// simular una oferta concurrente que gana la carrera
	onAppend func()
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[primitive.ObjectID]*model.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	cp.Bids = append([]model.BidEntry(nil), p.Bids...)
	if p.WinningBid != nil {
		w := *p.WinningBid
		cp.WinningBid = &w
	}
	return &cp, nil
}

func (f *fakeProductRepo) AppendBid(_ context.Context, productID primitive.ObjectID, expectedPrice float64, now time.Time, entry model.BidEntry) error {
	if f.onAppend != nil {
		hook := f.onAppend
		f.onAppend = nil
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	// Mismo filtro que el update condicional real
	if !p.IsAuction || p.AuctionEnded || !now.Before(p.AuctionEndTime) || p.CurrentPrice != expectedPrice {
		return repository.ErrConflict
	}
	p.Bids = append(p.Bids, entry)
	p.CurrentPrice = entry.Amount
	return nil
}

func (f *fakeProductRepo) MarkAuctionEnded(_ context.Context, productID primitive.ObjectID, winning *model.WinningBid, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if p.AuctionEnded {
		return false, nil
	}
	p.AuctionEnded = true
	p.WinningBid = winning
	return true, nil
}

func (f *fakeProductRepo) FindExpiredAuctions(_ context.Context, now time.Time) ([]*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Product
	for _, p := range f.products {
		if p.IsAuction && !p.AuctionEnded && !p.AuctionEndTime.After(now) {
			cp := *p
			cp.Bids = append([]model.BidEntry(nil), p.Bids...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindActiveAuctions(_ context.Context, now time.Time) ([]*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Product
	for _, p := range f.products {
		if p.IsAuction && !p.AuctionEnded && p.AuctionEndTime.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindAuctionsByBidder(_ context.Context, bidderID primitive.ObjectID) ([]*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Product
	for _, p := range f.products {
		for _, b := range p.Bids {
			if b.BidderID == bidderID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindWonAuctions(_ context.Context, bidderID primitive.ObjectID) ([]*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Product
	for _, p := range f.products {
		if p.AuctionEnded && p.WinningBid != nil && p.WinningBid.BidderID == bidderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) AdjustStock(_ context.Context, productID primitive.ObjectID, stockDelta, soldDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stock += stockDelta
	p.SoldOut += soldDelta
	return nil
}

type fakeBidRepo struct {
	mu   sync.Mutex
	bids map[primitive.ObjectID]*model.Bid
}

func newFakeBidRepo(bids ...*model.Bid) *fakeBidRepo {
	f := &fakeBidRepo{bids: make(map[primitive.ObjectID]*model.Bid)}
	for _, b := range bids {
		f.bids[b.ID] = b
	}
	return f
}

func (f *fakeBidRepo) Insert(_ context.Context, b *model.Bid) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	cp := *b
	f.bids[b.ID] = &cp
	return nil
}

func (f *fakeBidRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bids[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBidRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status string, checkedOut bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bids[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	if checkedOut {
		b.IsCheckedOut = true
	}
	return nil
}

func (f *fakeBidRepo) FindByProduct(_ context.Context, productID primitive.ObjectID) ([]*model.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Bid
	for _, b := range f.bids {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBidRepo) FindBySeller(_ context.Context, sellerID primitive.ObjectID) ([]*model.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Bid
	for _, b := range f.bids {
		if b.SellerID == sellerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBidRepo) FindPlacedByShop(_ context.Context, shopID primitive.ObjectID) ([]*model.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Bid
	for _, b := range f.bids {
		if b.BidderID == shopID && b.BidderType == model.BidderKindShop {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBidRepo) FindByBuyer(_ context.Context, buyerID primitive.ObjectID) ([]*model.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Bid
	for _, b := range f.bids {
		if b.BuyerID == buyerID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*model.Order
	seq    []primitive.ObjectID // orden de inserción
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]*model.Order)}
}

func (f *fakeOrderRepo) Insert(_ context.Context, o *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	cp := *o
	cp.Cart = append([]model.CartItem(nil), o.Cart...)
	f.orders[o.ID] = &cp
	f.seq = append(f.seq, o.ID)
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	cp.Cart = append([]model.CartItem(nil), o.Cart...)
	return &cp, nil
}

func (f *fakeOrderRepo) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) MarkDelivered(_ context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = model.OrderStatusDelivered
	o.DeliveredAt = &at
	o.PaymentInfo.Status = "Succeeded"
	return nil
}

func (f *fakeOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Order
	for _, id := range f.seq {
		if f.orders[id].UserID == userID {
			out = append(out, f.orders[id])
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindByShop(_ context.Context, shopID primitive.ObjectID) ([]*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Order
	for _, id := range f.seq {
		if f.orders[id].ShopID == shopID {
			out = append(out, f.orders[id])
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) all() []*model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Order, 0, len(f.seq))
	for _, id := range f.seq {
		out = append(out, f.orders[id])
	}
	return out
}

type fakeShopRepo struct {
	mu       sync.Mutex
	balances map[primitive.ObjectID]float64
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{balances: make(map[primitive.ObjectID]float64)}
}

func (f *fakeShopRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bal, ok := f.balances[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.Shop{ID: id, AvailableBalance: bal}, nil
}

func (f *fakeShopRepo) CreditBalance(_ context.Context, id primitive.ObjectID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[id] += amount
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []NotificationEvent
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, event NotificationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeNotifier) byType(t string) []NotificationEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []NotificationEvent
	for _, e := range f.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
