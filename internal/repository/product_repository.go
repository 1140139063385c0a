package repository

import (
	"context"
	"errors"
	"time"

	"marketplace-bidding-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("documento no encontrado")
	// ErrConflict: la actualización condicional no matcheó (otro request ganó la carrera)
	ErrConflict = errors.New("actualización condicional sin efecto")
)

// Mongo implementation
type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection("products")}
}

func (m *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var res model.Product
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoProductRepository) Insert(ctx context.Context, p *model.Product) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	_, err := m.col.InsertOne(ctx, p)
	return err
}

// AppendBid acepta una oferta con un único update condicional:
// solo matchea si la subasta sigue abierta y current_price no cambió desde la
// lectura (compare-and-swap). Así dos ofertas simultáneas no pueden pasar las
// dos contra la misma base.
func (m *MongoProductRepository) AppendBid(ctx context.Context, productID primitive.ObjectID, expectedPrice float64, now time.Time, entry model.BidEntry) error {
	filter := bson.M{
		"_id":              productID,
		"is_auction":       true,
		"auction_ended":    false,
		"auction_end_time": bson.M{"$gt": now},
		"current_price":    expectedPrice,
	}

	update := bson.M{
		"$set": bson.M{
			"current_price": entry.Amount,
			"updated_at":    now,
		},
		"$push": bson.M{
			"bids": entry,
		},
	}

	r, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if r.ModifiedCount == 0 {
		return ErrConflict
	}
	return nil
}

// MarkAuctionEnded es la guarda atómica del cierre: solo el caller cuyo update
// modificó el documento (auction_ended pasó de false a true) debe crear la orden.
func (m *MongoProductRepository) MarkAuctionEnded(ctx context.Context, productID primitive.ObjectID, winning *model.WinningBid, now time.Time) (bool, error) {
	set := bson.M{
		"auction_ended": true,
		"updated_at":    now,
	}
	if winning != nil {
		set["winning_bid"] = winning
	}

	filter := bson.M{"_id": productID, "auction_ended": false}
	r, err := m.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return r.ModifiedCount == 1, nil
}

func (m *MongoProductRepository) FindExpiredAuctions(ctx context.Context, now time.Time) ([]*model.Product, error) {
	filter := bson.M{
		"is_auction":       true,
		"auction_ended":    false,
		"auction_end_time": bson.M{"$lte": now},
	}
	return m.findMany(ctx, filter, nil)
}

func (m *MongoProductRepository) FindActiveAuctions(ctx context.Context, now time.Time) ([]*model.Product, error) {
	filter := bson.M{
		"is_auction":       true,
		"auction_ended":    false,
		"auction_end_time": bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "auction_end_time", Value: 1}})
	return m.findMany(ctx, filter, opts)
}

func (m *MongoProductRepository) FindAuctionsByBidder(ctx context.Context, bidderID primitive.ObjectID) ([]*model.Product, error) {
	return m.findMany(ctx, bson.M{"bids.bidder_id": bidderID}, nil)
}

func (m *MongoProductRepository) FindWonAuctions(ctx context.Context, bidderID primitive.ObjectID) ([]*model.Product, error) {
	filter := bson.M{
		"auction_ended":         true,
		"winning_bid.bidder_id": bidderID,
	}
	return m.findMany(ctx, filter, nil)
}

// AdjustStock aplica deltas sobre stock y sold_out ($inc atómico por producto).
func (m *MongoProductRepository) AdjustStock(ctx context.Context, productID primitive.ObjectID, stockDelta, soldDelta int) error {
	update := bson.M{
		"$inc": bson.M{
			"stock":    stockDelta,
			"sold_out": soldDelta,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	r, err := m.col.UpdateOne(ctx, bson.M{"_id": productID}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoProductRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Product, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = m.col.Find(ctx, filter, opts)
	} else {
		cur, err = m.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Product
	for cur.Next(ctx) {
		var v model.Product
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}
