package repository

import (
	"context"
	"time"

	"marketplace-bidding-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoBidRepository struct {
	col *mongo.Collection
}

func NewMongoBidRepository(db *mongo.Database) *MongoBidRepository {
	return &MongoBidRepository{col: db.Collection("bids")}
}

func (m *MongoBidRepository) Insert(ctx context.Context, b *model.Bid) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := m.col.InsertOne(ctx, b)
	return err
}

func (m *MongoBidRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Bid, error) {
	var res model.Bid
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoBidRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, checkedOut bool) error {
	set := bson.M{"status": status}
	if checkedOut {
		set["is_checked_out"] = true
	}
	r, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoBidRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]*model.Bid, error) {
	return m.findMany(ctx, bson.M{"product_id": productID})
}

// Ofertas recibidas por una tienda (sobre sus productos)
func (m *MongoBidRepository) FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*model.Bid, error) {
	return m.findMany(ctx, bson.M{"seller_id": sellerID})
}

// Ofertas colocadas por una tienda (subasta inversa)
func (m *MongoBidRepository) FindPlacedByShop(ctx context.Context, shopID primitive.ObjectID) ([]*model.Bid, error) {
	return m.findMany(ctx, bson.M{"bidder_id": shopID, "bidder_type": model.BidderKindShop})
}

func (m *MongoBidRepository) FindByBuyer(ctx context.Context, buyerID primitive.ObjectID) ([]*model.Bid, error) {
	return m.findMany(ctx, bson.M{"buyer_id": buyerID})
}

func (m *MongoBidRepository) findMany(ctx context.Context, filter bson.M) ([]*model.Bid, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Bid
	for cur.Next(ctx) {
		var v model.Bid
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}
