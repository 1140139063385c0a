package repository

import (
	"context"
	"time"

	"marketplace-bidding-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoShopRepository struct {
	col *mongo.Collection
}

func NewMongoShopRepository(db *mongo.Database) *MongoShopRepository {
	return &MongoShopRepository{col: db.Collection("shops")}
}

func (m *MongoShopRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Shop, error) {
	var res model.Shop
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// CreditBalance acredita el neto de una orden entregada ($inc, no sobreescribe).
func (m *MongoShopRepository) CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	update := bson.M{
		"$inc": bson.M{"available_balance": amount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	r, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
