package service

import (
	"context"

	"marketplace-bidding-service/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lectura de las notificaciones que el consumer de Rabbit va persistiendo.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) GetForUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Notification, error) {
	return s.repo.FindByRecipient(ctx, userID, model.BidderKindUser)
}

func (s *NotificationService) GetForShop(ctx context.Context, shopID primitive.ObjectID) ([]*model.Notification, error) {
	return s.repo.FindByRecipient(ctx, shopID, model.BidderKindShop)
}
