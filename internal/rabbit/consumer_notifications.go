package rabbit

import (
	"context"
	"encoding/json"

	"marketplace-bidding-service/internal/model"
	"marketplace-bidding-service/internal/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationConsumer persiste cada evento recibido en la colección de
// notificaciones, que la API luego expone por recipient.
type NotificationConsumer struct {
	Repo service.NotificationRepository
}

func NewNotificationConsumer(repo service.NotificationRepository) *NotificationConsumer {
	return &NotificationConsumer{Repo: repo}
}

func (c *NotificationConsumer) Handle(msg []byte) error {
	var event NotificationMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		logrus.Error("error parseando mensaje de notificación: ", err)
		return err
	}

	recipientID, err := primitive.ObjectIDFromHex(event.RecipientID)
	if err != nil {
		logrus.Error("recipient inválido en notificación: ", err)
		return err
	}

	n := &model.Notification{
		EventID:       event.EventID,
		Type:          event.Type,
		RecipientID:   recipientID,
		RecipientType: event.RecipientType,
		Amount:        event.Amount,
		Message:       event.Message,
		CreatedAt:     event.Timestamp,
	}
	// Referencias opcionales: se guardan solo si vienen bien formadas
	if id, err := primitive.ObjectIDFromHex(event.ProductID); err == nil {
		n.ProductID = id
	}
	if id, err := primitive.ObjectIDFromHex(event.BidID); err == nil {
		n.BidID = id
	}
	if id, err := primitive.ObjectIDFromHex(event.OrderID); err == nil {
		n.OrderID = id
	}

	if err := c.Repo.Insert(context.Background(), n); err != nil {
		logrus.Error("❌ error guardando notificación: ", err)
		return err
	}

	return nil
}
