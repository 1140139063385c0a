package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"marketplace-bidding-service/internal/service"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// NotificationMessage es el formato JSON que viaja por el exchange.
type NotificationMessage struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	RecipientID   string    `json:"recipient_id"`
	RecipientType string    `json:"recipient_type"`
	ProductID     string    `json:"product_id,omitempty"`
	BidID         string    `json:"bid_id,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher implementa service.Notifier sobre un exchange fanout.
type Publisher struct {
	ch       *amqp091.Channel
	exchange string
}

func NewPublisher(ch *amqp091.Channel, exchange string) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Notify(ctx context.Context, event service.NotificationEvent) error {
	msg := NotificationMessage{
		EventID:       uuid.New().String(),
		Type:          event.Type,
		RecipientID:   event.RecipientID.Hex(),
		RecipientType: event.RecipientType,
		Amount:        event.Amount,
		Message:       event.Message,
		Timestamp:     time.Now().UTC(),
	}
	if !event.ProductID.IsZero() {
		msg.ProductID = event.ProductID.Hex()
	}
	if !event.BidID.IsZero() {
		msg.BidID = event.BidID.Hex()
	}
	if !event.OrderID.IsZero() {
		msg.OrderID = event.OrderID.Hex()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		"", // fanout ignora routing key
		false,
		false,
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
}
