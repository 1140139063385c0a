// setup.go
package rabbit

import (
	"marketplace-bidding-service/internal/service"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

func SetupConsumers(ch *amqp091.Channel, exchange, queue string, repo service.NotificationRepository) {
	consumer := NewNotificationConsumer(repo)

	// 1. Declarar la queue
	q, err := ch.QueueDeclare(
		queue, // cola propia de este servicio
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Error("❌ Error declarando queue: ", err)
		return
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		exchange,
		false,
		nil,
	)
	if err != nil {
		logrus.Error("❌ Error binding exchange: ", err)
		return
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Error("❌ Error al consumir queue: ", err)
		return
	}

	go func() {
		for m := range msgs {
			if err := consumer.Handle(m.Body); err != nil {
				logrus.Error("error procesando notificación: ", err)
			}
		}
	}()

	logrus.Infof("🐰 Suscrito a exchange %s (fanout)", exchange)
}
