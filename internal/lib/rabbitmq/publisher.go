package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Publisher отправляет события учётных записей в обменник accounts.
// Ключом маршрутизации служит вид события.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает новый экземпляр Publisher.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish публикует событие в RabbitMQ.
func (p *Publisher) Publish(event models.NotificationEvent) error {
	return PublishMessage(p.ch, ExchangeAccounts, event.Kind, event)
}
