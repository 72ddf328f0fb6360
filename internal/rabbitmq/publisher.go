package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher publishes membership events to the exchange.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher returns a Publisher on the given channel.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish marshals message to JSON and publishes it persistently under
// routingKey.
func (p *Publisher) Publish(routingKey string, message any) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RegisteredEvent is the payload published after a successful registration.
// It carries both confirmation tokens so the sender can build the email and
// phone confirmation links in one mail.
type RegisteredEvent struct {
	UserID                 int64  `json:"user_id"`
	FirstName              string `json:"first_name"`
	Email                  string `json:"email"`
	EmailConfirmationToken string `json:"email_confirmation_token"`
	PhoneConfirmationToken string `json:"phone_confirmation_token"`
}
