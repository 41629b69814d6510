package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Publisher интерфейс публикации доменных событий
type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close()
}

// AMQPPublisher публикует события в topic-обменник RabbitMQ
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

var _ Publisher = (*AMQPPublisher)(nil)

func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %v", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %v", err)
	}

	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %v", err)
	}

	err = p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   uuid.NewString(),
			Timestamp:   time.Now().UTC(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %v", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher используется, когда брокер не сконфигурирован
type NopPublisher struct{}

var _ Publisher = (*NopPublisher)(nil)

func (NopPublisher) Publish(ctx context.Context, routingKey string, data any) error { return nil }
func (NopPublisher) Close()                                                         {}
