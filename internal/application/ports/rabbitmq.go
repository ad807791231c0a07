package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

type RabbitMQ interface {
	ActivityPublisher
	Connect(ctx context.Context, dsn string) error
	Init() error
	GetConn() *amqp091.Connection
	Close()
}
