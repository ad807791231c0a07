package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"drive-me-local/config"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

// RoutingKey must match the key the activity publisher uses.
const RoutingKey = "activity.event"

type (
	Consumer struct {
		cfg        config.MQ
		log        *zap.Logger
		conn       *amqp091.Connection
		chConsume  *amqp091.Channel
		chDelivery <-chan amqp091.Delivery
	}
	event struct {
		ID    string    `json:"event_id"`
		TS    time.Time `json:"time_stamp"`
		Event string    `json:"event"`
	}
)

// New reuses conn when it is not nil; otherwise Connect dials its own.
func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger,
		conn: conn,
	}
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	if c.conn == nil || c.conn.IsClosed() {
		c.conn, err = amqp091.Dial(dsn)
		if err != nil {
			c.conn = nil
			return fmt.Errorf("amqp dial: %w", err)
		}
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	var err error
	if err = c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err = c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err = c.chConsume.QueueBind(
		c.cfg.QueueName,
		RoutingKey,
		c.cfg.Exchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue bind %s: %w", RoutingKey, err)
	}

	if err = c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

// DeliveryWorker tails the activity queue into the service log until ctx is done.
func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(msg); err != nil {
				c.log.Error("mq read message error", zap.Error(err))
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		case <-ctx.Done():
			if c.chConsume != nil {
				c.chConsume.Close()
			}
			return
		}
	}
}

func (c *Consumer) delivery(msg amqp091.Delivery) error {
	if msg.RoutingKey != RoutingKey {
		return fmt.Errorf("unexpected routing key %q", msg.RoutingKey)
	}

	var e event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode activity event: %w", err)
	}

	c.log.Info("activity",
		zap.String("event_id", e.ID),
		zap.Time("at", e.TS),
		zap.String("event", e.Event),
	)

	return nil
}
