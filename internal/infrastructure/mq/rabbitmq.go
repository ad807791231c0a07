package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"drive-me-local/config"
	"drive-me-local/internal/domain/activity"
)

const RoutingKeyActivity = "activity.event"

type (
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
	}
	Event struct {
		Id    uuid.UUID `json:"event_id"`
		TS    time.Time `json:"time_stamp"`
		Event string    `json:"event"`
	}
)

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
	}
}

func NewEvent(e activity.Entry) Event {
	return Event{
		Id:    uuid.New(),
		TS:    e.CreatedAt,
		Event: e.Event,
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "drive-me-local",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	var err error
	if err = r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	return r.pubCh.QueueBind(q.Name, RoutingKeyActivity, r.cfg.Exchange, false, nil)
}

// Publish sends one activity entry to the exchange. It is called from the
// activity worker, never from a request goroutine.
func (r *RabbitMQ) Publish(ctx context.Context, e activity.Entry) error {
	ev := NewEvent(e)
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    ev.Id.String(),
		Timestamp:    ev.TS,
		Type:         RoutingKeyActivity,
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		RoutingKeyActivity,
		false,
		false,
		pub,
	)
}

func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }

func (r *RabbitMQ) Close() {
	if r.pubCh != nil {
		_ = r.pubCh.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}
