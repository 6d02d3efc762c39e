package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotConfirmed means the broker nacked a published message.
var ErrNotConfirmed = errors.New("rabbitmq: publish not confirmed")

// DeclareQueue declares the durable email queue; the API and the worker
// must agree on these arguments.
func DeclareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

// RabbitPublisher publishes persistent JSON messages to one queue through the
// default exchange and waits for the broker's confirm.
type RabbitPublisher struct {
	Queue string
	AppID string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitPublisher(url, queue, appID string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err == nil {
		err = DeclareQueue(ch, queue)
	}
	if err == nil {
		err = ch.Confirm(false)
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{Queue: queue, AppID: appID, conn: conn, ch: ch}, nil
}

// Close releases the channel and connection. Safe on nil.
func (p *RabbitPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.ch.Close()
	_ = p.conn.Close()
}

func (p *RabbitPublisher) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        p.AppID,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	conf, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, "", p.Queue, false, false, msg)
	if err != nil {
		return err
	}
	ok, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}
