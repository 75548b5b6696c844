package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/speedcam/module/core/domain"
	"github.com/nandanugg/speedcam/module/core/internal/repository/publisher"
)

var _ publisher.EventPublisher = (*EventPublisher)(nil)

const (
	ExchangeName = "speedcam.events"
	QueueName    = "speedcam_warnings"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type EventPublisher struct {
	ch amqpChannel
}

func NewEventPublisher(conn *amqp.Connection) (*EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := Declare(ch); err != nil {
		return nil, err
	}
	return &EventPublisher{ch: ch}, nil
}

// Declare sets up the fanout exchange and the durable warnings queue bound
// to it. The listener declares the same topology so either side can start
// first.
func Declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Envelope is the wire format of every event on the exchange.
type Envelope struct {
	Event   domain.EventType     `json:"event"`
	Status  *domain.StatusEvent  `json:"status,omitempty"`
	Warning *domain.WarningEvent `json:"warning,omitempty"`
	Speed   *domain.SpeedStatus  `json:"speed,omitempty"`
}

func (p *EventPublisher) PublishStatus(ctx context.Context, s *domain.StatusEvent) error {
	return p.publish(ctx, Envelope{Event: domain.EventStatus, Status: s}, 0)
}

func (p *EventPublisher) PublishWarning(ctx context.Context, w *domain.WarningEvent) error {
	var priority uint8
	if w.WantsAudio {
		priority = 5
	}
	return p.publish(ctx, Envelope{Event: domain.EventWarning, Warning: w}, priority)
}

func (p *EventPublisher) PublishSpeed(ctx context.Context, s *domain.SpeedStatus) error {
	return p.publish(ctx, Envelope{Event: domain.EventSpeed, Speed: s}, 0)
}

func (p *EventPublisher) publish(ctx context.Context, env Envelope, priority uint8) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", env.Event, err)
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Type:        string(env.Event),
		Priority:    priority,
		Body:        body,
	})
}
