package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/riteshrajpandit/shikhar-shoe/internal/checkout"
	"github.com/riteshrajpandit/shikhar-shoe/internal/contracts"
)

const publishTimeout = 3 * time.Second

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends OrderPlaced envelopes to the events exchange.
type Publisher struct {
	ch       channel
	seq      Sequencer
	producer string
}

type PublisherOptions struct {
	Producer string
}

func NewPublisher(conn *amqp.Connection, seq Sequencer, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, seq, opts), nil
}

func newPublisher(ch channel, seq Sequencer, opts PublisherOptions) *Publisher {
	producer := opts.Producer
	if producer == "" {
		producer = contracts.StorefrontProducer
	}
	return &Publisher{ch: ch, seq: seq, producer: producer}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o checkout.Order, meta checkout.EventMetadata) error {
	env, err := buildEnvelope(ctx, p.seq, p.producer, o, meta)
	if err != nil {
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}

	return p.publishJSON(ctx, OrderPlacedRoutingKey, env, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, env contracts.EventEnvelope, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     env.EventID,
			CorrelationId: env.CorrelationID,
			Timestamp:     env.OccurredAt,
			Type:          env.EventName,
			Body:          body,
		},
	)
}

// LogPublisher writes OrderPlaced envelopes to the log instead of a broker.
type LogPublisher struct {
	logger   *zap.Logger
	seq      Sequencer
	producer string
}

func NewLogPublisher(logger *zap.Logger, seq Sequencer) *LogPublisher {
	return &LogPublisher{logger: logger, seq: seq, producer: contracts.StorefrontProducer}
}

func (p *LogPublisher) PublishOrderPlaced(ctx context.Context, o checkout.Order, meta checkout.EventMetadata) error {
	env, err := buildEnvelope(ctx, p.seq, p.producer, o, meta)
	if err != nil {
		return err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}

	p.logger.Info("event published",
		zap.String("routing_key", OrderPlacedRoutingKey),
		zap.String("event_id", env.EventID),
		zap.Int64("sequence", env.Sequence),
		zap.ByteString("envelope", body),
	)
	return nil
}

func buildEnvelope(ctx context.Context, seq Sequencer, producer string, o checkout.Order, meta checkout.EventMetadata) (contracts.EventEnvelope, error) {
	n, err := seq.NextSequence(ctx, o.SessionID)
	if err != nil {
		return contracts.EventEnvelope{}, fmt.Errorf("reserve sequence: %w", err)
	}

	return contracts.BuildOrderPlacedEvent(o, contracts.EnvelopeOptions{
		PartitionKey:  o.SessionID,
		Sequence:      n,
		Producer:      producer,
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
	}), nil
}
