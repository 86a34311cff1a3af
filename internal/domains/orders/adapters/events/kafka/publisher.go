package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// Envelope is the wire shape of every order event.
type Envelope struct {
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type orderPayload struct {
	OrderID     int64           `json:"orderId"`
	CustomerID  int64           `json:"customerId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	LineCount   int             `json:"lineCount"`
}

type deletedPayload struct {
	OrderID int64 `json:"orderId"`
}

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher announces order mutations on a Kafka topic. Writes go through a
// buffered inbox drained by a single goroutine so publishing never blocks or
// fails the originating request; undeliverable events are logged and dropped.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
	inbox  chan kafka.Message
	closed chan struct{}
}

// NewPublisher builds a publisher for the given brokers and topic and starts
// its drain loop. Close flushes the inbox and shuts the writer down.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	p := &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger,
		inbox:  make(chan kafka.Message, 256),
		closed: make(chan struct{}),
	}
	go p.drain()
	return p
}

func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, EventOrderCreated, order.ID, orderPayload{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		LineCount:   len(order.Lines),
	})
}

func (p *Publisher) OrderUpdated(ctx context.Context, order *domain.Order) {
	p.publish(ctx, EventOrderUpdated, order.ID, orderPayload{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		TotalAmount: order.TotalAmount,
		LineCount:   len(order.Lines),
	})
}

func (p *Publisher) OrderDeleted(ctx context.Context, orderID int64) {
	p.publish(ctx, EventOrderDeleted, orderID, deletedPayload{OrderID: orderID})
}

func (p *Publisher) publish(ctx context.Context, eventType string, orderID int64, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logError(ctx, eventType, orderID, err)
		return
	}
	envelope, err := json.Marshal(Envelope{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	})
	if err != nil {
		p.logError(ctx, eventType, orderID, err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(orderID, 10)),
		Value: envelope,
		Time:  time.Now(),
	}
	select {
	case p.inbox <- msg:
	default:
		p.logError(ctx, eventType, orderID, errInboxFull)
	}
}

var errInboxFull = errors.New("publish buffer full")

func (p *Publisher) drain() {
	defer close(p.closed)
	for msg := range p.inbox {
		if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
			p.logError(context.Background(), "write", 0, err)
		}
	}
	_ = p.writer.Close()
}

// Close flushes buffered events and stops the drain loop.
func (p *Publisher) Close() {
	close(p.inbox)
	<-p.closed
}

func (p *Publisher) logError(ctx context.Context, eventType string, orderID int64, err error) {
	if p.logger == nil {
		return
	}
	p.logger.LogAttrs(ctx, slog.LevelWarn, "order event dropped",
		slog.String("event.type", eventType),
		slog.Int64("order.id", orderID),
		slog.String("error", err.Error()))
}
