package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	pkgkafka "github.com/adityabima03/YuhuKopi/pkg/kafka"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

// Topics and envelope fields for order events.
var TopicOrderCreated = pkgkafka.Topic("order", "created")

const (
	EventOrderCreated  = "order.created"
	AggregateTypeOrder = "order"
	SourceServer       = "coffee-server"
)

// OrderCreatedData is the order.created payload: a full order snapshot.
type OrderCreatedData struct {
	ID           string                  `json:"id"`
	Status       domain.OrderStatus      `json:"status"`
	DeliveryType domain.DeliveryType     `json:"deliveryType"`
	Items        []domain.OrderItem      `json:"items"`
	Address      *domain.DeliveryAddress `json:"address,omitempty"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	DeliveryFee  decimal.Decimal         `json:"deliveryFee"`
	Total        decimal.Decimal         `json:"total"`
}

// publisher is the part of pkg/kafka.Producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer wraps a Kafka producer.
func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishOrderCreated publishes a snapshot of order, tagged with the
// request's correlation id.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		ID:           order.ID,
		Status:       order.Status,
		DeliveryType: order.DeliveryType,
		Items:        order.Items,
		Address:      order.Address,
		Subtotal:     order.Subtotal,
		DeliveryFee:  order.DeliveryFee,
		Total:        order.Total,
	}

	event, err := pkgkafka.NewEvent(EventOrderCreated, order.ID, AggregateTypeOrder, SourceServer, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}
	if id := applog.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	if id := applog.SessionIDFromContext(ctx); id != "" {
		event.WithMetadata("session_id", id)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("event_id", event.EventID),
	)
	return nil
}

// NoopProducer drops every event. Used when EVENTS_ENABLED=false.
type NoopProducer struct{}

func (NoopProducer) PublishOrderCreated(context.Context, *domain.Order) error { return nil }
