package event

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	pkgkafka "github.com/adityabima03/YuhuKopi/pkg/kafka"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

type fakePublisher struct {
	topic string
	event *pkgkafka.Event
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, e *pkgkafka.Event) error {
	f.topic, f.event = topic, e
	return f.err
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:           "ord-1",
		Items:        []domain.OrderItem{{CoffeeID: "3", Name: "Caffe Latte", Price: "3.99", Size: "M", Quantity: 1}},
		DeliveryType: domain.DeliveryTypePickup,
		Subtotal:     decimal.RequireFromString("3.99"),
		DeliveryFee:  decimal.Zero,
		Total:        decimal.RequireFromString("3.99"),
		Status:       domain.OrderStatusPending,
	}
}

func TestPublishOrderCreated(t *testing.T) {
	fake := &fakePublisher{}
	p := NewProducer(fake, applog.Discard())

	ctx := applog.WithCorrelationID(context.Background(), "corr-9")
	ctx = applog.WithSessionID(ctx, "sess-1")
	require.NoError(t, p.PublishOrderCreated(ctx, sampleOrder()))

	assert.Equal(t, "coffee.order.created", fake.topic)
	require.NotNil(t, fake.event)
	assert.Equal(t, EventOrderCreated, fake.event.EventType)
	assert.Equal(t, "ord-1", fake.event.AggregateID)
	assert.Equal(t, "corr-9", fake.event.CorrelationID)
	assert.Equal(t, "sess-1", fake.event.Metadata["session_id"])

	var data OrderCreatedData
	require.NoError(t, fake.event.UnmarshalData(&data))
	assert.Equal(t, "ord-1", data.ID)
	assert.Equal(t, domain.DeliveryTypePickup, data.DeliveryType)
	assert.True(t, data.Total.Equal(decimal.RequireFromString("3.99")))
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Caffe Latte", data.Items[0].Name)
}

func TestPublishOrderCreated_Error(t *testing.T) {
	p := NewProducer(&fakePublisher{err: errors.New("broker down")}, applog.Discard())

	err := p.PublishOrderCreated(context.Background(), sampleOrder())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNoopProducer(t *testing.T) {
	assert.NoError(t, NoopProducer{}.PublishOrderCreated(context.Background(), sampleOrder()))
}
