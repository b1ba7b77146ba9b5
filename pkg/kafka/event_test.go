package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderCreatedData struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	e, err := NewEvent("storefront.order.created", "ord-1", "order", "storefront", orderCreatedData{OrderID: "ord-1", Total: 150})
	require.NoError(t, err)

	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, "storefront.order.created", e.EventType)
	assert.Equal(t, "ord-1", e.AggregateID)
	assert.Equal(t, "order", e.AggregateType)
	assert.Equal(t, 1, e.Version)
	assert.WithinDuration(t, time.Now().UTC(), e.Timestamp, time.Minute)
}

func TestEvent_DataRoundTrip(t *testing.T) {
	e, err := NewEvent("storefront.order.created", "ord-1", "order", "storefront", orderCreatedData{OrderID: "ord-1", Total: 150})
	require.NoError(t, err)

	var got orderCreatedData
	require.NoError(t, e.UnmarshalData(&got))
	assert.Equal(t, "ord-1", got.OrderID)
	assert.Equal(t, 150.0, got.Total)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	e, err := NewEvent("storefront.cart.updated", "user-1", "cart", "storefront", map[string]string{})
	require.NoError(t, err)

	e.WithCorrelationID("corr-1")
	assert.Equal(t, "corr-1", e.CorrelationID)
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.False(t, cfg.Async)
}
