package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewKafkaPublisher_FlushesEachMessage(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "order-events", zaptest.NewLogger(t))
	defer p.Close()

	assert.Equal(t, 1, p.writer.BatchSize)
	assert.LessOrEqual(t, p.writer.BatchTimeout, 10*time.Millisecond)
	assert.Equal(t, "order-events", p.writer.Topic)
}

func TestKafkaPublisher_UnreachableBrokerFailsWithinBound(t *testing.T) {
	// Port 1 on loopback refuses connections immediately.
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "order-events", zaptest.NewLogger(t))
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, OrderEvent{Type: OrderCreated, OrderID: 7})
	require.Error(t, err)
	assert.Less(t, time.Since(start), publishTimeout+time.Second)
}
