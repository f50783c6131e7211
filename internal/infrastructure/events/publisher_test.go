package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fincontrol/backend/internal/infrastructure/config"
)

func TestTopicName(t *testing.T) {
	assert.Equal(t, "fincontrol.payment_confirmed", TopicName("fincontrol", "payment_confirmed"))
	assert.Equal(t, "payment_confirmed", TopicName("", "payment_confirmed"))
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish("any_topic", struct{ Value int }{42}))
}

func TestNewPublisher(t *testing.T) {
	t.Run("no brokers yields the noop publisher", func(t *testing.T) {
		cfg := &config.EventsConfig{}
		p := NewPublisher(cfg, zap.NewNop())
		assert.IsType(t, NoopPublisher{}, p)
	})

	t.Run("configured brokers yield the kafka publisher", func(t *testing.T) {
		cfg := &config.EventsConfig{
			Brokers:      []string{"localhost:9092"},
			TopicPrefix:  "fincontrol",
			WriteTimeout: time.Second,
		}
		p := NewPublisher(cfg, zap.NewNop())
		kp, ok := p.(*KafkaPublisher)
		assert.True(t, ok)
		assert.NoError(t, kp.Close())
	})
}
