package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.Empty(t, p.writers)
	assert.Nil(t, p.transport.SASL)
	assert.Nil(t, p.transport.TLS)
}

func TestNewProducer_SecureTransport(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:       []string{"kafka:9093"},
		TLS:           true,
		SASLEnabled:   true,
		SASLMechanism: "SCRAM-SHA-512",
		SASLUsername:  "phonerisk",
		SASLPassword:  "secret",
	})

	require.NoError(t, err)
	require.NotNil(t, p.transport.TLS)
	require.NotNil(t, p.transport.SASL)
	assert.Equal(t, "SCRAM-SHA-512", p.transport.SASL.Name())
}

func TestNewProducer_UnknownMechanism(t *testing.T) {
	_, err := NewProducer(Config{SASLEnabled: true, SASLMechanism: "GSSAPI"})

	assert.ErrorContains(t, err, `unsupported SASL mechanism "GSSAPI"`)
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.getOrCreateWriter("topic-a")
	w2 := p.getOrCreateWriter("topic-a")
	w3 := p.getOrCreateWriter("topic-b")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.Equal(t, "topic-b", w3.Topic)
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestMessageConversion(t *testing.T) {
	msg := Message{
		Key:     []byte("analysis-1"),
		Value:   []byte(`{"risk_score":12.5}`),
		Headers: map[string]string{"event_type": "phonerisk.analysis.completed"},
	}

	km := toKafkaMessages([]Message{msg})
	require.Len(t, km, 1)
	assert.Equal(t, []kafkago.Header{{Key: "event_type", Value: []byte("phonerisk.analysis.completed")}}, km[0].Headers)

	back := fromKafkaMessage(km[0])
	assert.Equal(t, msg, back)
}
