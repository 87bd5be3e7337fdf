package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaProducerValidates(t *testing.T) {
	_, err := NewKafkaProducer(KafkaConfig{Topic: "yatube.follow"})
	assert.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewKafkaProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}})
	assert.ErrorIs(t, err, ErrNoTopic)

	p, err := NewKafkaProducer(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}, Topic: "yatube.follow"})
	require.NoError(t, err)
	assert.Equal(t, "yatube.follow", p.Topic())
	assert.NoError(t, p.Close())
}

func TestEventMessage(t *testing.T) {
	msg := Event{PartitionID: 42, Type: "follow", Payload: []byte(`{"a":1}`)}.message()

	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, `{"a":1}`, string(msg.Value))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event", msg.Headers[0].Key)
	assert.Equal(t, "follow", string(msg.Headers[0].Value))
}
