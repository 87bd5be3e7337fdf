package pkg

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	ErrNoBrokers = errors.New("kafka: no brokers configured")
	ErrNoTopic   = errors.New("kafka: topic is empty")
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaProducer 关注事件生产者，按用户 id 做 hash 分区
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, ErrNoTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Topic() string { return p.topic }

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Event 一条待投递的领域事件
type Event struct {
	PartitionID uint64 // 同一 id 落到同一分区，保证单个用户的事件有序
	Type        string
	Payload     []byte
}

func (e Event) message() kafka.Message {
	return kafka.Message{
		Key:     []byte(strconv.FormatUint(e.PartitionID, 10)),
		Value:   e.Payload,
		Headers: []kafka.Header{{Key: "event", Value: []byte(e.Type)}},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, e.message())
	}
	return p.writer.WriteMessages(ctx, msgs...)
}
