package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"

	"github.com/IBM/sarama"
)

// KafkaSink publishes every event as JSON keyed by donation id, so events of
// one donation land on one partition in order.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = 5 * time.Second
	prod, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(prod, topic), nil
}

func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(_ context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(int(ev.DonationID))),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.Type)},
		},
	}
	logger.ExternalServiceCall("kafka", "SendMessage", "topic", s.topic, "eventID", ev.ID)
	partition, offset, err := s.producer.SendMessage(msg)
	logger.ExternalServiceResult("kafka", "SendMessage", err, "partition", partition, "offset", offset)
	return err
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
