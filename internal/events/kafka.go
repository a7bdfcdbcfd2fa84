package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by order id so one order's events stay on one partition.
type KafkaPublisher struct {
	writer messageWriter
}

const (
	batchTimeout = 10 * time.Millisecond
	writeTimeout = 5 * time.Second
	maxAttempts  = 3
)

// NewKafkaPublisher returns an asynchronous publisher: Publish only queues the message and
// delivery failures are reported through logger.
func NewKafkaPublisher(brokersCSV, topic string, logger *log.Logger) *KafkaPublisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(SplitBrokers(brokersCSV)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		MaxAttempts:  maxAttempts,
		Completion:   completionLogger(topic, logger),
	}}
}

func completionLogger(topic string, logger *log.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range msgs {
			logger.Printf("events: deliver topic=%s key=%s error=%v", topic, m.Key, err)
		}
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt OrderEvent) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: data,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func SplitBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
