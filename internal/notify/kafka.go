package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// AlertEvent is the message published when a heat alert is raised or
// refreshed. Downstream consumers (SMS/push fan-out, dashboards) subscribe
// to the topic; delivery mechanics are out of scope here.
type AlertEvent struct {
	City            string    `json:"city"`
	Type            string    `json:"type"`
	Severity        string    `json:"severity"`
	Message         string    `json:"message"`
	PeakTemperature float64   `json:"peakTemperature"`
	StartTime       time.Time `json:"startTime"`
	RaisedAt        time.Time `json:"raisedAt"`
}

// Producer publishes alert events to a Kafka topic, keyed by city so all
// events for one city land on the same partition.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

// PublishAlert sends one alert event.
func (p *Producer) PublishAlert(ctx context.Context, ev AlertEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode alert event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.City),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write alert event: %w", err)
	}
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
