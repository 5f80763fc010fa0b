package repository

import (
	"context"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	pkgkafka "github.com/URF365LLC/forex-decision-engine--sub001/pkg/kafka"
)

// KafkaDetectionPublisher fans new detections out on a Kafka topic. It also
// satisfies the log collector's Publisher interface so aggregated logs
// share the same producer.
type KafkaDetectionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaDetectionPublisher(producer *pkgkafka.Producer, topic string) *KafkaDetectionPublisher {
	return &KafkaDetectionPublisher{producer: producer, topic: topic}
}

func (p *KafkaDetectionPublisher) Publish(ctx context.Context, d *models.Detection) error {
	return p.producer.Publish(ctx, p.topic, []byte(d.Symbol), d)
}

// PublishMessage implements logger.Publisher for the collection pipeline.
func (p *KafkaDetectionPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaDetectionPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
