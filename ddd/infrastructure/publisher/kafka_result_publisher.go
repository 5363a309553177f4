package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"video-pipeline-service/ddd/domain/gateway"
	"video-pipeline-service/ddd/domain/vo"
	"video-pipeline-service/pkg/config"
	"video-pipeline-service/pkg/kafka"
	"video-pipeline-service/pkg/logger"
)

// KafkaResultPublisher implements gateway.ResultPublisher on the shared
// kafka client. Disabled kafka yields a no-op publisher.
type KafkaResultPublisher struct {
	client *kafka.Client
	topic  string
}

// NewKafkaResultPublisher creates the publisher, nil when kafka is
// disabled in configuration.
func NewKafkaResultPublisher(cfg *config.Config) gateway.ResultPublisher {
	if cfg == nil || !cfg.Kafka.Enabled {
		return nil
	}
	return &KafkaResultPublisher{
		client: kafka.DefaultClient(),
		topic:  cfg.Kafka.Topics.VideoProcessed,
	}
}

func (p *KafkaResultPublisher) PublishProcessed(ctx context.Context, event vo.ProcessedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal processed event: %w", err)
	}
	if err := p.client.Produce(ctx, p.topic, []byte(event.AssetID), payload); err != nil {
		return fmt.Errorf("produce processed event: %w", err)
	}
	logger.Infof("processed event published asset_id=%s succeeded=%t variants=%d",
		event.AssetID, event.Succeeded, event.VariantCount)
	return nil
}
