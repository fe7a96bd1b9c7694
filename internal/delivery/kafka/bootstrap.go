package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/SAMSHUVA/world-ai-robotics-summit-sub002/internal/config"
)

// EnsureTopics creates every event topic if it does not exist yet.
func EnsureTopics(ctx context.Context, client *kgo.Client, cfg *config.Config, logger *slog.Logger) error {
	adm := kadm.NewClient(client)

	partitions := cfg.TopicPartitions()
	replicationFactor := cfg.ReplicationFactor()

	for _, topic := range Topics {
		resp, err := adm.CreateTopics(ctx, int32(partitions), replicationFactor, nil, topic)
		if err != nil {
			return fmt.Errorf("failed to create topic %s: %w", topic, err)
		}
		for _, detail := range resp {
			if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
				return fmt.Errorf("failed to create topic %s: %w", detail.Topic, detail.Err)
			}
		}
	}

	logger.Info("all event topics ensured", "count", len(Topics))
	return nil
}
