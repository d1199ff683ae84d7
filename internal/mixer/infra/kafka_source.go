package infra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkaLib "github.com/segmentio/kafka-go"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
	"github.com/rlaaudgjs5638/mixAnalyzer/shared/logger"
)

// KafkaBatchSource drains one bounded batch of raw records from a topic
// written by the acquisition side. It stops at MaxRecords, or when the
// topic stays idle for IdleTimeout, whichever comes first — the analyzer
// works on historical batches, not an endless stream.
type KafkaBatchSource struct {
	reader      *kafkaLib.Reader
	maxRecords  int
	idleTimeout time.Duration
}

// KafkaSourceConfig configures a bounded topic drain.
type KafkaSourceConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	MaxRecords  int
	IdleTimeout time.Duration
}

// NewKafkaBatchSource builds the source. Defaults: 100k records, 5s idle.
func NewKafkaBatchSource(cfg KafkaSourceConfig) *KafkaBatchSource {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = 100_000
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 5 * time.Second
	}
	return &KafkaBatchSource{
		reader: kafkaLib.NewReader(kafkaLib.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.Topic,
			GroupID:     cfg.GroupID,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafkaLib.FirstOffset,
		}),
		maxRecords:  cfg.MaxRecords,
		idleTimeout: cfg.IdleTimeout,
	}
}

// ReadBatch consumes until the bound or idle cutoff. Messages that fail to
// decode are skipped with a warning; the normalizer would reject them
// anyway, and one bad message must not sink the batch.
func (s *KafkaBatchSource) ReadBatch(ctx context.Context) ([]domain.RawRecord, error) {
	records := make([]domain.RawRecord, 0, 1024)
	for len(records) < s.maxRecords {
		msgCtx, cancel := context.WithTimeout(ctx, s.idleTimeout)
		msg, err := s.reader.ReadMessage(msgCtx)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break // topic idle, batch complete
			}
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		var rec domain.RawRecord
		if err := json.Unmarshal(msg.Value, &rec); err != nil {
			logger.Warnf("kafka source: skipping undecodable message at offset %d: %v", msg.Offset, err)
			continue
		}
		records = append(records, rec)
	}
	logger.Infof("kafka source: drained %d records from %s", len(records), s.reader.Config().Topic)
	return records, nil
}

// Close releases the underlying reader.
func (s *KafkaBatchSource) Close() error {
	return s.reader.Close()
}
