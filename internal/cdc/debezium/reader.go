package debezium

import (
	"context"
	"fmt"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/delta-bq/internal/cdc"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader consumes Debezium change topics as a Kafka consumer group.
type Reader struct {
	r      messageReader
	logger *zap.Logger
}

var (
	_ cdc.Source    = (*Reader)(nil)
	_ cdc.Committer = (*Reader)(nil)
)

func New(brokers, topics []string, groupID string, logger *zap.Logger) (*Reader, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers provided")
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("no kafka topics provided")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
	})
	return &Reader{r: r, logger: logger}, nil
}

func (r *Reader) Name() string {
	return "debezium"
}

// Read returns the next change event. Tombstones are skipped; they only
// matter for log compaction.
func (r *Reader) Read(ctx context.Context) (cdc.Event, error) {
	for {
		m, err := r.r.FetchMessage(ctx)
		if err != nil {
			return cdc.Event{}, err
		}
		if len(m.Value) == 0 {
			r.logger.Debug("skipping tombstone", zap.String("topic", m.Topic), zap.Int64("offset", m.Offset))
			continue
		}
		ev, err := Decode(m.Value)
		if err != nil {
			return cdc.Event{}, fmt.Errorf("topic %s partition %d offset %d: %w", m.Topic, m.Partition, m.Offset, err)
		}
		ev.Sequence = m.Offset
		ev.Position = m
		return ev, nil
	}
}

// Commit acknowledges the messages behind the given event positions.
func (r *Reader) Commit(ctx context.Context, positions []any) error {
	msgs := make([]kafka.Message, 0, len(positions))
	for _, p := range positions {
		if m, ok := p.(kafka.Message); ok {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := r.r.CommitMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("commit offsets: %w", err)
	}
	return nil
}

func (r *Reader) Close() error {
	return r.r.Close()
}
