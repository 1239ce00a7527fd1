package debezium

import (
	"context"
	"io"
	"testing"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKafka struct {
	msgs      []kafka.Message
	committed []kafka.Message
}

func (f *fakeKafka) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeKafka) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeKafka) Close() error { return nil }

func TestReaderSkipsTombstones(t *testing.T) {
	fk := &fakeKafka{msgs: []kafka.Message{
		{Topic: "dbserver1.shop.orders", Offset: 3, Value: nil},
		{Topic: "dbserver1.shop.orders", Offset: 4, Value: message("c", "null", afterRow)},
	}}
	r := &Reader{r: fk, logger: zap.NewNop()}

	ev, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "orders", ev.Table)
	assert.Equal(t, int64(4), ev.Sequence)

	require.NoError(t, r.Commit(context.Background(), []any{ev.Position, "ignored"}))
	require.Len(t, fk.committed, 1)
	assert.Equal(t, int64(4), fk.committed[0].Offset)

	_, err = r.Read(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderDecodeErrorNamesMessage(t *testing.T) {
	fk := &fakeKafka{msgs: []kafka.Message{{Topic: "t", Partition: 1, Offset: 9, Value: []byte(`{}`)}}}
	r := &Reader{r: fk, logger: zap.NewNop()}

	_, err := r.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSchema)
	assert.Contains(t, err.Error(), "topic t partition 1 offset 9")
}

func TestNewRequiresBrokersAndTopics(t *testing.T) {
	_, err := New(nil, []string{"t"}, "g", nil)
	require.Error(t, err)
	_, err = New([]string{"localhost:9092"}, nil, "g", nil)
	require.Error(t, err)
}
