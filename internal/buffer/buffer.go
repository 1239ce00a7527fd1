// Package buffer groups change events per table and stages them as batches.
package buffer

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/delta-bq/internal/batch"
	"github.com/alexanderjulianmartinez/delta-bq/internal/cdc"
	"github.com/alexanderjulianmartinez/delta-bq/internal/stage"
	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

// Columns added to every staged row.
const (
	OpColumn       = "_op"
	BatchIDColumn  = "_batch_id"
	SequenceColumn = "_sequence_num"
)

type Options struct {
	Dataset       string
	Prefix        string
	MaxEvents     int
	FlushInterval time.Duration
	// BaseBatchID is the first batch ID handed out per table. Zero means the
	// current time in milliseconds, so IDs keep growing across restarts as
	// long as a table averages less than one batch per millisecond of uptime.
	// Callers that outpace that must pass a base above the last staged ID.
	BaseBatchID int64
	Logger      *zap.Logger
}

type pending struct {
	database string
	table    string
	schema   *types.Schema
	events   []cdc.Event
}

type Buffer struct {
	store stage.Store
	opts  Options
	runID string

	mu          sync.Mutex
	pending     map[string]*pending
	lastID      map[string]int64
	uncommitted []any
}

func New(store stage.Store, opts Options) *Buffer {
	if opts.MaxEvents <= 0 {
		opts.MaxEvents = 10000
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 30 * time.Second
	}
	if opts.BaseBatchID <= 0 {
		opts.BaseBatchID = time.Now().UnixMilli()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Buffer{
		store:   store,
		opts:    opts,
		runID:   uuid.New().String(),
		pending: make(map[string]*pending),
		lastID:  make(map[string]int64),
	}
}

// StagingSchema is the schema of staged rows: the target columns followed by
// the change metadata columns.
func StagingSchema(target *types.Schema) *types.Schema {
	s := target.Clone()
	if s == nil {
		s = types.RecordOf("")
	}
	s.Fields = append(s.Fields,
		types.Field{Name: OpColumn, Schema: types.Of(types.String)},
		types.Field{Name: BatchIDColumn, Schema: types.Of(types.Long)},
		types.Field{Name: SequenceColumn, Schema: types.Of(types.Long)},
	)
	return s
}

func tableKey(database, table string) string {
	return database + "." + table
}

// Add buffers an event. It returns the batches that had to be staged to make
// room for it: the table's previous batch when the row schema changed, and
// the current one once it reaches MaxEvents.
func (b *Buffer) Add(ctx context.Context, ev cdc.Event) ([]*batch.TableBlob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var blobs []*batch.TableBlob
	key := tableKey(ev.Database, ev.Table)
	p := b.pending[key]
	if p != nil && !p.schema.Equal(ev.Schema) {
		blob, err := b.flushLocked(ctx, key)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, blob)
		p = nil
	}
	if p == nil {
		p = &pending{database: ev.Database, table: ev.Table, schema: ev.Schema.Clone()}
		b.pending[key] = p
	}
	p.events = append(p.events, ev)
	if ev.Position != nil {
		b.uncommitted = append(b.uncommitted, ev.Position)
	}

	if len(p.events) >= b.opts.MaxEvents {
		blob, err := b.flushLocked(ctx, key)
		if err != nil {
			return blobs, err
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

// FlushAll stages every pending table. On success it also returns the
// positions of all events staged since the previous FlushAll, ready to be
// committed to the source.
func (b *Buffer) FlushAll(ctx context.Context) ([]*batch.TableBlob, []any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.pending))
	for k := range b.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var blobs []*batch.TableBlob
	for _, k := range keys {
		blob, err := b.flushLocked(ctx, k)
		if err != nil {
			return blobs, nil, err
		}
		blobs = append(blobs, blob)
	}
	positions := b.uncommitted
	b.uncommitted = nil
	return blobs, positions, nil
}

// Pending reports how many events are buffered for a table.
func (b *Buffer) Pending(database, table string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pending[tableKey(database, table)]; ok {
		return len(p.events)
	}
	return 0
}

func (b *Buffer) nextBatchID(key string) int64 {
	id, ok := b.lastID[key]
	if ok {
		id++
	} else {
		id = b.opts.BaseBatchID
	}
	b.lastID[key] = id
	return id
}

func (b *Buffer) flushLocked(ctx context.Context, key string) (*batch.TableBlob, error) {
	p := b.pending[key]
	batchID := b.nextBatchID(key)

	rows := make([]map[string]any, 0, len(p.events))
	for _, ev := range p.events {
		row := make(map[string]any, len(ev.Row)+3)
		for k, v := range ev.Row {
			row[k] = v
		}
		row[OpColumn] = string(ev.Op)
		row[BatchIDColumn] = batchID
		row[SequenceColumn] = ev.Sequence
		rows = append(rows, row)
	}

	data, err := stage.EncodeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("encode batch %d of %s: %w", batchID, p.table, err)
	}
	objectKey := path.Join(b.opts.Prefix, b.opts.Dataset, p.table, fmt.Sprintf("%d-%s.jsonl.gz", batchID, b.runID))
	ref, err := b.store.Put(ctx, objectKey, data)
	if err != nil {
		return nil, fmt.Errorf("stage batch %d of %s: %w", batchID, p.table, err)
	}

	blob := batch.NewTableBlob(b.opts.Dataset, p.table, p.schema, StagingSchema(p.schema), batchID, ref)
	delete(b.pending, key)

	b.opts.Logger.Info("staged batch",
		zap.String("dataset", b.opts.Dataset),
		zap.String("table", p.table),
		zap.Int64("batch_id", batchID),
		zap.Int("events", len(p.events)),
		zap.Int("bytes", len(data)),
		zap.Stringer("blob", ref),
	)
	return blob, nil
}
