// Package batch describes staged change data waiting to be loaded into the
// warehouse.
package batch

import (
	"context"

	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

// BlobRef identifies where a batch's staged bytes live. Only the loader
// resolves it.
type BlobRef interface {
	String() string
}

// TableBlob is a batch of events for one table, staged as a blob. It is
// read-only once built and safe to share between goroutines.
type TableBlob struct {
	dataset       string
	table         string
	targetSchema  *types.Schema
	stagingSchema *types.Schema
	batchID       int64
	blob          BlobRef
}

func NewTableBlob(dataset, table string, targetSchema, stagingSchema *types.Schema, batchID int64, blob BlobRef) *TableBlob {
	return &TableBlob{
		dataset:       dataset,
		table:         table,
		targetSchema:  targetSchema.Clone(),
		stagingSchema: stagingSchema.Clone(),
		batchID:       batchID,
		blob:          blob,
	}
}

func (b *TableBlob) Dataset() string {
	return b.dataset
}

func (b *TableBlob) Table() string {
	return b.table
}

func (b *TableBlob) TargetSchema() *types.Schema {
	return b.targetSchema.Clone()
}

func (b *TableBlob) StagingSchema() *types.Schema {
	return b.stagingSchema.Clone()
}

func (b *TableBlob) BatchID() int64 {
	return b.batchID
}

func (b *TableBlob) Blob() BlobRef {
	return b.blob
}

// Key identifies a batch across producers and consumers.
type Key struct {
	Dataset string
	Table   string
	BatchID int64
}

func (b *TableBlob) Key() Key {
	return Key{Dataset: b.dataset, Table: b.table, BatchID: b.batchID}
}

// Loader applies a staged batch to its warehouse table.
type Loader interface {
	Load(ctx context.Context, blob *TableBlob) error
}
