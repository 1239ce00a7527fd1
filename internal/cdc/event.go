package cdc

import (
	"context"

	"github.com/alexanderjulianmartinez/delta-bq/pkg/types"
)

type Op string

const (
	OpCreate   Op = "c"
	OpUpdate   Op = "u"
	OpDelete   Op = "d"
	OpSnapshot Op = "r"
)

// Event is a single row change captured from the source database.
type Event struct {
	Database string
	Table    string
	Op       Op
	Sequence int64
	Schema   *types.Schema  // record schema of Row
	Row      map[string]any // after image, or before image for deletes

	// Position is source specific and handed back to Committer.
	Position any
}

// Source yields change events. Read blocks until an event is available or
// ctx is done.
type Source interface {
	Name() string
	Read(ctx context.Context) (Event, error)
	Close() error
}

// Committer is implemented by sources that can acknowledge events once they
// are durably staged.
type Committer interface {
	Commit(ctx context.Context, positions []any) error
}
