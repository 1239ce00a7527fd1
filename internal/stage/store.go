// Package stage persists encoded batches in an object store until the loader
// picks them up.
package stage

import (
	"context"
	"errors"
	"fmt"
)

var ErrObjectNotFound = errors.New("staged object not found")

// Ref locates a staged object. It is the blob reference carried by a batch.
type Ref struct {
	Bucket string
	Key    string
}

func (r Ref) String() string {
	return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key)
}

type Store interface {
	Put(ctx context.Context, key string, data []byte) (Ref, error)
	Get(ctx context.Context, ref Ref) ([]byte, error)
	Delete(ctx context.Context, ref Ref) error
}
