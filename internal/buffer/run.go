package buffer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderjulianmartinez/delta-bq/internal/batch"
	"github.com/alexanderjulianmartinez/delta-bq/internal/cdc"
)

const (
	// stageTimeout bounds one round of staging or commit I/O. That I/O is not
	// cut short by shutdown, so a batch in flight finishes staging.
	stageTimeout         = time.Minute
	shutdownFlushTimeout = 30 * time.Second
)

// Run reads events from src until ctx is done or src fails, staging batches
// as they fill up and on every flush interval. Each batch is sent on out once
// staged; Run closes out when it returns. Whatever is still buffered is
// staged before returning. Sources implementing cdc.Committer are committed
// after every full flush once its batches have been sent.
func (b *Buffer) Run(ctx context.Context, src cdc.Source, out chan<- *batch.TableBlob) error {
	defer close(out)

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan cdc.Event)

	g.Go(func() error {
		defer close(events)
		for {
			ev, err := src.Read(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("read %s: %w", src.Name(), err)
			}
			select {
			case events <- ev:
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		r := &runner{buf: b, src: src, out: out, parent: ctx}
		ticker := time.NewTicker(b.opts.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return r.shutdown()
				}
				if err := r.add(gctx, ev); err != nil {
					return err
				}
			case <-ticker.C:
				if gctx.Err() != nil {
					// shutting down; the final flush happens once events is closed
					continue
				}
				if err := r.flush(gctx); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

// runner carries staged batches and source positions that are not yet
// delivered across shutdown, so an interrupted send is retried by the final
// flush instead of being dropped.
type runner struct {
	buf    *Buffer
	src    cdc.Source
	out    chan<- *batch.TableBlob
	parent context.Context

	held      []*batch.TableBlob
	positions []any
}

func (r *runner) stageContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.parent), timeout)
}

func (r *runner) add(sendCtx context.Context, ev cdc.Event) error {
	ioCtx, cancel := r.stageContext(stageTimeout)
	defer cancel()
	blobs, err := r.buf.Add(ioCtx, ev)
	r.held = append(r.held, blobs...)
	derr := r.deliver(sendCtx, ioCtx)
	if sendCtx.Err() != nil {
		derr = nil
	}
	return errors.Join(err, derr)
}

func (r *runner) flush(sendCtx context.Context) error {
	ioCtx, cancel := r.stageContext(stageTimeout)
	defer cancel()
	blobs, positions, err := r.buf.FlushAll(ioCtx)
	r.held = append(r.held, blobs...)
	r.positions = append(r.positions, positions...)
	derr := r.deliver(sendCtx, ioCtx)
	if sendCtx.Err() != nil {
		derr = nil
	}
	return errors.Join(err, derr)
}

func (r *runner) shutdown() error {
	ctx, cancel := r.stageContext(shutdownFlushTimeout)
	defer cancel()
	blobs, positions, err := r.buf.FlushAll(ctx)
	r.held = append(r.held, blobs...)
	r.positions = append(r.positions, positions...)
	if err := errors.Join(err, r.deliver(ctx, ctx)); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	return nil
}

// deliver sends held batches on out, then commits the held positions. Batches
// left unsent when sendCtx is done stay held, and so do the positions.
func (r *runner) deliver(sendCtx, ioCtx context.Context) error {
	for len(r.held) > 0 {
		select {
		case r.out <- r.held[0]:
			r.held = r.held[1:]
		case <-sendCtx.Done():
			return sendCtx.Err()
		}
	}
	if len(r.positions) == 0 {
		return nil
	}
	committer, ok := r.src.(cdc.Committer)
	if !ok {
		r.positions = nil
		return nil
	}
	if err := committer.Commit(ioCtx, r.positions); err != nil {
		return err
	}
	r.buf.opts.Logger.Debug("committed source positions", zap.String("source", r.src.Name()), zap.Int("events", len(r.positions)))
	r.positions = nil
	return nil
}
