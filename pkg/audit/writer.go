package audit

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions tunes AsyncWriter batching.
type AsyncOptions struct {
	BufferSize     int           // queued records before Store falls back to a direct write
	BatchSize      int           // records per StoreBatch call
	BatchTimeout   time.Duration // max wait for a partial batch
	StorageTimeout time.Duration // per StoreBatch call
}

// AsyncWriter collects records from concurrent callers into batches. Store
// blocks until the batch holding the record is written.
type AsyncWriter struct {
	storage Storage
	queue   chan pending
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	opts    AsyncOptions
}

type pending struct {
	record Record
	result chan error
}

func NewAsyncWriter(storage Storage, opts AsyncOptions) *AsyncWriter {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	w := &AsyncWriter{
		storage: storage,
		queue:   make(chan pending, opts.BufferSize),
		done:    make(chan struct{}),
		opts:    opts,
	}
	w.wg.Add(1)
	go w.run()
	return w
}

func (w *AsyncWriter) Store(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	select {
	case <-w.done:
		return ErrStorageNotAvailable
	default:
	}

	p := pending{record: r, result: make(chan error, 1)}
	select {
	case w.queue <- p:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return ErrStorageNotAvailable
	default:
		// Queue full: write directly rather than drop the record.
		return w.storage.StoreBatch(ctx, []Record{r})
	}

	select {
	case err := <-p.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *AsyncWriter) run() {
	defer w.wg.Done()

	batch := make([]pending, 0, w.opts.BatchSize)
	ticker := time.NewTicker(w.opts.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		records := make([]Record, len(batch))
		for i, p := range batch {
			records[i] = p.record
		}

		// Callers may have given up; the batch is written regardless.
		ctx, cancel := context.WithTimeout(context.Background(), w.opts.StorageTimeout)
		err := w.storage.StoreBatch(ctx, records)
		cancel()

		for _, p := range batch {
			p.result <- err
		}
		clear(batch)
		batch = batch[:0]
	}

	for {
		select {
		case p := <-w.queue:
			batch = append(batch, p)
			if len(batch) >= w.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-w.done:
			for {
				select {
				case p := <-w.queue:
					batch = append(batch, p)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops accepting records and flushes what is queued. It returns
// ctx.Err() if the flush does not finish in time.
func (w *AsyncWriter) Close(ctx context.Context) error {
	w.once.Do(func() { close(w.done) })

	flushed := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
