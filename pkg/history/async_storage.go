package history

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions configures batching and buffering for the async storage
type AsyncOptions struct {
	BufferSize     int           // Max writes queued in memory before falling back to a direct write
	BatchSize      int           // Target records per batch insert
	BatchTimeout   time.Duration // Max time a partial batch waits before flushing
	StorageTimeout time.Duration // Per-batch storage timeout
}

// BatchStorage persists records in bulk. Batches must be atomic: either all
// records in a batch are stored or none are.
type BatchStorage interface {
	Storage
	StoreBatch(ctx context.Context, records []Record) error
}

type pendingWrite struct {
	records []Record
	result  chan error
}

// AsyncStorage wraps a batch-capable storage and coalesces writes into
// batches on a background goroutine. Store blocks until its batch lands, so
// callers still observe storage failures; the win is fewer round trips, not
// fire-and-forget. Queries pass through to the underlying storage and may
// not see records still waiting in a batch.
type AsyncStorage struct {
	backend BatchStorage
	writes  chan pendingWrite
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	options AsyncOptions
}

// NewAsyncStorage creates an async wrapper around the given storage. The
// returned close function flushes pending batches; call it on shutdown to
// avoid losing records.
func NewAsyncStorage(backend BatchStorage, opts AsyncOptions) (*AsyncStorage, func(context.Context) error) {
	if backend == nil {
		panic("history: batch storage cannot be nil")
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout == 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout == 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	as := &AsyncStorage{
		backend: backend,
		writes:  make(chan pendingWrite, opts.BufferSize),
		done:    make(chan struct{}),
		options: opts,
	}

	as.wg.Add(1)
	go as.worker()

	return as, as.Close
}

// Store enqueues the record and blocks until its batch lands. After Close it
// returns ErrStorageNotAvailable. The read lock is held across the enqueue so
// Close cannot mark the storage closed while a send is in flight.
func (as *AsyncStorage) Store(ctx context.Context, record Record) error {
	result := make(chan error, 1)

	as.mu.RLock()
	if as.closed {
		as.mu.RUnlock()
		return ErrStorageNotAvailable
	}

	select {
	case as.writes <- pendingWrite{records: []Record{record}, result: result}:
		as.mu.RUnlock()
		select {
		case err := <-result:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		as.mu.RUnlock()
		// Buffer full: write directly rather than dropping the record.
		return as.backend.StoreBatch(ctx, []Record{record})
	}
}

func (as *AsyncStorage) Query(ctx context.Context, criteria Criteria) ([]Record, error) {
	return as.backend.Query(ctx, criteria)
}

// Count delegates to the backend when it supports optimized counting
func (as *AsyncStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if counter, ok := as.backend.(StorageCounter); ok {
		return counter.Count(ctx, criteria)
	}
	records, err := as.backend.Query(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (as *AsyncStorage) worker() {
	defer as.wg.Done()

	batch := make([]Record, 0, as.options.BatchSize)
	waiting := make([]chan error, 0, as.options.BatchSize)
	ticker := time.NewTicker(as.options.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		// Storage runs against a fresh context so a caller timeout cannot
		// abort a batch carrying other callers' records.
		ctx, cancel := context.WithTimeout(context.Background(), as.options.StorageTimeout)
		err := as.backend.StoreBatch(ctx, batch)
		cancel()

		for _, result := range waiting {
			select {
			case result <- err:
			default:
			}
		}
		batch = batch[:0]
		waiting = waiting[:0]
	}

	for {
		select {
		case w := <-as.writes:
			batch = append(batch, w.records...)
			waiting = append(waiting, w.result)
			if len(batch) >= as.options.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-as.done:
			// The closed flag already blocks new producers, so the channel
			// stays open and a straggling Store cannot panic; anything that
			// made it into the buffer drains into the final flush.
			for {
				select {
				case w := <-as.writes:
					batch = append(batch, w.records...)
					waiting = append(waiting, w.result)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close shuts the worker down and flushes pending batches. Safe to call more
// than once. The context bounds how long the flush may take.
func (as *AsyncStorage) Close(ctx context.Context) error {
	as.mu.Lock()
	if as.closed {
		as.mu.Unlock()
		return nil
	}
	as.closed = true
	as.mu.Unlock()

	close(as.done)

	finished := make(chan struct{})
	go func() {
		as.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
