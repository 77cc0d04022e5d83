package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/repository"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// AuditRecorderConfig holds tuning for the async audit pipeline.
type AuditRecorderConfig struct {
	// BufferSize is the size of the async entry buffer (default: 1000)
	BufferSize int
	// FlushInterval is how often a partial batch is flushed (default: 5 seconds)
	FlushInterval time.Duration
	// BatchSize is the maximum entries per storage write (default: 100)
	BatchSize int
	// FlushTimeout bounds each storage write (default: 10 seconds)
	FlushTimeout time.Duration
}

// AuditRecorder appends audit entries asynchronously. Record never
// blocks the caller: entries are buffered and flushed in batches by a
// background worker. Audit writes are best-effort; a full buffer or a
// failed flush is logged and dropped without affecting the operation
// that produced the entry.
type AuditRecorder struct {
	config  AuditRecorderConfig
	repo    repository.AuditRepository
	log     *logger.Logger
	buffer  chan *domain.AuditLogEntry
	dropped atomic.Int64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewAuditRecorder creates a recorder and starts its flush worker.
func NewAuditRecorder(repo repository.AuditRepository, log *logger.Logger, config AuditRecorderConfig) *AuditRecorder {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.FlushTimeout <= 0 {
		config.FlushTimeout = 10 * time.Second
	}

	r := &AuditRecorder{
		config: config,
		repo:   repo,
		log:    log,
		buffer: make(chan *domain.AuditLogEntry, config.BufferSize),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record buffers an entry without blocking. When the buffer is full
// the entry is dropped and counted.
func (r *AuditRecorder) Record(entry *domain.AuditLogEntry) {
	select {
	case r.buffer <- entry:
	default:
		r.dropped.Add(1)
		r.log.Warn("audit buffer full, entry dropped",
			zap.String("action", string(entry.Action)),
			zap.String("resource_id", entry.ResourceID))
	}
}

// Dropped returns how many entries were discarded due to a full buffer
// or a failed flush.
func (r *AuditRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close drains the buffer, flushes the final batch and stops the worker.
func (r *AuditRecorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.buffer)
		r.wg.Wait()
	})
	return nil
}

func (r *AuditRecorder) worker() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]*domain.AuditLogEntry, 0, r.config.BatchSize)

	for {
		select {
		case entry, ok := <-r.buffer:
			if !ok {
				// Drained; flush what remains and exit.
				r.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= r.config.BatchSize {
				r.flush(batch)
				batch = make([]*domain.AuditLogEntry, 0, r.config.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = make([]*domain.AuditLogEntry, 0, r.config.BatchSize)
			}
		}
	}
}

func (r *AuditRecorder) flush(entries []*domain.AuditLogEntry) {
	if len(entries) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.FlushTimeout)
	defer cancel()

	if err := r.repo.InsertMany(ctx, entries); err != nil {
		r.dropped.Add(int64(len(entries)))
		r.log.Error("audit batch flush failed",
			zap.Int("batch_size", len(entries)),
			zap.Error(err))
	}
}
