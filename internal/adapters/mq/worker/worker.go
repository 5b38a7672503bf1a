// Package worker defines worker contracts for asynchronous report exports.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mkabbani/evround/internal/adapters/mq/queue"
	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/report"
	"github.com/mkabbani/evround/pkg/logger"
	"github.com/mkabbani/evround/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 2
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// CatalogSource supplies the catalog a report document is joined against.
type CatalogSource interface {
	Get(ctx context.Context) *model.Catalog
}

// Writer persists a rendered report document.
type Writer interface {
	Write(ctx context.Context, doc report.Document) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker renders report documents off the queue until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// ExportWorker implements Worker for processing export jobs.
type ExportWorker struct {
	queue   Queue
	catalog CatalogSource
	writer  Writer
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewExportWorker creates a new worker with configuration options.
func NewExportWorker(q Queue, catalog CatalogSource, writer Writer, opts ...Option) *ExportWorker {
	w := &ExportWorker{
		queue:    q,
		catalog:  catalog,
		writer:   writer,
		name:     "export-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("export-worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run starts the worker loop.
func (w *ExportWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error exporting report", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ExportWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob renders and persists a single report document.
func (w *ExportWorker) processJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordExportDuration(float64(time.Since(start).Milliseconds()))
	}()

	doc := report.Build(job.Record, w.catalog.Get(ctx), job.Language)

	if err := w.writer.Write(ctx, doc); err != nil {
		metrics.RecordExportFailed()
		w.logger.Error(ctx, "report write failed",
			logger.String("recordID", job.Record.ID),
			logger.Error(err),
		)
		return fmt.Errorf("write report %s: %w", job.Record.ID, err)
	}

	metrics.RecordExportWritten()
	w.logger.Debug(ctx, "report exported",
		logger.String("recordID", job.Record.ID),
		logger.Int("lines", len(doc.Lines)),
	)
	return nil
}

// Pool manages multiple export workers.
type Pool struct {
	workers []*ExportWorker
	queue   Queue

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, catalog CatalogSource, writer Writer) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers:  make([]*ExportWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("export-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewExportWorker(
			q,
			catalog,
			writer,
			WithName("export-worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateExportWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire worker pool. The queue is closed
// first so buffered jobs drain before the workers stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
