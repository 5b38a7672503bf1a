// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	exportqueue "github.com/mkabbani/evround/internal/adapters/mq/queue"
	workerpool "github.com/mkabbani/evround/internal/adapters/mq/worker"
	"github.com/mkabbani/evround/internal/adapters/repository"
	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/report"
	"github.com/mkabbani/evround/internal/domain/session"
	"github.com/mkabbani/evround/internal/domain/stats"
	"github.com/mkabbani/evround/internal/domain/types"
	"github.com/mkabbani/evround/pkg/logger"
	"github.com/mkabbani/evround/pkg/metrics"
)

// Service wires the catalog, open sessions, history and the export pipeline
// behind one facade for the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog     repository.CatalogStore
	history     *repository.MemoryHistory
	exportQueue exportqueue.Queue
	exportPool  *workerpool.Pool
	sessions    map[string]*session.Controller

	// Configuration
	seed        *model.Catalog
	workerCount int
	queueSize   int
	exportDir   string
	now         func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSeedCatalog sets the catalog loaded at startup.
func WithSeedCatalog(c *model.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.seed = c
		}
	}
}

// WithWorkerCount sets the number of export worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the export queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithExportDir sets the directory report documents are written to.
func WithExportDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.exportDir = dir
		}
	}
}

// WithClock injects the time source, used by stats windows and sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:    make(map[string]*session.Controller),
		workerCount: 2,
		queueSize:   1024,
		exportDir:   "exports",
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting inspection service...")

	if s.seed == nil {
		empty, err := model.NewCatalog(nil, nil, nil)
		if err != nil {
			return fmt.Errorf("build empty catalog: %w", err)
		}
		s.seed = empty
	}

	catalog, err := repository.NewMemoryCatalog(s.seed)
	if err != nil {
		return fmt.Errorf("init catalog store: %w", err)
	}
	s.catalog = catalog

	s.history = repository.NewMemoryHistory(ctx)

	writer, err := workerpool.NewFileWriter(s.exportDir)
	if err != nil {
		return fmt.Errorf("init report writer: %w", err)
	}

	s.exportQueue = exportqueue.NewInMemoryQueue(
		exportqueue.WithCapacity(s.queueSize),
		exportqueue.WithBufferSize(s.queueSize),
	)
	s.exportPool = workerpool.NewPool(s.workerCount, s.exportQueue, catalog, writer)
	s.exportPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "inspection service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("exportDir", s.exportDir),
		logger.Int("inspectors", len(s.seed.Inspectors)),
		logger.Int("zones", len(s.seed.Zones)),
		logger.Int("checklistItems", len(s.seed.Checklists)),
	)

	return nil
}

// Stop gracefully shuts down the service. Buffered export jobs drain first.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping inspection service...")

	if s.exportPool != nil {
		_ = s.exportPool.Shutdown(ctx)
	}
	if s.history != nil {
		_ = s.history.Close()
	}

	s.sessions = make(map[string]*session.Controller)
	metrics.UpdateOpenSessions(0)

	s.started = false
	s.logger.Info(ctx, "inspection service stopped")
}

// CreateSession opens a new inspection session and returns its id.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return "", ErrNotStarted
	}

	id := uuid.NewString()
	s.sessions[id] = session.New(s.catalog.Get(ctx), s.history,
		session.WithClock(s.now),
		session.WithLogger(s.logger),
	)

	metrics.RecordSessionStarted()
	metrics.UpdateOpenSessions(len(s.sessions))
	return id, nil
}

// Session returns the controller for an open session id.
func (s *Service) Session(id string) (*session.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctrl, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ctrl, nil
}

// CloseSession cancels and removes an open session.
func (s *Service) CloseSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	ctrl.Cancel()
	delete(s.sessions, id)

	metrics.RecordSessionCancelled()
	metrics.UpdateOpenSessions(len(s.sessions))
	return nil
}

// Submit finalizes a session into a history record and queues the report
// export. The session stays open in its summary state for review.
func (s *Service) Submit(ctx context.Context, sessionID string, lang types.Language) (model.InspectionRecord, error) {
	ctrl, err := s.Session(sessionID)
	if err != nil {
		return model.InspectionRecord{}, err
	}

	start := time.Now()
	rec, err := ctrl.Submit(ctx)
	if err != nil {
		var incomplete *session.IncompleteError
		if errors.As(err, &incomplete) {
			metrics.RecordIncompleteRejection()
		}
		return model.InspectionRecord{}, err
	}
	metrics.RecordInspectionSubmitted()
	metrics.RecordSubmitDuration(float64(time.Since(start).Milliseconds()))

	if !s.exportQueue.Enqueue(ctx, exportqueue.Job{
		Record:     rec,
		Language:   lang,
		EnqueuedAt: s.now(),
	}) {
		s.logger.Warn(ctx, "export queue full, report not exported",
			logger.String("recordID", rec.ID),
		)
	}

	return rec, nil
}

// Catalog returns a snapshot of the current configuration.
func (s *Service) Catalog(ctx context.Context) *model.Catalog {
	return s.catalog.Get(ctx)
}

// CatalogStore exposes the mutable catalog for admin handlers.
func (s *Service) CatalogStore() repository.CatalogStore {
	return s.catalog
}

// ImportCatalog parses and atomically applies a configuration document.
// A rejected document leaves the current catalog untouched; open sessions
// keep the snapshot they started with.
func (s *Service) ImportCatalog(ctx context.Context, data []byte) error {
	c, err := model.ParseCatalog(data)
	if err != nil {
		metrics.RecordImportFailed()
		s.logger.Warn(ctx, "configuration import rejected", logger.Error(err))
		return err
	}

	if err := s.catalog.Replace(ctx, c); err != nil {
		metrics.RecordImportFailed()
		return err
	}

	s.logger.Info(ctx, "configuration imported",
		logger.Int("inspectors", len(c.Inspectors)),
		logger.Int("zones", len(c.Zones)),
		logger.Int("checklistItems", len(c.Checklists)),
	)
	return nil
}

// ExportCatalog serializes the current configuration for download.
func (s *Service) ExportCatalog(ctx context.Context) ([]byte, error) {
	return s.catalog.Get(ctx).Export()
}

// Records returns the full inspection history, newest first.
func (s *Service) Records(ctx context.Context) ([]model.InspectionRecord, error) {
	if s.history == nil {
		return nil, ErrNotStarted
	}
	return s.history.List(ctx)
}

// Record returns one history record by reference id.
func (s *Service) Record(ctx context.Context, id string) (model.InspectionRecord, error) {
	if s.history == nil {
		return model.InspectionRecord{}, ErrNotStarted
	}
	return s.history.Get(ctx, id)
}

// InspectorStats aggregates one inspector's records inside a window.
func (s *Service) InspectorStats(ctx context.Context, inspectorName string, w stats.Window) (stats.Summary, error) {
	records, err := s.windowed(ctx, inspectorName, w)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(records), nil
}

// InspectorTrend returns the per-day mean percentages for one inspector
// inside a window, chronological.
func (s *Service) InspectorTrend(ctx context.Context, inspectorName string, w stats.Window) ([]stats.TrendPoint, error) {
	records, err := s.windowed(ctx, inspectorName, w)
	if err != nil {
		return nil, err
	}
	return stats.DailyTrend(records), nil
}

func (s *Service) windowed(ctx context.Context, inspectorName string, w stats.Window) ([]model.InspectionRecord, error) {
	if s.history == nil {
		return nil, ErrNotStarted
	}
	records, err := s.history.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Filter(records, inspectorName, w, s.now())
}

// Report joins a history record with the current catalog into a document.
func (s *Service) Report(ctx context.Context, recordID string, lang types.Language) (report.Document, error) {
	rec, err := s.Record(ctx, recordID)
	if err != nil {
		return report.Document{}, err
	}
	return report.Build(rec, s.catalog.Get(ctx), lang), nil
}

// ExportReport queues a re-export of an existing record's document.
func (s *Service) ExportReport(ctx context.Context, recordID string, lang types.Language) error {
	rec, err := s.Record(ctx, recordID)
	if err != nil {
		return err
	}
	if !s.exportQueue.Enqueue(ctx, exportqueue.Job{Record: rec, Language: lang, EnqueuedAt: s.now()}) {
		return ErrExportQueueFull
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.exportQueue.Len(ctx)
		recordCount := s.history.Count(ctx)
		catalog := s.catalog.Get(ctx)

		out["openSessions"] = len(s.sessions)
		out["exportQueueLength"] = queueLen
		out["recordCount"] = recordCount
		out["inspectors"] = len(catalog.Inspectors)
		out["zones"] = len(catalog.Zones)
		out["checklistItems"] = len(catalog.Checklists)

		metrics.UpdateOpenSessions(len(s.sessions))
		metrics.UpdateRecordCount(recordCount)
	}

	return out
}
