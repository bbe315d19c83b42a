package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/markdave123-py/bharathi/internal/core/ingestion_engine"
)

// ErrQueueFull is returned by Enqueue when the job queue has no free slot.
var ErrQueueFull = errors.New("ingest queue is full")

const defaultQueueSize = 64

// IngestJob is one queued ingestion request.
type IngestJob struct {
	CompanyID string
	Replace   *bool
}

// IngestService serializes ingestion per company and runs queued jobs on a
// fixed pool of workers.
type IngestService struct {
	ingestor ingestion_engine.Ingestor
	log      *zap.Logger
	jobs     chan IngestJob
	workers  sync.WaitGroup

	mu    sync.Mutex
	locks map[string]*companyLock
}

// companyLock is reference counted so idle entries can be dropped.
type companyLock struct {
	mu   sync.Mutex
	refs int
}

func NewIngestService(ing ingestion_engine.Ingestor, log *zap.Logger) *IngestService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestService{
		ingestor: ing,
		log:      log.Named("ingest_service"),
		jobs:     make(chan IngestJob, defaultQueueSize),
		locks:    make(map[string]*companyLock),
	}
}

// Ingest runs one ingestion synchronously. Calls for the same company wait
// for each other; calls for different companies run in parallel.
func (s *IngestService) Ingest(ctx context.Context, companyID string, replace *bool) (*ingestion_engine.IngestReport, error) {
	unlock := s.lock(companyID)
	defer unlock()

	var opts []ingestion_engine.IngestOption
	if replace != nil {
		opts = append(opts, ingestion_engine.WithReplace(*replace))
	}
	return s.ingestor.Ingest(ctx, companyID, opts...)
}

// Start runs numWorkers goroutines that drain the job queue until ctx is done.
// A job already running when ctx ends is finished first; see Wait.
func (s *IngestService) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for w := 1; w <= numWorkers; w++ {
		s.workers.Add(1)
		go func(w int) {
			defer s.workers.Done()
			for {
				select {
				case <-ctx.Done():
					s.log.Info("worker shutting down", zap.Int("worker", w))
					return
				case job := <-s.jobs:
					s.log.Info("processing company",
						zap.String("company_id", job.CompanyID),
						zap.Int("worker", w))
					if _, err := s.Ingest(ctx, job.CompanyID, job.Replace); err != nil {
						s.log.Error("queued ingestion failed",
							zap.String("company_id", job.CompanyID),
							zap.Stringer("kind", ingestion_engine.KindOf(err)),
							zap.Error(err))
					}
				}
			}
		}(w)
	}
}

// Wait blocks until every worker started by Start has returned, or ctx ends.
func (s *IngestService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue schedules a company for ingestion without blocking.
func (s *IngestService) Enqueue(job IngestJob) error {
	select {
	case s.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *IngestService) lock(companyID string) func() {
	s.mu.Lock()
	l, ok := s.locks[companyID]
	if !ok {
		l = &companyLock{}
		s.locks[companyID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, companyID)
		}
		s.mu.Unlock()
	}
}
