package scheduler

import (
	"context"
	"log"
	"time"

	"loopback-backend/internal/ingestion/usecase"
)

// Tagger runs one classification batch.
type Tagger interface {
	ClassifyPending(ctx context.Context, batchSize int) (int, error)
}

// IngestScheduler periodically triggers an ingestion sweep and,
// independently, a classification batch. The two stay decoupled: a failed
// sweep does not stop classification of already stored messages and vice
// versa.
type IngestScheduler struct {
	ingestUsecase usecase.IngestUsecase
	tagger        Tagger
	interval      time.Duration
	batchSize     int
	stopChan      chan struct{}
}

// NewIngestScheduler creates a new scheduler
func NewIngestScheduler(ingestUc usecase.IngestUsecase, tagger Tagger, interval time.Duration, batchSize int) *IngestScheduler {
	return &IngestScheduler{
		ingestUsecase: ingestUc,
		tagger:        tagger,
		interval:      interval,
		batchSize:     batchSize,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *IngestScheduler) Start() {
	if s.interval <= 0 {
		log.Println("[IngestScheduler] Interval not configured, scheduler disabled")
		return
	}

	log.Printf("[IngestScheduler] Starting periodic ingestion (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.runOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stopChan:
				log.Println("[IngestScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *IngestScheduler) Stop() {
	close(s.stopChan)
}

func (s *IngestScheduler) runOnce() {
	ctx := context.Background()

	if _, err := s.ingestUsecase.RunSweep(ctx); err != nil {
		log.Printf("[IngestScheduler] Sweep failed: %v", err)
	}

	if s.tagger != nil {
		tagged, err := s.tagger.ClassifyPending(ctx, s.batchSize)
		if err != nil {
			log.Printf("[IngestScheduler] Classification batch failed: %v", err)
		} else if tagged > 0 {
			log.Printf("[IngestScheduler] Tagged %d messages", tagged)
		}
	}
}
