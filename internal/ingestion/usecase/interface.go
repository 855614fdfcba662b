package usecase

import (
	"context"

	"loopback-backend/internal/ingestion/domain"
)

// SweepSummary is the outcome of one ingestion sweep.
type SweepSummary struct {
	RunID    string `json:"run_id"`
	Channels int    `json:"channels"`
	Messages int    `json:"messages"`
}

// IngestUsecase drives the ingestion pipeline: discovery, per-channel
// incremental sync and run tracking.
type IngestUsecase interface {
	// RunSweep executes one full sweep: discover conversations, sync each
	// one incrementally, record the run. Safe to invoke repeatedly.
	RunSweep(ctx context.Context) (*SweepSummary, error)
	// ListRecentRuns returns the latest sweep records, newest first.
	ListRecentRuns(limit int) ([]*domain.IngestRun, error)
}
