package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"loopback-backend/internal/ingestion/domain"
	"loopback-backend/internal/ingestion/repository"
	"loopback-backend/pkg/slack"
)

// ingestUsecase implements IngestUsecase
type ingestUsecase struct {
	channelRepo repository.ChannelRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	runRepo     repository.RunRepository
	provider    domain.ChatProvider
	workers     int
}

// NewIngestUsecase creates a new instance of ingestUsecase
func NewIngestUsecase(
	channelRepo repository.ChannelRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	runRepo repository.RunRepository,
	provider domain.ChatProvider,
	workers int,
) IngestUsecase {
	if workers <= 0 {
		workers = 1
	}
	return &ingestUsecase{
		channelRepo: channelRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		runRepo:     runRepo,
		provider:    provider,
		workers:     workers,
	}
}

// RunSweep executes one full ingestion sweep. Discovery failures abort the
// sweep (a truncated channel list is foundational); single-channel sync
// failures are logged and contained, leaving that channel's watermark
// untouched for the next sweep.
func (u *ingestUsecase) RunSweep(ctx context.Context) (*SweepSummary, error) {
	run := &domain.IngestRun{}
	if err := u.runRepo.CreateRun(run); err != nil {
		// Observability must never threaten the sweep itself.
		log.Printf("[Ingest] Failed to record run start: %v", err)
		run.ID = ""
	}

	if err := u.discoverChannels(ctx); err != nil {
		u.finishRun(run.ID, domain.RunStatusError, 0, 0, err)
		return nil, fmt.Errorf("channel discovery failed: %w", err)
	}

	channels, err := u.channelRepo.ListChannels()
	if err != nil {
		u.finishRun(run.ID, domain.RunStatusError, 0, 0, err)
		return nil, fmt.Errorf("failed to load channels: %w", err)
	}

	cache := newUserCache(u.provider, u.userRepo)

	var processed, ingested atomic.Int64
	jobs := make(chan *domain.Channel)
	var wg sync.WaitGroup

	for i := 0; i < u.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ch := range jobs {
				n, err := u.syncChannel(ctx, ch, cache)
				processed.Add(1)
				if err != nil {
					log.Printf("[Ingest] Channel %s sync failed: %v", ch.ID, err)
					continue
				}
				ingested.Add(int64(n))
			}
		}()
	}

	// Cancellation is honored between channels, never mid-channel, so a
	// partially synced channel can still finish its persist-then-advance.
feed:
	for _, ch := range channels {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- ch:
		}
	}
	close(jobs)
	wg.Wait()

	summary := &SweepSummary{
		RunID:    run.ID,
		Channels: int(processed.Load()),
		Messages: int(ingested.Load()),
	}

	if err := ctx.Err(); err != nil {
		u.finishRun(run.ID, domain.RunStatusError, summary.Channels, summary.Messages, err)
		return nil, err
	}

	u.finishRun(run.ID, domain.RunStatusSuccess, summary.Channels, summary.Messages, nil)
	log.Printf("[Ingest] Sweep complete: %d channels, %d messages", summary.Channels, summary.Messages)
	return summary, nil
}

// discoverChannels enumerates every visible conversation, upserts its
// metadata and joins public channels the bot is not yet a member of.
func (u *ingestUsecase) discoverChannels(ctx context.Context) error {
	infos, err := u.provider.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	for _, info := range infos {
		kind := domain.KindFromFlags(info.IsIM, info.IsMPIM, info.IsPrivate)

		// DMs and group DMs come without a name; keep it null rather than
		// fabricating one.
		var name *string
		if info.Name != "" {
			n := info.Name
			name = &n
		}

		ch := &domain.Channel{
			ID:       info.ID,
			Name:     name,
			Kind:     kind,
			IsMember: info.IsMember,
		}
		if err := u.channelRepo.UpsertChannel(ch); err != nil {
			return fmt.Errorf("upsert channel %s: %w", info.ID, err)
		}

		if kind == domain.KindPublic && !info.IsMember {
			if err := u.provider.JoinConversation(ctx, info.ID); err != nil && !slack.IsAlreadyInChannel(err) {
				// Degraded but not fatal: sync for this channel may simply
				// come back empty until someone invites the bot.
				log.Printf("[Ingest] Could not join channel %s: %v", info.ID, err)
			}
		}
	}
	return nil
}

func (u *ingestUsecase) finishRun(runID, status string, channels, messages int, runErr error) {
	if runID == "" {
		return
	}
	var errMsg *string
	if runErr != nil {
		msg := runErr.Error()
		errMsg = &msg
	}
	if err := u.runRepo.FinishRun(runID, status, channels, messages, errMsg); err != nil {
		log.Printf("[Ingest] Failed to record run completion: %v", err)
	}
}

func (u *ingestUsecase) ListRecentRuns(limit int) ([]*domain.IngestRun, error) {
	return u.runRepo.ListRecentRuns(limit)
}
