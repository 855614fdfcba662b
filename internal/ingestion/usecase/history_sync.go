package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"loopback-backend/internal/ingestion/domain"
	"loopback-backend/internal/ingestion/repository"
)

// userCache resolves authors at most once per sweep. Shared across sync
// workers; a duplicate lookup race between check and insert is harmless
// because the user upsert is idempotent.
type userCache struct {
	provider domain.ChatProvider
	userRepo repository.UserRepository
	mu       sync.Mutex
	seen     map[string]bool
}

func newUserCache(provider domain.ChatProvider, userRepo repository.UserRepository) *userCache {
	return &userCache{
		provider: provider,
		userRepo: userRepo,
		seen:     make(map[string]bool),
	}
}

// resolve upserts the author the first time it is seen in this sweep.
func (c *userCache) resolve(ctx context.Context, userID string) error {
	c.mu.Lock()
	hit := c.seen[userID]
	c.mu.Unlock()
	if hit {
		return nil
	}

	member, err := c.provider.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	user := &domain.SlackUser{
		ID:       member.ID,
		Name:     member.Name,
		RealName: member.RealName,
		Email:    member.Email,
	}
	if err := c.userRepo.UpsertUser(user); err != nil {
		return err
	}

	c.mu.Lock()
	c.seen[userID] = true
	c.mu.Unlock()
	return nil
}

// syncChannel fetches everything newer than the channel's watermark, expands
// threads, persists one idempotent batch and only then advances the
// watermark. On any error the watermark stays put so the next sweep retries
// the same range: at-least-once, never at-most-once.
func (u *ingestUsecase) syncChannel(ctx context.Context, ch *domain.Channel, cache *userCache) (int, error) {
	history, err := u.provider.GetHistory(ctx, ch.ID, ch.LastIngestedTS)
	if err != nil {
		return 0, fmt.Errorf("history fetch: %w", err)
	}

	raw := make([]domain.ConversationMessage, 0, len(history))
	for _, m := range history {
		raw = append(raw, m)
		if m.ReplyCount > 0 {
			replies, err := u.provider.GetReplies(ctx, ch.ID, m.TS)
			if err != nil {
				return 0, fmt.Errorf("thread fetch for %s: %w", m.TS, err)
			}
			for _, r := range replies {
				// The replies endpoint returns the parent itself; it is
				// already staged from the history fetch.
				if r.TS == m.TS {
					continue
				}
				raw = append(raw, r)
			}
		}
	}

	maxNum := domain.ParseTS(ch.LastIngestedTS)
	maxTS := ""
	staged := make([]*domain.Message, 0, len(raw))

	for _, m := range raw {
		// System and bot events carry neither author nor text.
		if m.User == "" && m.Text == "" {
			continue
		}

		if m.User != "" {
			if err := cache.resolve(ctx, m.User); err != nil {
				log.Printf("[Ingest] User lookup %s failed: %v", m.User, err)
			}
		}

		staged = append(staged, &domain.Message{
			ID:        domain.MessageID(ch.ID, m.TS),
			ChannelID: ch.ID,
			UserID:    m.User,
			Text:      m.Text,
			TS:        m.TS,
			TSNumeric: domain.ParseTS(m.TS),
		})

		if num := domain.ParseTS(m.TS); num > maxNum {
			maxNum = num
			maxTS = m.TS
		}
	}

	if len(staged) == 0 {
		return 0, nil
	}

	if err := u.messageRepo.UpsertMessages(staged); err != nil {
		return 0, fmt.Errorf("persist %d messages: %w", len(staged), err)
	}

	// Persist first, advance second. A crash in between only means
	// duplicate work next sweep, which the upsert absorbs.
	if maxTS != "" {
		if err := u.channelRepo.AdvanceWatermark(ch.ID, maxTS); err != nil {
			log.Printf("[Ingest] Failed to advance watermark for %s: %v", ch.ID, err)
		}
	}

	return len(staged), nil
}
