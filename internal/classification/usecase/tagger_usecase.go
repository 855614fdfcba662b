package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"loopback-backend/internal/classification/domain"
	"loopback-backend/internal/classification/repository"
	"loopback-backend/pkg/ai"
)

// currentTagVersion is bumped when the facet schema changes, so a future
// re-classification pass can target stale rows.
const currentTagVersion = 1

// TaggerUsecase drives batch classification of stored messages.
type TaggerUsecase interface {
	// ClassifyPending selects up to batchSize untagged messages, classifies
	// them in one request and persists the tags. Returns the number of
	// messages tagged; zero when nothing is pending.
	ClassifyPending(ctx context.Context, batchSize int) (int, error)
}

// taggerUsecase implements TaggerUsecase
type taggerUsecase struct {
	tagRepo    repository.TagRepository
	classifier ai.ClassifierService
}

// NewTaggerUsecase creates a new instance of taggerUsecase
func NewTaggerUsecase(tagRepo repository.TagRepository, classifier ai.ClassifierService) TaggerUsecase {
	return &taggerUsecase{
		tagRepo:    tagRepo,
		classifier: classifier,
	}
}

func (u *taggerUsecase) ClassifyPending(ctx context.Context, batchSize int) (int, error) {
	if u.classifier == nil {
		return 0, fmt.Errorf("no classifier configured")
	}

	pending, err := u.tagRepo.ListUntaggedMessages(batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to select untagged messages: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	batch := make([]ai.MessageInput, len(pending))
	for i, m := range pending {
		batch[i] = ai.MessageInput{
			ID:     m.ID,
			Author: m.AuthorName,
			Text:   m.Text,
		}
	}

	result, err := u.classifier.ClassifyMessages(ctx, batch)
	if err != nil {
		if errors.Is(err, ai.ErrMalformedOutput) {
			// The raw detail rides in the error; no partial tags are written
			// and the same messages are selected again next batch.
			log.Printf("[Tagger] Classifier output rejected: %v", err)
		}
		return 0, fmt.Errorf("classification batch of %d failed: %w", len(batch), err)
	}

	tags := make([]*domain.MessageTag, len(result.Tags))
	for i, t := range result.Tags {
		tags[i] = &domain.MessageTag{
			MessageID:        t.MessageID,
			IsBlocker:        t.IsBlocker,
			IsUrgent:         t.IsUrgent,
			IsDecision:       t.IsDecision,
			IsQuestion:       t.IsQuestion,
			IsActionItem:     t.IsActionItem,
			Mentions:         domain.StringArray(t.Mentions),
			InferredOwner:    t.InferredOwner,
			InferredDeadline: t.InferredDeadline,
			Confidence:       t.Confidence,
			ModelUsed:        result.Model,
			TagVersion:       currentTagVersion,
		}
	}

	if err := u.tagRepo.UpsertTags(tags); err != nil {
		return 0, fmt.Errorf("failed to persist %d tags: %w", len(tags), err)
	}

	log.Printf("[Tagger] Tagged %d messages with %s", len(tags), result.Model)
	return len(tags), nil
}
