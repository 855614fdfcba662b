package repository

import (
	"loopback-backend/internal/classification/domain"
)

// UntaggedMessage is a stored message awaiting classification, joined with
// its author's display name for the prompt.
type UntaggedMessage struct {
	ID         string
	Text       string
	AuthorName string
}

// TagRepository persists classification tags and selects work for the
// batcher.
type TagRepository interface {
	// ListUntaggedMessages returns up to limit messages with no tag row,
	// ordered by ascending id so repeated runs make forward progress even
	// if the classifier fails midway.
	ListUntaggedMessages(limit int) ([]UntaggedMessage, error)
	// UpsertTags writes one tag row per message, overwriting any existing
	// row for the same message id.
	UpsertTags(tags []*domain.MessageTag) error
}
