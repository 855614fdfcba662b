package repository

import (
	"loopback-backend/internal/ingestion/domain"
)

// ChannelRepository persists discovered conversations and their watermarks.
type ChannelRepository interface {
	// UpsertChannel inserts or refreshes channel metadata. The watermark
	// column is never touched here; only AdvanceWatermark moves it.
	UpsertChannel(ch *domain.Channel) error
	// ListChannels returns all known channels with their watermarks.
	ListChannels() ([]*domain.Channel, error)
	// AdvanceWatermark records the new highest ingested ts for a channel.
	AdvanceWatermark(channelID, ts string) error
}

// MessageRepository persists ingested messages.
type MessageRepository interface {
	// UpsertMessages stores a batch keyed by (channel, ts). Re-ingesting the
	// same range is a no-op; message bodies are immutable once written.
	UpsertMessages(msgs []*domain.Message) error
}

// UserRepository persists workspace members.
type UserRepository interface {
	UpsertUser(u *domain.SlackUser) error
	// GetUserByEmail maps a dashboard login to its Slack identity.
	GetUserByEmail(email string) (*domain.SlackUser, error)
}

// RunRepository records ingestion sweep lifecycles.
type RunRepository interface {
	CreateRun(run *domain.IngestRun) error
	// FinishRun closes a run exactly once with its final status.
	FinishRun(id, status string, channels, messages int, errMsg *string) error
	ListRecentRuns(limit int) ([]*domain.IngestRun, error)
}
