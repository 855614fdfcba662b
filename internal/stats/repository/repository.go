package repository

import "time"

// OpenLoopRow is a message joined with its tag, channel and author for the
// open-loop and needs-attention views.
type OpenLoopRow struct {
	MessageID     string
	CreatedAt     time.Time
	UserID        string
	AuthorName    string
	ChannelName   *string
	IsBlocker     bool
	IsUrgent      bool
	IsDecision    bool
	IsQuestion    bool
	IsActionItem  bool
	InferredOwner *string
}

// StatsRepository provides the thin aggregate reads behind the dashboard.
type StatsRepository interface {
	CountMessages() (int64, error)
	// CountMessagesSince counts messages at or after the given numeric ts.
	CountMessagesSince(tsNum float64) (int64, error)
	CountChannels() (int64, error)
	CountUsers() (int64, error)
	// LastMessageTime is the ingestion time of the newest stored message.
	LastMessageTime() (*time.Time, error)
	// ListOpenLoops returns recent messages whose tag has any open facet.
	// Non-empty userID/ownerName restrict results to that person's loops.
	ListOpenLoops(limit int, userID, ownerName string) ([]OpenLoopRow, error)
	// ListAttention returns recent blockers and urgent items.
	ListAttention(limit int) ([]OpenLoopRow, error)
}
