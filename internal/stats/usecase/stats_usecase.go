package usecase

import (
	"fmt"
	"time"

	ingestionrepo "loopback-backend/internal/ingestion/repository"
	"loopback-backend/internal/stats/repository"
)

// DashboardStats is the headline numbers for the dashboard view.
type DashboardStats struct {
	Messages     int64      `json:"messages"`
	NewMessages  int64      `json:"newMessages"`
	Channels     int64      `json:"channels"`
	Participants int64      `json:"participants"`
	LastSync     *time.Time `json:"lastSync"`
}

// OpenLoopItem is one unresolved conversation item surfaced to a user.
type OpenLoopItem struct {
	LoopID       string  `json:"loop_id"`
	Title        string  `json:"title"`
	Reason       string  `json:"reason"`
	Channel      *string `json:"channel"`
	LastActivity struct {
		Author    string    `json:"author"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"last_activity"`
}

// StatsUsecase serves the dashboard read endpoints.
type StatsUsecase interface {
	GetDashboardStats() (*DashboardStats, error)
	// ListOpenLoops returns open items. scope "my" restricts to the Slack
	// identity behind userEmail; an unknown email yields an empty list.
	ListOpenLoops(scope, userEmail string) ([]OpenLoopItem, error)
	NeedsAttention() ([]OpenLoopItem, error)
}

// statsUsecase implements StatsUsecase
type statsUsecase struct {
	statsRepo repository.StatsRepository
	userRepo  ingestionrepo.UserRepository
}

// NewStatsUsecase creates a new instance of statsUsecase
func NewStatsUsecase(statsRepo repository.StatsRepository, userRepo ingestionrepo.UserRepository) StatsUsecase {
	return &statsUsecase{
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

func (u *statsUsecase) GetDashboardStats() (*DashboardStats, error) {
	total, err := u.statsRepo.CountMessages()
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	// Midnight UTC keeps "new today" stable regardless of server timezone.
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	newToday, err := u.statsRepo.CountMessagesSince(float64(startOfDay.Unix()))
	if err != nil {
		return nil, fmt.Errorf("failed to count new messages: %w", err)
	}

	channels, err := u.statsRepo.CountChannels()
	if err != nil {
		return nil, fmt.Errorf("failed to count channels: %w", err)
	}

	participants, err := u.statsRepo.CountUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	lastSync, err := u.statsRepo.LastMessageTime()
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync time: %w", err)
	}

	return &DashboardStats{
		Messages:     total,
		NewMessages:  newToday,
		Channels:     channels,
		Participants: participants,
		LastSync:     lastSync,
	}, nil
}

func (u *statsUsecase) ListOpenLoops(scope, userEmail string) ([]OpenLoopItem, error) {
	userID, ownerName := "", ""
	if scope == "my" {
		slackUser, err := u.userRepo.GetUserByEmail(userEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve slack identity: %w", err)
		}
		if slackUser == nil {
			return []OpenLoopItem{}, nil
		}
		userID = slackUser.ID
		ownerName = slackUser.RealName
	}

	rows, err := u.statsRepo.ListOpenLoops(20, userID, ownerName)
	if err != nil {
		return nil, fmt.Errorf("failed to query open loops: %w", err)
	}

	return mapOpenLoopItems(rows), nil
}

func (u *statsUsecase) NeedsAttention() ([]OpenLoopItem, error) {
	rows, err := u.statsRepo.ListAttention(10)
	if err != nil {
		return nil, fmt.Errorf("failed to query attention items: %w", err)
	}
	return mapOpenLoopItems(rows), nil
}

// mapOpenLoopItems derives the user-facing title/reason from the facet with
// the highest severity: blocker > decision > question > action item.
func mapOpenLoopItems(rows []repository.OpenLoopRow) []OpenLoopItem {
	items := make([]OpenLoopItem, 0, len(rows))
	for _, row := range rows {
		title := "Open item"
		reason := "Requires attention"

		switch {
		case row.IsBlocker:
			title = "Work is blocked"
			reason = "Progress is blocked pending resolution"
		case row.IsDecision:
			title = "Decision pending"
			reason = "Decision has not been finalized"
		case row.IsQuestion:
			title = "Awaiting response"
			reason = "Question raised without response"
		case row.IsActionItem:
			title = "Action required"
			reason = "Action has not been completed"
		case row.IsUrgent:
			title = "Urgent item"
			reason = "Flagged urgent by the classifier"
		}

		author := row.AuthorName
		if author == "" {
			author = "Unknown"
		}

		item := OpenLoopItem{
			LoopID:  row.MessageID,
			Title:   title,
			Reason:  reason,
			Channel: row.ChannelName,
		}
		item.LastActivity.Author = author
		item.LastActivity.Timestamp = row.CreatedAt
		items = append(items, item)
	}
	return items
}
