package repository

import (
	"time"

	ingestiondomain "loopback-backend/internal/ingestion/domain"

	"gorm.io/gorm"
)

// statsRepository implements StatsRepository interface
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new instance of statsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountMessages() (int64, error) {
	var count int64
	err := r.db.Model(&ingestiondomain.Message{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountMessagesSince(tsNum float64) (int64, error) {
	var count int64
	err := r.db.Model(&ingestiondomain.Message{}).
		Where("ts_numeric >= ?", tsNum).
		Count(&count).Error
	return count, err
}

func (r *statsRepository) CountChannels() (int64, error) {
	var count int64
	err := r.db.Model(&ingestiondomain.Channel{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&ingestiondomain.SlackUser{}).Count(&count).Error
	return count, err
}

func (r *statsRepository) LastMessageTime() (*time.Time, error) {
	var msg ingestiondomain.Message
	err := r.db.Order("created_at DESC").First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg.CreatedAt, nil
}

const openLoopSelect = `messages.id AS message_id,
messages.created_at AS created_at,
messages.user_id AS user_id,
COALESCE(slack_users.real_name, slack_users.name, '') AS author_name,
channels.name AS channel_name,
message_tags.is_blocker AS is_blocker,
message_tags.is_urgent AS is_urgent,
message_tags.is_decision AS is_decision,
message_tags.is_question AS is_question,
message_tags.is_action_item AS is_action_item,
message_tags.inferred_owner AS inferred_owner`

func (r *statsRepository) openLoopQuery() *gorm.DB {
	return r.db.Model(&ingestiondomain.Message{}).
		Select(openLoopSelect).
		Joins("JOIN message_tags ON message_tags.message_id = messages.id").
		Joins("LEFT JOIN slack_users ON slack_users.id = messages.user_id").
		Joins("LEFT JOIN channels ON channels.id = messages.channel_id")
}

func (r *statsRepository) ListOpenLoops(limit int, userID, ownerName string) ([]OpenLoopRow, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.openLoopQuery().
		Where("message_tags.is_blocker OR message_tags.is_decision OR message_tags.is_question OR message_tags.is_action_item")

	if userID != "" || ownerName != "" {
		query = query.Where("messages.user_id = ? OR message_tags.inferred_owner = ?", userID, ownerName)
	}

	var rows []OpenLoopRow
	err := query.Order("messages.created_at DESC").Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepository) ListAttention(limit int) ([]OpenLoopRow, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []OpenLoopRow
	err := r.openLoopQuery().
		Where("message_tags.is_blocker OR message_tags.is_urgent").
		Order("messages.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
