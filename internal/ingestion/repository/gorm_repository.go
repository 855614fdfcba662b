package repository

import (
	"time"

	"loopback-backend/internal/ingestion/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// channelRepository implements ChannelRepository interface
type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new instance of channelRepository
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) UpsertChannel(ch *domain.Channel) error {
	now := time.Now()
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = now
	}
	ch.UpdatedAt = now

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "kind", "is_member", "updated_at"}),
	}).Create(ch).Error
}

func (r *channelRepository) ListChannels() ([]*domain.Channel, error) {
	var channels []*domain.Channel
	if err := r.db.Order("id ASC").Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

func (r *channelRepository) AdvanceWatermark(channelID, ts string) error {
	return r.db.Model(&domain.Channel{}).
		Where("id = ?", channelID).
		Updates(map[string]interface{}{
			"last_ingested_ts": ts,
			"updated_at":       time.Now(),
		}).Error
}

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of messageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) UpsertMessages(msgs []*domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	now := time.Now()
	for _, m := range msgs {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
	}

	// Messages are immutable once written; a conflicting row means the same
	// (channel, ts) was ingested before and is simply kept.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).CreateInBatches(msgs, 500).Error
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UpsertUser(u *domain.SlackUser) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "real_name", "email", "updated_at"}),
	}).Create(u).Error
}

func (r *userRepository) GetUserByEmail(email string) (*domain.SlackUser, error) {
	var user domain.SlackUser
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// runRepository implements RunRepository interface
type runRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new instance of runRepository
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) CreateRun(run *domain.IngestRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = domain.RunStatusRunning
	}
	return r.db.Create(run).Error
}

func (r *runRepository) FinishRun(id, status string, channels, messages int, errMsg *string) error {
	now := time.Now()
	return r.db.Model(&domain.IngestRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"finished_at":        &now,
			"status":             status,
			"channels_processed": channels,
			"messages_ingested":  messages,
			"error_message":      errMsg,
		}).Error
}

func (r *runRepository) ListRecentRuns(limit int) ([]*domain.IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []*domain.IngestRun
	if err := r.db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
