package repository

import (
	"time"

	"loopback-backend/internal/classification/domain"
	ingestiondomain "loopback-backend/internal/ingestion/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tagRepository implements TagRepository interface
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new instance of tagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) ListUntaggedMessages(limit int) ([]UntaggedMessage, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []UntaggedMessage
	err := r.db.Model(&ingestiondomain.Message{}).
		Select("messages.id AS id, messages.text AS text, COALESCE(slack_users.real_name, slack_users.name, '') AS author_name").
		Joins("LEFT JOIN slack_users ON slack_users.id = messages.user_id").
		Where("messages.id NOT IN (?)", r.db.Model(&domain.MessageTag{}).Select("message_id")).
		Order("messages.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tagRepository) UpsertTags(tags []*domain.MessageTag) error {
	if len(tags) == 0 {
		return nil
	}
	now := time.Now()
	for _, t := range tags {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		t.UpdatedAt = now
	}

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_blocker", "is_urgent", "is_decision", "is_question", "is_action_item",
			"mentions", "inferred_owner", "inferred_deadline", "confidence",
			"model_used", "tag_version", "updated_at",
		}),
	}).Create(tags).Error
}
