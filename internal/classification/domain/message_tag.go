package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringArray stores a list of strings as a JSON column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		a = StringArray{}
	}
	return json.Marshal(a)
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
}

// MessageTag is the classifier verdict for one message. At most one row per
// message; re-classification overwrites via upsert keyed by MessageID.
// TagVersion anticipates future explicit re-classification by version bump.
type MessageTag struct {
	MessageID        string      `json:"message_id" gorm:"primaryKey"`
	IsBlocker        bool        `json:"is_blocker"`
	IsUrgent         bool        `json:"is_urgent"`
	IsDecision       bool        `json:"is_decision"`
	IsQuestion       bool        `json:"is_question"`
	IsActionItem     bool        `json:"is_action_item"`
	Mentions         StringArray `json:"mentions" gorm:"type:jsonb"`
	InferredOwner    *string     `json:"inferred_owner"`
	InferredDeadline *string     `json:"inferred_deadline"`
	Confidence       float64     `json:"confidence"`
	ModelUsed        string      `json:"model_used"`
	TagVersion       int         `json:"tag_version"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
