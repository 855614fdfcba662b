package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Message is one ingested Slack message. The primary key is derived from
// (channel, ts) so re-ingesting the same range upserts instead of duplicating.
// TSNumeric mirrors TS as a float for range queries (new-today stats,
// watermark comparison).
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ChannelID string    `json:"channel_id" gorm:"not null;index;uniqueIndex:idx_channel_ts"`
	UserID    string    `json:"user_id" gorm:"index"`
	Text      string    `json:"text"`
	TS        string    `json:"ts" gorm:"not null;uniqueIndex:idx_channel_ts"`
	TSNumeric float64   `json:"ts_num" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageID builds the natural key for a message.
func MessageID(channelID, ts string) string {
	return fmt.Sprintf("%s:%s", channelID, ts)
}

// ParseTS converts a Slack ts ("1712345678.000100") to its numeric form.
// Malformed values map to 0 so they never advance a watermark.
func ParseTS(ts string) float64 {
	v, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return v
}

// SlackUser is a workspace member, upserted lazily the first time one of
// their messages is ingested. Email links a dashboard login to its Slack
// identity for the personal open-loops scope.
type SlackUser struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	RealName  string    `json:"real_name"`
	Email     string    `json:"email" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
