package domain

import "time"

// Channel kinds, in classification precedence order (direct wins over group,
// group over private, private over public).
const (
	KindDirect      = "direct"
	KindGroupDirect = "group_direct"
	KindPrivate     = "private"
	KindPublic      = "public"
)

// Channel represents a Slack conversation the ingestion bot can see.
// LastIngestedTS is the watermark: the highest message ts already persisted
// for this channel, used as the exclusive lower bound of the next fetch.
// Only the history sync advances it, and never backwards.
type Channel struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           *string   `json:"name"`
	Kind           string    `json:"kind" gorm:"not null;index"`
	IsMember       bool      `json:"is_member"`
	LastIngestedTS string    `json:"last_ingested_ts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// KindFromFlags derives the channel kind from provider visibility flags.
func KindFromFlags(isIM, isMPIM, isPrivate bool) string {
	switch {
	case isIM:
		return KindDirect
	case isMPIM:
		return KindGroupDirect
	case isPrivate:
		return KindPrivate
	default:
		return KindPublic
	}
}
