package domain

import "time"

// Ingest run statuses
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// IngestRun records the lifecycle of one full ingestion sweep. Purely for
// observability; nothing reads it to make decisions.
type IngestRun struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at"`
	Status            string     `json:"status" gorm:"not null;index"`
	ChannelsProcessed int        `json:"channels_processed"`
	MessagesIngested  int        `json:"messages_ingested"`
	ErrorMessage      *string    `json:"error_message"`
}
