package models

import (
	"time"

	"github.com/google/uuid"
)

// Export represents a filtered case table written to file storage
type Export struct {
	ID          uuid.UUID       `json:"id"`
	SessionID   uuid.UUID       `json:"session_id"`
	Filename    string          `json:"filename"`
	MimeType    string          `json:"mime_type"`
	Size        int64           `json:"size"`
	RowCount    int             `json:"row_count"`
	Selection   FilterSelection `json:"selection"`
	StoragePath string          `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
}
