package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FilterSelection is the user-facing form of the dashboard filters.
// Values are option labels ("All", ">= $25,000") and ISO dates; empty means unset.
type FilterSelection struct {
	Status    string `json:"status,omitempty" form:"status"`
	Court     string `json:"court,omitempty" form:"court"`
	CaseType  string `json:"case_type,omitempty" form:"type"`
	Amount    string `json:"amount,omitempty" form:"amount"`
	StartDate string `json:"start_date,omitempty" form:"start"`
	EndDate   string `json:"end_date,omitempty" form:"end"`
}

// Value implements driver.Valuer for JSONB
func (f FilterSelection) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *FilterSelection) Scan(value interface{}) error {
	if value == nil {
		*f = FilterSelection{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		*f = FilterSelection{}
		return nil
	}

	return json.Unmarshal(bytes, f)
}

// FilterPreset is a named, saved filter selection
type FilterPreset struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Selection FilterSelection `json:"selection"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
