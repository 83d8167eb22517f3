package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StandupRecord is the archived export of a finished standup
type StandupRecord struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	TeamID           string         `json:"team_id" gorm:"type:varchar(100);not null;index"`
	StartedAt        time.Time      `json:"started_at" gorm:"type:timestamp;not null"`
	FinishedAt       time.Time      `json:"finished_at" gorm:"type:timestamp;not null;index"`
	ParticipantCount int            `json:"participant_count" gorm:"type:integer;not null"`
	ActionCount      int            `json:"action_count" gorm:"type:integer;not null;default:0"`
	BlockerCount     int            `json:"blocker_count" gorm:"type:integer;not null;default:0"`
	Export           datatypes.JSON `json:"export" gorm:"type:jsonb;not null"`
	Report           string         `json:"report" gorm:"type:text"`
	ArchiveKey       *string        `json:"archive_key,omitempty" gorm:"type:varchar(255)"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (StandupRecord) TableName() string {
	return "standup_records"
}

// SetArchiveKey records where the export was uploaded
func (r *StandupRecord) SetArchiveKey(key string) {
	r.ArchiveKey = &key
}
