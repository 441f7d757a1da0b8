package messagelog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageModel is the GORM persistence model for completed calls.
// It maps directly to the "message_log" table in Postgres.
type MessageModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Operation   string    `gorm:"size:40;not null;index"`
	Transport   string    `gorm:"size:40;not null"`
	Status      string    `gorm:"size:20;not null"`
	Recipients  string    `gorm:"type:text"`
	ClientMsgID string    `gorm:"size:100;index"`
	APIMsgIDs   string    `gorm:"type:text"`
	Output      string    `gorm:"type:text"`
	DurationMs  int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName overrides the default table name used by GORM.
func (MessageModel) TableName() string {
	return "message_log"
}

// BeforeCreate ensures a UUID is set before inserting a new record.
func (m *MessageModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
