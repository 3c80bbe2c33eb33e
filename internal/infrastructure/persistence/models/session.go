package models

import "time"

// SessionEntryModel is one durable session value.
// Key is already namespaced by session ID.
type SessionEntryModel struct {
	Key       string    `gorm:"column:session_key;type:varchar(255);primary_key"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SessionEntryModel) TableName() string {
	return "session_entries"
}
