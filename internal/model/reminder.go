package model

import "time"

// Reminder is a dated message waiting to be mailed to Recipient.
// Column names match the legacy email-table attribute names.
type Reminder struct {
	ID        string    `gorm:"column:uuid;primaryKey;size:36" json:"uuid"`
	Recipient string    `gorm:"column:email_id;index;not null" json:"email_id"`
	DueDate   string    `gorm:"column:date_to_publish;index;not null" json:"date_to_publish"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}
