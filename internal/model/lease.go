package model

import "time"

// Lease is a named, expiring claim held by a single digest run.
type Lease struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Holder    string    `gorm:"size:64;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
