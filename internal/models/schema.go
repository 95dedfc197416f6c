package models

import "time"

// Schema groups tables within a Share, mirroring a database schema.
type Schema struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	ShareID     uint      `json:"-" gorm:"not null;uniqueIndex:uniq_share_schema_name"`
	Name        string    `json:"name" gorm:"size:255;not null;uniqueIndex:uniq_share_schema_name"`
	Description string    `json:"-" gorm:"size:2000"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
