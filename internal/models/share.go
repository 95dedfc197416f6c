package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Share is the top level of the sharing catalog: a named collection of
// schemas a recipient has been granted access to as a unit.
type Share struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	PublicID    string    `json:"id" gorm:"size:32;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description string    `json:"-" gorm:"size:2000"`
	Active      bool      `json:"-" gorm:"default:true"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// BeforeCreate mints an opaque public ID so the catalog never exposes the
// database's own auto-increment primary key to sharing clients.
func (s *Share) BeforeCreate(tx *gorm.DB) error {
	if s.PublicID == "" {
		s.PublicID = strings.ReplaceAll(uuid.New().String(), "-", "")
	}
	return nil
}
