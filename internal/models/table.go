package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TableFormat is the on-disk format of a shared table's data files.
type TableFormat string

const (
	FormatParquet TableFormat = "parquet"
	FormatDelta   TableFormat = "delta"
)

// Table is a single shareable Delta or Parquet dataset, rooted at StorageURI.
// StorageURI is either a local filesystem path or an "s3://bucket/key" URI
// whose file URLs are signed through the S3 signer. It is used as stored;
// it is not resolved against DELTA_DATA_ROOT.
type Table struct {
	ID          uint        `json:"-" gorm:"primaryKey"`
	PublicID    string      `json:"id" gorm:"size:32;uniqueIndex"`
	SchemaID    uint        `json:"-" gorm:"not null;uniqueIndex:uniq_schema_table_name"`
	Name        string      `json:"name" gorm:"size:255;not null;uniqueIndex:uniq_schema_table_name"`
	StorageURI  string      `json:"-" gorm:"size:2000;not null"`
	Format      TableFormat `json:"-" gorm:"size:16;not null;default:delta"`
	ShareAsView bool        `json:"share_as_view" gorm:"default:false"`
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`
}

// BeforeCreate mints an opaque public ID, mirroring Share.BeforeCreate.
func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.PublicID == "" {
		t.PublicID = strings.ReplaceAll(uuid.New().String(), "-", "")
	}
	return nil
}
