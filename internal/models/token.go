package models

import "time"

// BearerPrincipal is a bearer-token identity recognized by the gateway.
// LookupHash is a SHA-256 digest of the raw token used only to narrow
// the indexed lookup to a single row; TokenHash is the bcrypt digest
// actually compared against, so a leaked database dump alone cannot be used
// to authenticate.
type BearerPrincipal struct {
	ID             uint       `json:"-" gorm:"primaryKey"`
	Name           string     `json:"name" gorm:"size:255;not null"`
	LookupHash     string     `json:"-" gorm:"size:64;uniqueIndex"`
	TokenHash      string     `json:"-" gorm:"size:255;not null"`
	Active         bool       `json:"-" gorm:"default:true"`
	TokenExpiresAt *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}
