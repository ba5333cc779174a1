package model

import (
	"littlelemon/shared/timezone"
	"time"
)

// Metadata holds the audit columns shared by every table.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
	CreatedBy  string    `db:"created_by"`
	ModifiedBy string    `db:"modified_by"`
}

// NewMetadata stamps a row created now by username.
func NewMetadata(username string) Metadata {
	now := timezone.Now()

	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  username,
		ModifiedBy: username,
	}
}
