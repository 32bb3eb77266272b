package model

import (
	"time"
)

const (
	FileTypeCSS = "css"
	FileTypeJS  = "js"
)

// OwnerAnonymous is the reserved owner id for uploads made without an
// authenticated session. The matching profile row is seeded by migration.
const OwnerAnonymous = "anonymous"

type File struct {
	ID           string     `db:"id"`
	OwnerID      string     `db:"owner_id"`
	Name         string     `db:"name"` // original filename, unique per owner
	Type         string     `db:"type"` // "css" or "js", derived from extension
	Size         int64      `db:"size_bytes"`
	CreatedAt    time.Time  `db:"created_at"`
	LastEditedAt *time.Time `db:"last_edited_at"` // set only by a successful editor save
}

// ContentType returns the MIME type the blob is stored and served with.
func (f *File) ContentType() string {
	if f.Type == FileTypeCSS {
		return "text/css"
	}
	return "application/javascript"
}
