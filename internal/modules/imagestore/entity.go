package imagestore

import "time"

// StoredImage is an image blob persisted as a database row instead of a file
// on disk. Content is addressed by the SHA-1 of its bytes: at most one row
// exists per hash, and the payload is never rewritten after the first insert.
// Other domains reference a stored image by its numeric ID.
type StoredImage struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Filename  string    `gorm:"column:filename;not null" json:"filename"`
	Mimetype  string    `gorm:"column:mimetype;not null" json:"mimetype"`
	SHA1      string    `gorm:"column:sha1;uniqueIndex;not null" json:"sha1"`
	Data      []byte    `gorm:"column:data;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (StoredImage) TableName() string { return "stored_images" }
