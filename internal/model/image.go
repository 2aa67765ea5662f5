package model

import "time"

// GalleryImage is a studio photo shown on the public site. Older rows carry
// the image bytes inline in the database; migrated rows hold a storage
// locator in FilePath instead. A row is never both at once after migration.
type GalleryImage struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	AltText   string    `json:"alt_text"`
	MimeType  string    `json:"mime_type"`
	FilePath  *string   `json:"file_path"`
	Region    *string   `json:"region,omitempty"`
	SortOrder int       `json:"sort_order"`
	HasData   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogImage is an inline image uploaded through the blog editor.
type BlogImage struct {
	ID        int64     `json:"id"`
	FilePath  string    `json:"file_path"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
