package model

import "time"

type BlogPost struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Body           string     `json:"body"`
	CoverImagePath *string    `json:"cover_image_path"`
	Published      bool       `json:"published"`
	PublishedAt    *time.Time `json:"published_at"`
	AuthorID       *int64     `json:"author_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
