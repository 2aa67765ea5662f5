package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type BlogStore struct {
	db *sql.DB
}

func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogCols = `id, title, slug, body, cover_image_path, published, published_at, author_id, created_at, updated_at`

func scanBlogPost(scanner interface{ Scan(...any) error }) (*model.BlogPost, error) {
	var p model.BlogPost
	var coverPath sql.NullString
	var publishedAt sql.NullTime
	var authorID sql.NullInt64
	var published int
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &coverPath, &published,
		&publishedAt, &authorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if coverPath.Valid {
		p.CoverImagePath = &coverPath.String
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	if authorID.Valid {
		p.AuthorID = &authorID.Int64
	}
	p.Published = published != 0
	return &p, nil
}

func (s *BlogStore) Create(title, slug, body string, authorID *int64) (*model.BlogPost, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO blog_posts (title, slug, body, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		title, slug, body, authorID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *BlogStore) GetByID(id int64) (*model.BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+blogCols+` FROM blog_posts WHERE id = ?`, id)
	p, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post %d: %w", id, err)
	}
	return p, nil
}

func (s *BlogStore) GetBySlug(slug string) (*model.BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+blogCols+` FROM blog_posts WHERE slug = ?`, slug)
	p, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog post by slug: %w", err)
	}
	return p, nil
}

func (s *BlogStore) ListPublished() ([]model.BlogPost, error) {
	return s.list(`SELECT ` + blogCols + ` FROM blog_posts WHERE published = 1 ORDER BY published_at DESC`)
}

func (s *BlogStore) ListAll() ([]model.BlogPost, error) {
	return s.list(`SELECT ` + blogCols + ` FROM blog_posts ORDER BY created_at DESC`)
}

func (s *BlogStore) list(query string) ([]model.BlogPost, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	var posts []model.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *BlogStore) Update(id int64, title, slug, body string) (*model.BlogPost, error) {
	_, err := s.db.Exec(
		`UPDATE blog_posts SET title = ?, slug = ?, body = ?, updated_at = ? WHERE id = ?`,
		title, slug, body, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	return s.GetByID(id)
}

func (s *BlogStore) SetPublished(id int64, published bool) error {
	var publishedAt any
	v := 0
	if published {
		v = 1
		publishedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`UPDATE blog_posts SET published = ?, published_at = ?, updated_at = ? WHERE id = ?`,
		v, publishedAt, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	return nil
}

// SetCoverImagePath stores the locator for a post's cover image and clears
// any legacy inline bytes in the same update.
func (s *BlogStore) SetCoverImagePath(id int64, filePath string) error {
	_, err := s.db.Exec(
		`UPDATE blog_posts SET cover_image_path = ?, cover_image = NULL, updated_at = ? WHERE id = ?`,
		filePath, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set cover image path: %w", err)
	}
	return nil
}

func (s *BlogStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}

// AddImage records an uploaded blog editor image.
func (s *BlogStore) AddImage(filePath, filename, mimeType string, sizeBytes int64) (*model.BlogImage, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO blog_images (file_path, filename, mime_type, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		filePath, filename, mimeType, sizeBytes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("add blog image: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.BlogImage{
		ID:        id,
		FilePath:  filePath,
		Filename:  filename,
		MimeType:  mimeType,
		SizeBytes: sizeBytes,
		CreatedAt: now,
	}, nil
}
