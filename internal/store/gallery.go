package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
)

type GalleryStore struct {
	db *sql.DB
}

func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

const galleryCols = `id, title, alt_text, mime_type, file_path, region, sort_order,
	image_data IS NOT NULL, created_at, updated_at`

func scanGalleryImage(scanner interface{ Scan(...any) error }) (*model.GalleryImage, error) {
	var img model.GalleryImage
	var filePath, region sql.NullString
	err := scanner.Scan(
		&img.ID, &img.Title, &img.AltText, &img.MimeType, &filePath, &region,
		&img.SortOrder, &img.HasData, &img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if filePath.Valid {
		img.FilePath = &filePath.String
	}
	if region.Valid {
		img.Region = &region.String
	}
	return &img, nil
}

// Create inserts an already-stored image: filePath is the storage locator
// returned by the backend, never inline bytes.
func (s *GalleryStore) Create(title, altText, mimeType, filePath, region string, sortOrder int) (*model.GalleryImage, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO gallery_images (title, alt_text, mime_type, file_path, region, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title, altText, mimeType, filePath, region, sortOrder, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create gallery image: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GalleryStore) GetByID(id int64) (*model.GalleryImage, error) {
	row := s.db.QueryRow(`SELECT `+galleryCols+` FROM gallery_images WHERE id = ?`, id)
	img, err := scanGalleryImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get gallery image %d: %w", id, err)
	}
	return img, nil
}

func (s *GalleryStore) List() ([]model.GalleryImage, error) {
	rows, err := s.db.Query(`SELECT ` + galleryCols + ` FROM gallery_images ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var images []model.GalleryImage
	for rows.Next() {
		img, err := scanGalleryImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		images = append(images, *img)
	}
	return images, rows.Err()
}

func (s *GalleryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM gallery_images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	return nil
}

func (s *GalleryStore) UpdateSortOrder(id int64, sortOrder int) error {
	_, err := s.db.Exec(
		`UPDATE gallery_images SET sort_order = ?, updated_at = ? WHERE id = ?`,
		sortOrder, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update sort order: %w", err)
	}
	return nil
}
