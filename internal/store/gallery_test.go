package store

import "testing"

func TestGalleryStoreCreateAndList(t *testing.T) {
	db := newTestDB(t)
	gallery := NewGalleryStore(db)

	img, err := gallery.Create("Sunrise flow", "Morning class", "image/jpeg", "gallery/123-abc.jpg", "us-east-1", 2)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if img.FilePath == nil || *img.FilePath != "gallery/123-abc.jpg" {
		t.Errorf("file path = %v, want gallery/123-abc.jpg", img.FilePath)
	}
	if img.HasData {
		t.Error("locator-backed image should not report inline data")
	}

	if _, err := gallery.Create("Studio", "", "image/png", "gallery/456-def.png", "us-east-1", 1); err != nil {
		t.Fatalf("create second: %v", err)
	}

	images, err := gallery.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	if images[0].Title != "Studio" {
		t.Errorf("expected sort_order to put Studio first, got %q", images[0].Title)
	}
}

func TestGalleryStoreHasDataForLegacyRow(t *testing.T) {
	db := newTestDB(t)
	gallery := NewGalleryStore(db)

	_, err := db.Exec(
		`INSERT INTO gallery_images (title, alt_text, mime_type, image_data, sort_order) VALUES (?, ?, ?, ?, 0)`,
		"Legacy", "old row", "image/png", []byte{0x89, 0x50, 0x4e, 0x47},
	)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}

	images, err := gallery.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	if !images[0].HasData {
		t.Error("legacy row should report inline data")
	}
	if images[0].FilePath != nil {
		t.Errorf("legacy row file path = %v, want nil", images[0].FilePath)
	}
}

func TestGalleryStoreDelete(t *testing.T) {
	db := newTestDB(t)
	gallery := NewGalleryStore(db)

	img, err := gallery.Create("Gone soon", "", "image/jpeg", "gallery/789-xyz.jpg", "us-east-1", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := gallery.Delete(img.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := gallery.GetByID(img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}
