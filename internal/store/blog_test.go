package store

import "testing"

func TestBlogStoreCreateAndPublish(t *testing.T) {
	db := newTestDB(t)
	blog := NewBlogStore(db)

	p, err := blog.Create("First Post", "first-post", "Welcome to the studio.", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Published {
		t.Error("new post should start unpublished")
	}

	published, err := blog.ListPublished()
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 0 {
		t.Fatalf("got %d published posts, want 0", len(published))
	}

	if err := blog.SetPublished(p.ID, true); err != nil {
		t.Fatalf("publish: %v", err)
	}

	published, err = blog.ListPublished()
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("got %d published posts, want 1", len(published))
	}
	if published[0].PublishedAt == nil {
		t.Error("published post should carry published_at")
	}
}

func TestBlogStoreGetBySlug(t *testing.T) {
	db := newTestDB(t)
	blog := NewBlogStore(db)

	if _, err := blog.Create("Breathwork Basics", "breathwork-basics", "...", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := blog.GetBySlug("breathwork-basics")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got == nil || got.Title != "Breathwork Basics" {
		t.Fatalf("got %+v, want Breathwork Basics", got)
	}

	missing, err := blog.GetBySlug("nope")
	if err != nil {
		t.Fatalf("get missing slug: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing slug, got %+v", missing)
	}
}

func TestBlogStoreSetCoverImagePathClearsInlineBytes(t *testing.T) {
	db := newTestDB(t)
	blog := NewBlogStore(db)

	p, err := blog.Create("Cover Test", "cover-test", "...", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`UPDATE blog_posts SET cover_image = ? WHERE id = ?`, []byte{1, 2, 3}, p.ID); err != nil {
		t.Fatalf("seed inline cover: %v", err)
	}

	if err := blog.SetCoverImagePath(p.ID, "blog/111-aaa.jpg"); err != nil {
		t.Fatalf("set cover image path: %v", err)
	}

	var hasData bool
	var path string
	err = db.QueryRow(
		`SELECT cover_image IS NOT NULL, cover_image_path FROM blog_posts WHERE id = ?`, p.ID,
	).Scan(&hasData, &path)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if hasData {
		t.Error("inline cover bytes should be cleared when locator is set")
	}
	if path != "blog/111-aaa.jpg" {
		t.Errorf("cover_image_path = %q", path)
	}
}
