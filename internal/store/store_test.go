package store

import (
	"database/sql"
	"testing"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	u, err := NewUserStore(db).Create("test@example.com", "hash", "Test User", "member")
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u.ID
}
