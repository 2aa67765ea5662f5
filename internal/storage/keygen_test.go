package storage

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateKeyFormat(t *testing.T) {
	key := GenerateKey("gallery", "Sunset.PNG")

	pattern := regexp.MustCompile(`^gallery/\d+-[0-9a-f]{16}\.png$`)
	if !pattern.MatchString(key) {
		t.Errorf("key %q does not match %s", key, pattern)
	}
}

func TestGenerateKeyNoPrefix(t *testing.T) {
	key := GenerateKey("", "photo.jpg")
	if strings.Contains(key, "/") {
		t.Errorf("key %q should have no path separator without a prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key %q should keep the extension", key)
	}
}

func TestGenerateKeyNoExtension(t *testing.T) {
	key := GenerateKey("blog", "README")
	if strings.Contains(key, ".") {
		t.Errorf("key %q should have no extension for extensionless input", key)
	}
}

func TestGenerateKeyTrailingSlashPrefix(t *testing.T) {
	key := GenerateKey("gallery/", "a.png")
	if strings.Contains(key, "//") {
		t.Errorf("key %q contains a double slash", key)
	}
}

func TestGenerateKeyUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := GenerateKey("gallery", "same-name.png")
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key after %d generations: %q", i, key)
		}
		seen[key] = struct{}{}
	}
}
