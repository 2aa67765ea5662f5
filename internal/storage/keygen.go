package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"
)

const keyRandomBytes = 8

// GenerateKey produces a collision-resistant storage key from the current
// time, random bytes, and the original file's extension. The timestamp keeps
// keys roughly sortable; uniqueness rests on the random component.
// Example: "gallery/1735689600000-a1b2c3d4e5f60718.png".
func GenerateKey(prefix, originalName string) string {
	buf := make([]byte, keyRandomBytes)
	rand.Read(buf)

	ext := strings.ToLower(path.Ext(originalName))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(buf), ext)
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
