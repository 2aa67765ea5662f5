// Package imagemigrate moves legacy inline image blobs out of the database
// and into the configured storage backend. It is safe to run repeatedly:
// rows that already carry a storage locator are skipped, and a row is only
// cleared after its bytes have been durably stored.
package imagemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
)

type Migrator struct {
	db      *sql.DB
	backend storage.Backend
	logger  *slog.Logger
	region  string

	newBackoff func() retry.Backoff
}

// Result summarizes one migration run. Failed rows keep their inline bytes
// and are retried on the next run.
type Result struct {
	Migrated int
	Failed   int
}

func New(db *sql.DB, backend storage.Backend, logger *slog.Logger, region string) *Migrator {
	return &Migrator{
		db:      db,
		backend: backend,
		logger:  logger.With("component", "imagemigrate"),
		region:  region,
		newBackoff: func() retry.Backoff {
			return retry.WithMaxRetries(4, retry.NewExponential(500*time.Millisecond))
		},
	}
}

type target struct {
	table     string
	blobCol   string
	pathCol   string
	mimeCol   string
	prefix    string
	hasRegion bool
}

var targets = []target{
	{table: "gallery_images", blobCol: "image_data", pathCol: "file_path", mimeCol: "mime_type", prefix: "gallery", hasRegion: true},
	{table: "blog_posts", blobCol: "cover_image", pathCol: "cover_image_path", mimeCol: "cover_image_mime", prefix: "blog"},
}

// Run migrates every table with legacy inline images. Row-level failures are
// logged and skipped; Run only errors when the database itself is unusable.
func (m *Migrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	for _, tg := range targets {
		if err := m.ensureColumns(tg); err != nil {
			return nil, err
		}
		if err := m.migrateTable(ctx, tg, res); err != nil {
			return nil, err
		}
	}
	m.logger.Info("migration run complete", "migrated", res.Migrated, "failed", res.Failed)
	return res, nil
}

// ensureColumns adds the locator columns on databases that predate them.
func (m *Migrator) ensureColumns(tg target) error {
	cols := []string{tg.pathCol}
	if tg.hasRegion {
		cols = append(cols, "region")
	}
	for _, col := range cols {
		ok, err := m.hasColumn(tg.table, col)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := m.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", tg.table, col)); err != nil {
			return fmt.Errorf("add column %s.%s: %w", tg.table, col, err)
		}
		m.logger.Info("added locator column", "table", tg.table, "column", col)
	}
	return nil
}

func (m *Migrator) hasColumn(table, column string) (bool, error) {
	rows, err := m.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

type legacyRow struct {
	id   int64
	data []byte
	mime string
}

func (m *Migrator) migrateTable(ctx context.Context, tg target, res *Result) error {
	query := fmt.Sprintf(
		`SELECT id, %s, %s FROM %s WHERE %s IS NOT NULL AND (%s IS NULL OR %s = '')`,
		tg.blobCol, tg.mimeCol, tg.table, tg.blobCol, tg.pathCol, tg.pathCol,
	)
	rows, err := m.db.Query(query)
	if err != nil {
		return fmt.Errorf("select legacy rows from %s: %w", tg.table, err)
	}

	var pending []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.id, &r.data, &r.mime); err != nil {
			rows.Close()
			return fmt.Errorf("scan legacy row: %w", err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate legacy rows: %w", err)
	}
	rows.Close()

	for _, r := range pending {
		if err := m.migrateRow(ctx, tg, r); err != nil {
			m.logger.Error("row migration failed, leaving inline bytes in place",
				"table", tg.table, "id", r.id, "error", err)
			res.Failed++
			continue
		}
		res.Migrated++
	}
	return nil
}

func (m *Migrator) migrateRow(ctx context.Context, tg target, r legacyRow) error {
	name := fmt.Sprintf("%d%s", r.id, extensionFor(r.mime))

	var obj *storage.Object
	err := retry.Do(ctx, m.newBackoff(), func(ctx context.Context) error {
		var storeErr error
		obj, storeErr = m.backend.Store(ctx, tg.prefix, r.data, name, r.mime)
		if storeErr != nil {
			if errors.Is(storeErr, storage.ErrUnavailable) {
				return retry.RetryableError(storeErr)
			}
			return storeErr
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	// Locator write and blob clear happen in one statement so a crash can
	// never leave a row with neither.
	var update string
	args := []any{obj.Key}
	if tg.hasRegion {
		update = fmt.Sprintf(`UPDATE %s SET %s = ?, region = ?, %s = NULL WHERE id = ?`, tg.table, tg.pathCol, tg.blobCol)
		args = append(args, m.region, r.id)
	} else {
		update = fmt.Sprintf(`UPDATE %s SET %s = ?, %s = NULL WHERE id = ?`, tg.table, tg.pathCol, tg.blobCol)
		args = append(args, r.id)
	}
	if _, err := m.db.Exec(update, args...); err != nil {
		// The stored object is now orphaned; remove it so a rerun does not
		// accumulate unreferenced blobs.
		if delErr := m.backend.Delete(ctx, obj.Key); delErr != nil {
			m.logger.Warn("could not remove orphaned object", "key", obj.Key, "error", delErr)
		}
		return fmt.Errorf("update row: %w", err)
	}

	m.logger.Debug("migrated image", "table", tg.table, "id", r.id, "key", obj.Key)
	return nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}
