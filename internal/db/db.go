package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB is the upload registry: which original files were saved where, and how
// many chunks each produced. The registry is the canonical mapping from an
// indexed filename to its on-disk paths, which a collision rename at upload
// time would otherwise lose.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens the registry database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory registry (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    filename TEXT NOT NULL,
    stored_path TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    chunk_count INTEGER NOT NULL,
    uploaded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_uploads_filename ON uploads(filename);
`

// Upload is one recorded upload.
type Upload struct {
	ID         int64
	Filename   string
	StoredPath string
	SizeBytes  int64
	ChunkCount int
	UploadedAt time.Time
}

// RecordUpload inserts a registry row for a successfully indexed upload.
func (d *DB) RecordUpload(ctx context.Context, filename, storedPath string, sizeBytes int64, chunkCount int) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO uploads (filename, stored_path, size_bytes, chunk_count) VALUES (?, ?, ?, ?)`,
		filename, storedPath, sizeBytes, chunkCount)
	if err != nil {
		return fmt.Errorf("recording upload %s: %w", filename, err)
	}
	return nil
}

// StoredPaths returns the on-disk paths of every recorded upload for the
// given indexed filename. Re-uploads of the same name yield multiple paths.
func (d *DB) StoredPaths(ctx context.Context, filename string) ([]string, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT stored_path FROM uploads WHERE filename = ? ORDER BY id`, filename)
	if err != nil {
		return nil, fmt.Errorf("querying stored paths for %s: %w", filename, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning stored path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Filenames returns the distinct indexed filenames, lexicographically ordered.
func (d *DB) Filenames(ctx context.Context) ([]string, error) {
	rows, err := d.QueryContext(ctx,
		`SELECT DISTINCT filename FROM uploads ORDER BY filename`)
	if err != nil {
		return nil, fmt.Errorf("querying filenames: %w", err)
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scanning filename: %w", err)
		}
		filenames = append(filenames, f)
	}
	return filenames, rows.Err()
}

// DeleteByFilename removes all registry rows for the given filename.
func (d *DB) DeleteByFilename(ctx context.Context, filename string) error {
	if _, err := d.ExecContext(ctx, `DELETE FROM uploads WHERE filename = ?`, filename); err != nil {
		return fmt.Errorf("deleting registry rows for %s: %w", filename, err)
	}
	return nil
}

// Reset removes every registry row.
func (d *DB) Reset(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, `DELETE FROM uploads`); err != nil {
		return fmt.Errorf("resetting registry: %w", err)
	}
	return nil
}
