/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	applog "telemetrystudio/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores index data under the template directory.
	IndexDirName  = ".tsindex"
	IndexFileName = "templates.sqlite"

	// indexSchemaVersion tracks the local SQLite schema. Bump on breaking
	// schema changes and add a migration.
	indexSchemaVersion = 1
)

// IndexPath returns the full path of the template index database.
func IndexPath(templateDir string) string {
	return filepath.Join(templateDir, IndexDirName, IndexFileName)
}

// OpenIndex ensures the template index exists under the template directory,
// opens it in WAL mode, and creates the schema when missing.
func OpenIndex(templateDir string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_open").With(
		slog.String("dir", templateDir),
	)
	if strings.TrimSpace(templateDir) == "" {
		return nil, errors.New("template directory is required")
	}
	if err := os.MkdirAll(filepath.Join(templateDir, IndexDirName), 0o755); err != nil {
		l.Error("create index dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	path := IndexPath(templateDir)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("template index ready", slog.String("path", path))
	return db, nil
}

func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS templates (
			name          TEXT PRIMARY KEY,
			file_path     TEXT NOT NULL,
			created_at    TEXT,
			modified_at   TEXT,
			canvas_width  INTEGER NOT NULL DEFAULT 1920,
			canvas_height INTEGER NOT NULL DEFAULT 1080,
			description   TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_templates_modified ON templates(modified_at DESC);`,
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('schema', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		fmt.Sprint(indexSchemaVersion)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// RefreshIndex rebuilds the index from the store's current directory listing.
// The rebuild runs in one transaction so readers never see a half-filled
// index.
func RefreshIndex(ctx context.Context, db *sql.DB, store *TemplateStore) (int, error) {
	infos, err := store.List()
	if err != nil {
		return 0, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin refresh: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM templates`); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	for _, info := range infos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO templates(name, file_path, created_at, modified_at, canvas_width, canvas_height, description)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			info.Name, info.FilePath, info.CreatedAt, info.ModifiedAt,
			info.CanvasWidth, info.CanvasHeight, info.Description); err != nil {
			return 0, fmt.Errorf("index template %q: %w", info.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit refresh: %w", err)
	}
	return len(infos), nil
}

// SearchIndex finds templates whose name or description contains the query,
// case-insensitively, most recently modified first. An empty query lists
// everything.
func SearchIndex(ctx context.Context, db *sql.DB, query string) ([]TemplateInfo, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT name, file_path, COALESCE(created_at,''), COALESCE(modified_at,''),
		        canvas_width, canvas_height, COALESCE(description,'')
		 FROM templates
		 WHERE lower(name) LIKE ? OR lower(COALESCE(description,'')) LIKE ?
		 ORDER BY modified_at DESC, name ASC`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TemplateInfo
	for rows.Next() {
		var info TemplateInfo
		if err := rows.Scan(&info.Name, &info.FilePath, &info.CreatedAt, &info.ModifiedAt,
			&info.CanvasWidth, &info.CanvasHeight, &info.Description); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
