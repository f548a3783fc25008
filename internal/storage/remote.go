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
	"strings"
	"time"

	"log/slog"

	"telemetrystudio/internal/domain"
	applog "telemetrystudio/internal/log"
	"telemetrystudio/internal/xmlconv"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// RemoteLibrary is the optional shared template library backed by Postgres.
// Teams point several editor installations at one database and exchange
// templates through it; the filesystem store stays the local working set.
type RemoteLibrary struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenRemote connects to the shared library and ensures its schema.
func OpenRemote(ctx context.Context, dsn string) (*RemoteLibrary, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("remote library DSN is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open remote library: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping remote library: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS shared_templates (
		name          TEXT PRIMARY KEY,
		xml           TEXT NOT NULL,
		canvas_width  INTEGER NOT NULL DEFAULT 1920,
		canvas_height INTEGER NOT NULL DEFAULT 1080,
		description   TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure remote schema: %w", err)
	}
	return &RemoteLibrary{db: db, log: applog.WithComponent("storage")}, nil
}

// Close releases the database connection.
func (r *RemoteLibrary) Close() error { return r.db.Close() }

// Push uploads a layout under the given template name, replacing any previous
// version but keeping its creation time.
func (r *RemoteLibrary) Push(ctx context.Context, name string, l *domain.Layout, description string) error {
	if _, err := SanitizeName(name); err != nil {
		return err
	}
	content, err := xmlconv.LayoutToXML(l)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO shared_templates(name, xml, canvas_width, canvas_height, description)
		 VALUES($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO UPDATE SET
		   xml = excluded.xml,
		   canvas_width = excluded.canvas_width,
		   canvas_height = excluded.canvas_height,
		   description = excluded.description,
		   updated_at = now()`,
		name, content, l.Canvas.Width, l.Canvas.Height, description)
	if err != nil {
		return fmt.Errorf("push template %q: %w", name, err)
	}
	r.log.Info("template pushed", slog.String("name", name))
	return nil
}

// Pull downloads a shared template as a document.
func (r *RemoteLibrary) Pull(ctx context.Context, name string) (*domain.Layout, error) {
	var (
		content       string
		width, height int
	)
	row := r.db.QueryRowContext(ctx,
		`SELECT xml, canvas_width, canvas_height FROM shared_templates WHERE name = $1`, name)
	switch err := row.Scan(&content, &width, &height); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	case err != nil:
		return nil, fmt.Errorf("pull template %q: %w", name, err)
	}
	l, err := xmlconv.XMLToLayout(content, name)
	if err != nil {
		return nil, err
	}
	if width > 0 && height > 0 {
		l.Canvas.Width, l.Canvas.Height = width, height
	}
	return l, nil
}

// List returns all shared templates, most recently updated first.
func (r *RemoteLibrary) List(ctx context.Context) ([]TemplateInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, canvas_width, canvas_height, COALESCE(description,''), created_at, updated_at
		 FROM shared_templates ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list remote templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TemplateInfo
	for rows.Next() {
		var (
			info             TemplateInfo
			created, updated time.Time
		)
		if err := rows.Scan(&info.Name, &info.CanvasWidth, &info.CanvasHeight,
			&info.Description, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan remote template: %w", err)
		}
		info.CreatedAt = created.UTC().Format(time.RFC3339)
		info.ModifiedAt = updated.UTC().Format(time.RFC3339)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a shared template, reporting whether it existed.
func (r *RemoteLibrary) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shared_templates WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("delete remote template %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
