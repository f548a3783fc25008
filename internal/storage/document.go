/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists editor state: layout documents as JSON with
// backup rotation, the filesystem template library with its SQLite index,
// and an optional shared Postgres template library.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"telemetrystudio/internal/domain"
)

const (
	// DocumentExt is the native document file extension.
	DocumentExt = ".tsl.json"

	backupsDirName = "backups"
	maxBackups     = 10
)

// SaveDocument writes the layout to path as indented JSON. The previous file,
// when present, is copied to a timestamped backup next to the document before
// the atomic replace; old backups rotate out beyond maxBackups per document.
func SaveDocument(path string, l *domain.Layout) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("document path is required")
	}
	if l == nil {
		return errors.New("nil layout")
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if _, statErr := os.Stat(path); statErr == nil {
		if err := backupDocument(path); err != nil {
			return err
		}
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// LoadDocument reads a layout document from path. A corrupt or missing file
// falls back to the most recent readable backup.
func LoadDocument(path string) (*domain.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if l, berr := loadFromLatestBackup(path); berr == nil {
			return l, nil
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	var l domain.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		if bl, berr := loadFromLatestBackup(path); berr == nil {
			return bl, nil
		}
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &l, nil
}

func backupsDir(path string) string {
	return filepath.Join(filepath.Dir(path), backupsDirName)
}

func backupDocument(path string) error {
	bdir := backupsDir(path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405.000")
	bname := fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp)
	if err := copyFile(path, filepath.Join(bdir, bname)); err != nil {
		return fmt.Errorf("backup document: %w", err)
	}
	pruneBackups(bdir, filepath.Base(path))
	return nil
}

func documentBackups(path string) []string {
	matches, err := filepath.Glob(filepath.Join(backupsDir(path), filepath.Base(path)+".*.bak"))
	if err != nil {
		return nil
	}
	sort.Strings(matches) // timestamps sort lexically
	return matches
}

func pruneBackups(bdir, base string) {
	matches, err := filepath.Glob(filepath.Join(bdir, base+".*.bak"))
	if err != nil || len(matches) <= maxBackups {
		return
	}
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-maxBackups] {
		_ = os.Remove(old)
	}
}

func loadFromLatestBackup(path string) (*domain.Layout, error) {
	backups := documentBackups(path)
	for i := len(backups) - 1; i >= 0; i-- {
		data, err := os.ReadFile(backups[i])
		if err != nil {
			continue
		}
		var l domain.Layout
		if err := json.Unmarshal(data, &l); err != nil {
			continue
		}
		return &l, nil
	}
	return nil, errors.New("no readable backup")
}
