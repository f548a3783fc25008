/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"log/slog"

	"telemetrystudio/internal/domain"
	applog "telemetrystudio/internal/log"
	"telemetrystudio/internal/xmlconv"
)

// ErrEmptyName is returned when a template name sanitizes to nothing.
var ErrEmptyName = errors.New("template name cannot be empty")

// ErrTemplateNotFound is returned when the named template has no XML file.
var ErrTemplateNotFound = errors.New("template not found")

// ErrTemplateExists is returned by Rename when the target name is taken.
var ErrTemplateExists = errors.New("template already exists")

// TemplateInfo is the listing entry for one saved template. Timestamps are
// RFC 3339 strings because the JSON sidecars are shared with other tools.
type TemplateInfo struct {
	Name         string `json:"name"`
	FilePath     string `json:"file_path"`
	CreatedAt    string `json:"created_at"`
	ModifiedAt   string `json:"modified_at"`
	CanvasWidth  int    `json:"canvas_width"`
	CanvasHeight int    `json:"canvas_height"`
	Description  string `json:"description,omitempty"`
}

// TemplateStore keeps layout templates on the filesystem: one renderer XML
// file per template plus a JSON metadata sidecar next to it.
type TemplateStore struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewTemplateStore opens (and creates if needed) the template directory.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("template directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve template dir: %w", err)
	}
	return &TemplateStore{
		dir: abs,
		log: applog.WithComponent("storage"),
		now: time.Now,
	}, nil
}

// Dir returns the absolute template directory.
func (s *TemplateStore) Dir() string { return s.dir }

var (
	invalidChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-]`)
	squeezeRuns  = regexp.MustCompile(`[\s_]+`)
)

// SanitizeName maps a display name to a safe file stem: invalid characters
// become underscores, runs collapse, and the result is length-capped.
func SanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyName
	}
	safe := invalidChars.ReplaceAllString(name, "_")
	safe = squeezeRuns.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("%w: %q sanitizes to nothing", ErrEmptyName, name)
	}
	if r := []rune(safe); len(r) > 200 {
		safe = string(r[:200])
	}
	return safe, nil
}

// xmlPath resolves the template's XML file path and rejects anything that
// escapes the template directory.
func (s *TemplateStore) xmlPath(name string) (string, error) {
	return s.resolve(name, ".xml")
}

func (s *TemplateStore) metaPath(name string) (string, error) {
	return s.resolve(name, ".json")
}

func (s *TemplateStore) resolve(name, ext string) (string, error) {
	safe, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	p := filepath.Join(s.dir, safe+ext)
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve template path: %w", err)
	}
	if abs != s.dir && !strings.HasPrefix(abs, s.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid template path: escapes template directory")
	}
	return abs, nil
}

// Save writes the layout as renderer XML plus a metadata sidecar. Updating an
// existing template preserves its created_at stamp.
func (s *TemplateStore) Save(name string, l *domain.Layout, description string) (string, error) {
	content, err := xmlconv.LayoutToXML(l)
	if err != nil {
		return "", err
	}
	xmlPath, err := s.xmlPath(name)
	if err != nil {
		return "", err
	}
	metaPath, err := s.metaPath(name)
	if err != nil {
		return "", err
	}

	if err := writeFileAtomic(xmlPath, []byte(content)); err != nil {
		return "", fmt.Errorf("write template xml: %w", err)
	}

	now := s.now().Format(time.RFC3339)
	if description == "" {
		description = l.Metadata.Description
	}
	info := TemplateInfo{
		Name:         name,
		FilePath:     xmlPath,
		CreatedAt:    now,
		ModifiedAt:   now,
		CanvasWidth:  l.Canvas.Width,
		CanvasHeight: l.Canvas.Height,
		Description:  description,
	}
	if prev, err := readInfo(metaPath); err == nil && prev.CreatedAt != "" {
		info.CreatedAt = prev.CreatedAt
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal template metadata: %w", err)
	}
	if err := writeFileAtomic(metaPath, data); err != nil {
		return "", fmt.Errorf("write template metadata: %w", err)
	}
	s.log.Info("template saved", slog.String("name", name), slog.String("path", xmlPath))
	return xmlPath, nil
}

// Load reads a template back into a document. Canvas size from the metadata
// sidecar overrides the size inferred from the XML.
func (s *TemplateStore) Load(name string) (*domain.Layout, error) {
	xmlPath, err := s.xmlPath(name)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(xmlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("read template: %w", err)
	}
	l, err := xmlconv.XMLToLayout(string(content), name)
	if err != nil {
		return nil, err
	}

	if metaPath, merr := s.metaPath(name); merr == nil {
		if info, ierr := readInfo(metaPath); ierr == nil && info.CanvasWidth > 0 && info.CanvasHeight > 0 {
			l.Canvas.Width = info.CanvasWidth
			l.Canvas.Height = info.CanvasHeight
		}
	}
	return l, nil
}

// Path returns the absolute XML path of an existing template.
func (s *TemplateStore) Path(name string) (string, error) {
	xmlPath, err := s.xmlPath(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(xmlPath); err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return xmlPath, nil
}

// Exists reports whether a template with the given name is stored.
func (s *TemplateStore) Exists(name string) bool {
	p, err := s.xmlPath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// List returns all stored templates, most recently modified first. Templates
// with a missing or broken sidecar still appear with filename-derived info.
func (s *TemplateStore) List() ([]TemplateInfo, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.xml"))
	if err != nil {
		return nil, fmt.Errorf("scan template dir: %w", err)
	}
	infos := make([]TemplateInfo, 0, len(matches))
	for _, xmlFile := range matches {
		stem := strings.TrimSuffix(filepath.Base(xmlFile), ".xml")
		info, err := readInfo(strings.TrimSuffix(xmlFile, ".xml") + ".json")
		if err != nil {
			info = TemplateInfo{Name: stem, CanvasWidth: 1920, CanvasHeight: 1080}
		}
		if info.Name == "" {
			info.Name = stem
		}
		info.FilePath = xmlFile
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ModifiedAt > infos[j].ModifiedAt })
	return infos, nil
}

// Delete removes a template and its sidecar, reporting whether the XML file
// existed.
func (s *TemplateStore) Delete(name string) (bool, error) {
	xmlPath, err := s.xmlPath(name)
	if err != nil {
		return false, err
	}
	metaPath, err := s.metaPath(name)
	if err != nil {
		return false, err
	}
	deleted := false
	if err := os.Remove(xmlPath); err == nil {
		deleted = true
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("delete template: %w", err)
	}
	if err := os.Remove(metaPath); err != nil && !os.IsNotExist(err) {
		return deleted, fmt.Errorf("delete template metadata: %w", err)
	}
	return deleted, nil
}

// Rename moves a template to a new name, refusing to clobber an existing one.
func (s *TemplateStore) Rename(oldName, newName string) error {
	oldXML, err := s.xmlPath(oldName)
	if err != nil {
		return err
	}
	newXML, err := s.xmlPath(newName)
	if err != nil {
		return err
	}
	if _, err := os.Stat(oldXML); err != nil {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, oldName)
	}
	if _, err := os.Stat(newXML); err == nil {
		return fmt.Errorf("%w: %q", ErrTemplateExists, newName)
	}
	if err := os.Rename(oldXML, newXML); err != nil {
		return fmt.Errorf("rename template: %w", err)
	}

	oldMeta, err := s.metaPath(oldName)
	if err != nil {
		return err
	}
	newMeta, err := s.metaPath(newName)
	if err != nil {
		return err
	}
	if info, ierr := readInfo(oldMeta); ierr == nil {
		info.Name = newName
		info.FilePath = newXML
		info.ModifiedAt = s.now().Format(time.RFC3339)
		if data, merr := json.MarshalIndent(info, "", "  "); merr == nil {
			if werr := writeFileAtomic(newMeta, data); werr == nil {
				_ = os.Remove(oldMeta)
				return nil
			}
		}
	}
	if _, err := os.Stat(oldMeta); err == nil {
		_ = os.Rename(oldMeta, newMeta)
	}
	return nil
}

func readInfo(path string) (TemplateInfo, error) {
	var info TemplateInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return TemplateInfo{}, err
	}
	return info, nil
}
