/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"telemetrystudio/internal/domain"
)

func tempStore(t *testing.T) *TemplateStore {
	t.Helper()
	s, err := NewTemplateStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewTemplateStore: %v", err)
	}
	return s
}

func sampleLayout(name string) *domain.Layout {
	l := domain.NewLayout(name)
	l.Widgets = []*domain.Widget{
		{
			ID: domain.NewID(), Type: "text", X: 10, Y: 20, Visible: true,
			Properties: map[string]any{"value": "Hello", "size": float64(24)},
		},
	}
	return l
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"My Layout":        "My_Layout",
		"a/b\\c":           "a_b_c",
		"  spaced   out  ": "spaced_out",
		"dash-ok":          "dash-ok",
		"..":               "",
		"über läuft":       "über_läuft",
	}
	for in, want := range cases {
		got, err := SanitizeName(in)
		if want == "" {
			if err == nil {
				t.Fatalf("SanitizeName(%q) must fail, got %q", in, got)
			}
			continue
		}
		if err != nil || got != want {
			t.Fatalf("SanitizeName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := SanitizeName("   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("blank name must yield ErrEmptyName, got %v", err)
	}
	long, err := SanitizeName(strings.Repeat("x", 400))
	if err != nil || len(long) != 200 {
		t.Fatalf("length cap wrong: len=%d err=%v", len(long), err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := tempStore(t)
	l := sampleLayout("Race Overlay")

	path, err := s.Save("Race Overlay", l, "track day layout")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "Race_Overlay.xml" {
		t.Fatalf("unexpected file name: %s", path)
	}
	if !s.Exists("Race Overlay") {
		t.Fatalf("template must exist after save")
	}

	got, err := s.Load("Race Overlay")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Widgets) != 1 || got.Widgets[0].Type != "text" {
		t.Fatalf("widget lost in round trip: %+v", got.Widgets)
	}
	if v, _ := got.Widgets[0].StringProp("value"); v != "Hello" {
		t.Fatalf("text content lost: %+v", got.Widgets[0].Properties)
	}
	if got.Canvas.Width != l.Canvas.Width {
		t.Fatalf("canvas width lost: %d", got.Canvas.Width)
	}
}

func TestSavePreservesCreatedAt(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	if _, err := s.Save("keep", sampleLayout("keep"), ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	if _, err := s.Save("keep", sampleLayout("keep"), "updated"); err != nil {
		t.Fatalf("update: %v", err)
	}

	infos, err := s.List()
	if err != nil || len(infos) != 1 {
		t.Fatalf("list: %v (%d entries)", err, len(infos))
	}
	if infos[0].CreatedAt != base.Format(time.RFC3339) {
		t.Fatalf("created_at must survive updates: %s", infos[0].CreatedAt)
	}
	if infos[0].ModifiedAt == infos[0].CreatedAt {
		t.Fatalf("modified_at must advance on update")
	}
	if infos[0].Description != "updated" {
		t.Fatalf("description not updated: %q", infos[0].Description)
	}
}

func TestListSurvivesBrokenSidecar(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Save("good", sampleLayout("good"), ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "bare.xml"), []byte("<layout/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "broken.xml"), []byte("<layout/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	infos, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := make(map[string]bool)
	for _, info := range infos {
		names[info.Name] = true
	}
	for _, want := range []string{"good", "bare", "broken"} {
		if !names[want] {
			t.Fatalf("missing %q in listing: %v", want, names)
		}
	}
}

func TestDeleteTemplate(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Save("gone", sampleLayout("gone"), ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	deleted, err := s.Delete("gone")
	if err != nil || !deleted {
		t.Fatalf("delete: %v deleted=%v", err, deleted)
	}
	if s.Exists("gone") {
		t.Fatalf("template must be gone")
	}
	deleted, err = s.Delete("gone")
	if err != nil || deleted {
		t.Fatalf("second delete must report false, got %v %v", deleted, err)
	}
}

func TestRenameTemplate(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Save("old name", sampleLayout("old name"), "d"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save("taken", sampleLayout("taken"), ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Rename("old name", "taken"); !errors.Is(err, ErrTemplateExists) {
		t.Fatalf("rename onto existing must fail, got %v", err)
	}
	if err := s.Rename("missing", "whatever"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("rename of missing must fail, got %v", err)
	}

	if err := s.Rename("old name", "new name"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if s.Exists("old name") || !s.Exists("new name") {
		t.Fatalf("rename did not move the template")
	}
	infos, _ := s.List()
	for _, info := range infos {
		if info.Name == "new name" {
			return
		}
	}
	t.Fatalf("metadata name not updated: %+v", infos)
}

func TestPathTraversalRejected(t *testing.T) {
	s := tempStore(t)
	// traversal characters sanitize away rather than escaping the directory
	path, err := s.Save("../../evil", sampleLayout("x"), "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(path) != s.Dir() {
		t.Fatalf("file escaped the template dir: %s", path)
	}
	if filepath.Base(path) != "evil.xml" {
		t.Fatalf("unexpected sanitized name: %s", path)
	}
}

func TestLoadMissingTemplate(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if _, err := s.Path("nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestCanvasOverrideFromSidecar(t *testing.T) {
	s := tempStore(t)
	l := sampleLayout("sized")
	l.Canvas.Width, l.Canvas.Height = 3840, 2160
	if _, err := s.Save("sized", l, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load("sized")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// XML carries no canvas element; the sidecar must restore the true size
	if got.Canvas.Width != 3840 || got.Canvas.Height != 2160 {
		t.Fatalf("canvas override lost: %dx%d", got.Canvas.Width, got.Canvas.Height)
	}
}
