/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"telemetrystudio/internal/domain"
	"telemetrystudio/internal/storage"
)

// TestRecoverWritesReportAndAutosave ensures Recover handles a panic, writes
// a report and an autosave, and does not terminate the test process due to
// the injected exitFn.
func TestRecoverWritesReportAndAutosave(t *testing.T) {
	// Capture stderr temporarily to avoid noisy test logs
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	// Override exitFn to avoid os.Exit during test and to assert it was called
	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	l := domain.NewLayout("overlay")
	l.Widgets = []*domain.Widget{{ID: domain.NewID(), Type: "metric", X: 10, Y: 20, Visible: true}}

	func() {
		defer Recover(l, dir)
		panic("boom")
	}()

	var report, saved string
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, f := range entries {
		switch {
		case strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log"):
			report = filepath.Join(dir, f.Name())
		case strings.HasPrefix(f.Name(), "autosave-") && strings.HasSuffix(f.Name(), storage.DocumentExt):
			saved = filepath.Join(dir, f.Name())
		}
	}
	if report == "" {
		t.Fatalf("expected crash report file in %s", dir)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", string(b))
	}

	if saved == "" {
		t.Fatalf("expected autosave document in %s", dir)
	}
	restored, err := storage.LoadDocument(saved)
	if err != nil {
		t.Fatalf("load autosave: %v", err)
	}
	if len(restored.Widgets) != 1 || restored.Widgets[0].Type != "metric" {
		t.Fatalf("autosave content wrong: %+v", restored.Widgets)
	}

	// Ensure exit was attempted with code 2 (but intercepted)
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}
