/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package history

import (
	"testing"

	"telemetrystudio/internal/domain"
)

func layoutNamed(name string) *domain.Layout {
	l := domain.NewLayout(name)
	l.ID = "fixed-id" // deterministic blobs for dedupe checks
	return l
}

func TestUndoRedoBasic(t *testing.T) {
	m := NewManager(Config{})
	m.Snapshot(layoutNamed("a"))
	m.Snapshot(layoutNamed("b"))

	if !m.CanUndo() || m.CanRedo() {
		t.Fatalf("expected undo only: canUndo=%v canRedo=%v", m.CanUndo(), m.CanRedo())
	}
	l, ok := m.Undo()
	if !ok || l.Metadata.Name != "a" {
		t.Fatalf("undo expected 'a', got ok=%v name=%q", ok, l.Metadata.Name)
	}
	l, ok = m.Redo()
	if !ok || l.Metadata.Name != "b" {
		t.Fatalf("redo expected 'b', got ok=%v name=%q", ok, l.Metadata.Name)
	}
}

func TestBoundaryNoOps(t *testing.T) {
	m := NewManager(Config{})
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo on empty history must be a no-op")
	}
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo on empty history must be a no-op")
	}
	m.Snapshot(layoutNamed("only"))
	if _, ok := m.Undo(); ok {
		t.Fatalf("single snapshot means nothing to undo to")
	}
}

func TestSnapshotDeduplication(t *testing.T) {
	m := NewManager(Config{})
	m.Snapshot(layoutNamed("same"))
	m.Snapshot(layoutNamed("same"))
	if got := m.Len(); got != 1 {
		t.Fatalf("identical snapshots must coalesce, got %d entries", got)
	}
}

func TestLinearHistoryDiscardsFuture(t *testing.T) {
	m := NewManager(Config{})
	m.Snapshot(layoutNamed("1"))
	m.Snapshot(layoutNamed("2"))
	m.Snapshot(layoutNamed("3"))
	if _, ok := m.Undo(); !ok {
		t.Fatalf("first undo failed")
	}
	if _, ok := m.Undo(); !ok {
		t.Fatalf("second undo failed")
	}
	m.Snapshot(layoutNamed("new-branch"))
	if m.CanRedo() {
		t.Fatalf("new edit after undo must discard the abandoned future")
	}
	l, ok := m.Undo()
	if !ok || l.Metadata.Name != "1" {
		t.Fatalf("undo after branch expected '1', got %q", l.Metadata.Name)
	}
}

func TestEvictionKeepsUndoWorking(t *testing.T) {
	m := NewManager(Config{MaxEntries: 3})
	for _, n := range []string{"1", "2", "3", "4", "5"} {
		m.Snapshot(layoutNamed(n))
	}
	if got := m.Len(); got != 3 {
		t.Fatalf("expected 3 retained entries, got %d", got)
	}
	l, ok := m.Undo()
	if !ok || l.Metadata.Name != "4" {
		t.Fatalf("undo after eviction expected '4', got ok=%v %q", ok, l.Metadata.Name)
	}
	l, ok = m.Undo()
	if !ok || l.Metadata.Name != "3" {
		t.Fatalf("second undo expected '3', got %q", l.Metadata.Name)
	}
	if _, ok = m.Undo(); ok {
		t.Fatalf("oldest retained entry is the floor")
	}
}

func TestClearAndNotify(t *testing.T) {
	m := NewManager(Config{})
	var lastUndo, lastRedo bool
	calls := 0
	m.Subscribe(func(u, r bool) { lastUndo, lastRedo = u, r; calls++ })

	m.Snapshot(layoutNamed("a"))
	m.Snapshot(layoutNamed("b"))
	if calls != 2 || !lastUndo || lastRedo {
		t.Fatalf("notify after snapshots wrong: calls=%d undo=%v redo=%v", calls, lastUndo, lastRedo)
	}
	m.Undo()
	if !lastRedo {
		t.Fatalf("redo must become available after undo")
	}
	m.Clear()
	if m.CanUndo() || m.CanRedo() || m.Len() != 0 {
		t.Fatalf("clear must empty everything")
	}
	if lastUndo || lastRedo {
		t.Fatalf("clear must notify unavailability")
	}
}

func TestSnapshotCapturesDeepCopy(t *testing.T) {
	m := NewManager(Config{})
	live := layoutNamed("doc")
	live.Widgets = []*domain.Widget{{ID: "w1", Type: "text", Visible: true, Properties: map[string]any{"value": "v"}}}
	m.Snapshot(live)

	// mutating the live document must not reach into the stored entry
	live.Widgets[0].Properties["value"] = "edited"
	m.Snapshot(live)

	restored, ok := m.Undo()
	if !ok {
		t.Fatalf("undo failed")
	}
	if restored.Widgets[0].Properties["value"] != "v" {
		t.Fatalf("snapshot leaked a live reference: %+v", restored.Widgets[0].Properties)
	}
}

func TestRestoredDocumentIsIndependent(t *testing.T) {
	m := NewManager(Config{})
	orig := layoutNamed("doc")
	orig.Widgets = []*domain.Widget{{ID: "w1", Type: "text", Visible: true, Properties: map[string]any{"value": "v"}}}
	m.Snapshot(orig)
	m.Snapshot(layoutNamed("other"))

	restored, ok := m.Undo()
	if !ok {
		t.Fatalf("undo failed")
	}
	restored.Widgets[0].Properties["value"] = "mutated"
	again, ok := m.Redo()
	if !ok {
		t.Fatalf("redo failed")
	}
	_ = again
	back, ok := m.Undo()
	if !ok {
		t.Fatalf("second undo failed")
	}
	if back.Widgets[0].Properties["value"] != "v" {
		t.Fatalf("snapshot must be immutable once pushed")
	}
}
