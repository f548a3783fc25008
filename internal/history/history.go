/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package history provides a bounded, linear snapshot stack for undo/redo
// over the layout document. Each snapshot is a structural deep copy of the
// whole document, paired with its canonical JSON form so identical states can
// be deduplicated by byte comparison; a cursor walks the list, and any new
// edit after an undo discards the abandoned future.
package history

import (
	"bytes"
	"encoding/json"
	"sync"

	"telemetrystudio/internal/domain"
)

// Config controls depth caps.
type Config struct {
	// MaxEntries bounds the retained snapshot count; oldest entries are
	// evicted once exceeded (0 means the default).
	MaxEntries int
}

const defaultMaxEntries = 50

// entry is one retained document state: the deep copy handed back on restore
// and the serialized form used for deduplication.
type entry struct {
	doc  *domain.Layout
	blob []byte
}

// Manager owns the snapshot list. It is safe for concurrent use, though the
// editor drives it from a single goroutine.
type Manager struct {
	mu      sync.Mutex
	cfg     Config
	entries []entry
	current int // index of the snapshot matching the live document; -1 when empty
	last    []byte
	subs    []func(canUndo, canRedo bool)
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	return &Manager{cfg: cfg, current: -1}
}

// Subscribe registers a listener for undo/redo availability changes. It fires
// after every snapshot, undo, redo and clear.
func (m *Manager) Subscribe(fn func(canUndo, canRedo bool)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Snapshot records the current document state. Identical back-to-back states
// are deduplicated so repeated no-op edits cost nothing. Any "future" beyond
// the cursor is truncated first: history is linear, not a tree.
func (m *Manager) Snapshot(l *domain.Layout) {
	blob, err := json.Marshal(l)
	if err != nil {
		return
	}
	m.mu.Lock()
	if m.last != nil && bytes.Equal(blob, m.last) {
		m.mu.Unlock()
		return
	}
	m.entries = m.entries[:m.current+1]
	m.entries = append(m.entries, entry{doc: l.Clone(), blob: blob})
	m.current++
	if len(m.entries) > m.cfg.MaxEntries {
		drop := len(m.entries) - m.cfg.MaxEntries
		m.entries = append([]entry{}, m.entries[drop:]...)
		m.current -= drop
	}
	m.last = blob
	subs, canUndo, canRedo := m.stateLocked()
	m.mu.Unlock()
	notify(subs, canUndo, canRedo)
}

// Undo steps the cursor back and returns a deep copy of the document to
// restore. A false return means the boundary was hit; that is not an error.
func (m *Manager) Undo() (*domain.Layout, bool) {
	m.mu.Lock()
	if m.current <= 0 {
		m.mu.Unlock()
		return nil, false
	}
	m.current--
	l := m.entries[m.current].doc.Clone()
	m.last = m.entries[m.current].blob
	subs, canUndo, canRedo := m.stateLocked()
	m.mu.Unlock()
	notify(subs, canUndo, canRedo)
	return l, true
}

// Redo steps the cursor forward and returns a deep copy of the document to
// restore.
func (m *Manager) Redo() (*domain.Layout, bool) {
	m.mu.Lock()
	if m.current < 0 || m.current >= len(m.entries)-1 {
		m.mu.Unlock()
		return nil, false
	}
	m.current++
	l := m.entries[m.current].doc.Clone()
	m.last = m.entries[m.current].blob
	subs, canUndo, canRedo := m.stateLocked()
	m.mu.Unlock()
	notify(subs, canUndo, canRedo)
	return l, true
}

// CanUndo reports whether an undo step exists.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current > 0
}

// CanRedo reports whether a redo step exists.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current >= 0 && m.current < len(m.entries)-1
}

// Len returns the number of retained snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear drops all history. Used when a wholesale new document replaces the
// current one; the old history is meaningless for a different document.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.entries = nil
	m.current = -1
	m.last = nil
	subs, canUndo, canRedo := m.stateLocked()
	m.mu.Unlock()
	notify(subs, canUndo, canRedo)
}

func (m *Manager) stateLocked() ([]func(bool, bool), bool, bool) {
	subs := append([]func(bool, bool){}, m.subs...)
	return subs, m.current > 0, m.current >= 0 && m.current < len(m.entries)-1
}

func notify(subs []func(bool, bool), canUndo, canRedo bool) {
	for _, fn := range subs {
		fn(canUndo, canRedo)
	}
}
