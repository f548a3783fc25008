/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor holds the aggregate editing state: the live document, the
// selection, the history manager and the event bus that rendering surfaces
// subscribe to. All document mutations flow through this package so snapshot
// and event policy live in exactly one place.
//
// Snapshot policy: one snapshot per discrete user action. Continuous gestures
// (drag frames, live resize) go through the staging variants which mutate the
// document without recording history; the gesture's end calls CommitSnapshot
// once.
package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
	"telemetrystudio/internal/history"
	applog "telemetrystudio/internal/log"
)

// ErrUnknownType is returned when a widget type is absent from the catalog.
var ErrUnknownType = errors.New("unknown widget type")

// ErrInvalidCanvas is returned for non-positive canvas dimensions or grid size.
var ErrInvalidCanvas = errors.New("invalid canvas settings")

// Options configures a new editor state.
type Options struct {
	// HistoryLimit caps retained undo snapshots (0 uses the history default).
	HistoryLimit int
}

// State is the aggregate root for one editing session. It is not safe for
// concurrent use; callers drive it from a single goroutine, matching the
// one-session-one-owner model.
type State struct {
	log       *slog.Logger
	catalog   *catalog.Catalog
	layout    *domain.Layout
	selection map[string]struct{}
	dirty     bool
	hist      *history.Manager
	bus       *bus
	restoring bool
}

// New creates an editor over a fresh blank document.
func New(cat *catalog.Catalog, opts Options) *State {
	s := &State{
		log:       applog.WithComponent("editor"),
		catalog:   cat,
		selection: make(map[string]struct{}),
		bus:       newBus(),
		hist:      history.NewManager(history.Config{MaxEntries: opts.HistoryLimit}),
	}
	s.hist.Subscribe(func(canUndo, canRedo bool) {
		s.bus.publish(HistoryChanged{CanUndo: canUndo, CanRedo: canRedo})
	})
	s.layout = domain.NewLayout("")
	s.hist.Snapshot(s.layout)
	return s
}

// Layout exposes the live document. Callers must treat it as read-only;
// mutations go through the State methods.
func (s *State) Layout() *domain.Layout { return s.layout }

// Catalog returns the widget type catalog for this session.
func (s *State) Catalog() *catalog.Catalog { return s.catalog }

// Dirty reports whether the document changed since the last ClearDirty.
func (s *State) Dirty() bool { return s.dirty }

// ClearDirty marks the document as saved.
func (s *State) ClearDirty() { s.dirty = false }

// CanUndo reports undo availability.
func (s *State) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports redo availability.
func (s *State) CanRedo() bool { return s.hist.CanRedo() }

// Subscribe registers an event listener and returns its unsubscribe closure.
func (s *State) Subscribe(fn func(Event)) func() { return s.bus.subscribe(fn) }

// Find returns the live widget with the given id, or nil.
func (s *State) Find(id string) *domain.Widget { return s.layout.Find(id) }

// CommitSnapshot records the current document in history. Gestures call it
// once on completion; it is a no-op during a history restore.
func (s *State) CommitSnapshot() {
	if s.restoring {
		return
	}
	s.hist.Snapshot(s.layout)
}

// NewDocument replaces the current document with a fresh blank one, resetting
// selection and history.
func (s *State) NewDocument(name string) {
	s.replaceDocument(domain.NewLayout(name), false)
}

// LoadDocument replaces the current document with a loaded one, resetting
// selection and history.
func (s *State) LoadDocument(l *domain.Layout) error {
	if l == nil {
		return errors.New("nil layout")
	}
	if err := validateCanvas(l.Canvas); err != nil {
		return err
	}
	s.replaceDocument(l, false)
	s.dirty = false
	return nil
}

func (s *State) replaceDocument(l *domain.Layout, restored bool) {
	s.layout = l
	s.selection = make(map[string]struct{})
	if !restored {
		s.hist.Clear()
		s.hist.Snapshot(l)
	}
	s.dirty = true
	s.bus.publish(DocumentReplaced{Layout: l, Restored: restored})
	s.bus.publish(SelectionChanged{IDs: nil})
}

// Serialize returns the document as JSON.
func (s *State) Serialize() ([]byte, error) {
	return json.MarshalIndent(s.layout, "", "  ")
}

// Restore loads a document from its JSON form, resetting history.
func (s *State) Restore(data []byte) error {
	var l domain.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("decode layout: %w", err)
	}
	return s.LoadDocument(&l)
}

// AddWidget instantiates a widget of the given catalog type at (x, y) and
// appends it: to parentID's child list when that widget exists, otherwise to
// the document root (a stale parent id degrades to a root add rather than
// failing). Defaults come from the catalog; position stays out of the
// property bag. Records one snapshot.
func (s *State) AddWidget(typ string, x, y float64, parentID string) (*domain.Widget, error) {
	meta, ok := s.catalog.Get(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	w := &domain.Widget{
		ID:         domain.NewID(),
		Type:       typ,
		Name:       meta.Name,
		X:          x,
		Y:          y,
		Properties: s.catalog.DefaultProperties(typ),
		Children:   []*domain.Widget{},
		Visible:    true,
	}
	var parent *domain.Widget
	if parentID != "" {
		parent = s.layout.Find(parentID)
	}
	if parent != nil {
		parent.Children = append(parent.Children, w)
	} else {
		parentID = ""
		s.layout.Widgets = append(s.layout.Widgets, w)
	}
	s.dirty = true
	s.log.Debug("widget added", slog.String("type", typ), slog.String("id", w.ID))
	s.bus.publish(WidgetAdded{Widget: w, ParentID: parentID})
	s.CommitSnapshot()
	return w, nil
}

// RemoveWidget detaches the widget and its subtree, pruning it from the
// selection. Records one snapshot when a removal occurred.
func (s *State) RemoveWidget(id string) bool {
	if !s.removeOne(id) {
		return false
	}
	s.CommitSnapshot()
	return true
}

// RemoveWidgets removes several widgets as one discrete action with a single
// snapshot, the shape of a multi-select delete.
func (s *State) RemoveWidgets(ids []string) bool {
	any := false
	for _, id := range ids {
		if s.removeOne(id) {
			any = true
		}
	}
	if any {
		s.CommitSnapshot()
	}
	return any
}

func (s *State) removeOne(id string) bool {
	if !s.layout.Remove(id) {
		return false
	}
	s.dirty = true
	s.bus.publish(WidgetRemoved{ID: id})
	s.pruneSelection()
	return true
}

// Patch is a partial widget update; nil fields are left untouched.
type Patch struct {
	X       *float64
	Y       *float64
	Name    *string
	Locked  *bool
	Visible *bool
}

// StageUpdate applies a patch without recording history. Drag frames use it;
// the gesture commits once at the end.
func (s *State) StageUpdate(id string, p Patch) bool {
	w := s.layout.Find(id)
	if w == nil {
		return false
	}
	if p.X != nil {
		w.X = *p.X
	}
	if p.Y != nil {
		w.Y = *p.Y
	}
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Locked != nil {
		w.Locked = *p.Locked
	}
	if p.Visible != nil {
		w.Visible = *p.Visible
	}
	s.dirty = true
	s.bus.publish(WidgetUpdated{Widget: w})
	return true
}

// UpdateWidget applies a patch as a discrete action with one snapshot.
func (s *State) UpdateWidget(id string, p Patch) bool {
	if !s.StageUpdate(id, p) {
		return false
	}
	s.CommitSnapshot()
	return true
}

// StageProperty writes a property without recording history. Keys "x" and "y"
// redirect to the position fields so stale documents and generic panels cannot
// fork the anchor into the property bag.
func (s *State) StageProperty(id, key string, value any) bool {
	w := s.layout.Find(id)
	if w == nil {
		return false
	}
	switch key {
	case "x":
		if n, ok := asNumber(value); ok {
			w.X = n
		}
	case "y":
		if n, ok := asNumber(value); ok {
			w.Y = n
		}
	default:
		if w.Properties == nil {
			w.Properties = make(map[string]any)
		}
		w.Properties[key] = value
	}
	s.dirty = true
	s.bus.publish(PropertyChanged{Widget: w, Key: key, Value: value})
	return true
}

// SetProperty writes a property as a discrete action with one snapshot.
func (s *State) SetProperty(id, key string, value any) bool {
	if !s.StageProperty(id, key, value) {
		return false
	}
	s.CommitSnapshot()
	return true
}

// SetDisplaySize stages the interactive display-size override for widgets
// whose type has no native size property. No snapshot: callers commit at
// gesture end.
func (s *State) SetDisplaySize(id string, width, height float64) bool {
	w := s.layout.Find(id)
	if w == nil {
		return false
	}
	w.DisplayWidth = width
	w.DisplayHeight = height
	s.dirty = true
	s.bus.publish(WidgetUpdated{Widget: w})
	return true
}

// MoveWidgetTo reparents a widget: detaches it and inserts it into the new
// parent's child list (document root when parentID is empty) at index, with
// out-of-range indexes clamped. Moving a widget into its own subtree is
// rejected. Records one snapshot.
func (s *State) MoveWidgetTo(id, parentID string, index int) bool {
	w := s.layout.Find(id)
	if w == nil || id == parentID {
		return false
	}
	if parentID != "" {
		p := s.layout.Find(parentID)
		if p == nil || findIn(w, parentID) {
			return false
		}
	}
	s.layout.Remove(id)
	if parentID == "" {
		s.layout.Widgets = insertAt(s.layout.Widgets, w, index)
	} else {
		p := s.layout.Find(parentID)
		p.Children = insertAt(p.Children, w, index)
	}
	s.dirty = true
	s.bus.publish(WidgetUpdated{Widget: w})
	s.CommitSnapshot()
	return true
}

// ReorderWidget moves a widget to a new index within its current sibling
// list, changing paint order only. Records one snapshot.
func (s *State) ReorderWidget(id string, index int) bool {
	w := s.layout.Find(id)
	if w == nil {
		return false
	}
	parent := s.layout.Parent(id)
	parentID := ""
	if parent != nil {
		parentID = parent.ID
	}
	return s.MoveWidgetTo(id, parentID, index)
}

// UpdateCanvas replaces the canvas settings as a discrete action.
func (s *State) UpdateCanvas(c domain.CanvasSettings) error {
	if err := validateCanvas(c); err != nil {
		return err
	}
	s.layout.Canvas = c
	s.dirty = true
	s.bus.publish(CanvasChanged{Canvas: c})
	s.CommitSnapshot()
	return nil
}

// Undo restores the previous history snapshot. The restored document replaces
// the live one wholesale; selection is pruned to surviving ids.
func (s *State) Undo() bool { return s.restore(s.hist.Undo) }

// Redo restores the next history snapshot.
func (s *State) Redo() bool { return s.restore(s.hist.Redo) }

func (s *State) restore(step func() (*domain.Layout, bool)) bool {
	if s.restoring {
		return false
	}
	s.restoring = true
	defer func() { s.restoring = false }()

	l, ok := step()
	if !ok {
		return false
	}
	s.layout = l
	s.dirty = true
	s.pruneSelection()
	s.bus.publish(DocumentReplaced{Layout: l, Restored: true})
	return true
}

// Select makes id the selection, or adds it when additive is set. Unknown ids
// clear (or leave) the selection rather than erroring.
func (s *State) Select(id string, additive bool) {
	if !additive {
		s.selection = make(map[string]struct{})
	}
	if s.layout.Find(id) != nil {
		s.selection[id] = struct{}{}
	}
	s.publishSelection()
}

// ToggleSelect flips membership of id in the selection.
func (s *State) ToggleSelect(id string) {
	if _, ok := s.selection[id]; ok {
		delete(s.selection, id)
	} else if s.layout.Find(id) != nil {
		s.selection[id] = struct{}{}
	}
	s.publishSelection()
}

// ClearSelection empties the selection.
func (s *State) ClearSelection() {
	if len(s.selection) == 0 {
		return
	}
	s.selection = make(map[string]struct{})
	s.publishSelection()
}

// SelectAll selects every widget in the document, containers and leaves alike.
func (s *State) SelectAll() {
	s.selection = s.layout.IDs()
	s.publishSelection()
}

// IsSelected reports selection membership.
func (s *State) IsSelected(id string) bool {
	_, ok := s.selection[id]
	return ok
}

// Selection returns the selected ids in paint order.
func (s *State) Selection() []string {
	if len(s.selection) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.selection))
	s.layout.Walk(func(w, _ *domain.Widget) bool {
		if _, ok := s.selection[w.ID]; ok {
			out = append(out, w.ID)
		}
		return true
	})
	// ids not found by the walk no longer exist; they were pruned already, but
	// stay deterministic regardless
	if len(out) != len(s.selection) {
		sort.Strings(out)
	}
	return out
}

// pruneSelection drops selected ids that no longer exist in the document.
func (s *State) pruneSelection() {
	if len(s.selection) == 0 {
		return
	}
	ids := s.layout.IDs()
	changed := false
	for id := range s.selection {
		if _, ok := ids[id]; !ok {
			delete(s.selection, id)
			changed = true
		}
	}
	if changed {
		s.publishSelection()
	}
}

func (s *State) publishSelection() {
	s.bus.publish(SelectionChanged{IDs: s.Selection()})
}

func validateCanvas(c domain.CanvasSettings) error {
	if c.Width <= 0 || c.Height <= 0 || c.GridSize <= 0 {
		return fmt.Errorf("%w: width=%d height=%d grid=%d", ErrInvalidCanvas, c.Width, c.Height, c.GridSize)
	}
	return nil
}

// findIn reports whether id occurs in w's subtree (excluding w itself is not
// needed; callers compare ids first).
func findIn(w *domain.Widget, id string) bool {
	for _, c := range w.Children {
		if c.ID == id || findIn(c, id) {
			return true
		}
	}
	return false
}

func insertAt(list []*domain.Widget, w *domain.Widget, index int) []*domain.Widget {
	if index < 0 || index > len(list) {
		index = len(list)
	}
	list = append(list, nil)
	copy(list[index+1:], list[index:])
	list[index] = w
	return list
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
