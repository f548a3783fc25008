/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas implements the interaction engine: the gesture layer that
// turns pointer and keyboard input into editor mutations. Gestures stage
// intermediate frames through the editor's snapshot-free variants and commit
// exactly one history snapshot when the gesture ends.
package canvas

import (
	"errors"
	"log/slog"
	"time"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
	"telemetrystudio/internal/editor"
	"telemetrystudio/internal/geometry"
	applog "telemetrystudio/internal/log"
)

// Zoom bounds for the canvas view.
const (
	MinScale = 0.1
	MaxScale = 2.0
)

// MinWidgetSize is the floor for interactive resize, per dimension.
const MinWidgetSize = 20

// dropDebounce suppresses duplicate palette drops: some drag sources fire the
// drop event twice in quick succession.
const dropDebounce = 300 * time.Millisecond

// ErrDropThrottled marks a drop arriving inside the debounce window.
var ErrDropThrottled = errors.New("drop ignored: debounce window")

// Handle names one of the eight resize grips.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

func (h Handle) west() bool  { return h == HandleW || h == HandleNW || h == HandleSW }
func (h Handle) east() bool  { return h == HandleE || h == HandleNE || h == HandleSE }
func (h Handle) north() bool { return h == HandleN || h == HandleNW || h == HandleNE }
func (h Handle) south() bool { return h == HandleS || h == HandleSW || h == HandleSE }

type dragItem struct {
	id     string
	startX float64
	startY float64
}

type dragState struct {
	start geometry.Pt
	items []dragItem
	moved bool
}

type resizeState struct {
	id        string
	handle    Handle
	start     geometry.Pt
	startRect geometry.Rect
	anchorX   float64
	anchorY   float64
	moved     bool
}

// Engine drives one canvas view over an editor session. Like the editor it is
// single-goroutine; input events arrive serialized.
type Engine struct {
	log *slog.Logger
	ed  *editor.State

	scale      float64
	panX, panY float64

	drag   *dragState
	resize *resizeState

	lastDrop     time.Time
	lastDropType string
	now          func() time.Time
}

// NewEngine creates an engine over the given editor at 100% zoom.
func NewEngine(ed *editor.State) *Engine {
	return &Engine{
		log:   applog.WithComponent("canvas"),
		ed:    ed,
		scale: 1.0,
		now:   time.Now,
	}
}

// Editor returns the underlying editor state.
func (e *Engine) Editor() *editor.State { return e.ed }

// Scale returns the current zoom factor.
func (e *Engine) Scale() float64 { return e.scale }

// SetScale clamps and applies a zoom factor, returning the value in effect.
func (e *Engine) SetScale(s float64) float64 {
	if s < MinScale {
		s = MinScale
	}
	if s > MaxScale {
		s = MaxScale
	}
	e.scale = s
	return e.scale
}

// SetPan sets the view pan offset in screen pixels.
func (e *Engine) SetPan(x, y float64) { e.panX, e.panY = x, y }

// ToCanvas maps a screen-space pointer position into canvas coordinates,
// undoing pan and zoom.
func (e *Engine) ToCanvas(screenX, screenY float64) geometry.Pt {
	return geometry.Pt{
		X: (screenX - e.panX) / e.scale,
		Y: (screenY - e.panY) / e.scale,
	}
}

// Click applies click selection: plain click selects exactly the hit widget,
// a modifier click toggles its membership. An empty id (background click)
// clears the selection.
func (e *Engine) Click(id string, additive bool) {
	if id == "" {
		e.ed.ClearSelection()
		return
	}
	if additive {
		e.ed.ToggleSelect(id)
		return
	}
	e.ed.Select(id, false)
}

// SelectAll selects every widget in the document.
func (e *Engine) SelectAll() { e.ed.SelectAll() }

// BeginDrag starts a move gesture anchored at the pointer position (canvas
// space). Locked and missing widgets refuse the gesture. When the hit widget
// is part of the selection the whole selection moves; otherwise the hit
// widget becomes the selection and moves alone.
func (e *Engine) BeginDrag(id string, at geometry.Pt) bool {
	w := e.ed.Find(id)
	if w == nil || w.Locked {
		return false
	}
	if !e.ed.IsSelected(id) {
		e.ed.Select(id, false)
	}
	items := e.dragTargets()
	if len(items) == 0 {
		return false
	}
	e.drag = &dragState{start: at, items: items}
	return true
}

// dragTargets collects start anchors for every selected, unlocked widget
// whose ancestors are not themselves selected; a selected container already
// carries its subtree, so moving both would double the displacement.
func (e *Engine) dragTargets() []dragItem {
	var items []dragItem
	for _, id := range e.ed.Selection() {
		w := e.ed.Find(id)
		if w == nil || w.Locked || e.ancestorSelected(id) {
			continue
		}
		items = append(items, dragItem{id: id, startX: w.X, startY: w.Y})
	}
	return items
}

func (e *Engine) ancestorSelected(id string) bool {
	for p := e.ed.Layout().Parent(id); p != nil; p = e.ed.Layout().Parent(p.ID) {
		if e.ed.IsSelected(p.ID) {
			return true
		}
	}
	return false
}

// MoveDrag stages one drag frame. The pointer delta applies to each widget's
// rendered display position; grid snap and the zero clamp act there, and the
// snapped display delta then carries back onto the anchor through the
// alignment offset. The rendered box moves exactly as far as the pointer
// does, and its left edge is what lands on the grid.
func (e *Engine) MoveDrag(at geometry.Pt) {
	if e.drag == nil {
		return
	}
	dx := at.X - e.drag.start.X
	dy := at.Y - e.drag.start.Y
	canvas := e.ed.Layout().Canvas
	for _, it := range e.drag.items {
		w := e.ed.Find(it.id)
		if w == nil {
			continue
		}
		// offset between the anchor and the rendered top-left corner
		// (alignment, or a container's child union); constant during the
		// drag since the size does not change
		b := geometry.ResolveBounds(w, e.ed.Catalog())
		offX := w.X - b.X
		offY := w.Y - b.Y
		dispX := it.startX - offX + dx
		dispY := it.startY - offY + dy
		if canvas.SnapToGrid {
			dispX = geometry.Snap(dispX, canvas.GridSize)
			dispY = geometry.Snap(dispY, canvas.GridSize)
		}
		nx := max0(dispX) + offX
		ny := max0(dispY) + offY
		e.ed.StageUpdate(it.id, editor.Patch{X: &nx, Y: &ny})
	}
	if dx != 0 || dy != 0 {
		e.drag.moved = true
	}
}

// EndDrag completes the gesture; one snapshot covers the whole drag. Returns
// whether anything actually moved.
func (e *Engine) EndDrag() bool {
	if e.drag == nil {
		return false
	}
	moved := e.drag.moved
	e.drag = nil
	if moved {
		e.ed.CommitSnapshot()
	}
	return moved
}

// CancelDrag abandons the gesture without a snapshot. The document keeps the
// last staged frame; undo returns to the pre-gesture state in one step.
func (e *Engine) CancelDrag() { e.drag = nil }

// Dragging reports whether a drag gesture is active.
func (e *Engine) Dragging() bool { return e.drag != nil }

// BeginResize starts a resize gesture on one of the eight handles. The
// gesture works on the widget's effective display rect; locked and missing
// widgets refuse it.
func (e *Engine) BeginResize(id string, h Handle, at geometry.Pt) bool {
	w := e.ed.Find(id)
	if w == nil || w.Locked {
		return false
	}
	meta, _ := e.ed.Catalog().Get(w.Type)
	e.resize = &resizeState{
		id:        id,
		handle:    h,
		start:     at,
		startRect: geometry.EffectiveBounds(w, meta),
		anchorX:   w.X,
		anchorY:   w.Y,
	}
	return true
}

// MoveResize stages one resize frame. Dimensions floor at MinWidgetSize, then
// snap to the grid when enabled, then re-clamp so snapping can never dip back
// under the floor. West/north handles shift the near edge and keep the far
// edge fixed, so opposite-corner handles are each other's mirror.
func (e *Engine) MoveResize(at geometry.Pt) {
	if e.resize == nil {
		return
	}
	r := e.resize
	dx := at.X - r.start.X
	dy := at.Y - r.start.Y

	rect := r.startRect
	right := r.startRect.X + r.startRect.W
	bottom := r.startRect.Y + r.startRect.H

	switch {
	case r.handle.east():
		rect.W += dx
	case r.handle.west():
		rect.W -= dx
	}
	switch {
	case r.handle.south():
		rect.H += dy
	case r.handle.north():
		rect.H -= dy
	}

	canvas := e.ed.Layout().Canvas
	rect.W = clampDim(rect.W, canvas)
	rect.H = clampDim(rect.H, canvas)
	if r.handle.west() {
		rect.X = right - rect.W
	}
	if r.handle.north() {
		rect.Y = bottom - rect.H
	}

	// anchor follows the display rect by delta, which holds under alignment
	nx := r.anchorX + (rect.X - r.startRect.X)
	ny := r.anchorY + (rect.Y - r.startRect.Y)
	e.ed.StageUpdate(r.id, editor.Patch{X: &nx, Y: &ny})
	e.stageSize(r.id, rect.W, rect.H)
	if dx != 0 || dy != 0 {
		r.moved = true
	}
}

// clampDim applies floor, optional grid snap, and the floor again.
func clampDim(v float64, c domain.CanvasSettings) float64 {
	if v < MinWidgetSize {
		v = MinWidgetSize
	}
	if c.SnapToGrid {
		v = geometry.Snap(v, c.GridSize)
	}
	if v < MinWidgetSize {
		v = MinWidgetSize
	}
	return v
}

// stageSize writes the new size where the widget type keeps it: native
// width/height properties first, the square size property next (taking the
// smaller dimension), the display-size override for everything else.
func (e *Engine) stageSize(id string, w, h float64) {
	widget := e.ed.Find(id)
	if widget == nil {
		return
	}
	switch {
	case catalog.SupportsWidthHeight(widget.Type):
		e.ed.StageProperty(id, "width", w)
		e.ed.StageProperty(id, "height", h)
	case catalog.SupportsHeight(widget.Type):
		e.ed.StageProperty(id, "height", h)
		e.ed.SetDisplaySize(id, w, 0)
	case catalog.HasSquareSize(widget.Type):
		e.ed.StageProperty(id, "size", min(w, h))
	default:
		e.ed.SetDisplaySize(id, w, h)
	}
}

// EndResize completes the gesture with one snapshot.
func (e *Engine) EndResize() bool {
	if e.resize == nil {
		return false
	}
	moved := e.resize.moved
	e.resize = nil
	if moved {
		e.ed.CommitSnapshot()
	}
	return moved
}

// CancelResize abandons the gesture without a snapshot.
func (e *Engine) CancelResize() { e.resize = nil }

// Resizing reports whether a resize gesture is active.
func (e *Engine) Resizing() bool { return e.resize != nil }

// DropWidget instantiates a palette type at the drop point (canvas space),
// snapping the position when enabled, and selects the new widget. A repeat
// drop of the same type within the debounce window is rejected; drag sources
// are known to double-fire. A different type drops immediately.
func (e *Engine) DropWidget(typ string, at geometry.Pt, parentID string) (*domain.Widget, error) {
	now := e.now()
	if typ == e.lastDropType && !e.lastDrop.IsZero() && now.Sub(e.lastDrop) < dropDebounce {
		e.log.Debug("drop throttled", slog.String("type", typ))
		return nil, ErrDropThrottled
	}
	x, y := at.X, at.Y
	canvas := e.ed.Layout().Canvas
	if canvas.SnapToGrid {
		x = geometry.Snap(x, canvas.GridSize)
		y = geometry.Snap(y, canvas.GridSize)
	}
	w, err := e.ed.AddWidget(typ, max0(x), max0(y), parentID)
	if err != nil {
		return nil, err
	}
	e.lastDrop = now
	e.lastDropType = typ
	e.ed.Select(w.ID, false)
	return w, nil
}

// DeleteSelection removes every selected widget as one undoable action.
func (e *Engine) DeleteSelection() bool {
	ids := e.ed.Selection()
	if len(ids) == 0 {
		return false
	}
	return e.ed.RemoveWidgets(ids)
}

// Nudge moves the selection by one pixel per arrow press, ten with the large
// modifier. One snapshot per press; anchors clamp at zero.
func (e *Engine) Nudge(dx, dy float64, large bool) bool {
	step := 1.0
	if large {
		step = 10.0
	}
	moved := false
	for _, id := range e.ed.Selection() {
		w := e.ed.Find(id)
		if w == nil || w.Locked || e.ancestorSelected(id) {
			continue
		}
		nx := max0(w.X + dx*step)
		ny := max0(w.Y + dy*step)
		if nx != w.X || ny != w.Y {
			e.ed.StageUpdate(id, editor.Patch{X: &nx, Y: &ny})
			moved = true
		}
	}
	if moved {
		e.ed.CommitSnapshot()
	}
	return moved
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
