/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
)

// Hard fallback when a widget type is unknown or declares no size at all.
const (
	FallbackWidth  = 100
	FallbackHeight = 50
)

// EffectiveSize resolves a widget's display size. Per dimension, resolution
// order is: explicit width/height property, interactive display-size
// override, the square size property for square-box types, the type's
// declared default, hard fallback. meta may be nil (stale documents naming a
// type absent from the current catalog); such widgets fall back whole.
func EffectiveSize(w *domain.Widget, meta *catalog.WidgetMetadata) Size {
	var s Size

	if v, ok := w.NumberProp("width"); ok {
		s.W = v
	} else if w.DisplayWidth > 0 {
		s.W = w.DisplayWidth
	}
	if v, ok := w.NumberProp("height"); ok {
		s.H = v
	} else if w.DisplayHeight > 0 {
		s.H = w.DisplayHeight
	}

	if (s.W == 0 || s.H == 0) && catalog.HasSquareSize(w.Type) {
		if v, ok := w.NumberProp("size"); ok {
			if s.W == 0 {
				s.W = v
			}
			if s.H == 0 {
				s.H = v
			}
		}
	}

	if s.W == 0 {
		if meta != nil && meta.DefaultWidth > 0 {
			s.W = float64(meta.DefaultWidth)
		} else {
			s.W = FallbackWidth
		}
	}
	if s.H == 0 {
		if meta != nil && meta.DefaultHeight > 0 {
			s.H = float64(meta.DefaultHeight)
		} else {
			s.H = FallbackHeight
		}
	}
	return s
}

// EffectiveBounds combines the anchor with EffectiveSize, applying the align
// property: a right-aligned widget anchors at its right edge, a centred one
// at its horizontal center. y is never alignment-adjusted.
func EffectiveBounds(w *domain.Widget, meta *catalog.WidgetMetadata) Rect {
	s := EffectiveSize(w, meta)
	x := w.X
	switch align, _ := w.StringProp("align"); align {
	case "right":
		x -= s.W
	case "center", "centre":
		x -= s.W / 2
	}
	return Rect{X: x, Y: w.Y, W: s.W, H: s.H}
}

// ContainerBounds computes the union box of all visible children using the
// supplied per-child resolver. The second return is false when no child is
// visible; the caller then falls back to the container's own declared size.
func ContainerBounds(children []*domain.Widget, resolve func(*domain.Widget) Rect) (Rect, bool) {
	var union Rect
	found := false
	for _, c := range children {
		if !c.Visible {
			continue
		}
		b := resolve(c)
		if !found {
			union = b
			found = true
		} else {
			union = union.Union(b)
		}
	}
	return union, found
}

// PaintOffset is the compensating offset applied to a container's children so
// the container can take the union box as its own rendered rect without
// mutating child coordinates.
func PaintOffset(union Rect) Pt { return Pt{X: -union.X, Y: -union.Y} }

// ResolveBounds returns the rendered bounds of a widget in its parent's
// coordinate space. Containers with visible children take the children's
// union box, translated by the container anchor; everything else resolves via
// EffectiveBounds. Unknown types degrade to container-less leaves.
func ResolveBounds(w *domain.Widget, cat *catalog.Catalog) Rect {
	meta, _ := cat.Get(w.Type)
	if meta != nil && meta.IsContainer {
		union, ok := ContainerBounds(w.Children, func(c *domain.Widget) Rect {
			return ResolveBounds(c, cat)
		})
		if ok {
			return Rect{X: w.X + union.X, Y: w.Y + union.Y, W: union.W, H: union.H}
		}
	}
	return EffectiveBounds(w, meta)
}

// OutOfBounds reports whether any edge of the bounds lies outside the canvas.
// Advisory only; it never blocks an operation.
func OutOfBounds(b Rect, canvas domain.CanvasSettings) bool {
	return b.X < 0 || b.Y < 0 ||
		b.X+b.W > float64(canvas.Width) ||
		b.Y+b.H > float64(canvas.Height)
}
