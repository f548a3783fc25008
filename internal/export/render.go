/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders layout schematics: wireframe previews of a document
// showing every widget's resolved bounds with a type label, as PNG, SVG or
// PDF. Schematics are for documentation and review; the real overlay pixels
// come from the downstream renderer.
package export

import (
	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
	"telemetrystudio/internal/geometry"
)

// Options controls schematic rendering.
type Options struct {
	// DrawGrid paints the canvas grid when the document has it enabled.
	DrawGrid bool
	// DrawLabels writes the widget type (or name when set) inside each box.
	DrawLabels bool
	// Scale multiplies canvas pixels into output pixels (0 means 1.0).
	// PNG only; the vector formats keep logical coordinates.
	Scale float64
}

// box is one rendered widget: resolved absolute bounds plus label info.
type box struct {
	bounds    geometry.Rect
	label     string
	container bool
	hidden    bool
	offCanvas bool
	depth     int
}

// flatten walks the document and resolves every widget into absolute canvas
// coordinates. Containers come before their children, so painting in slice
// order nests correctly.
func flatten(l *domain.Layout, cat *catalog.Catalog) []box {
	var out []box
	var walk func(list []*domain.Widget, offX, offY float64, depth int)
	walk = func(list []*domain.Widget, offX, offY float64, depth int) {
		for _, w := range list {
			b := geometry.ResolveBounds(w, cat)
			b.X += offX
			b.Y += offY

			meta, _ := cat.Get(w.Type)
			label := w.Type
			if w.Name != "" {
				label = w.Name
			}
			out = append(out, box{
				bounds:    b,
				label:     label,
				container: meta != nil && meta.IsContainer,
				hidden:    !w.Visible,
				offCanvas: geometry.OutOfBounds(b, l.Canvas),
				depth:     depth,
			})
			if len(w.Children) > 0 {
				// children live in the container's anchor space
				walk(w.Children, offX+w.X, offY+w.Y, depth+1)
			}
		}
	}
	walk(l.Widgets, 0, 0, 0)
	return out
}
