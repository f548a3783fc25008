/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package canvas

// Alignment guides for interactive drags. These helpers are UI-agnostic and
// deterministic: the frontend draws the returned lines while a gesture is in
// progress.

import (
	"math"

	"telemetrystudio/internal/geometry"
)

// GuideOptions controls which guide candidates are considered and the
// snap threshold in canvas units.
type GuideOptions struct {
	Threshold     float64
	SnapToEdges   bool
	SnapToCenters bool
}

// DefaultGuideOptions matches the interactive feel of typical editors.
func DefaultGuideOptions() GuideOptions {
	return GuideOptions{Threshold: 6, SnapToEdges: true, SnapToCenters: true}
}

// GuideLine is a visual alignment hint generated during a drag.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
// From and To denote the guide extents for rendering.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        geometry.Pt
	To          geometry.Pt
}

// ComputeGuides aligns a moving rectangle against a set of anchor rectangles.
// It returns the snapped rectangle and the guide lines to render. Snapping
// happens independently in X and Y; the nearest candidate within the
// threshold wins per axis.
func ComputeGuides(moving geometry.Rect, anchors []geometry.Rect, opts GuideOptions) (geometry.Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}

	type axisBest struct {
		delta float64
		dist  float64
		guide GuideLine
	}
	bestX := axisBest{dist: math.Inf(1)}
	bestY := axisBest{dist: math.Inf(1)}

	considerX := func(delta float64, g GuideLine) {
		if d := math.Abs(delta); d <= opts.Threshold && d < bestX.dist {
			bestX = axisBest{delta: delta, dist: d, guide: g}
		}
	}
	considerY := func(delta float64, g GuideLine) {
		if d := math.Abs(delta); d <= opts.Threshold && d < bestY.dist {
			bestY = axisBest{delta: delta, dist: d, guide: g}
		}
	}

	mL, mR := moving.X, moving.X+moving.W
	mT, mB := moving.Y, moving.Y+moving.H
	mCX, mCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		aL, aR := a.X, a.X+a.W
		aT, aB := a.Y, a.Y+a.H

		if opts.SnapToEdges {
			considerX(mL-aL, verticalGuide(aL, moving, a, "edge"))
			considerX(mR-aR, verticalGuide(aR, moving, a, "edge"))
			// abutting edges
			considerX(mL-aR, verticalGuide(aR, moving, a, "edge"))
			considerX(mR-aL, verticalGuide(aL, moving, a, "edge"))

			considerY(mT-aT, horizontalGuide(aT, moving, a, "edge"))
			considerY(mB-aB, horizontalGuide(aB, moving, a, "edge"))
			considerY(mT-aB, horizontalGuide(aB, moving, a, "edge"))
			considerY(mB-aT, horizontalGuide(aT, moving, a, "edge"))
		}
		if opts.SnapToCenters {
			considerX(mCX-(a.X+a.W/2), verticalGuide(a.X+a.W/2, moving, a, "center"))
			considerY(mCY-(a.Y+a.H/2), horizontalGuide(a.Y+a.H/2, moving, a, "center"))
		}
	}

	snapped := moving
	var guides []GuideLine
	if !math.IsInf(bestX.dist, 1) {
		snapped.X = moving.X - bestX.delta
		guides = append(guides, bestX.guide)
	}
	if !math.IsInf(bestY.dist, 1) {
		snapped.Y = moving.Y - bestY.delta
		guides = append(guides, bestY.guide)
	}
	return snapped, guides
}

func verticalGuide(x float64, a, b geometry.Rect, kind string) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.H, b.Y+b.H)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        geometry.Pt{X: x, Y: minY},
		To:          geometry.Pt{X: x, Y: maxY},
	}
}

func horizontalGuide(y float64, a, b geometry.Rect, kind string) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.W, b.X+b.W)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        geometry.Pt{X: minX, Y: y},
		To:          geometry.Pt{X: maxX, Y: y},
	}
}

// DragGuides computes alignment guides for the widget under an active drag
// against its top-level siblings and the canvas frame. It reports nothing
// when no drag is in progress.
func (e *Engine) DragGuides(opts GuideOptions) []GuideLine {
	if e.drag == nil || len(e.drag.items) == 0 {
		return nil
	}
	l := e.ed.Layout()
	primary := e.ed.Find(e.drag.items[0].id)
	if primary == nil {
		return nil
	}
	moving := geometry.ResolveBounds(primary, e.ed.Catalog())

	dragging := make(map[string]struct{}, len(e.drag.items))
	for _, t := range e.drag.items {
		dragging[t.id] = struct{}{}
	}
	var anchors []geometry.Rect
	for _, w := range l.Widgets {
		if _, ok := dragging[w.ID]; ok || !w.Visible {
			continue
		}
		anchors = append(anchors, geometry.ResolveBounds(w, e.ed.Catalog()))
	}
	// canvas frame participates so widgets align to the display edges
	anchors = append(anchors, geometry.Rect{W: float64(l.Canvas.Width), H: float64(l.Canvas.Height)})

	_, guides := ComputeGuides(moving, anchors, opts)
	return guides
}
