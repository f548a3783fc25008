/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"testing"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
)

var cat = catalog.Builtin()

func meta(t *testing.T, typ string) *catalog.WidgetMetadata {
	t.Helper()
	m, ok := cat.Get(typ)
	if !ok {
		t.Fatalf("missing builtin type %q", typ)
	}
	return m
}

func TestEffectiveSizeResolutionOrder(t *testing.T) {
	// Explicit width/height properties win.
	bar := &domain.Widget{Type: "bar", Visible: true, Properties: map[string]any{"width": float64(500), "height": float64(40)}}
	if s := EffectiveSize(bar, meta(t, "bar")); s.W != 500 || s.H != 40 {
		t.Fatalf("explicit size ignored: %+v", s)
	}

	// Display-size override comes next.
	txt := &domain.Widget{Type: "text", Visible: true, DisplayWidth: 321, DisplayHeight: 42}
	if s := EffectiveSize(txt, meta(t, "text")); s.W != 321 || s.H != 42 {
		t.Fatalf("display override ignored: %+v", s)
	}

	// Square-size types use the size property for both dimensions.
	m := &domain.Widget{Type: "moving_map", Visible: true, Properties: map[string]any{"size": float64(300)}}
	if s := EffectiveSize(m, meta(t, "moving_map")); s.W != 300 || s.H != 300 {
		t.Fatalf("square size ignored: %+v", s)
	}

	// A text widget's size property is a font size, not a box.
	txt2 := &domain.Widget{Type: "text", Visible: true, Properties: map[string]any{"size": float64(200)}}
	if s := EffectiveSize(txt2, meta(t, "text")); s.W != 150 || s.H != 30 {
		t.Fatalf("font size leaked into bounds: %+v", s)
	}

	// Type defaults, then the hard fallback for unknown types.
	plain := &domain.Widget{Type: "metric", Visible: true}
	if s := EffectiveSize(plain, meta(t, "metric")); s.W != 120 || s.H != 40 {
		t.Fatalf("type default ignored: %+v", s)
	}
	ghost := &domain.Widget{Type: "no_such_type", Visible: true}
	if s := EffectiveSize(ghost, nil); s.W != FallbackWidth || s.H != FallbackHeight {
		t.Fatalf("fallback size wrong: %+v", s)
	}
}

func TestEffectiveBoundsAlignment(t *testing.T) {
	base := func(align string) *domain.Widget {
		return &domain.Widget{
			Type: "text", Visible: true, X: 100, Y: 20,
			Properties: map[string]any{"align": align, "width": float64(80)},
		}
	}
	if b := EffectiveBounds(base("left"), meta(t, "text")); b.X != 100 || b.Y != 20 {
		t.Fatalf("left align must keep anchor: %+v", b)
	}
	if b := EffectiveBounds(base("right"), meta(t, "text")); b.X != 20 {
		t.Fatalf("right align must shift by width: %+v", b)
	}
	if b := EffectiveBounds(base("centre"), meta(t, "text")); b.X != 60 {
		t.Fatalf("centre align must shift by width/2: %+v", b)
	}
	if b := EffectiveBounds(base("center"), meta(t, "text")); b.X != 60 {
		t.Fatalf("center spelling must behave like centre: %+v", b)
	}
	// y is never alignment-adjusted
	if b := EffectiveBounds(base("right"), meta(t, "text")); b.Y != 20 {
		t.Fatalf("y must not move under alignment: %+v", b)
	}
}

func TestContainerBoundsUnion(t *testing.T) {
	a := &domain.Widget{Type: "text", Visible: true, X: 0, Y: 0, Properties: map[string]any{"width": float64(50), "height": float64(50)}}
	b := &domain.Widget{Type: "text", Visible: true, X: 100, Y: 100, Properties: map[string]any{"width": float64(20), "height": float64(20)}}
	hidden := &domain.Widget{Type: "text", Visible: false, X: -500, Y: -500}

	union, ok := ContainerBounds([]*domain.Widget{a, b, hidden}, func(c *domain.Widget) Rect {
		return EffectiveBounds(c, meta(t, "text"))
	})
	if !ok {
		t.Fatalf("expected visible children")
	}
	if union != (Rect{X: 0, Y: 0, W: 120, H: 120}) {
		t.Fatalf("unexpected union: %+v", union)
	}
	if off := PaintOffset(union); off.X != 0 || off.Y != 0 {
		t.Fatalf("unexpected paint offset: %+v", off)
	}

	if _, ok := ContainerBounds([]*domain.Widget{hidden}, func(c *domain.Widget) Rect { return Rect{} }); ok {
		t.Fatalf("all-hidden children must yield no bounds")
	}
}

func TestResolveBoundsNestedContainer(t *testing.T) {
	leaf := &domain.Widget{Type: "text", Visible: true, X: 30, Y: 40, Properties: map[string]any{"width": float64(10), "height": float64(10)}}
	inner := &domain.Widget{Type: "composite", Visible: true, X: 5, Y: 5, Children: []*domain.Widget{leaf}}
	outer := &domain.Widget{Type: "composite", Visible: true, X: 100, Y: 100, Children: []*domain.Widget{inner}}

	b := ResolveBounds(outer, cat)
	// leaf sits at 100+5+30 = 135 absolute
	if b.X != 135 || b.Y != 145 || b.W != 10 || b.H != 10 {
		t.Fatalf("nested resolve wrong: %+v", b)
	}

	// Container without visible children falls back to its declared size.
	empty := &domain.Widget{Type: "composite", Visible: true, X: 10, Y: 10}
	be := ResolveBounds(empty, cat)
	if be.X != 10 || be.W != 200 || be.H != 100 {
		t.Fatalf("empty container fallback wrong: %+v", be)
	}
}

func TestOutOfBounds(t *testing.T) {
	canvas := domain.CanvasSettings{Width: 1920, Height: 1080}
	if OutOfBounds(R(0, 0, 1920, 1080), canvas) {
		t.Fatalf("exact fit is in bounds")
	}
	// Right-aligned widget at x=50 with width 100 pokes out on the left.
	w := &domain.Widget{Type: "text", Visible: true, X: 50, Properties: map[string]any{"align": "right", "width": float64(100), "height": float64(30)}}
	b := EffectiveBounds(w, meta(t, "text"))
	if b.X != -50 {
		t.Fatalf("expected displayX -50, got %v", b.X)
	}
	if !OutOfBounds(b, canvas) {
		t.Fatalf("left overflow must be flagged")
	}
	if !OutOfBounds(R(1900, 0, 100, 50), canvas) {
		t.Fatalf("right overflow must be flagged")
	}
}

func TestSnap(t *testing.T) {
	if Snap(14, 10) != 10 || Snap(15, 10) != 20 || Snap(-4, 10) != 0 {
		t.Fatalf("snap rounding wrong")
	}
	if Snap(33, 0) != 33 {
		t.Fatalf("zero grid must pass through")
	}
}
