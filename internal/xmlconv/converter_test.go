/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package xmlconv

import (
	"reflect"
	"strings"
	"testing"

	"telemetrystudio/internal/domain"
)

func widget(typ string, x, y float64, props map[string]any) *domain.Widget {
	return &domain.Widget{
		ID: domain.NewID(), Type: typ, X: x, Y: y,
		Properties: props, Visible: true,
	}
}

func TestExportComponentAndContainerTags(t *testing.T) {
	l := domain.NewLayout("test")
	frame := widget("frame", 10, 20, map[string]any{"width": float64(300), "height": float64(200)})
	frame.Children = []*domain.Widget{
		widget("metric", 5, 5, map[string]any{"metric": "speed", "dp": float64(0)}),
	}
	l.Widgets = []*domain.Widget{frame}

	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, want := range []string{
		"<frame ", `x="10"`, `y="20"`, `width="300"`, `height="200"`,
		`<component type="metric"`, `metric="speed"`, `dp="0"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestExportTextContentAndName(t *testing.T) {
	l := domain.NewLayout("test")
	w := widget("text", 0, 0, map[string]any{"value": "Hello World", "size": float64(24)})
	w.Name = "Label"
	l.Widgets = []*domain.Widget{w}

	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, ">Hello World</component>") {
		t.Fatalf("text value must be element text:\n%s", out)
	}
	if strings.Contains(out, `value=`) {
		t.Fatalf("text value must not be an attribute:\n%s", out)
	}
	if !strings.Contains(out, `name="Label"`) {
		t.Fatalf("name attribute missing:\n%s", out)
	}
}

func TestExportTranslateWrapperForNoXYTypes(t *testing.T) {
	l := domain.NewLayout("test")
	l.Widgets = []*domain.Widget{
		widget("asi", 100, 50, map[string]any{"size": float64(256)}),
		widget("msi", 0, 0, map[string]any{"size": float64(256)}),
	}

	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, `<translate x="100" y="50">`) {
		t.Fatalf("positioned no-xy type needs a translate wrapper:\n%s", out)
	}
	if !strings.Contains(out, `<component type="asi" size="256">`) &&
		!strings.Contains(out, `<component type="asi" size="256"/>`) {
		t.Fatalf("wrapped component must not carry x/y:\n%s", out)
	}
	// at the origin no wrapper is needed
	if strings.Count(out, "<translate") != 1 {
		t.Fatalf("origin-positioned widget must not be wrapped:\n%s", out)
	}
}

func TestExportSizeAttributeFiltering(t *testing.T) {
	l := domain.NewLayout("test")
	l.Widgets = []*domain.Widget{
		widget("text", 0, 0, map[string]any{"width": float64(300), "height": float64(100)}),
		widget("chart", 0, 0, map[string]any{"width": float64(256), "height": float64(64)}),
		widget("bar", 0, 0, map[string]any{"width": float64(400), "height": float64(30)}),
	}

	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Contains(out, `type="text" width=`) || strings.Contains(out, `height="100"`) {
		t.Fatalf("text must not emit box attributes:\n%s", out)
	}
	if strings.Contains(out, `width="256"`) {
		t.Fatalf("chart supports height only:\n%s", out)
	}
	if !strings.Contains(out, `height="64"`) || !strings.Contains(out, `width="400"`) {
		t.Fatalf("supported size attributes missing:\n%s", out)
	}
}

func TestExportSkipsInternalProperties(t *testing.T) {
	l := domain.NewLayout("test")
	w := widget("text", 0, 0, map[string]any{"value": "x", "_private": "secret"})
	w.DisplayWidth = 222
	w.DisplayHeight = 44
	l.Widgets = []*domain.Widget{w}

	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Contains(out, "_private") || strings.Contains(out, "222") {
		t.Fatalf("internal state leaked into xml:\n%s", out)
	}
}

func TestExportValueFormatting(t *testing.T) {
	l := domain.NewLayout("test")
	l.Widgets = []*domain.Widget{
		widget("moving_map", 0, 0, map[string]any{
			"rotate":  true,
			"opacity": 0.7,
			"zoom":    float64(16),
			"rgb":     []int{255, 128, 0},
		}),
	}
	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, want := range []string{`rotate="true"`, `opacity="0.7"`, `zoom="16"`, `rgb="255,128,0"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestImportBasics(t *testing.T) {
	xmlIn := `<layout>
  <component type="text" name="Title" x="10" y="20" size="24">Hello</component>
  <frame x="100" y="100" width="300" height="200" bg="0,0,0,128">
    <component type="metric" metric="speed" dp="1"/>
  </frame>
  <unknown-tag x="1"/>
</layout>`

	l, err := XMLToLayout(xmlIn, "Imported")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if l.Metadata.Name != "Imported" {
		t.Fatalf("name wrong: %q", l.Metadata.Name)
	}
	if len(l.Widgets) != 2 {
		t.Fatalf("unknown tags must be skipped, got %d widgets", len(l.Widgets))
	}

	txt := l.Widgets[0]
	if txt.Type != "text" || txt.Name != "Title" || txt.X != 10 || txt.Y != 20 {
		t.Fatalf("text widget wrong: %+v", txt)
	}
	if v, _ := txt.StringProp("value"); v != "Hello" {
		t.Fatalf("element text must become the value property: %+v", txt.Properties)
	}
	if !txt.Visible || txt.ID == "" {
		t.Fatalf("imported widgets need ids and visibility")
	}

	frame := l.Widgets[1]
	if frame.Type != "frame" || len(frame.Children) != 1 {
		t.Fatalf("container wrong: %+v", frame)
	}
	if !reflect.DeepEqual(frame.Properties["bg"], []int{0, 0, 0, 128}) {
		t.Fatalf("color parse wrong: %#v", frame.Properties["bg"])
	}
	if dp, _ := frame.Children[0].NumberProp("dp"); dp != 1 {
		t.Fatalf("numeric parse wrong: %v", dp)
	}
}

func TestImportValueParsing(t *testing.T) {
	cases := map[string]any{
		"16":        float64(16),
		"0.7":       0.7,
		"true":      true,
		"yes":       true,
		"false":     false,
		"no":        false,
		"255,0,255": []int{255, 0, 255},
		"kph":       "kph",
		"a,b":       "a,b",
	}
	for in, want := range cases {
		if got := parseValue(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("parseValue(%q) = %#v, want %#v", in, got, want)
		}
	}
}

func TestImportTypeNameDashes(t *testing.T) {
	l, err := XMLToLayout(`<layout><component type="gps-lock-icon"/></layout>`, "x")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if l.Widgets[0].Type != "gps_lock_icon" {
		t.Fatalf("dashes must normalize to underscores: %q", l.Widgets[0].Type)
	}
}

func TestImportMetricUnitTextContent(t *testing.T) {
	l, err := XMLToLayout(`<layout><component type="metric_unit">%.0f</component></layout>`, "x")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if v, _ := l.Widgets[0].StringProp("_text_content"); v != "%.0f" {
		t.Fatalf("format text lost: %+v", l.Widgets[0].Properties)
	}

	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !strings.Contains(out, ">%.0f</component>") {
		t.Fatalf("format text must round-trip as element text:\n%s", out)
	}
	if strings.Contains(out, "_text_content") {
		t.Fatalf("marker property must not become an attribute:\n%s", out)
	}
}

func TestCanvasSizeDetection(t *testing.T) {
	l, err := XMLToLayout(`<layout><component type="bar" x="2000" y="1200" width="400" height="30"/></layout>`, "x")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if l.Canvas.Width != 2450 || l.Canvas.Height != 1280 {
		t.Fatalf("canvas detection wrong: %dx%d", l.Canvas.Width, l.Canvas.Height)
	}

	small, err := XMLToLayout(`<layout><component type="text" x="5" y="5"/></layout>`, "x")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if small.Canvas.Width != 1920 || small.Canvas.Height != 1080 {
		t.Fatalf("default canvas floor wrong: %dx%d", small.Canvas.Width, small.Canvas.Height)
	}
}

func TestRoundTripPreservesStructure(t *testing.T) {
	l := domain.NewLayout("rt")
	frame := widget("frame", 50, 60, map[string]any{"width": float64(300), "height": float64(200)})
	frame.Children = []*domain.Widget{
		widget("text", 10, 10, map[string]any{"value": "Speed", "size": float64(18)}),
		widget("bar", 10, 40, map[string]any{"width": float64(200), "height": float64(20), "metric": "accel"}),
	}
	asi := widget("asi", 500, 500, map[string]any{"size": float64(256)})
	l.Widgets = []*domain.Widget{frame, asi}

	out, err := LayoutToXML(l)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	back, err := XMLToLayout(out, "rt")
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if len(back.Widgets) != 2 {
		t.Fatalf("top-level count wrong: %d", len(back.Widgets))
	}
	f2 := back.Widgets[0]
	if f2.Type != "frame" || f2.X != 50 || len(f2.Children) != 2 {
		t.Fatalf("frame round trip wrong: %+v", f2)
	}
	if v, _ := f2.Children[0].StringProp("value"); v != "Speed" {
		t.Fatalf("text round trip wrong: %+v", f2.Children[0].Properties)
	}
	if w, _ := f2.Children[1].NumberProp("width"); w != 200 {
		t.Fatalf("bar width round trip wrong: %v", w)
	}

	// the no-xy type comes back as its positioning wrapper
	tr := back.Widgets[1]
	if tr.Type != "translate" || tr.X != 500 || tr.Y != 500 {
		t.Fatalf("translate wrapper wrong: %+v", tr)
	}
	if len(tr.Children) != 1 || tr.Children[0].Type != "asi" || tr.Children[0].X != 0 {
		t.Fatalf("wrapped component wrong: %+v", tr.Children)
	}
	if s, _ := tr.Children[0].NumberProp("size"); s != 256 {
		t.Fatalf("size round trip wrong: %v", s)
	}
}
