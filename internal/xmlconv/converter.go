/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package xmlconv converts between editor documents and the overlay
// renderer's layout XML dialect. The dialect is attribute-heavy: containers
// are their own tags, everything else is a typed component element, and
// widget types without native x/y support get wrapped in a translate element.
package xmlconv

import (
	"encoding/xml"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"telemetrystudio/internal/catalog"
	"telemetrystudio/internal/domain"
)

// element is the generic XML tree node used on both directions.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*element `xml:",any"`
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) set(name, value string) {
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// LayoutToXML renders the document as indented layout XML.
func LayoutToXML(l *domain.Layout) (string, error) {
	root := &element{XMLName: xml.Name{Local: "layout"}}
	for _, w := range l.Widgets {
		widgetToElement(root, w)
	}
	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}
	return string(out), nil
}

func widgetToElement(parent *element, w *domain.Widget) {
	typ := w.Type
	container := catalog.IsContainerTag(typ)

	// types without native x/y get positioned through a translate wrapper
	if !catalog.SupportsXY(typ) && !container && (w.X != 0 || w.Y != 0) {
		wrap := &element{XMLName: xml.Name{Local: "translate"}}
		if w.X != 0 {
			wrap.set("x", formatNumber(w.X))
		}
		if w.Y != 0 {
			wrap.set("y", formatNumber(w.Y))
		}
		parent.Children = append(parent.Children, wrap)
		parent = wrap
	}

	tag := "component"
	if container {
		tag = typ
	}
	elem := &element{XMLName: xml.Name{Local: tag}}
	if tag == "component" {
		elem.set("type", typ)
	}
	if w.Name != "" {
		elem.set("name", w.Name)
	}
	if catalog.SupportsXY(typ) {
		if w.X != 0 {
			elem.set("x", formatNumber(w.X))
		}
		if w.Y != 0 {
			elem.set("y", formatNumber(w.Y))
		}
	}

	keys := make([]string, 0, len(w.Properties))
	for k := range w.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := w.Properties[key]
		if value == nil || key == "x" || key == "y" {
			continue
		}
		switch {
		case key == "value" && typ == "text":
			elem.Text = fmt.Sprint(value)
		case key == "_text_content":
			elem.Text = fmt.Sprint(value)
		case strings.HasPrefix(key, "_"):
			// internal properties never reach the renderer
		case key == "width":
			if catalog.SupportsWidthHeight(typ) {
				elem.set(key, formatValue(value))
			}
		case key == "height":
			if catalog.SupportsHeight(typ) {
				elem.set(key, formatValue(value))
			}
		default:
			elem.set(key, formatValue(value))
		}
	}

	for _, c := range w.Children {
		widgetToElement(elem, c)
	}
	parent.Children = append(parent.Children, elem)
}

// XMLToLayout parses layout XML into a fresh document with generated ids.
// Canvas size is inferred from widget extents, never below 1920x1080.
func XMLToLayout(content, name string) (*domain.Layout, error) {
	var root element
	if err := xml.Unmarshal([]byte(content), &root); err != nil {
		return nil, fmt.Errorf("parse layout xml: %w", err)
	}
	if root.XMLName.Local != "layout" {
		return nil, fmt.Errorf("unexpected root element %q", root.XMLName.Local)
	}

	var widgets []*domain.Widget
	for _, child := range root.Children {
		if w := elementToWidget(child); w != nil {
			widgets = append(widgets, w)
		}
	}

	l := domain.NewLayout(name)
	l.Widgets = widgets
	l.Canvas.Width, l.Canvas.Height = detectCanvasSize(widgets)
	return l, nil
}

func elementToWidget(elem *element) *domain.Widget {
	tag := elem.XMLName.Local
	var typ string
	switch {
	case tag == "component":
		t, _ := elem.attr("type")
		typ = strings.ReplaceAll(t, "-", "_")
	case catalog.IsContainerTag(tag):
		typ = tag
	default:
		return nil
	}

	x := attrNumber(elem, "x")
	y := attrNumber(elem, "y")

	properties := make(map[string]any)
	for _, a := range elem.Attrs {
		switch a.Name.Local {
		case "type", "name", "x", "y":
			continue
		}
		properties[a.Name.Local] = parseValue(a.Value)
	}

	if text := strings.TrimSpace(elem.Text); text != "" {
		switch typ {
		case "text":
			properties["value"] = text
		case "metric_unit":
			// round-trips back as element text, not an attribute
			properties["_text_content"] = text
		}
	}

	children := make([]*domain.Widget, 0, len(elem.Children))
	for _, c := range elem.Children {
		if w := elementToWidget(c); w != nil {
			children = append(children, w)
		}
	}

	name, _ := elem.attr("name")
	return &domain.Widget{
		ID:         domain.NewID(),
		Type:       typ,
		Name:       name,
		X:          x,
		Y:          y,
		Properties: properties,
		Children:   children,
		Visible:    true,
	}
}

func attrNumber(elem *element, name string) float64 {
	v, ok := elem.attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n
}

func formatValue(v any) string {
	switch t := v.(type) {
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return t
	case []int:
		parts := make([]string, len(t))
		for i, n := range t {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatValue(e)
		}
		return strings.Join(parts, ",")
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// formatNumber keeps whole values free of a decimal point so the renderer's
// integer attributes stay integers.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseValue maps an attribute string to the richest plausible value type:
// number, boolean, color list, plain string.
func parseValue(v string) any {
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	switch strings.ToLower(v) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	if strings.Contains(v, ",") {
		parts := strings.Split(v, ",")
		color := make([]int, len(parts))
		ok := true
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				ok = false
				break
			}
			color[i] = n
		}
		if ok {
			return color
		}
	}
	return v
}

// detectCanvasSize infers the canvas from widget extents plus a margin,
// clamped to the default canvas as the minimum.
func detectCanvasSize(widgets []*domain.Widget) (int, int) {
	maxX, maxY := 1920.0, 1080.0

	var check func(w *domain.Widget)
	check = func(w *domain.Widget) {
		width, ok := w.NumberProp("width")
		if !ok {
			width, ok = w.NumberProp("size")
		}
		if !ok {
			width = 100
		}
		height, ok := w.NumberProp("height")
		if !ok {
			height, ok = w.NumberProp("size")
		}
		if !ok {
			height = 50
		}
		maxX = math.Max(maxX, w.X+width+50)
		maxY = math.Max(maxY, w.Y+height+50)
		for _, c := range w.Children {
			check(c)
		}
	}
	for _, w := range widgets {
		check(w)
	}
	return int(maxX), int(maxY)
}
