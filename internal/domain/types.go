/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for overlay layouts: the document
// (Layout), its canvas settings, and the recursive widget tree. The shapes
// serialize to the same JSON the editor frontend and template files use.

import "github.com/google/uuid"

// Layout is the complete document: metadata, canvas settings and the ordered
// widget forest. Widget order is paint order; later entries draw on top.
type Layout struct {
	ID       string         `json:"id"`
	Metadata LayoutMetadata `json:"metadata"`
	Canvas   CanvasSettings `json:"canvas"`
	Widgets  []*Widget      `json:"widgets"`
}

// LayoutMetadata carries descriptive document metadata.
type LayoutMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// CanvasSettings describes the fixed-size logical canvas and grid behavior.
// Width, Height and GridSize must be positive.
type CanvasSettings struct {
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	GridEnabled bool `json:"grid_enabled"`
	GridSize    int  `json:"grid_size"`
	SnapToGrid  bool `json:"snap_to_grid"`
}

// Widget is one node of the widget tree. X and Y are the anchor position in
// parent-local logical pixels; how the anchor maps to the rendered box depends
// on the widget's align property (see the geometry package).
//
// DisplayWidth/DisplayHeight are the internal display-size override used for
// widgets whose type declares no native size property. They are set by
// interactive resize only and must be skipped by the XML exporter.
type Widget struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name,omitempty"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Properties map[string]any `json:"properties"`
	Children   []*Widget      `json:"children"`
	Locked     bool           `json:"locked"`
	Visible    bool           `json:"visible"`

	DisplayWidth  float64 `json:"_display_width,omitempty"`
	DisplayHeight float64 `json:"_display_height,omitempty"`
}

// DefaultCanvas returns the canvas settings used for fresh documents.
func DefaultCanvas() CanvasSettings {
	return CanvasSettings{Width: 1920, Height: 1080, GridEnabled: true, GridSize: 10, SnapToGrid: false}
}

// NewLayout creates a blank document with a fresh id and default canvas.
func NewLayout(name string) *Layout {
	if name == "" {
		name = "Untitled Layout"
	}
	return &Layout{
		ID:       NewID(),
		Metadata: LayoutMetadata{Name: name, Version: "1.0"},
		Canvas:   DefaultCanvas(),
		Widgets:  []*Widget{},
	}
}

// NewID returns a fresh widget/document identifier.
func NewID() string { return uuid.NewString() }

// NumberProp reads a numeric property, accepting the numeric types JSON
// decoding and callers may produce.
func (w *Widget) NumberProp(key string) (float64, bool) {
	v, ok := w.Properties[key]
	if !ok {
		return 0, false
	}
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

// StringProp reads a string property.
func (w *Widget) StringProp(key string) (string, bool) {
	if v, ok := w.Properties[key]; ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// BoolProp reads a boolean property.
func (w *Widget) BoolProp(key string) (bool, bool) {
	if v, ok := w.Properties[key]; ok {
		if b, ok := v.(bool); ok {
			return b, true
		}
	}
	return false, false
}
