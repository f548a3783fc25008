/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package catalog holds the widget type metadata: which widget types exist,
// their property schemas and defaults, and which of them are containers.
// The catalog is loaded once per editing session and is read-only to the
// editor core.
package catalog

import "sort"

// PropertyType enumerates the supported property value kinds.
type PropertyType string

const (
	PropertyNumber  PropertyType = "number"
	PropertyString  PropertyType = "string"
	PropertyBoolean PropertyType = "boolean"
	PropertyColor   PropertyType = "color"
	PropertySelect  PropertyType = "select"
	PropertyMetric  PropertyType = "metric"
	PropertyUnits   PropertyType = "units"
)

// PropertyConstraints carries validation limits and the default value for a
// property. Min/Max/Step are optional.
type PropertyConstraints struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Step     *float64 `json:"step,omitempty"`
	Required bool     `json:"required,omitempty"`
	Default  any      `json:"default,omitempty"`
}

// SelectOption is one choice of a select/metric/units property.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PropertyDefinition describes a single widget property.
type PropertyDefinition struct {
	Name        string               `json:"name"`
	Label       string               `json:"label"`
	Type        PropertyType         `json:"type"`
	Description string               `json:"description,omitempty"`
	Constraints *PropertyConstraints `json:"constraints,omitempty"`
	Options     []SelectOption       `json:"options,omitempty"`
	Category    string               `json:"category"`
}

// WidgetMetadata is the complete metadata for one widget type.
type WidgetMetadata struct {
	Type          string               `json:"type"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Icon          string               `json:"icon,omitempty"`
	Properties    []PropertyDefinition `json:"properties"`
	DefaultWidth  int                  `json:"default_width"`
	DefaultHeight int                  `json:"default_height"`
	IsContainer   bool                 `json:"is_container"`
	RequiresCairo bool                 `json:"requires_cairo,omitempty"`
}

// Catalog is an immutable lookup of widget metadata by type name.
type Catalog struct {
	byType map[string]*WidgetMetadata
	order  []string
}

// New builds a catalog from a metadata list. Later duplicates win, matching
// load-over-builtin layering.
func New(metas []WidgetMetadata) *Catalog {
	c := &Catalog{byType: make(map[string]*WidgetMetadata, len(metas))}
	for i := range metas {
		m := metas[i]
		if _, seen := c.byType[m.Type]; !seen {
			c.order = append(c.order, m.Type)
		}
		c.byType[m.Type] = &m
	}
	return c
}

// Get returns the metadata for a type.
func (c *Catalog) Get(typ string) (*WidgetMetadata, bool) {
	m, ok := c.byType[typ]
	return m, ok
}

// Has reports whether the type exists.
func (c *Catalog) Has(typ string) bool {
	_, ok := c.byType[typ]
	return ok
}

// Types returns all type names in registration order.
func (c *Catalog) Types() []string {
	return append([]string(nil), c.order...)
}

// Categories returns the sorted set of categories in use.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range c.order {
		cat := c.byType[t].Category
		if _, ok := seen[cat]; !ok {
			seen[cat] = struct{}{}
			out = append(out, cat)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultProperties extracts the default property map for a widget type from
// each property's constraints. The x and y properties are excluded: position
// is a first-class widget field, not a property bag entry.
func (c *Catalog) DefaultProperties(typ string) map[string]any {
	m, ok := c.byType[typ]
	if !ok {
		return nil
	}
	out := make(map[string]any)
	for _, p := range m.Properties {
		if p.Name == "x" || p.Name == "y" {
			continue
		}
		if p.Constraints != nil && p.Constraints.Default != nil {
			out[p.Name] = p.Constraints.Default
		}
	}
	return out
}
