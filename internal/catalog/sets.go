/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

// Enumerated capability sets of the downstream overlay renderer. These govern
// size resolution and how widgets map to layout XML; they are keyed by type
// name because the renderer hard-codes them the same way.

var squareSizeTypes = map[string]struct{}{
	"moving_map":                 {},
	"journey_map":                {},
	"moving_journey_map":         {},
	"circuit_map":                {},
	"compass":                    {},
	"compass_arrow":              {},
	"asi":                        {},
	"msi":                        {},
	"gps_lock_icon":              {},
	"icon":                       {},
	"cairo_circuit_map":          {},
	"cairo_gauge_marker":         {},
	"cairo_gauge_round_annotated": {},
	"cairo_gauge_arc_annotated":  {},
	"cairo_gauge_donut":          {},
}

var widthHeightTypes = map[string]struct{}{
	"bar":      {},
	"zone_bar": {},
	"frame":    {},
}

var heightOnlyTypes = map[string]struct{}{
	"chart": {},
}

// Types that do not accept x/y attributes in layout XML; the exporter wraps
// them in a translate element instead.
var noXYTypes = map[string]struct{}{
	"moving_journey_map":         {},
	"circuit_map":                {},
	"compass":                    {},
	"compass_arrow":              {},
	"asi":                        {},
	"msi":                        {},
	"msi2":                       {},
	"gps_lock_icon":              {},
	"cairo_circuit_map":          {},
	"cairo_gauge_marker":         {},
	"cairo_gauge_round_annotated": {},
	"cairo_gauge_arc_annotated":  {},
	"cairo_gauge_donut":          {},
}

var containerTags = map[string]struct{}{
	"composite": {},
	"translate": {},
	"frame":     {},
}

// HasSquareSize reports whether the type's single size property denotes a
// square bounding box rather than a font size.
func HasSquareSize(typ string) bool {
	_, ok := squareSizeTypes[typ]
	return ok
}

// SupportsWidthHeight reports whether the type takes width and height
// attributes in layout XML.
func SupportsWidthHeight(typ string) bool {
	_, ok := widthHeightTypes[typ]
	return ok
}

// SupportsHeight reports whether the type takes a height attribute.
func SupportsHeight(typ string) bool {
	if _, ok := heightOnlyTypes[typ]; ok {
		return true
	}
	return SupportsWidthHeight(typ)
}

// SupportsXY reports whether the type takes x/y attributes directly.
func SupportsXY(typ string) bool {
	_, ok := noXYTypes[typ]
	return !ok
}

// IsContainerTag reports whether the type is emitted as its own XML container
// tag rather than a typed component element.
func IsContainerTag(typ string) bool {
	_, ok := containerTags[typ]
	return ok
}
