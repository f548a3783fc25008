/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

// Builtin reproduces the widget registry of the downstream overlay renderer.
// Property names, defaults and ranges must match the renderer's layout XML
// vocabulary; do not rename them for style.

// Widget categories.
const (
	CategoryText       = "text"
	CategoryMetrics    = "metrics"
	CategoryMaps       = "maps"
	CategoryGauges     = "gauges"
	CategoryCharts     = "charts"
	CategoryIndicators = "indicators"
	CategoryContainers = "containers"
	CategoryCairo      = "cairo"
)

// AvailableMetrics lists the telemetry streams a metric-driven widget can bind to.
var AvailableMetrics = []SelectOption{
	{Value: "speed", Label: "Speed"},
	{Value: "cspeed", Label: "Calculated Speed"},
	{Value: "alt", Label: "Altitude"},
	{Value: "hr", Label: "Heart Rate"},
	{Value: "cadence", Label: "Cadence"},
	{Value: "power", Label: "Power"},
	{Value: "temp", Label: "Temperature"},
	{Value: "gradient", Label: "Gradient"},
	{Value: "cgrad", Label: "Calculated Gradient"},
	{Value: "azi", Label: "Azimuth"},
	{Value: "cog", Label: "Course Over Ground"},
	{Value: "odo", Label: "Odometer"},
	{Value: "codo", Label: "Calculated Odometer"},
	{Value: "dist", Label: "Distance"},
	{Value: "accel", Label: "Acceleration"},
	{Value: "accl.x", Label: "Acceleration X"},
	{Value: "accl.y", Label: "Acceleration Y"},
	{Value: "accl.z", Label: "Acceleration Z"},
	{Value: "grav.x", Label: "Gravity X"},
	{Value: "grav.y", Label: "Gravity Y"},
	{Value: "grav.z", Label: "Gravity Z"},
	{Value: "ori.pitch", Label: "Orientation Pitch"},
	{Value: "ori.roll", Label: "Orientation Roll"},
	{Value: "ori.yaw", Label: "Orientation Yaw"},
	{Value: "lat", Label: "Latitude"},
	{Value: "lon", Label: "Longitude"},
	{Value: "gps-dop", Label: "GPS DOP"},
	{Value: "gps-lock", Label: "GPS Lock"},
	{Value: "respiration", Label: "Respiration"},
	{Value: "gear.front", Label: "Gear Front"},
	{Value: "gear.rear", Label: "Gear Rear"},
}

// AvailableUnits lists the unit conversions the renderer supports.
var AvailableUnits = []SelectOption{
	{Value: "none", Label: "None"},
	{Value: "mph", Label: "mph"},
	{Value: "kph", Label: "km/h"},
	{Value: "knots", Label: "Knots"},
	{Value: "speed", Label: "Speed (user setting)"},
	{Value: "pace", Label: "Pace"},
	{Value: "pace_mile", Label: "Pace (mile)"},
	{Value: "pace_km", Label: "Pace (km)"},
	{Value: "metres", Label: "Metres"},
	{Value: "feet", Label: "Feet"},
	{Value: "miles", Label: "Miles"},
	{Value: "altitude", Label: "Altitude (user setting)"},
	{Value: "distance", Label: "Distance (user setting)"},
	{Value: "G", Label: "G-force"},
	{Value: "temp", Label: "Temperature (user setting)"},
}

func fp(v float64) *float64 { return &v }

func def(v any) *PropertyConstraints { return &PropertyConstraints{Default: v} }

func reqDef(v any) *PropertyConstraints { return &PropertyConstraints{Required: true, Default: v} }

func rangeDef(min, max, v float64) *PropertyConstraints {
	return &PropertyConstraints{Min: fp(min), Max: fp(max), Default: v}
}

func num(name, label string, c *PropertyConstraints, cat string) PropertyDefinition {
	return PropertyDefinition{Name: name, Label: label, Type: PropertyNumber, Constraints: c, Category: cat}
}

func str(name, label string, c *PropertyConstraints, cat string) PropertyDefinition {
	return PropertyDefinition{Name: name, Label: label, Type: PropertyString, Constraints: c, Category: cat}
}

func boolean(name, label string, defv bool, cat string) PropertyDefinition {
	return PropertyDefinition{Name: name, Label: label, Type: PropertyBoolean, Constraints: def(defv), Category: cat}
}

func color(name, label, defv string, cat string) PropertyDefinition {
	c := (*PropertyConstraints)(nil)
	if defv != "" {
		c = def(defv)
	}
	return PropertyDefinition{Name: name, Label: label, Type: PropertyColor, Constraints: c, Category: cat}
}

func sel(name, label string, opts []SelectOption, defv string, cat string) PropertyDefinition {
	return PropertyDefinition{Name: name, Label: label, Type: PropertySelect, Options: opts, Constraints: def(defv), Category: cat}
}

func metricProp(defv string, required bool) PropertyDefinition {
	c := def(defv)
	if required {
		c = reqDef(defv)
	}
	return PropertyDefinition{Name: "metric", Label: "Metric", Type: PropertyMetric, Options: AvailableMetrics, Constraints: c, Category: "Data"}
}

func unitsProp(defv string) PropertyDefinition {
	return PropertyDefinition{Name: "units", Label: "Units", Type: PropertyUnits, Options: AvailableUnits, Constraints: def(defv), Category: "Data"}
}

func positionProps() []PropertyDefinition {
	return []PropertyDefinition{
		num("x", "X Position", def(0), "Position"),
		num("y", "Y Position", def(0), "Position"),
	}
}

func textStyleProps() []PropertyDefinition {
	return []PropertyDefinition{
		num("size", "Font Size", rangeDef(8, 500, 16), "Appearance"),
		color("rgb", "Text Color", "255,255,255", "Appearance"),
		color("outline", "Outline Color", "0,0,0", "Appearance"),
		num("outline_width", "Outline Width", rangeDef(0, 20, 2), "Appearance"),
		sel("align", "Alignment", []SelectOption{
			{Value: "left", Label: "Left"},
			{Value: "centre", Label: "Center"},
			{Value: "right", Label: "Right"},
		}, "left", "Appearance"),
	}
}

func props(groups ...[]PropertyDefinition) []PropertyDefinition {
	var out []PropertyDefinition
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Builtin returns the catalog of all widget types the renderer knows about.
func Builtin() *Catalog {
	return New([]WidgetMetadata{
		{
			Type: "text", Name: "Text", Description: "Static text label",
			Category: CategoryText, Icon: "T", DefaultWidth: 150, DefaultHeight: 30,
			Properties: props(positionProps(), []PropertyDefinition{
				str("value", "Text Content", reqDef("Text"), "Content"),
			}, textStyleProps(), []PropertyDefinition{
				sel("direction", "Direction", []SelectOption{
					{Value: "ltr", Label: "Left to Right"},
					{Value: "ttb", Label: "Top to Bottom"},
				}, "ltr", "Appearance"),
			}),
		},
		{
			Type: "metric", Name: "Metric Value", Description: "Display a telemetry value (speed, altitude, etc.)",
			Category: CategoryMetrics, Icon: "M", DefaultWidth: 120, DefaultHeight: 40,
			Properties: props(positionProps(), []PropertyDefinition{
				metricProp("speed", true),
				unitsProp("kph"),
				num("dp", "Decimal Places", rangeDef(0, 5, 1), "Data"),
			}, textStyleProps()),
		},
		{
			Type: "metric_unit", Name: "Metric Unit Label", Description: "Display the unit label for a metric",
			Category: CategoryMetrics, Icon: "U", DefaultWidth: 60, DefaultHeight: 20,
			Properties: props(positionProps(), []PropertyDefinition{
				metricProp("speed", true),
				unitsProp("kph"),
			}, textStyleProps()),
		},
		{
			Type: "datetime", Name: "Date/Time", Description: "Display date and time from video",
			Category: CategoryText, Icon: "D", DefaultWidth: 200, DefaultHeight: 30,
			Properties: props(positionProps(), []PropertyDefinition{
				str("format", "Format", reqDef("%Y-%m-%d %H:%M:%S"), "Data"),
				num("truncate", "Truncate", &PropertyConstraints{Min: fp(0), Default: 0}, "Data"),
			}, textStyleProps()),
		},
		{
			Type: "icon", Name: "Icon", Description: "Display an image icon",
			Category: CategoryText, Icon: "I", DefaultWidth: 64, DefaultHeight: 64,
			Properties: props(positionProps(), []PropertyDefinition{
				str("file", "Icon File", reqDef("default.png"), "Content"),
				num("size", "Size", rangeDef(8, 512, 64), "Appearance"),
				boolean("invert", "Invert Colors", true, "Appearance"),
			}),
		},
		{
			Type: "moving_map", Name: "Moving Map", Description: "Map that follows current location",
			Category: CategoryMaps, Icon: "MAP", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Map Size", rangeDef(64, 1024, 256), "Appearance"),
				num("zoom", "Zoom Level", rangeDef(1, 19, 16), "Appearance"),
				num("corner_radius", "Corner Radius", rangeDef(0, 128, 0), "Appearance"),
				num("opacity", "Opacity", &PropertyConstraints{Min: fp(0), Max: fp(1), Step: fp(0.1), Default: 0.7}, "Appearance"),
				boolean("rotate", "Rotate Map", true, "Behavior"),
			}),
		},
		{
			Type: "journey_map", Name: "Journey Map", Description: "Map showing the entire route",
			Category: CategoryMaps, Icon: "JM", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Map Size", rangeDef(64, 1024, 256), "Appearance"),
				num("corner_radius", "Corner Radius", rangeDef(0, 128, 0), "Appearance"),
				num("opacity", "Opacity", &PropertyConstraints{Min: fp(0), Max: fp(1), Step: fp(0.1), Default: 0.7}, "Appearance"),
			}),
		},
		{
			Type: "moving_journey_map", Name: "Moving Journey Map", Description: "Combined moving and journey map",
			Category: CategoryMaps, Icon: "MJM", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Map Size", rangeDef(64, 1024, 256), "Appearance"),
				num("zoom", "Zoom Level", rangeDef(1, 19, 16), "Appearance"),
			}),
		},
		{
			Type: "circuit_map", Name: "Circuit Map", Description: "Map showing circuit/track layout",
			Category: CategoryMaps, Icon: "CM", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Map Size", rangeDef(64, 1024, 256), "Appearance"),
				color("fill", "Fill Color", "255,0,0", "Appearance"),
				color("outline", "Outline Color", "255,255,255", "Appearance"),
				num("fill_width", "Fill Width", rangeDef(1, 20, 4), "Appearance"),
				num("outline_width", "Outline Width", rangeDef(0, 20, 0), "Appearance"),
			}),
		},
		{
			Type: "compass", Name: "Compass", Description: "Compass with direction indicator",
			Category: CategoryGauges, Icon: "C", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Size", rangeDef(64, 512, 256), "Appearance"),
				num("textsize", "Text Size", rangeDef(8, 100, 16), "Appearance"),
				color("fg", "Foreground Color", "255,255,255", "Appearance"),
				color("bg", "Background Color", "", "Appearance"),
				color("text", "Text Color", "255,255,255", "Appearance"),
			}),
		},
		{
			Type: "compass_arrow", Name: "Compass Arrow", Description: "Simple arrow compass",
			Category: CategoryGauges, Icon: "CA", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Size", rangeDef(64, 512, 256), "Appearance"),
				num("textsize", "Text Size", rangeDef(8, 100, 32), "Appearance"),
				color("arrow", "Arrow Color", "255,255,255", "Appearance"),
				color("bg", "Background Color", "0,0,0,0", "Appearance"),
			}),
		},
		{
			Type: "bar", Name: "Bar Indicator", Description: "Horizontal bar for metrics (acceleration, etc.)",
			Category: CategoryGauges, Icon: "B", DefaultWidth: 400, DefaultHeight: 30,
			Properties: props(positionProps(), []PropertyDefinition{
				num("width", "Width", rangeDef(50, 1000, 400), "Size"),
				num("height", "Height", rangeDef(10, 200, 30), "Size"),
				metricProp("accel", true),
				unitsProp("G"),
				num("min", "Min Value", def(-20), "Data"),
				num("max", "Max Value", def(20), "Data"),
				color("fill", "Fill Color", "255,255,255,0", "Appearance"),
				color("bar", "Bar Color", "255,255,255", "Appearance"),
				color("outline", "Outline Color", "255,255,255", "Appearance"),
				num("cr", "Corner Radius", rangeDef(0, 50, 5), "Appearance"),
			}),
		},
		{
			Type: "zone_bar", Name: "Zone Bar", Description: "Gradient bar with zones (HR zones, etc.)",
			Category: CategoryGauges, Icon: "ZB", DefaultWidth: 400, DefaultHeight: 30,
			Properties: props(positionProps(), []PropertyDefinition{
				num("width", "Width", rangeDef(50, 1000, 400), "Size"),
				num("height", "Height", rangeDef(10, 200, 30), "Size"),
				metricProp("hr", true),
				num("min", "Min Value", def(0), "Data"),
				num("max", "Max Value", def(400), "Data"),
				num("z1", "Zone 1 Threshold", def(120), "Zones"),
				num("z2", "Zone 2 Threshold", def(160), "Zones"),
				num("z3", "Zone 3 Threshold", def(200), "Zones"),
				color("z0-rgb", "Zone 0 Color", "255,255,255", "Zones"),
				color("z1-rgb", "Zone 1 Color", "67,235,52", "Zones"),
				color("z2-rgb", "Zone 2 Color", "240,232,19", "Zones"),
				color("z3-rgb", "Zone 3 Color", "207,19,2", "Zones"),
			}),
		},
		{
			Type: "chart", Name: "Chart", Description: "Scrolling chart of a metric over time",
			Category: CategoryCharts, Icon: "CH", DefaultWidth: 256, DefaultHeight: 64,
			Properties: props(positionProps(), []PropertyDefinition{
				metricProp("alt", false),
				unitsProp("metres"),
				num("seconds", "Window Seconds", rangeDef(10, 3600, 300), "Data"),
				num("samples", "Samples", rangeDef(10, 1000, 256), "Data"),
				num("height", "Height", rangeDef(20, 500, 64), "Size"),
				num("textsize", "Text Size", rangeDef(8, 50, 16), "Appearance"),
				boolean("filled", "Filled", true, "Appearance"),
				boolean("values", "Show Values", true, "Appearance"),
				color("bg", "Background Color", "0,0,0,170", "Appearance"),
				color("fill", "Fill Color", "91,113,146,170", "Appearance"),
				color("line", "Line Color", "255,255,255,170", "Appearance"),
			}),
		},
		{
			Type: "asi", Name: "Airspeed Indicator", Description: "Aviation-style airspeed indicator",
			Category: CategoryGauges, Icon: "ASI", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Size", rangeDef(64, 512, 256), "Appearance"),
				metricProp("speed", false),
				unitsProp("knots"),
				num("vs0", "Vs0", def(40), "Speeds"),
				num("vs", "Vs", def(46), "Speeds"),
				num("vfe", "Vfe", def(103), "Speeds"),
				num("vno", "Vno", def(126), "Speeds"),
				num("vne", "Vne", def(180), "Speeds"),
			}),
		},
		{
			Type: "msi", Name: "Motor Speed Indicator", Description: "Motor/speedometer style gauge",
			Category: CategoryGauges, Icon: "MSI", DefaultWidth: 256, DefaultHeight: 256,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Size", rangeDef(64, 512, 256), "Appearance"),
				metricProp("speed", false),
				unitsProp("kph"),
				num("textsize", "Text Size", rangeDef(8, 100, 16), "Appearance"),
				boolean("needle", "Show Needle", true, "Appearance"),
				num("green", "Green Zone Start", def(0), "Zones"),
				num("yellow", "Yellow Zone Start", def(130), "Zones"),
				num("end", "Scale End", def(180), "Zones"),
			}),
		},
		{
			Type: "gps_lock_icon", Name: "GPS Lock Icon", Description: "Icon showing GPS signal status",
			Category: CategoryIndicators, Icon: "GPS", DefaultWidth: 64, DefaultHeight: 64,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Size", rangeDef(16, 256, 64), "Appearance"),
			}),
		},
		{
			Type: "composite", Name: "Composite", Description: "Container for grouping widgets",
			Category: CategoryContainers, Icon: "[]", DefaultWidth: 200, DefaultHeight: 100,
			IsContainer: true,
			Properties:  positionProps(),
		},
		{
			Type: "translate", Name: "Translate", Description: "Container with position offset",
			Category: CategoryContainers, Icon: "->", DefaultWidth: 200, DefaultHeight: 100,
			IsContainer: true,
			Properties:  positionProps(),
		},
		{
			Type: "frame", Name: "Frame", Description: "Styled container with background",
			Category: CategoryContainers, Icon: "[F]", DefaultWidth: 300, DefaultHeight: 200,
			IsContainer: true,
			Properties: props(positionProps(), []PropertyDefinition{
				num("width", "Width", &PropertyConstraints{Min: fp(10), Required: true, Default: 300}, "Size"),
				num("height", "Height", &PropertyConstraints{Min: fp(10), Required: true, Default: 200}, "Size"),
				color("bg", "Background Color", "", "Appearance"),
				color("outline", "Outline Color", "", "Appearance"),
				num("cr", "Corner Radius", rangeDef(0, 100, 0), "Appearance"),
				num("opacity", "Opacity", &PropertyConstraints{Min: fp(0), Max: fp(1), Step: fp(0.1), Default: 1.0}, "Appearance"),
				num("fo", "Fade Out", rangeDef(0, 100, 0), "Appearance"),
			}),
		},
		{
			Type: "cairo_circuit_map", Name: "Cairo Circuit Map", Description: "Vector circuit map",
			Category: CategoryCairo, Icon: "CCM", DefaultWidth: 256, DefaultHeight: 256, RequiresCairo: true,
			Properties: props(positionProps(), []PropertyDefinition{
				num("size", "Size", rangeDef(64, 1024, 256), "Appearance"),
			}),
		},
		{
			Type: "cairo_gauge_marker", Name: "Cairo Gauge Marker", Description: "Vector gauge with marker needle",
			Category: CategoryCairo, Icon: "CGM", DefaultWidth: 300, DefaultHeight: 300, RequiresCairo: true,
			Properties: props(positionProps(), []PropertyDefinition{
				metricProp("speed", true),
				unitsProp("kph"),
				num("size", "Size", rangeDef(100, 800, 300), "Appearance"),
				num("start", "Start Angle", def(0), "Scale"),
				num("length", "Arc Length", def(270), "Scale"),
				num("max", "Max Value", def(200), "Scale"),
			}),
		},
		{
			Type: "cairo_gauge_round_annotated", Name: "Cairo Round Annotated Gauge", Description: "Annotated round vector gauge",
			Category: CategoryCairo, Icon: "CGR", DefaultWidth: 300, DefaultHeight: 300, RequiresCairo: true,
			Properties: props(positionProps(), []PropertyDefinition{
				metricProp("speed", true),
				unitsProp("kph"),
				num("size", "Size", rangeDef(100, 800, 300), "Appearance"),
				num("start", "Start Angle", def(90), "Scale"),
				num("length", "Arc Length", def(270), "Scale"),
				num("max", "Max Value", def(200), "Scale"),
			}),
		},
		{
			Type: "cairo_gauge_arc_annotated", Name: "Cairo Arc Annotated Gauge", Description: "Annotated arc vector gauge",
			Category: CategoryCairo, Icon: "CGA", DefaultWidth: 300, DefaultHeight: 300, RequiresCairo: true,
			Properties: props(positionProps(), []PropertyDefinition{
				metricProp("speed", true),
				unitsProp("kph"),
				num("size", "Size", rangeDef(100, 800, 300), "Appearance"),
				num("start", "Start Angle", def(0), "Scale"),
				num("length", "Arc Length", def(180), "Scale"),
			}),
		},
		{
			Type: "cairo_gauge_donut", Name: "Cairo Donut Gauge", Description: "Donut-style vector gauge",
			Category: CategoryCairo, Icon: "CGD", DefaultWidth: 300, DefaultHeight: 300, RequiresCairo: true,
			Properties: props(positionProps(), []PropertyDefinition{
				metricProp("speed", true),
				unitsProp("kph"),
				num("size", "Size", rangeDef(100, 800, 300), "Appearance"),
				num("start", "Start Angle", def(0), "Scale"),
				num("length", "Arc Length", def(360), "Scale"),
				num("max", "Max Value", def(200), "Scale"),
			}),
		},
	})
}
