/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinCoversRendererTypes(t *testing.T) {
	c := Builtin()
	for _, typ := range []string{
		"text", "metric", "metric_unit", "datetime", "icon",
		"moving_map", "journey_map", "moving_journey_map", "circuit_map",
		"compass", "compass_arrow", "bar", "zone_bar", "chart",
		"asi", "msi", "gps_lock_icon", "composite", "translate", "frame",
	} {
		if !c.Has(typ) {
			t.Fatalf("builtin catalog missing %q", typ)
		}
	}
	for _, typ := range []string{"composite", "translate", "frame"} {
		m, _ := c.Get(typ)
		if !m.IsContainer {
			t.Fatalf("%q must be a container", typ)
		}
	}
	if m, _ := c.Get("text"); m.IsContainer {
		t.Fatalf("text must not be a container")
	}
}

func TestDefaultPropertiesExcludePosition(t *testing.T) {
	c := Builtin()
	p := c.DefaultProperties("metric")
	if _, ok := p["x"]; ok {
		t.Fatalf("x must not appear in default properties")
	}
	if _, ok := p["y"]; ok {
		t.Fatalf("y must not appear in default properties")
	}
	if p["metric"] != "speed" || p["units"] != "kph" {
		t.Fatalf("unexpected metric defaults: %+v", p)
	}
	if p["dp"] != float64(1) {
		t.Fatalf("expected dp default 1, got %v", p["dp"])
	}
	if got := c.DefaultProperties("no_such_type"); got != nil {
		t.Fatalf("unknown type must yield nil defaults")
	}
}

func TestSquareSizeSet(t *testing.T) {
	for _, typ := range []string{"moving_map", "compass", "asi", "msi", "icon", "gps_lock_icon"} {
		if !HasSquareSize(typ) {
			t.Fatalf("%q should resolve size as a square box", typ)
		}
	}
	// For text widgets size is a font size, never a bounding box.
	if HasSquareSize("text") || HasSquareSize("metric") {
		t.Fatalf("font-size widgets must not be square-size types")
	}
}

func TestParseValidCatalogLayersOverBuiltin(t *testing.T) {
	data := []byte(`{"widgets":[{"type":"custom_gauge","name":"Custom Gauge","properties":[
		{"name":"size","type":"number","constraints":{"min":10,"default":100}}
	],"default_width":120,"default_height":120}]}`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !c.Has("custom_gauge") {
		t.Fatalf("custom type missing after load")
	}
	if !c.Has("text") {
		t.Fatalf("builtin types must survive layering")
	}
	if p := c.DefaultProperties("custom_gauge"); p["size"] != float64(100) {
		t.Fatalf("custom default not extracted: %+v", p)
	}
}

func TestParseRejectsInvalidCatalog(t *testing.T) {
	if _, err := Parse([]byte(`{"widgets":[{"name":"missing type","properties":[]}]}`)); err == nil {
		t.Fatalf("catalog without type field must be rejected")
	}
	if _, err := Parse([]byte(`{"widgets":[{"type":"x","name":"x","properties":[{"name":"p","type":"wat"}]}]}`)); err == nil {
		t.Fatalf("unknown property type must be rejected")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"widgets":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Types()) == 0 {
		t.Fatalf("expected builtin types present")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("missing file must error")
	}
}
