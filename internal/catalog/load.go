/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// catalogSchema validates external catalog files before they are trusted.
// Unknown extra fields are permitted so newer catalogs stay loadable.
const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["widgets"],
  "properties": {
    "widgets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "name", "properties"],
        "properties": {
          "type": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "description": {"type": "string"},
          "category": {"type": "string"},
          "icon": {"type": "string"},
          "default_width": {"type": "integer", "minimum": 1},
          "default_height": {"type": "integer", "minimum": 1},
          "is_container": {"type": "boolean"},
          "requires_cairo": {"type": "boolean"},
          "properties": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "type"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "label": {"type": "string"},
                "type": {"enum": ["number", "string", "boolean", "color", "select", "metric", "units"]},
                "category": {"type": "string"},
                "constraints": {
                  "type": "object",
                  "properties": {
                    "min": {"type": "number"},
                    "max": {"type": "number"},
                    "step": {"type": "number"},
                    "required": {"type": "boolean"}
                  }
                },
                "options": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["value"],
                    "properties": {
                      "value": {"type": "string"},
                      "label": {"type": "string"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

type catalogFile struct {
	Widgets []WidgetMetadata `json:"widgets"`
}

// Load reads a catalog from a JSON file, validates it against the embedded
// schema and returns it layered over the builtin registry. An invalid file is
// rejected whole; the builtin catalog is never partially overridden.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse validates and parses catalog JSON bytes layered over the builtin set.
func Parse(data []byte) (*Catalog, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, fmt.Errorf("invalid catalog: %s (%d issues)", first, len(result.Errors()))
	}
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	merged := Builtin()
	for i := range f.Widgets {
		m := f.Widgets[i]
		if _, seen := merged.byType[m.Type]; !seen {
			merged.order = append(merged.order, m.Type)
		}
		merged.byType[m.Type] = &m
	}
	return merged, nil
}
