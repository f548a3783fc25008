/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Structural operations on the widget tree. All searches are depth-first in
// paint order and return the first match; widget ids are unique document-wide,
// so the first match is the only one.

// Find returns the widget with the given id, or nil.
func (l *Layout) Find(id string) *Widget {
	return findIn(l.Widgets, id)
}

func findIn(list []*Widget, id string) *Widget {
	for _, w := range list {
		if w.ID == id {
			return w
		}
		if c := findIn(w.Children, id); c != nil {
			return c
		}
	}
	return nil
}

// Remove detaches the widget with the given id from its parent list and
// reports whether a removal occurred. The entire subtree goes with it.
func (l *Layout) Remove(id string) bool {
	var ok bool
	l.Widgets, ok = removeFrom(l.Widgets, id)
	return ok
}

func removeFrom(list []*Widget, id string) ([]*Widget, bool) {
	for i, w := range list {
		if w.ID == id {
			return append(list[:i], list[i+1:]...), true
		}
		if children, ok := removeFrom(w.Children, id); ok {
			w.Children = children
			return list, true
		}
	}
	return list, false
}

// Parent returns the container widget owning id, or nil when id sits in the
// root list (or does not exist; check with Find first when that matters).
func (l *Layout) Parent(id string) *Widget {
	return parentIn(nil, l.Widgets, id)
}

func parentIn(parent *Widget, list []*Widget, id string) *Widget {
	for _, w := range list {
		if w.ID == id {
			return parent
		}
		if p := parentIn(w, w.Children, id); p != nil {
			return p
		}
	}
	return nil
}

// Walk visits every widget depth-first in paint order. Returning false from
// the visitor stops the walk.
func (l *Layout) Walk(visit func(w, parent *Widget) bool) {
	walkList(nil, l.Widgets, visit)
}

func walkList(parent *Widget, list []*Widget, visit func(w, parent *Widget) bool) bool {
	for _, w := range list {
		if !visit(w, parent) {
			return false
		}
		if !walkList(w, w.Children, visit) {
			return false
		}
	}
	return true
}

// IDs returns the set of all widget ids in the document.
func (l *Layout) IDs() map[string]struct{} {
	ids := make(map[string]struct{})
	l.Walk(func(w, _ *Widget) bool {
		ids[w.ID] = struct{}{}
		return true
	})
	return ids
}

// Clone returns a structural deep copy of the document. It deliberately
// avoids a serialize/parse round-trip; history snapshots restore through it.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	c := &Layout{
		ID:       l.ID,
		Metadata: l.Metadata,
		Canvas:   l.Canvas,
		Widgets:  make([]*Widget, 0, len(l.Widgets)),
	}
	for _, w := range l.Widgets {
		c.Widgets = append(c.Widgets, w.Clone())
	}
	return c
}

// Clone returns a deep copy of the widget and its subtree.
func (w *Widget) Clone() *Widget {
	c := *w
	c.Properties = cloneProps(w.Properties)
	c.Children = make([]*Widget, 0, len(w.Children))
	for _, ch := range w.Children {
		c.Children = append(c.Children, ch.Clone())
	}
	return &c
}

func cloneProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the plain-data value kinds a property bag can hold:
// scalars, lists (colors) and nested maps.
func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []int:
		out := make([]int, len(t))
		copy(out, t)
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
