/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	applog "telemetrystudio/internal/log"

	"telemetrystudio/internal/domain"
)

// Event is one of the concrete event structs below. Rendering surfaces
// subscribe to the editor and switch on the concrete type; payloads carry the
// minimum needed to re-render.
type Event any

// DocumentReplaced fires when the whole document changes identity: new
// document, load, or a history restore. Restored distinguishes undo/redo
// restores from normal loads so subscribers that record history do not
// re-record the restore itself.
type DocumentReplaced struct {
	Layout   *domain.Layout
	Restored bool
}

// WidgetAdded fires after a widget lands in the tree. ParentID is empty for
// root-level placement.
type WidgetAdded struct {
	Widget   *domain.Widget
	ParentID string
}

// WidgetRemoved fires after a widget (and its subtree) is detached.
type WidgetRemoved struct{ ID string }

// WidgetUpdated fires after position/flag updates, including every
// intermediate drag frame.
type WidgetUpdated struct{ Widget *domain.Widget }

// PropertyChanged fires after a property bag write.
type PropertyChanged struct {
	Widget *domain.Widget
	Key    string
	Value  any
}

// SelectionChanged carries the selected ids in paint order.
type SelectionChanged struct{ IDs []string }

// CanvasChanged fires after canvas settings updates.
type CanvasChanged struct{ Canvas domain.CanvasSettings }

// HistoryChanged mirrors undo/redo availability.
type HistoryChanged struct{ CanUndo, CanRedo bool }

type subscriber struct {
	id int
	fn func(Event)
}

type bus struct {
	nextID int
	subs   []subscriber
	log    *slog.Logger
}

func newBus() *bus {
	return &bus{log: applog.WithComponent("editor")}
}

// subscribe registers fn and returns an unsubscribe closure.
func (b *bus) subscribe(fn func(Event)) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// publish delivers synchronously. A panicking listener is logged and skipped
// so one faulty subscriber cannot break the others.
func (b *bus) publish(e Event) {
	for _, s := range b.subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("event listener panicked", slog.Any("panic", r), slog.Any("event", e))
				}
			}()
			s.fn(e)
		}()
	}
}
