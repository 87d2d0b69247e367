// Copyright 2020-2021 The Subforge Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package subtitle holds the normalized in-memory document model shared by
// every codec: Document, Event, Style, TextSegment, InlineStyle, Effect,
// and the ancillary Region/Comment/EmbeddedData types, plus the document-
// level lifecycle operations (construction, cloning, validation).
package subtitle

// WrapStyle selects ASS/SSA automatic line-wrapping behavior.
type WrapStyle int

// Wrap styles, matching ASS's numeric WrapStyle script-info field.
const (
	WrapSmart          WrapStyle = 0
	WrapNone           WrapStyle = 1
	WrapSmartLowerWide WrapStyle = 2
	WrapEvenSplit      WrapStyle = 3
)

// ScriptInfo holds document-level metadata mirrored from ASS's
// "Script Info" section but applicable to any format that carries similar
// fields (title/author/resolution/wrap behavior).
type ScriptInfo struct {
	Title  string
	Author string

	PlayResX, PlayResY int
	ScaledBorderAndShadow bool
	WrapStyle             WrapStyle
}

// Document is the normalized in-memory subtitle document: script info, an
// insertion-ordered style map (always containing "Default"), an ordered
// event sequence, an ordered comment sequence anchored by event index,
// optional embedded fonts/graphics, and an optional VTT region list.
type Document struct {
	Info ScriptInfo

	Styles *StyleMap

	Events   []*Event
	Comments []Comment

	Fonts    []EmbeddedData
	Graphics []EmbeddedData

	Regions []Region

	alloc IDAllocator
}

// New returns an empty document with the "Default" style seeded.
func New() *Document {
	return &Document{Styles: NewStyleMap()}
}

// NewEvent allocates a new Event owned by this document's ID allocator and
// appends it, returning the event for further mutation.
func (d *Document) NewEvent() *Event {
	e := &Event{ID: d.alloc.Next(), Style: DefaultStyleName}
	d.Events = append(d.Events, e)
	return e
}

// AddEvent appends an already-constructed event, assigning it a fresh ID
// from this document's allocator if it doesn't have one.
func (d *Document) AddEvent(e *Event) {
	if e.ID == 0 {
		e.ID = d.alloc.Next()
	}
	d.Events = append(d.Events, e)
}

// RemoveEventAt removes the event at index i.
func (d *Document) RemoveEventAt(i int) {
	d.Events = append(d.Events[:i], d.Events[i+1:]...)
}

// IndexOfEvent returns the slice index of the event with the given ID, or
// -1 if not found.
func (d *Document) IndexOfEvent(id uint64) int {
	for i, e := range d.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Optimize drops unused styles (not "Default", not referenced by any
// event) and events with empty text and no image payload. Grounded on
// asticode/go-astisub's Subtitles.Optimize, which performs the analogous
// remove-unused-styles-and-empty-lines pass.
func (d *Document) Optimize() {
	used := map[string]bool{DefaultStyleName: true}
	for _, e := range d.Events {
		if e.Style != "" {
			used[e.Style] = true
		}
	}
	for _, name := range d.Styles.Names() {
		if !used[name] {
			d.Styles.Delete(name)
		}
	}

	kept := d.Events[:0]
	for _, e := range d.Events {
		if e.ResolvedText() == "" && e.Image == nil {
			continue
		}
		kept = append(kept, e)
	}
	d.Events = kept
}

// RemoveStyling strips all per-event and per-segment styling, leaving only
// plain text and timing. Grounded on go-astisub's Subtitles.RemoveStyling.
func (d *Document) RemoveStyling() {
	d.Styles = NewStyleMap()
	for _, e := range d.Events {
		e.Style = DefaultStyleName
		for i := range e.Segments {
			e.Segments[i].Style = nil
			e.Segments[i].Effects = nil
		}
	}
}
