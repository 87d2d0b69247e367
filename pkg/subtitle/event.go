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

package subtitle

import "github.com/wiedymi/subforge-sub002/pkg/color"

// Palette is an indexed-image color table.
type Palette []color.ABGR

// Image is a subtitle bitmap: either an indexed image with a Palette, or a
// direct RGBA buffer (len(RGBA) == Width*Height*4) when Palette is nil.
type Image struct {
	Width, Height int
	X, Y          int
	Indexed       []byte
	Palette       Palette
	RGBA          []byte
}

// Clone returns a deep copy with freshly allocated buffers.
func (im *Image) Clone() *Image {
	if im == nil {
		return nil
	}
	c := *im
	if im.Indexed != nil {
		c.Indexed = append([]byte{}, im.Indexed...)
	}
	if im.Palette != nil {
		c.Palette = append(Palette{}, im.Palette...)
	}
	if im.RGBA != nil {
		c.RGBA = append([]byte{}, im.RGBA...)
	}
	return &c
}

// VobSubSidecar carries VobSub-specific per-event metadata.
type VobSubSidecar struct {
	Forced        bool
	OriginalTrack int
}

// PGSSidecar carries PGS-specific per-event metadata.
type PGSSidecar struct {
	CompositionNumber int
	WindowNumber      int
}

// Event is a single on-screen subtitle with timing, styling, and text.
type Event struct {
	ID uint64

	StartMs, EndMs int
	Layer          int
	Style          string
	Actor          string

	MarginL, MarginR, MarginV int
	Effect                    string

	// Text is the format-native representation: an opaque payload of
	// tags. Segments is the structured decomposition. Dirty is true iff
	// Segments is authoritative and Text may be stale (§3 invariant).
	Text     string
	Segments []TextSegment
	Dirty    bool

	Image *Image

	VobSub *VobSubSidecar
	PGS    *PGSSidecar
}

// ResolvedText returns the event's current canonical text: Segments joined
// when Dirty, else the stored Text.
func (e *Event) ResolvedText() string {
	if e.Dirty {
		return JoinText(e.Segments)
	}
	return e.Text
}

// SetText sets Text directly and clears Dirty/Segments, making Text
// canonical again.
func (e *Event) SetText(text string) {
	e.Text = text
	e.Segments = nil
	e.Dirty = false
}

// SetSegments replaces Segments and marks the event dirty so serializers
// know to re-derive Text.
func (e *Event) SetSegments(segs []TextSegment) {
	e.Segments = segs
	e.Dirty = true
}

// Duration returns EndMs - StartMs.
func (e *Event) Duration() int { return e.EndMs - e.StartMs }

// Clone returns a deep copy with a freshly allocated ID.
func (e *Event) Clone(alloc *IDAllocator) *Event {
	c := &Event{
		ID:      allocID(alloc),
		StartMs: e.StartMs, EndMs: e.EndMs,
		Layer: e.Layer, Style: e.Style, Actor: e.Actor,
		MarginL: e.MarginL, MarginR: e.MarginR, MarginV: e.MarginV,
		Effect: e.Effect,
		Text:   e.Text, Dirty: e.Dirty,
	}
	if e.Segments != nil {
		c.Segments = make([]TextSegment, len(e.Segments))
		for i, s := range e.Segments {
			c.Segments[i] = s.Clone()
		}
	}
	c.Image = e.Image.Clone()
	if e.VobSub != nil {
		v := *e.VobSub
		c.VobSub = &v
	}
	if e.PGS != nil {
		p := *e.PGS
		c.PGS = &p
	}
	return c
}

func allocID(alloc *IDAllocator) uint64 {
	if alloc != nil {
		return alloc.Next()
	}
	return NewEventID()
}
