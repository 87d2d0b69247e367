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

// ScrollMode selects a VTT region's scroll behavior.
type ScrollMode int

// Scroll modes.
const (
	ScrollNone ScrollMode = iota
	ScrollUp
)

// Region is a WebVTT REGION block.
type Region struct {
	ID              string
	Width           string // percent string, e.g. "40%"
	Lines           int
	RegionAnchor    string
	ViewportAnchor  string
	Scroll          ScrollMode
}

// Clone returns a copy (Region has no reference fields).
func (r Region) Clone() Region { return r }

// EmbeddedData is an opaque named blob: an embedded font or graphic file
// carried by ASS/SSA [Fonts]/[Graphics] sections.
type EmbeddedData struct {
	Name string
	Data []byte
}

// Clone returns a deep copy with a freshly allocated Data buffer.
func (e EmbeddedData) Clone() EmbeddedData {
	c := EmbeddedData{Name: e.Name}
	if e.Data != nil {
		c.Data = append([]byte{}, e.Data...)
	}
	return c
}

// Comment is a free-standing comment line anchored to a position in the
// event stream.
type Comment struct {
	Text             string
	BeforeEventIndex int
}
