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

// DefaultStyleName is the conventional name of the first style in a
// freshly constructed document.
const DefaultStyleName = "Default"

// BorderStyle selects outline+shadow (1) or opaque box (3) rendering.
type BorderStyle int

// Border styles.
const (
	BorderOutline BorderStyle = 1
	BorderBox     BorderStyle = 3
)

// Style is a named collection of visual defaults referenced by events.
type Style struct {
	Name     string
	FontName string
	FontSize float64

	PrimaryColor   color.ABGR
	SecondaryColor color.ABGR
	OutlineColor   color.ABGR
	BackColor      color.ABGR

	Bold, Italic, Underline, StrikeOut bool

	ScaleX, ScaleY float64
	Spacing        float64
	Angle          float64

	BorderStyle     BorderStyle
	Outline, Shadow float64

	// Alignment in numpad coordinates, 1 (bottom-left) .. 9 (top-right).
	Alignment int

	MarginL, MarginR, MarginV int
	Encoding                  int
}

// NewDefaultStyle returns the style conventionally used as "Default".
func NewDefaultStyle() Style {
	return Style{
		Name:        DefaultStyleName,
		FontName:    "Arial",
		FontSize:    20,
		PrimaryColor:   color.Pack(255, 255, 255, 255),
		SecondaryColor: color.Pack(255, 0, 0, 255),
		OutlineColor:   color.Pack(0, 0, 0, 255),
		BackColor:      color.Pack(0, 0, 0, 255),
		ScaleX:      100,
		ScaleY:      100,
		BorderStyle: BorderOutline,
		Outline:     2,
		Shadow:      0,
		Alignment:   2,
	}
}

// Clone returns a copy of the style (Style has no reference fields, so a
// value copy is already a deep copy).
func (s Style) Clone() Style { return s }

// StyleMap is an insertion-ordered mapping from style name to Style. The
// zero value is not usable; use NewStyleMap.
type StyleMap struct {
	order []string
	byKey map[string]Style
}

// NewStyleMap returns a StyleMap seeded with the "Default" style, per the
// §3 invariant that the style map always contains it.
func NewStyleMap() *StyleMap {
	m := &StyleMap{byKey: make(map[string]Style)}
	m.Set(NewDefaultStyle())
	return m
}

// Set inserts or replaces a style, preserving original insertion position
// on replace (first-write-wins ordering, last-write-wins value — matching
// the "duplicate style name: second wins" recovery policy in spec.md §7).
func (m *StyleMap) Set(s Style) {
	if _, ok := m.byKey[s.Name]; !ok {
		m.order = append(m.order, s.Name)
	}
	m.byKey[s.Name] = s
}

// Get looks up a style by name.
func (m *StyleMap) Get(name string) (Style, bool) {
	s, ok := m.byKey[name]
	return s, ok
}

// Delete removes a style by name.
func (m *StyleMap) Delete(name string) {
	if _, ok := m.byKey[name]; !ok {
		return
	}
	delete(m.byKey, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Names returns style names in insertion order.
func (m *StyleMap) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of styles.
func (m *StyleMap) Len() int { return len(m.order) }

// Clone returns a deep copy preserving insertion order.
func (m *StyleMap) Clone() *StyleMap {
	c := &StyleMap{byKey: make(map[string]Style, len(m.byKey)), order: append([]string{}, m.order...)}
	for k, v := range m.byKey {
		c.byKey[k] = v
	}
	return c
}

// Each calls fn for every style in insertion order.
func (m *StyleMap) Each(fn func(Style)) {
	for _, n := range m.order {
		fn(m.byKey[n])
	}
}
