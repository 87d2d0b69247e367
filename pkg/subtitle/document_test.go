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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDocumentHasDefaultStyle(t *testing.T) {
	d := New()
	_, ok := d.Styles.Get(DefaultStyleName)
	require.True(t, ok)
	require.NoError(t, d.Validate())
}

func TestEventIDsUniqueAndMonotonic(t *testing.T) {
	d := New()
	e1 := d.NewEvent()
	e2 := d.NewEvent()
	require.NotEqual(t, e1.ID, e2.ID)
	require.NoError(t, d.Validate())
}

func TestValidateCatchesEndBeforeStart(t *testing.T) {
	d := New()
	e := d.NewEvent()
	e.StartMs, e.EndMs = 100, 50
	require.Error(t, d.Validate())
}

func TestCloneIsDeepAndReIDs(t *testing.T) {
	d := New()
	e := d.NewEvent()
	e.StartMs, e.EndMs = 0, 1000
	e.SetSegments([]TextSegment{{Text: "hi"}})

	c := d.Clone()
	require.Equal(t, len(d.Events), len(c.Events))
	require.NotEqual(t, d.Events[0].ID, c.Events[0].ID)

	c.Events[0].Segments[0].Text = "mutated"
	require.Equal(t, "hi", d.Events[0].Segments[0].Text)
}

func TestDirtyInvariant(t *testing.T) {
	e := &Event{}
	e.SetText("plain")
	require.False(t, e.Dirty)
	require.Equal(t, "plain", e.ResolvedText())

	e.SetSegments([]TextSegment{{Text: "a"}, {Text: "b"}})
	require.True(t, e.Dirty)
	require.Equal(t, "ab", e.ResolvedText())
}

func TestOptimizeDropsUnusedStylesAndEmptyEvents(t *testing.T) {
	d := New()
	d.Styles.Set(Style{Name: "Unused"})
	e := d.NewEvent()
	e.SetText("")
	d.Optimize()
	_, ok := d.Styles.Get("Unused")
	require.False(t, ok)
	require.Len(t, d.Events, 0)
}

func TestStyleMapDuplicateSecondWins(t *testing.T) {
	m := NewStyleMap()
	m.Set(Style{Name: "X", FontSize: 10})
	m.Set(Style{Name: "X", FontSize: 20})
	s, _ := m.Get("X")
	require.Equal(t, float64(20), s.FontSize)
	require.Equal(t, 2, m.Len())
}
