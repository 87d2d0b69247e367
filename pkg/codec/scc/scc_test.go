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

package scc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

func TestSerializeRoundTrip(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs = 1000
	e.EndMs = 4000
	e.SetText("Hello world")

	out := Serialize(doc)
	require.Contains(t, out, header)

	res := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 1)

	got := res.Document.Events[0]
	require.Equal(t, "Hello world", got.ResolvedText())
	require.InDelta(t, 1000, got.StartMs, 34)
	require.InDelta(t, 4000, got.EndMs, 34)
}

func TestSerializeMultilineRoundTrip(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs = 2000
	e.EndMs = 6000
	e.SetText("Line one\nLine two")

	out := Serialize(doc)
	res := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res.Document.Events, 1)
	require.Equal(t, "Line one\nLine two", res.Document.Events[0].ResolvedText())
}

func TestParseHandlesBlankAndHeaderLines(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs = 500
	e.EndMs = 3500
	e.SetText("Ahoy")

	out := Serialize(doc)
	res := Parse(out)
	require.True(t, res.OK)
	require.Len(t, res.Document.Events, 1)
}
