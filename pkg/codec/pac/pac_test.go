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

package pac

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

	raw := Serialize(doc)
	require.Equal(t, byte(0x01), raw[0])

	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 1)

	got := res.Document.Events[0]
	require.InDelta(t, 1000, got.StartMs, 40)
	require.InDelta(t, 4000, got.EndMs, 40)
	require.Equal(t, "Hello world", got.ResolvedText())
}

func TestSerializeItalicRoundTrip(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs = 0
	e.EndMs = 2000
	italic := true
	e.SetSegments([]subtitle.TextSegment{
		{Text: "plain "},
		{Text: "italic", Style: &subtitle.InlineStyle{Italic: &italic}},
	})

	raw := Serialize(doc)
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.Len(t, res.Document.Events, 1)

	segs := res.Document.Events[0].Segments
	require.GreaterOrEqual(t, len(segs), 2)
	require.Equal(t, "plain ", segs[0].Text)
	require.Equal(t, "italic", segs[1].Text)
	require.NotNil(t, segs[1].Style)
	require.True(t, *segs[1].Style.Italic)
}

func TestParseRejectsShortFile(t *testing.T) {
	res := ParseWithOptions([]byte{0x01, 0x02}, subtitle.DefaultParseOptions())
	require.False(t, res.OK)
	require.NotEmpty(t, res.Errors)
}
