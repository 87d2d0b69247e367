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

package ass

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `[Script Info]
Title: Test
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,0,2,10,10,10,1
Style: Title,Arial,30,&H0000FFFF,&H000000FF,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,2,0,8,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello {\b1}world{\b0}
Comment: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,a comment
Dialogue: 0,0:00:05.00,0:00:08.00,Title,,0,0,0,,Second line, with a comma
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Equal(t, "Test", res.Document.Info.Title)
	require.Equal(t, 1920, res.Document.Info.PlayResX)

	require.Equal(t, 2, res.Document.Styles.Len())
	titleStyle, ok := res.Document.Styles.Get("Title")
	require.True(t, ok)
	require.Equal(t, 30.0, titleStyle.FontSize)
	require.True(t, titleStyle.Bold)

	require.Len(t, res.Document.Events, 2)
	require.Len(t, res.Document.Comments, 1)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 4000, e0.EndMs)
	require.Equal(t, "Hello world", e0.ResolvedText())
	require.True(t, *e0.Segments[1].Style.Bold)

	e1 := res.Document.Events[1]
	require.Equal(t, "Second line, with a comma", e1.ResolvedText())
	require.Equal(t, "Title", e1.Style)
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	require.Contains(t, out, "[Script Info]")
	require.Contains(t, out, "[V4+ Styles]")

	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Hello world", res2.Document.Events[0].ResolvedText())
	require.Equal(t, 2, res2.Document.Styles.Len())
}

func TestDuplicateStyleNameCollected(t *testing.T) {
	raw := `[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,0,2,10,10,10,1
Style: Default,Arial,22,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,0,2,10,10,10,1
`
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.Len(t, res.Errors, 1)
	require.Equal(t, subtitle.ErrDuplicateStyle, res.Errors[0].Code)
	s, ok := res.Document.Styles.Get("Default")
	require.True(t, ok)
	require.Equal(t, 22.0, s.FontSize)
}
