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

package htmltag

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

func TestParsePlain(t *testing.T) {
	segs := Parse("hello")
	require.Len(t, segs, 1)
	require.Equal(t, "hello", segs[0].Text)
}

func TestParseBold(t *testing.T) {
	segs := Parse("<b>bold</b> plain")
	require.Len(t, segs, 2)
	require.True(t, *segs[0].Style.Bold)
	require.Equal(t, "bold", segs[0].Text)
	require.Nil(t, segs[1].Style)
	require.Equal(t, " plain", segs[1].Text)
}

func TestParseNestedTags(t *testing.T) {
	segs := Parse("<b><i>both</i></b>")
	require.Len(t, segs, 1)
	require.True(t, *segs[0].Style.Bold)
	require.True(t, *segs[0].Style.Italic)
}

func TestParseFontColor(t *testing.T) {
	segs := Parse(`<font color="#ff0000">red</font>`)
	require.NotNil(t, segs[0].Style.PrimaryColor)
	r, _, _, _ := segs[0].Style.PrimaryColor.RGBA()
	require.Equal(t, uint8(255), r)
}

func TestParseBreak(t *testing.T) {
	segs := Parse("line1<br>line2")
	require.Equal(t, "line1\nline2", subtitle.JoinText(segs))
}

func TestSerializeRoundTrip(t *testing.T) {
	out := Serialize(Parse("<b>bold</b> plain"))
	require.Equal(t, "<b>bold</b> plain", out)
}
