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

package microdvdtag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlain(t *testing.T) {
	segs := Parse("hello")
	require.Len(t, segs, 1)
	require.Equal(t, "hello", segs[0].Text)
	require.Nil(t, segs[0].Style)
}

func TestParseBoldItalic(t *testing.T) {
	segs := Parse("{y:bi}hello")
	require.True(t, *segs[0].Style.Bold)
	require.True(t, *segs[0].Style.Italic)
	require.Equal(t, "hello", segs[0].Text)
}

func TestParseColor(t *testing.T) {
	segs := Parse("{c:$0000FF}red")
	r, g, b, _ := segs[0].Style.PrimaryColor.RGBA()
	require.Equal(t, uint8(255), r)
	require.Equal(t, uint8(0), g)
	require.Equal(t, uint8(0), b)
}

func TestParsePipeLineBreak(t *testing.T) {
	segs := Parse("line1|line2")
	require.Equal(t, "line1\nline2", segs[0].Text)
}

func TestSerializeRoundTrip(t *testing.T) {
	segs := Parse("{y:b}{c:$0000FF}hello")
	out := Serialize(segs)
	require.Equal(t, "{y:b}{c:$0000FF}hello", out)
}
