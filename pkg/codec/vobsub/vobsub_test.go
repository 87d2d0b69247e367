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

package vobsub

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

func TestSerializeRoundTrip(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs = 1000
	e.EndMs = 4000
	e.Image = &subtitle.Image{
		Width: 4, Height: 2, X: 10, Y: 20,
		Indexed: []byte{0, 1, 1, 0, 2, 2, 3, 3},
		Palette: color.Palette{
			color.Pack(0, 0, 0, 255),
			color.Pack(255, 255, 255, 255),
			color.Pack(255, 0, 0, 255),
			color.Pack(0, 0, 255, 255),
		},
	}

	idx, sub := Serialize(doc)
	require.NotEmpty(t, idx)
	require.NotEmpty(t, sub)

	res := ParseWithOptions(idx, sub, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Len(t, res.Document.Events, 1)

	got := res.Document.Events[0]
	require.InDelta(t, 1000, got.StartMs, 12)
	require.InDelta(t, 3000, got.Duration(), 12)
	require.NotNil(t, got.Image)
	require.Equal(t, 4, got.Image.Width)
	require.Equal(t, 2, got.Image.Height)
	require.Equal(t, 10, got.Image.X)
	require.Equal(t, 20, got.Image.Y)
	require.Equal(t, []byte{0, 1, 1, 0, 2, 2, 3, 3}, got.Image.Indexed)
}

func TestParseRejectsShortSub(t *testing.T) {
	idx := "size: 4x2\npalette: 000000\ntimestamp: 00:00:01:000, filepos: 000000000\n"
	res := ParseWithOptions(idx, []byte{0x00, 0x00}, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Document.Events)
}
