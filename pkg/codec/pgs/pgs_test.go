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

package pgs

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
	indices := []byte{
		1, 1, 0, 0,
		0, 2, 2, 0,
	}
	e.Image = &subtitle.Image{
		Width: 4, Height: 2, X: 10, Y: 20,
		Indexed: indices,
		Palette: color.Palette{0, color.Pack(255, 0, 0, 255), color.Pack(0, 255, 0, 255)},
	}

	raw := Serialize(doc)
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Len(t, res.Document.Events, 1)

	got := res.Document.Events[0]
	require.InDelta(t, 1000, got.StartMs, 1)
	require.InDelta(t, 4000, got.EndMs, 1)
	require.NotNil(t, got.Image)
	require.Equal(t, 4, got.Image.Width)
	require.Equal(t, 2, got.Image.Height)
	require.Equal(t, indices, got.Image.Indexed)
	require.NotNil(t, got.PGS)
}
