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

package color

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestASSColorRoundTrip(t *testing.T) {
	for _, c := range []ABGR{Pack(1, 2, 3, 4), Pack(255, 0, 128, 0), Pack(0, 0, 0, 255)} {
		got, err := ParseASS(FormatASS(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestParseCSSNamed(t *testing.T) {
	c, err := ParseCSS("red")
	require.NoError(t, err)
	require.Equal(t, Pack(255, 0, 0, 255), c)
}

func TestParseCSSHex(t *testing.T) {
	c, err := ParseCSS("#336699")
	require.NoError(t, err)
	r, g, b, _ := c.RGBA()
	require.Equal(t, uint8(0x33), r)
	require.Equal(t, uint8(0x66), g)
	require.Equal(t, uint8(0x99), b)
}

func TestYCbCrRoundTripApprox(t *testing.T) {
	c := Pack(200, 100, 50, 255)
	y, cb, cr, a := ABGRToYCbCr(c)
	back := YCbCrToABGR(y, cb, cr, a)
	r, g, b, _ := back.RGBA()
	require.InDelta(t, 200, int(r), 2)
	require.InDelta(t, 100, int(g), 2)
	require.InDelta(t, 50, int(b), 2)
}

func TestBlend(t *testing.T) {
	c := Blend(Pack(0, 0, 0, 0), Pack(255, 255, 255, 255), 0.5)
	r, g, b, a := c.RGBA()
	require.Equal(t, uint8(128), r)
	require.Equal(t, uint8(128), g)
	require.Equal(t, uint8(128), b)
	require.Equal(t, uint8(128), a)
}
