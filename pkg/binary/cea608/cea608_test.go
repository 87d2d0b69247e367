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

package cea608

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeCharASCII(t *testing.T) {
	require.Equal(t, 'A', DecodeChar('A'))
	require.Equal(t, ' ', DecodeChar(' '))
}

func TestDecodeCharStandardSubstitution(t *testing.T) {
	require.Equal(t, 'é', DecodeChar(0x5C))
	require.Equal(t, 'ñ', DecodeChar(0x7E))
}

func TestEncodeCharRoundTrip(t *testing.T) {
	b, ok := EncodeChar('é')
	require.True(t, ok)
	require.Equal(t, 'é', DecodeChar(b))
}

func TestEncodeCharUnrepresentable(t *testing.T) {
	_, ok := EncodeChar('漢')
	require.False(t, ok)
}

func TestSpecialCharRoundTrip(t *testing.T) {
	b, ok := EncodeSpecialChar('♪')
	require.True(t, ok)
	r, ok := DecodeSpecialChar(b)
	require.True(t, ok)
	require.Equal(t, '♪', r)
}

func TestDecodePACRowSelection(t *testing.T) {
	pac, ok := DecodePAC(0x11, 0x40)
	require.True(t, ok)
	require.Equal(t, 1, pac.Row)

	pac2, ok := DecodePAC(0x11, 0x60)
	require.True(t, ok)
	require.Equal(t, 2, pac2.Row)
}

func TestDecodeMiscControl(t *testing.T) {
	require.Equal(t, ControlEraseDisplayedMemory, DecodeMiscControl(0x2C))
	require.Equal(t, ControlRollUp2, DecodeMiscControl(0x25))
}
