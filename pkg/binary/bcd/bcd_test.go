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

package bcd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteRoundTrip(t *testing.T) {
	b, err := EncodeByte(59)
	require.NoError(t, err)
	require.Equal(t, byte(0x59), b)
	v, err := DecodeByte(b)
	require.NoError(t, err)
	require.Equal(t, 59, v)
}

func TestDecodeByteInvalidNibble(t *testing.T) {
	_, err := DecodeByte(0xFA)
	require.Error(t, err)
}

func TestTimecodeRoundTrip(t *testing.T) {
	tc := Timecode{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4}
	enc, err := EncodeTimecode(tc)
	require.NoError(t, err)
	dec, err := DecodeTimecode(enc[:])
	require.NoError(t, err)
	require.Equal(t, tc, dec)
}

func TestMsRoundTrip(t *testing.T) {
	tc := Timecode{Hours: 0, Minutes: 1, Seconds: 30, Frames: 12}
	ms := tc.ToMs(25)
	back := FromMs(ms, 25)
	require.Equal(t, tc, back)
}
