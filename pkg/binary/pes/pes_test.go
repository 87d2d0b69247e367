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

package pes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDemuxSinglePacket(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	data := EncodePrivateStream1(payload, 9000)

	packets, err := Demux(data)
	require.NoError(t, err)
	require.Len(t, packets, 1)
	require.Equal(t, byte(0xBD), packets[0].StreamID)
	require.Equal(t, payload, packets[0].Payload)
	require.Equal(t, int64(9000), packets[0].PTS)
}

func TestDemuxMultiplePackets(t *testing.T) {
	var data []byte
	data = append(data, EncodePrivateStream1([]byte{1, 2, 3}, 1000)...)
	data = append(data, EncodePrivateStream1([]byte{4, 5}, 2000)...)

	packets, err := Demux(data)
	require.NoError(t, err)
	require.Len(t, packets, 2)
	require.Equal(t, []byte{1, 2, 3}, packets[0].Payload)
	require.Equal(t, []byte{4, 5}, packets[1].Payload)
}

func TestDemuxNoPTS(t *testing.T) {
	data := EncodePrivateStream1([]byte{0x01}, -1)
	packets, err := Demux(data)
	require.NoError(t, err)
	require.Len(t, packets, 1)
	require.Equal(t, int64(-1), packets[0].PTS)
}

func TestPTSRoundTrip(t *testing.T) {
	b := encodePTS(123456789)
	require.Equal(t, int64(123456789), decodePTS(b))
}
