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

package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVobSubRoundTrip(t *testing.T) {
	width, height := 8, 2
	indices := []byte{
		0, 0, 0, 1, 1, 2, 2, 2,
		3, 3, 3, 3, 0, 0, 1, 1,
	}
	enc := EncodeVobSub(indices, width, height)
	dec, err := DecodeVobSub(enc, width, height)
	require.NoError(t, err)
	require.Equal(t, indices, dec)
}

func TestVobSubAllSameColorRun(t *testing.T) {
	width, height := 16, 1
	indices := make([]byte, width)
	for i := range indices {
		indices[i] = 2
	}
	enc := EncodeVobSub(indices, width, height)
	dec, err := DecodeVobSub(enc, width, height)
	require.NoError(t, err)
	require.Equal(t, indices, dec)
}

func TestPGSRoundTrip(t *testing.T) {
	width, height := 10, 2
	indices := []byte{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		1, 1, 5, 5, 5, 5, 5, 5, 5, 200,
	}
	enc := EncodePGS(indices, width, height)
	dec := DecodePGS(enc, width, height)
	require.Equal(t, indices, dec)
}

func TestPGSSinglePixelRuns(t *testing.T) {
	width, height := 4, 1
	indices := []byte{1, 2, 3, 4}
	enc := EncodePGS(indices, width, height)
	dec := DecodePGS(enc, width, height)
	require.Equal(t, indices, dec)
}
