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

package timecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSRTRoundTrip(t *testing.T) {
	ms, err := ParseSRT("00:00:01,000")
	require.NoError(t, err)
	require.Equal(t, 1000, ms)
	require.Equal(t, "00:00:01,000", FormatSRT(ms))
}

func TestSRTInvalid(t *testing.T) {
	_, err := ParseSRT("bad")
	require.Error(t, err)
}

func TestWebVTTShortForm(t *testing.T) {
	ms, err := ParseWebVTT("01:00.000")
	require.NoError(t, err)
	require.Equal(t, 60000, ms)
}

func TestASSTimecode(t *testing.T) {
	ms, err := ParseASS("1:02:03.45")
	require.NoError(t, err)
	require.Equal(t, 1*msPerHour+2*msPerMinute+3*msPerSecond+450, ms)
	require.Equal(t, "1:02:03.45", FormatASS(ms))
}

func TestFrameTimecodeNTSC(t *testing.T) {
	ms, err := ParseFrameTimecode("00:00:01:15", 29.97)
	require.NoError(t, err)
	require.Equal(t, 1501, ms)
}

func TestSCCDropFrameRoundTrip(t *testing.T) {
	ms, df, err := ParseSCC("00:10:00;00")
	require.NoError(t, err)
	require.True(t, df)
	require.Equal(t, FormatSCC(ms, true), "00:10:00;00")
}

func TestLRCEnhanced(t *testing.T) {
	ms, err := ParseLRC("00:12.50")
	require.NoError(t, err)
	require.Equal(t, 12500, ms)
}

func TestMicroDVDFrames(t *testing.T) {
	ms := MicroDVDToMs(25, 25)
	require.Equal(t, 1000, ms)
	require.Equal(t, 25, MsToMicroDVD(ms, 25))
}
