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

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertOneSRTToVTT(t *testing.T) {
	convertUnsupported, convertKaraoke = "drop", "preserve"
	raw := []byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n")

	out, err := convertOne(raw, "srt", "vtt")
	require.NoError(t, err)
	require.Contains(t, string(out), "WEBVTT")
	require.Contains(t, string(out), "hello")
}

func TestConvertOneUnknownSourceFormat(t *testing.T) {
	_, err := convertOne([]byte("x"), "bogus", "srt")
	require.Error(t, err)
}

func TestLookupFormatRejectsVobSubAndTeletext(t *testing.T) {
	_, err := lookupFormat("vobsub")
	require.Error(t, err)
	_, err = lookupFormat("teletext")
	require.Error(t, err)
}
