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

package subforge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSRTRoundTrip(t *testing.T) {
	raw := "1\n00:00:01,000 --> 00:00:02,000\nhello\n"
	doc, err := ParseSRT(raw)
	require.NoError(t, err)
	require.Len(t, doc.Events, 1)
	require.Equal(t, "hello", doc.Events[0].ResolvedText())

	out := ToSRT(doc)
	require.Contains(t, out, "hello")
}

func TestParseSRTInvalidReturnsError(t *testing.T) {
	_, err := ParseSRT("not a subtitle file at all\n\x00\x01")
	require.Error(t, err)
}

func TestParseSSAAliasesASS(t *testing.T) {
	raw := "[Script Info]\nScriptType: v4.00+\n\n[Events]\nFormat: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\nDialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,hi\n"
	doc, err := ParseASS(raw)
	require.NoError(t, err)
	doc2, err2 := ParseSSA(raw)
	require.NoError(t, err2)
	require.Equal(t, len(doc.Events), len(doc2.Events))
}

func TestConvertThroughFacade(t *testing.T) {
	doc, err := ParseSRT("1\n00:00:01,000 --> 00:00:02,000\nhi\n")
	require.NoError(t, err)

	res, err := Convert(doc, ConvertOptions{To: FormatID("vtt")})
	require.NoError(t, err)
	out, ok := res.Output.(string)
	require.True(t, ok)
	require.Contains(t, out, "hi")
}

func TestProbeDetectsWebVTT(t *testing.T) {
	id, conf := Probe([]byte("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhi\n"))
	require.Equal(t, FormatID("vtt"), id)
	require.Greater(t, conf, 0.5)
}

func TestProbeDetectsSRT(t *testing.T) {
	id, conf := Probe([]byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"))
	require.Equal(t, FormatID("srt"), id)
	require.Greater(t, conf, 0.5)
}

func TestProbeEmptyReturnsZeroConfidence(t *testing.T) {
	id, conf := Probe(nil)
	require.Equal(t, FormatID(""), id)
	require.Equal(t, 0.0, conf)
}

func TestProbeDVBSyncByte(t *testing.T) {
	id, _, _ := probeBinary([]byte{0x0F, 0x10, 0x00, 0x01, 0x00, 0x00})
	require.Equal(t, FormatID("dvb"), id)
}
