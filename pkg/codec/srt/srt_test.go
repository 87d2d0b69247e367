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

package srt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `1
00:00:01,000 --> 00:00:04,000
Hello world

2
00:00:05,500 --> 00:00:08,250
<b>Bold</b> and plain
second line
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 4000, e0.EndMs)
	require.Equal(t, "Hello world", e0.ResolvedText())

	e1 := res.Document.Events[1]
	require.Equal(t, 5500, e1.StartMs)
	require.Equal(t, 8250, e1.EndMs)
	require.Equal(t, "Bold and plain\nsecond line", e1.ResolvedText())
	require.NotNil(t, e1.Segments[0].Style)
	require.True(t, *e1.Segments[0].Style.Bold)
}

func TestParseMissingIndexLine(t *testing.T) {
	raw := "00:00:01,000 --> 00:00:02,000\nNo index line\n"
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Len(t, res.Document.Events, 1)
	require.Equal(t, "No index line", res.Document.Events[0].ResolvedText())
}

func TestParseMalformedTimingCollected(t *testing.T) {
	raw := "1\nnot a timing line\ntext\n\n2\n00:00:01,000 --> 00:00:02,000\nok\n"
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Len(t, res.Errors, 1)
	require.Equal(t, subtitle.ErrInvalidTimestamp, res.Errors[0].Code)
	require.Len(t, res.Document.Events, 1)
	require.Equal(t, "ok", res.Document.Events[0].ResolvedText())
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)

	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Hello world", res2.Document.Events[0].ResolvedText())
	require.Equal(t, "Bold and plain\nsecond line", res2.Document.Events[1].ResolvedText())
}

func TestSerializeOffsetMs(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	opts := subtitle.DefaultSerializeOptions()
	opts.OffsetMs = 1000
	out := SerializeWithOptions(res.Document, opts)
	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Equal(t, 2000, res2.Document.Events[0].StartMs)
}
