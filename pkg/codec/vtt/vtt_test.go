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

package vtt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `WEBVTT

NOTE this file has two cues

cue1
00:00:01.000 --> 00:00:04.000 align:start line:0%
<v Roger>Hello world

00:00:05.500 --> 00:00:08.250
<b>Bold</b> text
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)
	require.Len(t, res.Document.Comments, 1)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 4000, e0.EndMs)
	require.Equal(t, "align:start line:0%", e0.Effect)
	require.Equal(t, "Roger", e0.Actor)
	require.Equal(t, "Hello world", e0.ResolvedText())

	e1 := res.Document.Events[1]
	require.Equal(t, "Bold text", e1.ResolvedText())
}

func TestParseMissingSignature(t *testing.T) {
	raw := "00:00:01.000 --> 00:00:02.000\nNo signature\n"
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.NotEmpty(t, res.Errors)
	require.Equal(t, subtitle.ErrInvalidFormat, res.Errors[0].Code)
}

func TestParseRegion(t *testing.T) {
	raw := "WEBVTT\n\nREGION\nid:fred\nwidth:40%\nlines:3\nscroll:up\n\n00:00:01.000 --> 00:00:02.000\nhi\n"
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.Len(t, res.Document.Regions, 1)
	r := res.Document.Regions[0]
	require.Equal(t, "fred", r.ID)
	require.Equal(t, "40%", r.Width)
	require.Equal(t, 3, r.Lines)
	require.Equal(t, subtitle.ScrollUp, r.Scroll)
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	require.Contains(t, out, "WEBVTT")

	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Hello world", res2.Document.Events[0].ResolvedText())
}
