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

package lrc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `[ti:Test Song]
[ar:Test Artist]
[00:12.00]First line
[00:15.30]Second line
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Equal(t, "Test Song", res.Document.Info.Title)
	require.Equal(t, "Test Artist", res.Document.Info.Author)
	require.Len(t, res.Document.Events, 2)
	require.Equal(t, 12000, res.Document.Events[0].StartMs)
	require.Equal(t, 15300, res.Document.Events[0].EndMs)
	require.Equal(t, "First line", res.Document.Events[0].ResolvedText())
}

func TestParseRepeatedTimestamp(t *testing.T) {
	raw := "[00:10.00][00:20.00]Chorus\n"
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.Len(t, res.Document.Events, 2)
	require.Equal(t, "Chorus", res.Document.Events[0].ResolvedText())
	require.Equal(t, "Chorus", res.Document.Events[1].ResolvedText())
	require.Equal(t, 10000, res.Document.Events[0].StartMs)
	require.Equal(t, 20000, res.Document.Events[1].StartMs)
}

func TestParseEnhancedKaraoke(t *testing.T) {
	raw := "[00:10.00]<00:10.00>one <00:11.00>two <00:12.00>three\n"
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.Len(t, res.Document.Events, 1)
	e := res.Document.Events[0]
	require.True(t, e.Dirty)
	require.Len(t, e.Segments, 3)
	require.Equal(t, "one ", e.Segments[0].Text)
	require.Equal(t, 1000, e.Segments[0].Effects[0].KaraokeDurationMs)
	require.Equal(t, "two ", e.Segments[1].Text)
	require.Equal(t, "three", e.Segments[2].Text)
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "First line", res2.Document.Events[0].ResolvedText())
}
