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

package qt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `{QTtext}{font:Arial}{plain}{size:12}{timeScale:600}
[00:00:01.00]
Hello world
[00:00:04.50]
Second line
still second line
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 4500, e0.EndMs)
	require.Equal(t, "Hello world", e0.ResolvedText())

	e1 := res.Document.Events[1]
	require.Equal(t, 4500, e1.StartMs)
	require.Equal(t, 8500, e1.EndMs)
	require.Equal(t, "Second line\nstill second line", e1.ResolvedText())
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Hello world", res2.Document.Events[0].ResolvedText())
	require.Equal(t, "Second line\nstill second line", res2.Document.Events[1].ResolvedText())
}
