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

package sbv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `0:00:01.000,0:00:04.000
Hello world

0:00:05.500,0:00:08.250
Line one
Line two
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)

	require.Equal(t, 1000, res.Document.Events[0].StartMs)
	require.Equal(t, 4000, res.Document.Events[0].EndMs)
	require.Equal(t, "Hello world", res.Document.Events[0].ResolvedText())

	require.Equal(t, "Line one\nLine two", res.Document.Events[1].ResolvedText())
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Line one\nLine two", res2.Document.Events[1].ResolvedText())
}
