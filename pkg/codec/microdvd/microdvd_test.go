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

package microdvd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `{0}{50}Hello world
{75}{125}{y:b}Bold line
`

func TestParseBasic(t *testing.T) {
	opts := subtitle.DefaultParseOptions()
	opts.FPS = 25
	res := ParseWithOptions(sample, opts)
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)

	require.Equal(t, 0, res.Document.Events[0].StartMs)
	require.Equal(t, 2000, res.Document.Events[0].EndMs)
	require.Equal(t, "Hello world", res.Document.Events[0].ResolvedText())

	e1 := res.Document.Events[1]
	require.Equal(t, 3000, e1.StartMs)
	require.Equal(t, 5000, e1.EndMs)
	require.Equal(t, "Bold line", e1.ResolvedText())
	require.True(t, *e1.Segments[0].Style.Bold)
}

func TestSerializeRoundTrip(t *testing.T) {
	opts := subtitle.DefaultParseOptions()
	opts.FPS = 25
	res := ParseWithOptions(sample, opts)

	sopts := subtitle.DefaultSerializeOptions()
	sopts.FPS = 25
	out := SerializeWithOptions(res.Document, sopts)

	res2 := ParseWithOptions(out, opts)
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Hello world", res2.Document.Events[0].ResolvedText())
	require.Equal(t, "Bold line", res2.Document.Events[1].ResolvedText())
}
