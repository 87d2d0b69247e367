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

package sprucestl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = "00:00:01:00 , 00:00:04:00 , Hello world\n00:00:05:00 , 00:00:08:00 , Second|line\n"

func TestParseBasic(t *testing.T) {
	opts := subtitle.DefaultParseOptions()
	opts.FPS = 25
	res := ParseWithOptions(sample, opts)
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 4000, e0.EndMs)
	require.Equal(t, "Hello world", e0.ResolvedText())

	e1 := res.Document.Events[1]
	require.Equal(t, "Second\nline", e1.ResolvedText())
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
	require.Equal(t, "Second\nline", res2.Document.Events[1].ResolvedText())
}
