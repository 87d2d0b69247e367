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

package sami

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `<SAMI>
<HEAD>
<TITLE>Test</TITLE>
</HEAD>
<BODY>
<SYNC Start=1000><P Class=ENUSCC><b>Hello</b> world
<SYNC Start=5000><P Class=ENUSCC>&nbsp;
</BODY>
</SAMI>
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 5000, e0.EndMs)
	require.Equal(t, "Hello world", e0.ResolvedText())
	require.True(t, *e0.Segments[0].Style.Bold)
	require.Equal(t, "ENUSCC", e0.Style)
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	require.Contains(t, out, "<SAMI>")

	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.GreaterOrEqual(t, len(res2.Document.Events), 1)
	require.Equal(t, "Hello world", res2.Document.Events[0].ResolvedText())
}
