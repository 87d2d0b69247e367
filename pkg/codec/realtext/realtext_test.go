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

package realtext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `<window type="generic">
<time begin="0:00:01.00" end="0:00:04.00"/>
Hello <b>world</b><br/>
second line
<time begin="0:00:05.00"/>
No end attr
</window>
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 4000, e0.EndMs)
	require.Equal(t, "Hello world\nsecond line", e0.ResolvedText())

	e1 := res.Document.Events[1]
	require.Equal(t, 5000, e1.StartMs)
	require.Equal(t, 9000, e1.EndMs)
	require.Equal(t, "No end attr", e1.ResolvedText())
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	require.Contains(t, out, "<window")

	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Hello world\nsecond line", res2.Document.Events[0].ResolvedText())
}
