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

package ttml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<tt xmlns="http://www.w3.org/ns/ttml">
  <head>
    <styling>
      <style xml:id="s1" tts:color="#ff0000" tts:fontWeight="bold"/>
    </styling>
    <layout>
      <region xml:id="bottom"/>
    </layout>
  </head>
  <body>
    <div>
      <p begin="00:00:01.000" end="00:00:04.000">Hello <span tts:fontWeight="bold">world</span></p>
      <p begin="00:00:05.000" dur="2.5s">Second<br/>line</p>
    </div>
  </body>
</tt>
`

func TestParseBasic(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 2)
	require.Len(t, res.Document.Regions, 1)

	s1, ok := res.Document.Styles.Get("s1")
	require.True(t, ok)
	require.True(t, s1.Bold)

	e0 := res.Document.Events[0]
	require.Equal(t, 1000, e0.StartMs)
	require.Equal(t, 4000, e0.EndMs)
	require.Equal(t, "Hello world", e0.ResolvedText())

	e1 := res.Document.Events[1]
	require.Equal(t, 5000, e1.StartMs)
	require.Equal(t, 7500, e1.EndMs)
	require.Equal(t, "Second\nline", e1.ResolvedText())
}

func TestSerializeRoundTrip(t *testing.T) {
	res := ParseWithOptions(sample, subtitle.DefaultParseOptions())
	out := Serialize(res.Document)
	require.Contains(t, out, "<tt xmlns=")

	res2 := ParseWithOptions(out, subtitle.DefaultParseOptions())
	require.True(t, res2.OK)
	require.Len(t, res2.Document.Events, 2)
	require.Equal(t, "Hello world", res2.Document.Events[0].ResolvedText())
	require.Equal(t, "Second\nline", res2.Document.Events[1].ResolvedText())
}

func TestMissingEndAndDur(t *testing.T) {
	raw := `<tt xmlns="http://www.w3.org/ns/ttml"><body><div><p begin="00:00:01.000">No end</p></div></body></tt>`
	res := ParseWithOptions(raw, subtitle.DefaultParseOptions())
	require.Empty(t, res.Document.Events)
	require.Len(t, res.Errors, 1)
	require.Equal(t, subtitle.ErrMissingField, res.Errors[0].Code)
}
