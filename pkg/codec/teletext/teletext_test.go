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

package teletext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

func TestSerializeRoundTrip(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs = 0
	e.EndMs = 3000
	e.SetText("Hello world\nSecond line")

	raw := Serialize(doc)
	require.NotEmpty(t, raw)

	res := ParseWithOptions(raw, Options{
		ParseOptions: subtitle.DefaultParseOptions(),
		PageTimes:    []int{0},
	})
	require.True(t, res.OK)
	require.Empty(t, res.Errors)
	require.Len(t, res.Document.Events, 1)
	require.Equal(t, "Hello world\nSecond line", res.Document.Events[0].ResolvedText())
}

func TestParseWithoutPageTimesReportsMissingField(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.SetText("Hello")

	raw := Serialize(doc)
	res := ParseWithOptions(raw, Options{ParseOptions: subtitle.DefaultParseOptions()})
	require.Empty(t, res.Document.Events)
	require.NotEmpty(t, res.Errors)
	require.Equal(t, subtitle.ErrMissingField, res.Errors[0].Code)
}

func TestParseWithPageTimes(t *testing.T) {
	doc := subtitle.New()
	e1 := doc.NewEvent()
	e1.SetText("Page one")
	e2 := doc.NewEvent()
	e2.SetText("Page two")

	raw := Serialize(doc)
	res := ParseWithOptions(raw, Options{
		ParseOptions: subtitle.DefaultParseOptions(),
		PageTimes:    []int{1000, 5000},
	})
	require.True(t, res.OK)
	require.Len(t, res.Document.Events, 2)
	require.Equal(t, 1000, res.Document.Events[0].StartMs)
	require.Equal(t, 5000, res.Document.Events[0].EndMs)
	require.Equal(t, 5000, res.Document.Events[1].StartMs)
}

func TestDecodeRowAppliesConceal(t *testing.T) {
	data := make([]byte, rowWidth)
	for i := range data {
		data[i] = addParity(' ')
	}
	data[0] = addParity(ctrlConcealOn)
	data[1] = addParity('X')
	line, ok := decodeRow(data)
	require.True(t, ok)
	require.Equal(t, "", line)
}
