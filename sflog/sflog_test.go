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

package sflog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

func TestEventMsgWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Info().Format("srt").File("movie.srt").Msg("parsed ok")

	out := buf.String()
	require.Contains(t, out, `"format":"srt"`)
	require.Contains(t, out, `"file":"movie.srt"`)
	require.Contains(t, out, `"message":"parsed ok"`)
}

func TestMsgfFormatsArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Debug().Msgf("%d events", 3)
	require.Contains(t, buf.String(), "3 events")
}

func TestReportEmitsOneLinePerErrorAndWarning(t *testing.T) {
	var buf bytes.Buffer
	result := &subtitle.ParseResult{
		Errors: []*subtitle.Error{
			subtitle.NewError(subtitle.ErrInvalidTimestamp, 4, 1, "bad timestamp"),
		},
		Warnings: []subtitle.Warning{
			{Message: "trailing bytes ignored"},
		},
	}
	Report(&buf, "srt", result)

	out := buf.String()
	require.Contains(t, out, "bad timestamp")
	require.Contains(t, out, `"code":"INVALID_TIMESTAMP"`)
	require.Contains(t, out, "trailing bytes ignored")
}
