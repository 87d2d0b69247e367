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

package asstag

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

func TestParsePlainText(t *testing.T) {
	segs := Parse("Hello world")
	require.Len(t, segs, 1)
	require.Equal(t, "Hello world", segs[0].Text)
	require.Nil(t, segs[0].Style)
}

func TestParseNewlinesAndHardSpace(t *testing.T) {
	segs := Parse(`Line1\NLine2\hindented`)
	require.Equal(t, "Line1\nLine2 indented", subtitle.JoinText(segs))
}

func TestParseBoldItalic(t *testing.T) {
	segs := Parse(`{\b1\i1}bold italic{\b0}plain`)
	require.Len(t, segs, 2)
	require.NotNil(t, segs[0].Style.Bold)
	require.True(t, *segs[0].Style.Bold)
	require.NotNil(t, segs[0].Style.Italic)
	require.True(t, *segs[0].Style.Italic)
	require.False(t, *segs[1].Style.Bold)
	// italic persists as an inherited overlay across the override block.
	require.True(t, *segs[1].Style.Italic)
}

func TestParseColor(t *testing.T) {
	segs := Parse(`{\c&H0000FF&}red text`)
	require.NotNil(t, segs[0].Style.PrimaryColor)
	r, g, b, _ := segs[0].Style.PrimaryColor.RGBA()
	require.Equal(t, uint8(255), r)
	require.Equal(t, uint8(0), g)
	require.Equal(t, uint8(0), b)
}

func TestParseKaraoke(t *testing.T) {
	segs := Parse(`{\k50}Hel{\k100}lo`)
	require.Len(t, segs, 2)
	require.Len(t, segs[0].Effects, 1)
	require.Equal(t, subtitle.EffectKaraoke, segs[0].Effects[0].Kind)
	require.Equal(t, 500, segs[0].Effects[0].KaraokeDurationMs)
	require.Equal(t, 1000, segs[1].Effects[0].KaraokeDurationMs)
}

func TestParseKCapitalDiffersFromLowercase(t *testing.T) {
	segs := Parse(`{\K50}a`)
	require.Equal(t, subtitle.KaraokeSwap, segs[0].Effects[0].KaraokeMode)

	segs2 := Parse(`{\k50}a`)
	require.Equal(t, subtitle.KaraokeFill, segs2[0].Effects[0].KaraokeMode)
}

func TestParsePosition(t *testing.T) {
	segs := Parse(`{\pos(100,200)}text`)
	require.True(t, segs[0].Style.HasPosition)
	require.Equal(t, 100.0, segs[0].Style.Position.X)
	require.Equal(t, 200.0, segs[0].Style.Position.Y)
}

func TestParseMoveEffect(t *testing.T) {
	segs := Parse(`{\move(0,0,100,100,500,1500)}text`)
	require.Len(t, segs[0].Effects, 1)
	e := segs[0].Effects[0]
	require.Equal(t, subtitle.EffectMove, e.Kind)
	require.True(t, e.HasTime)
	require.Equal(t, 500, e.TimeStartMs)
	require.Equal(t, 1500, e.TimeEndMs)
}

func TestParseFontNameWithSpaces(t *testing.T) {
	segs := Parse(`{\fnComic Sans MS}text`)
	require.NotNil(t, segs[0].Style.FontName)
	require.Equal(t, "Comic Sans MS", *segs[0].Style.FontName)
}

func TestParseLegacyAlignment(t *testing.T) {
	segs := Parse(`{\a6}text`)
	require.NotNil(t, segs[0].Style.Alignment)
	require.Equal(t, 8, *segs[0].Style.Alignment)
}

func TestParseTransitionNested(t *testing.T) {
	segs := Parse(`{\t(0,500,\fs20)}text`)
	require.Len(t, segs[0].Effects, 1)
	e := segs[0].Effects[0]
	require.Equal(t, subtitle.EffectAnimate, e.Kind)
	require.Equal(t, 0, e.AnimateT1Ms)
	require.Equal(t, 500, e.AnimateT2Ms)
	require.Len(t, e.Children, 1)
	require.NotNil(t, e.Children[0].Style.FontSize)
	require.Equal(t, 20.0, *e.Children[0].Style.FontSize)
}

func TestParseUnknownTagPreserved(t *testing.T) {
	segs := Parse(`{\xyz123}text`)
	require.Len(t, segs[0].Effects, 1)
	require.Equal(t, subtitle.EffectUnknown, segs[0].Effects[0].Kind)
	require.Equal(t, "xyz", segs[0].Effects[0].Name)
	require.Equal(t, "123", segs[0].Effects[0].Raw)
}

func TestSerializeRoundTripsBoldColor(t *testing.T) {
	out := Serialize(Parse(`{\b1\c&H0000FF&}hi`))
	require.Contains(t, out, `\b1`)
	require.Contains(t, out, `\1c&H000000FF&`)
	require.Contains(t, out, "hi")
}

func TestSerializeKaraoke(t *testing.T) {
	out := Serialize(Parse(`{\k50}Hel{\kf100}lo`))
	require.Contains(t, out, `\k50`)
	require.Contains(t, out, `\kf100`)
}
