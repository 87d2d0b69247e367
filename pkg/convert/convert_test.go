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

package convert

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

func boolPtr(b bool) *bool { return &b }

func TestConvertDropsUnsupportedStyleAndReportsLoss(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs, e.EndMs = 1000, 2000
	col := color.Pack(255, 0, 0, 255)
	size := 18.0
	e.SetSegments([]subtitle.TextSegment{
		{Text: "hi", Style: &subtitle.InlineStyle{
			Bold:         boolPtr(true),
			Italic:       boolPtr(true),
			FontName:     strPtr("Arial"),
			FontSize:     &size,
			PrimaryColor: &col,
		}},
	})

	res, err := Convert(doc, Options{To: FormatSBV, ReportLoss: true})
	require.NoError(t, err)
	out, ok := res.Output.(string)
	require.True(t, ok)
	require.Contains(t, out, "hi")
	require.NotEmpty(t, res.LostFeatures)

	// Every dropped style property gets its own entry (spec.md §8): font
	// and size each produce one, distinct from bold/italic/primaryColor.
	byFeature := map[string]int{}
	for _, lf := range res.LostFeatures {
		byFeature[lf.Feature]++
	}
	require.Equal(t, 1, byFeature["font"])
	require.Equal(t, 1, byFeature["size"])

	// Original document must be untouched: SBV has no style support so a
	// clone, not doc itself, absorbed the downgrade.
	require.NotNil(t, doc.Events[0].Segments[0].Style.Bold)
}

func TestConvertDropsInlineAlignmentAndReportsLoss(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs, e.EndMs = 0, 1000
	align := 7
	e.SetSegments([]subtitle.TextSegment{
		{Text: "top-left", Style: &subtitle.InlineStyle{Alignment: &align}},
	})

	res, err := Convert(doc, Options{To: FormatSRT, ReportLoss: true})
	require.NoError(t, err)
	require.Len(t, res.LostFeatures, 1)
	require.Equal(t, "alignment", res.LostFeatures[0].Feature)
}

// TestConvertStripsPositioningScenarioF matches spec.md §8 scenario F: an
// ASS \pos tag converted to SRT with positioning stripped produces exactly
// one lostFeatures entry naming the tag and its coordinates.
func TestConvertStripsPositioningScenarioF(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs, e.EndMs = 0, 1000
	e.SetSegments([]subtitle.TextSegment{
		{Text: "hi", Style: &subtitle.InlineStyle{
			Position:    &subtitle.Point{X: 100, Y: 200},
			HasPosition: true,
		}},
	})

	res, err := Convert(doc, Options{To: FormatSRT, Positioning: PositioningStrip, ReportLoss: true})
	require.NoError(t, err)
	require.Len(t, res.LostFeatures, 1)
	require.Equal(t, "positioning", res.LostFeatures[0].Feature)
	require.Equal(t, `\pos(100,200)`, res.LostFeatures[0].Description)
}

func strPtr(s string) *string { return &s }

func TestConvertSRTKeepsSupportedStyle(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs, e.EndMs = 0, 1000
	e.SetSegments([]subtitle.TextSegment{
		{Text: "bold", Style: &subtitle.InlineStyle{Bold: boolPtr(true)}},
	})

	res, err := Convert(doc, Options{To: FormatSRT, ReportLoss: true})
	require.NoError(t, err)
	require.Empty(t, res.LostFeatures)
	out, ok := res.Output.(string)
	require.True(t, ok)
	require.Contains(t, out, "bold")
}

func TestConvertASSShortCircuitsFullFeatureSet(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs, e.EndMs = 0, 1000
	e.SetSegments([]subtitle.TextSegment{
		{Text: "x", Style: &subtitle.InlineStyle{Bold: boolPtr(true)}},
	})

	res, err := Convert(doc, Options{To: FormatASS, ReportLoss: true})
	require.NoError(t, err)
	require.Empty(t, res.LostFeatures)
	_, ok := res.Output.(string)
	require.True(t, ok)
}

func TestConvertKaraokeExplode(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.StartMs, e.EndMs = 0, 2000
	e.SetSegments([]subtitle.TextSegment{
		{Text: "ka", Effects: []subtitle.Effect{{Kind: subtitle.EffectKaraoke, KaraokeDurationMs: 500}}},
		{Text: "ra", Effects: []subtitle.Effect{{Kind: subtitle.EffectKaraoke, KaraokeDurationMs: 500}}},
		{Text: "oke", Effects: []subtitle.Effect{{Kind: subtitle.EffectKaraoke, KaraokeDurationMs: 1000}}},
	})

	res, err := Convert(doc, Options{To: FormatSRT, Karaoke: KaraokeExplode, ReportLoss: true})
	require.NoError(t, err)
	out, ok := res.Output.(string)
	require.True(t, ok)
	require.Contains(t, out, "ka")
	require.Contains(t, out, "ra")
	require.Contains(t, out, "oke")

	// The source document must not have been exploded.
	require.Len(t, doc.Events, 1)
}

func TestConvertVobSubReturnsTwoBufferOutput(t *testing.T) {
	doc := subtitle.New()
	e := doc.NewEvent()
	e.Image = &subtitle.Image{
		Width: 2, Height: 1, Indexed: []byte{0, 1},
		Palette: color.Palette{0, color.Pack(255, 255, 255, 255)},
	}

	res, err := Convert(doc, Options{To: FormatVobSub})
	require.NoError(t, err)
	out, ok := res.Output.(VobSubOutput)
	require.True(t, ok)
	require.NotEmpty(t, out.Idx)
}

func TestConvertUnknownFormat(t *testing.T) {
	doc := subtitle.New()
	_, err := Convert(doc, Options{To: FormatID("bogus")})
	require.Error(t, err)
}
