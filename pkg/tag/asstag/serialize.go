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
	"fmt"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Serialize renders a segment sequence back to ASS event text, emitting an
// override block before any segment whose style or effects differ from the
// previous segment. Newlines become \N and non-breaking spaces become \h.
func Serialize(segs []subtitle.TextSegment) string {
	var sb strings.Builder
	var prev *subtitle.InlineStyle
	for _, seg := range segs {
		block := styleDelta(prev, seg.Style) + effectTags(seg.Effects)
		if block != "" {
			sb.WriteString("{")
			sb.WriteString(block)
			sb.WriteString("}")
		}
		sb.WriteString(escapeText(seg.Text))
		prev = seg.Style
	}
	return sb.String()
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\n", `\N`)
	s = strings.ReplaceAll(s, " ", `\h`)
	return s
}

func styleDelta(prev, cur *subtitle.InlineStyle) string {
	if cur == nil {
		return ""
	}
	var sb strings.Builder
	diffBool := func(tag string, a, b *bool) {
		if b != nil && (a == nil || *a != *b) {
			if *b {
				fmt.Fprintf(&sb, `\%s1`, tag)
			} else {
				fmt.Fprintf(&sb, `\%s0`, tag)
			}
		}
	}
	diffBool("b", boolOf(prev, func(s *subtitle.InlineStyle) *bool { return s.Bold }), cur.Bold)
	diffBool("i", boolOf(prev, func(s *subtitle.InlineStyle) *bool { return s.Italic }), cur.Italic)
	diffBool("u", boolOf(prev, func(s *subtitle.InlineStyle) *bool { return s.Underline }), cur.Underline)
	diffBool("s", boolOf(prev, func(s *subtitle.InlineStyle) *bool { return s.Strikeout }), cur.Strikeout)

	if cur.FontName != nil && (prev == nil || prev.FontName == nil || *prev.FontName != *cur.FontName) {
		fmt.Fprintf(&sb, `\fn%s`, *cur.FontName)
	}
	diffFloat(&sb, "fs", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.FontSize })
	diffFloat(&sb, "bord", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.Border })
	diffFloat(&sb, "shad", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.Shadow })
	diffFloat(&sb, "fscx", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.ScaleX })
	diffFloat(&sb, "fscy", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.ScaleY })
	diffFloat(&sb, "fsp", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.Spacing })
	diffFloat(&sb, "frz", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.RotationZ })
	diffFloat(&sb, "frx", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.RotationX })
	diffFloat(&sb, "fry", prev, cur, func(s *subtitle.InlineStyle) *float64 { return s.RotationY })

	diffColor(&sb, "1c", prev, cur, func(s *subtitle.InlineStyle) *color.ABGR { return s.PrimaryColor })
	diffColor(&sb, "2c", prev, cur, func(s *subtitle.InlineStyle) *color.ABGR { return s.SecondaryColor })
	diffColor(&sb, "3c", prev, cur, func(s *subtitle.InlineStyle) *color.ABGR { return s.OutlineColor })
	diffColor(&sb, "4c", prev, cur, func(s *subtitle.InlineStyle) *color.ABGR { return s.BackColor })

	if cur.Alignment != nil && (prev == nil || prev.Alignment == nil || *prev.Alignment != *cur.Alignment) {
		fmt.Fprintf(&sb, `\an%d`, *cur.Alignment)
	}
	if cur.HasPosition && cur.Position != nil {
		fmt.Fprintf(&sb, `\pos(%s,%s)`, trimNum(cur.Position.X), trimNum(cur.Position.Y))
	}
	if cur.OriginH != nil && (prev == nil || prev.OriginH == nil || *prev.OriginH != *cur.OriginH) {
		fmt.Fprintf(&sb, `\org(%s,%s)`, trimNum(cur.OriginH.X), trimNum(cur.OriginH.Y))
	}
	if cur.Clip != nil && (prev == nil || prev.Clip == nil || *prev.Clip != *cur.Clip) {
		if cur.Clip.IsDrawing {
			fmt.Fprintf(&sb, `\clip(%s)`, cur.Clip.Raw)
		} else {
			fmt.Fprintf(&sb, `\clip(%s,%s,%s,%s)`, trimNum(cur.Clip.X1), trimNum(cur.Clip.Y1), trimNum(cur.Clip.X2), trimNum(cur.Clip.Y2))
		}
	}
	if cur.Drawing != nil && (prev == nil || prev.Drawing == nil || *prev.Drawing != *cur.Drawing) {
		fmt.Fprintf(&sb, `\p%s`, *cur.Drawing)
	}
	return sb.String()
}

func boolOf(s *subtitle.InlineStyle, get func(*subtitle.InlineStyle) *bool) *bool {
	if s == nil {
		return nil
	}
	return get(s)
}

func diffFloat(sb *strings.Builder, tag string, prev, cur *subtitle.InlineStyle, get func(*subtitle.InlineStyle) *float64) {
	cv := get(cur)
	if cv == nil {
		return
	}
	var pv *float64
	if prev != nil {
		pv = get(prev)
	}
	if pv == nil || *pv != *cv {
		fmt.Fprintf(sb, `\%s%s`, tag, trimNum(*cv))
	}
}

func diffColor(sb *strings.Builder, tag string, prev, cur *subtitle.InlineStyle, get func(*subtitle.InlineStyle) *color.ABGR) {
	cv := get(cur)
	if cv == nil {
		return
	}
	var pv *color.ABGR
	if prev != nil {
		pv = get(prev)
	}
	if pv == nil || *pv != *cv {
		fmt.Fprintf(sb, `\%s%s`, tag, color.FormatASS(*cv))
	}
}

func trimNum(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func effectTags(effects []subtitle.Effect) string {
	var sb strings.Builder
	for _, e := range effects {
		switch e.Kind {
		case subtitle.EffectKaraoke:
			tag := "k"
			switch e.KaraokeMode {
			case subtitle.KaraokeSwap:
				tag = "kf"
			case subtitle.KaraokeOutline:
				tag = "ko"
			}
			fmt.Fprintf(&sb, `\%s%d`, tag, e.KaraokeDurationMs/10)
		case subtitle.EffectBlur:
			fmt.Fprintf(&sb, `\blur%s`, trimNum(e.Scalar))
		case subtitle.EffectShear:
			if e.X != 0 {
				fmt.Fprintf(&sb, `\fax%s`, trimNum(e.X))
			}
			if e.Y != 0 {
				fmt.Fprintf(&sb, `\fay%s`, trimNum(e.Y))
			}
		case subtitle.EffectMove:
			if e.HasTime {
				fmt.Fprintf(&sb, `\move(%s,%s,%s,%s,%d,%d)`, trimNum(e.X1), trimNum(e.Y1), trimNum(e.X2), trimNum(e.Y2), e.TimeStartMs, e.TimeEndMs)
			} else {
				fmt.Fprintf(&sb, `\move(%s,%s,%s,%s)`, trimNum(e.X1), trimNum(e.Y1), trimNum(e.X2), trimNum(e.Y2))
			}
		case subtitle.EffectFade:
			fmt.Fprintf(&sb, `\fad(%d,%d)`, e.FadeInMs, e.FadeOutMs)
		case subtitle.EffectFadeComplex:
			fmt.Fprintf(&sb, `\fade(%d,%d,%d,%d,%d,%d,%d)`, e.A1, e.A2, e.A3, e.T1, e.T2, e.T3, e.T4)
		case subtitle.EffectClip:
			if e.Name == "iclip" {
				fmt.Fprintf(&sb, `\iclip(%s)`, e.Raw)
			}
		case subtitle.EffectReset:
			fmt.Fprintf(&sb, `\r%s`, e.StyleName)
		case subtitle.EffectAnimate:
			writeAnimate(&sb, e)
		case subtitle.EffectUnknown:
			if e.Raw != "" {
				fmt.Fprintf(&sb, `\%s%s`, e.Name, e.Raw)
			} else {
				fmt.Fprintf(&sb, `\%s`, e.Name)
			}
		}
	}
	return sb.String()
}

func writeAnimate(sb *strings.Builder, e subtitle.Effect) {
	inner := Serialize(e.Children)
	inner = strings.TrimPrefix(inner, "{")
	inner = strings.TrimSuffix(inner, "}")
	switch {
	case e.AnimateHasTime:
		fmt.Fprintf(sb, `\t(%d,%d,%s,%s)`, e.AnimateT1Ms, e.AnimateT2Ms, trimNum(e.AnimateAccel), inner)
	case e.AnimateAccel != 1 && e.AnimateAccel != 0:
		fmt.Fprintf(sb, `\t(%s,%s)`, trimNum(e.AnimateAccel), inner)
	default:
		fmt.Fprintf(sb, `\t(%s)`, inner)
	}
}
