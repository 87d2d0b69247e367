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

// Package asstag parses and serializes ASS/SSA override blocks
// ("{\tag1\tag2(args)}") interleaved with plain text into/from
// subtitle.TextSegment sequences. Override tags that persist (bold,
// color, position, ...) become InlineStyle overlays; one-shot or timed
// tags (karaoke, fade, move, clip, transitions) become Effects.
package asstag

import (
	"strconv"
	"strings"

	"github.com/wiedymi/subforge-sub002/pkg/color"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// legacyAlignment maps SSA's legacy \a codes to ASS numpad \an codes.
var legacyAlignment = map[int]int{
	1: 1, 2: 2, 3: 3,
	5: 7, 6: 8, 7: 9,
	9: 4, 10: 5, 11: 6,
}

// Parse decomposes raw ASS event text into styled segments. \N and \n both
// become a literal newline; \h becomes a non-breaking space; everything
// inside {...} is interpreted as an override block.
func Parse(raw string) []subtitle.TextSegment {
	p := &parser{src: raw}
	return p.run()
}

type parser struct {
	src      string
	segments []subtitle.TextSegment
	curStyle *subtitle.InlineStyle
	curFX    []subtitle.Effect
	buf      strings.Builder
}

func (p *parser) flush() {
	if p.buf.Len() == 0 && p.curStyle == nil && len(p.curFX) == 0 {
		return
	}
	seg := subtitle.TextSegment{Text: p.buf.String(), Style: p.curStyle}
	if len(p.curFX) > 0 {
		seg.Effects = append([]subtitle.Effect{}, p.curFX...)
	}
	p.segments = append(p.segments, seg)
	p.buf.Reset()
	p.curFX = nil
}

func (p *parser) run() []subtitle.TextSegment {
	n := len(p.src)
	i := 0
	for i < n {
		c := p.src[i]
		if c == '{' {
			end := strings.IndexByte(p.src[i:], '}')
			if end < 0 {
				p.buf.WriteString(p.src[i:])
				break
			}
			block := p.src[i+1 : i+end]
			p.flush()
			p.applyBlock(block)
			i += end + 1
			continue
		}
		if c == '\\' && i+1 < n {
			switch p.src[i+1] {
			case 'N', 'n':
				p.buf.WriteByte('\n')
				i += 2
				continue
			case 'h':
				p.buf.WriteRune(' ')
				i += 2
				continue
			}
		}
		p.buf.WriteByte(c)
		i++
	}
	p.flush()
	return p.segments
}

// ensureStyle clones the current style (so earlier, already-emitted
// segments keep their own copy) and returns the mutable clone.
func (p *parser) ensureStyle() *subtitle.InlineStyle {
	ns := p.curStyle.Clone()
	if ns == nil {
		ns = &subtitle.InlineStyle{}
	}
	p.curStyle = ns
	return ns
}

func (p *parser) applyBlock(block string) {
	for _, tok := range splitTags(block) {
		applyTag(p, tok)
	}
}

// splitTags splits the inside of a {...} override block into individual
// "\tagname(args)" tokens, tracking paren depth so a \t(...) transition
// whose argument list itself contains backslash tags is not split apart.
func splitTags(block string) []string {
	var out []string
	i, n := 0, len(block)
	for i < n {
		if block[i] != '\\' {
			i++
			continue
		}
		start := i
		i++
		depth := 0
		for i < n {
			switch block[i] {
			case '(':
				depth++
			case ')':
				depth--
			case '\\':
				if depth == 0 {
					goto done
				}
			}
			i++
		}
	done:
		out = append(out, block[start:i])
	}
	return out
}

// splitArgs splits a tag's argument text on top-level commas.
func splitArgs(s string) []string {
	var out []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[last:i])
				last = i + 1
			}
		}
	}
	out = append(out, s[last:])
	return out
}

// knownTagNames lists every recognized override tag name, longest first, so
// that prefix matching against an ambiguous run of letters (e.g. whether
// "\fsp2" is \fs applied to "p2" or \fsp applied to "2") always prefers the
// longest known tag. Tags whose argument is itself free-form text (\fn, \r)
// rely on this fixed-width matching to know where the name ends.
var knownTagNames = [][]string{
	{"alpha", "xbord", "ybord", "iclip"},
	{"bord", "shad", "blur", "fscx", "fscy", "move", "clip", "fade"},
	{"fsp", "frz", "frx", "fry", "fax", "fay", "pos", "org", "fad"},
	{"fn", "fs", "be", "fr", "an", "kf", "ko"},
	{"b", "i", "u", "s", "c", "a", "p", "k", "t", "r"},
}

func parseTagNameArgs(tok string) (name, arg string) {
	s := tok[1:]
	if len(s) >= 2 && s[0] >= '1' && s[0] <= '4' && (s[1] == 'c' || s[1] == 'a') {
		return s[:2], unwrapParens(s[2:])
	}
	for _, group := range knownTagNames {
		for _, tn := range group {
			if len(s) >= len(tn) && strings.EqualFold(s[:len(tn)], tn) {
				return s[:len(tn)], unwrapParens(s[len(tn):])
			}
		}
	}
	i := 0
	for i < len(s) && ((s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z')) {
		i++
	}
	return s[:i], unwrapParens(s[i:])
}

func unwrapParens(rest string) string {
	if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
		return rest[1 : len(rest)-1]
	}
	return rest
}

func atof(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func atoi(s string) (int, bool) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	return v, err == nil
}

func boolPtr(b bool) *bool       { return &b }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int          { return &i }

func applyTag(p *parser, tok string) {
	name, arg := parseTagNameArgs(tok)
	// \K is a distinct tag (sweep karaoke, alias of \kf) from \k
	// (highlight karaoke); it must be distinguished before case-folding
	// the rest of the tag names, which ASS treats case-insensitively.
	if name == "K" {
		applyKaraoke(p, arg, subtitle.KaraokeSwap)
		return
	}
	switch strings.ToLower(name) {
	case "b":
		if v, ok := atoi(arg); ok {
			p.ensureStyle().Bold = boolPtr(v != 0)
		}
	case "i":
		if v, ok := atoi(arg); ok {
			p.ensureStyle().Italic = boolPtr(v != 0)
		}
	case "u":
		if v, ok := atoi(arg); ok {
			p.ensureStyle().Underline = boolPtr(v != 0)
		}
	case "s":
		if v, ok := atoi(arg); ok {
			p.ensureStyle().Strikeout = boolPtr(v != 0)
		}
	case "fn":
		p.ensureStyle().FontName = &arg
	case "fs":
		if v, ok := atof(arg); ok {
			p.ensureStyle().FontSize = floatPtr(v)
		}
	case "c", "1c":
		applyColor(p, arg, 0)
	case "2c":
		applyColor(p, arg, 1)
	case "3c":
		applyColor(p, arg, 2)
	case "4c":
		applyColor(p, arg, 3)
	case "alpha":
		applyAlpha(p, arg, -1)
	case "1a":
		applyAlpha(p, arg, 0)
	case "2a":
		applyAlpha(p, arg, 1)
	case "3a":
		applyAlpha(p, arg, 2)
	case "4a":
		applyAlpha(p, arg, 3)
	case "bord", "xbord":
		if v, ok := atof(arg); ok {
			p.ensureStyle().Border = floatPtr(v)
		}
	case "shad", "ybord":
		if v, ok := atof(arg); ok {
			p.ensureStyle().Shadow = floatPtr(v)
		}
	case "be", "blur":
		if v, ok := atof(arg); ok {
			p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectBlur, Scalar: v})
		}
	case "fscx":
		if v, ok := atof(arg); ok {
			p.ensureStyle().ScaleX = floatPtr(v)
		}
	case "fscy":
		if v, ok := atof(arg); ok {
			p.ensureStyle().ScaleY = floatPtr(v)
		}
	case "fsp":
		if v, ok := atof(arg); ok {
			p.ensureStyle().Spacing = floatPtr(v)
		}
	case "frz", "fr":
		if v, ok := atof(arg); ok {
			p.ensureStyle().RotationZ = floatPtr(v)
		}
	case "frx":
		if v, ok := atof(arg); ok {
			p.ensureStyle().RotationX = floatPtr(v)
		}
	case "fry":
		if v, ok := atof(arg); ok {
			p.ensureStyle().RotationY = floatPtr(v)
		}
	case "fax", "fay":
		applyShear(p, name, arg)
	case "an":
		if v, ok := atoi(arg); ok {
			p.ensureStyle().Alignment = intPtr(v)
		}
	case "a":
		if v, ok := atoi(arg); ok {
			if na, ok := legacyAlignment[v]; ok {
				p.ensureStyle().Alignment = intPtr(na)
			}
		}
	case "pos":
		applyPos(p, arg)
	case "org":
		applyOrg(p, arg)
	case "move":
		applyMove(p, arg)
	case "clip":
		applyClip(p, arg, false)
	case "iclip":
		applyClip(p, arg, true)
	case "p":
		if v, ok := atoi(arg); ok && v > 0 {
			s := arg
			p.ensureStyle().Drawing = &s
		} else {
			p.ensureStyle().Drawing = nil
		}
	case "k":
		applyKaraoke(p, arg, subtitle.KaraokeFill)
	case "kf":
		applyKaraoke(p, arg, subtitle.KaraokeSwap)
	case "ko":
		applyKaraoke(p, arg, subtitle.KaraokeOutline)
	case "fad":
		applyFad(p, arg)
	case "fade":
		applyFade(p, arg)
	case "t":
		applyTransition(p, arg)
	case "r":
		p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectReset, StyleName: strings.TrimSpace(arg)})
	default:
		p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectUnknown, Name: name, Raw: arg})
	}
}

func applyColor(p *parser, arg string, slot int) {
	c, err := color.ParseASS(arg)
	if err != nil {
		return
	}
	s := p.ensureStyle()
	switch slot {
	case 0:
		s.PrimaryColor = &c
	case 1:
		s.SecondaryColor = &c
	case 2:
		s.OutlineColor = &c
	case 3:
		s.BackColor = &c
	}
}

// applyAlpha sets the alpha channel of one (or, when slot<0, all) already
// set inline colors. \alpha with no color yet present on this overlay has
// no base RGB to attach to and is recorded as an unknown effect instead.
func applyAlpha(p *parser, arg string, slot int) {
	a, err := color.ParseASSAlpha(arg)
	if err != nil {
		return
	}
	s := p.ensureStyle()
	setAlpha := func(c **color.ABGR) bool {
		if *c == nil {
			return false
		}
		r, g, b, _ := (**c).RGBA()
		nc := color.Pack(r, g, b, a)
		*c = &nc
		return true
	}
	applied := false
	if slot < 0 || slot == 0 {
		applied = setAlpha(&s.PrimaryColor) || applied
	}
	if slot < 0 || slot == 1 {
		applied = setAlpha(&s.SecondaryColor) || applied
	}
	if slot < 0 || slot == 2 {
		applied = setAlpha(&s.OutlineColor) || applied
	}
	if slot < 0 || slot == 3 {
		applied = setAlpha(&s.BackColor) || applied
	}
	if !applied {
		name := "alpha"
		if slot >= 0 {
			name = []string{"1a", "2a", "3a", "4a"}[slot]
		}
		p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectUnknown, Name: name, Raw: arg})
	}
}

func applyShear(p *parser, name, arg string) {
	v, ok := atof(arg)
	if !ok {
		return
	}
	for i := len(p.curFX) - 1; i >= 0; i-- {
		if p.curFX[i].Kind == subtitle.EffectShear {
			if name == "fax" {
				p.curFX[i].X = v
			} else {
				p.curFX[i].Y = v
			}
			return
		}
	}
	e := subtitle.Effect{Kind: subtitle.EffectShear}
	if name == "fax" {
		e.X = v
	} else {
		e.Y = v
	}
	p.curFX = append(p.curFX, e)
}

func applyPos(p *parser, arg string) {
	parts := splitArgs(arg)
	if len(parts) != 2 {
		return
	}
	x, ok1 := atof(parts[0])
	y, ok2 := atof(parts[1])
	if !ok1 || !ok2 {
		return
	}
	s := p.ensureStyle()
	s.Position = &subtitle.Point{X: x, Y: y}
	s.HasPosition = true
}

func applyOrg(p *parser, arg string) {
	parts := splitArgs(arg)
	if len(parts) != 2 {
		return
	}
	x, ok1 := atof(parts[0])
	y, ok2 := atof(parts[1])
	if !ok1 || !ok2 {
		return
	}
	p.ensureStyle().OriginH = &subtitle.Point{X: x, Y: y}
}

func applyMove(p *parser, arg string) {
	parts := splitArgs(arg)
	if len(parts) != 4 && len(parts) != 6 {
		return
	}
	f := make([]float64, len(parts))
	for i, s := range parts {
		v, ok := atof(s)
		if !ok {
			return
		}
		f[i] = v
	}
	e := subtitle.Effect{Kind: subtitle.EffectMove, X1: f[0], Y1: f[1], X2: f[2], Y2: f[3]}
	if len(parts) == 6 {
		e.HasTime = true
		e.TimeStartMs = int(f[4])
		e.TimeEndMs = int(f[5])
	}
	p.curFX = append(p.curFX, e)
}

func applyClip(p *parser, arg string, inverted bool) {
	parts := splitArgs(arg)
	s := p.ensureStyle()
	name := "clip"
	if inverted {
		name = "iclip"
	}
	if len(parts) == 4 {
		f := make([]float64, 4)
		ok := true
		for i, v := range parts {
			n, good := atof(v)
			if !good {
				ok = false
				break
			}
			f[i] = n
		}
		if ok {
			s.Clip = &subtitle.ClipRect{X1: f[0], Y1: f[1], X2: f[2], Y2: f[3]}
			if inverted {
				p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectClip, Name: name})
			}
			return
		}
	}
	s.Clip = &subtitle.ClipRect{Raw: arg, IsDrawing: true}
	p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectClip, Name: name, Raw: arg})
}

func applyKaraoke(p *parser, arg string, mode subtitle.KaraokeMode) {
	cs, ok := atoi(arg)
	if !ok {
		return
	}
	p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectKaraoke, KaraokeDurationMs: cs * 10, KaraokeMode: mode})
}

func applyFad(p *parser, arg string) {
	parts := splitArgs(arg)
	if len(parts) != 2 {
		return
	}
	in, ok1 := atoi(parts[0])
	out, ok2 := atoi(parts[1])
	if !ok1 || !ok2 {
		return
	}
	p.curFX = append(p.curFX, subtitle.Effect{Kind: subtitle.EffectFade, FadeInMs: in, FadeOutMs: out})
}

func applyFade(p *parser, arg string) {
	parts := splitArgs(arg)
	if len(parts) != 7 {
		return
	}
	v := make([]int, 7)
	for i, s := range parts {
		n, ok := atoi(s)
		if !ok {
			return
		}
		v[i] = n
	}
	p.curFX = append(p.curFX, subtitle.Effect{
		Kind: subtitle.EffectFadeComplex,
		A1:   v[0], A2: v[1], A3: v[2],
		T1: v[3], T2: v[4], T3: v[5], T4: v[6],
	})
}

// applyTransition parses \t([t1,t2,][accel,]tag-list), recursively parsing
// the trailing tag list as a nested override block whose resulting style
// and effects are captured as the animation's Children.
func applyTransition(p *parser, arg string) {
	parts := splitArgs(arg)
	if len(parts) == 0 {
		return
	}
	tagList := parts[len(parts)-1]
	e := subtitle.Effect{Kind: subtitle.EffectAnimate, AnimateAccel: 1}
	nums := parts[:len(parts)-1]
	switch len(nums) {
	case 1:
		if v, ok := atof(nums[0]); ok {
			e.AnimateAccel = v
		}
	case 2, 3:
		if v, ok := atoi(nums[0]); ok {
			e.AnimateT1Ms = v
		}
		if v, ok := atoi(nums[1]); ok {
			e.AnimateT2Ms = v
		}
		if len(nums) == 3 {
			if v, ok := atof(nums[2]); ok {
				e.AnimateAccel = v
			}
		}
		e.AnimateHasTime = true
	}
	inner := &parser{}
	inner.applyBlock(tagList)
	inner.flush()
	e.Children = inner.segments
	p.curFX = append(p.curFX, e)
}
