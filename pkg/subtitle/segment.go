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

package subtitle

import "github.com/wiedymi/subforge-sub002/pkg/color"

// Point is an (x, y) pair in script coordinates.
type Point struct {
	X, Y float64
}

// ClipRect is an inline clip rectangle, either a four-corner box or an
// opaque vector-clip drawing payload (Raw set, corners ignored).
type ClipRect struct {
	X1, Y1, X2, Y2 float64
	Raw            string
	IsDrawing      bool
}

// InlineStyle is an overlay on top of the enclosing event/style; a nil
// *InlineStyle (or a zero-value field within one) means "inherit". Bool
// overlays use pointers so false-but-set is distinguishable from unset.
type InlineStyle struct {
	Bold, Italic, Underline, Strikeout *bool

	PrimaryColor, SecondaryColor, OutlineColor, BackColor *color.ABGR

	FontName *string
	FontSize *float64

	Border, Shadow *float64
	ScaleX, ScaleY *float64
	Spacing        *float64
	Angle          *float64
	Alignment      *int

	Position       *Point
	HasPosition    bool
	OriginH        *Point
	OriginV        *Point

	RotationX, RotationY, RotationZ *float64

	Clip *ClipRect

	// Drawing holds an opaque \p<scale> drawing command payload (ASS).
	Drawing *string
}

// Clone returns a deep copy; nil stays nil.
func (s *InlineStyle) Clone() *InlineStyle {
	if s == nil {
		return nil
	}
	c := *s
	c.Bold = clonePtr(s.Bold)
	c.Italic = clonePtr(s.Italic)
	c.Underline = clonePtr(s.Underline)
	c.Strikeout = clonePtr(s.Strikeout)
	c.PrimaryColor = clonePtr(s.PrimaryColor)
	c.SecondaryColor = clonePtr(s.SecondaryColor)
	c.OutlineColor = clonePtr(s.OutlineColor)
	c.BackColor = clonePtr(s.BackColor)
	c.FontName = clonePtr(s.FontName)
	c.FontSize = clonePtr(s.FontSize)
	c.Border = clonePtr(s.Border)
	c.Shadow = clonePtr(s.Shadow)
	c.ScaleX = clonePtr(s.ScaleX)
	c.ScaleY = clonePtr(s.ScaleY)
	c.Spacing = clonePtr(s.Spacing)
	c.Angle = clonePtr(s.Angle)
	c.Alignment = clonePtr(s.Alignment)
	c.RotationX = clonePtr(s.RotationX)
	c.RotationY = clonePtr(s.RotationY)
	c.RotationZ = clonePtr(s.RotationZ)
	c.Drawing = clonePtr(s.Drawing)
	if s.Position != nil {
		p := *s.Position
		c.Position = &p
	}
	if s.OriginH != nil {
		p := *s.OriginH
		c.OriginH = &p
	}
	if s.OriginV != nil {
		p := *s.OriginV
		c.OriginV = &p
	}
	if s.Clip != nil {
		cl := *s.Clip
		c.Clip = &cl
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// TextSegment is a string run plus an optional style overlay and an ordered
// list of effects.
type TextSegment struct {
	Text    string
	Style   *InlineStyle
	Effects []Effect
}

// Clone returns a deep copy with freshly allocated effect slice/style.
func (t TextSegment) Clone() TextSegment {
	c := TextSegment{Text: t.Text, Style: t.Style.Clone()}
	if t.Effects != nil {
		c.Effects = make([]Effect, len(t.Effects))
		for i, e := range t.Effects {
			c.Effects[i] = e.Clone()
		}
	}
	return c
}

// JoinText concatenates the text of a segment sequence, the definition of
// an event's visible text per spec.md §3.
func JoinText(segs []TextSegment) string {
	out := ""
	for _, s := range segs {
		out += s.Text
	}
	return out
}
