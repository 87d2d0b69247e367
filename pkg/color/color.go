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

// Package color implements the ABGR canonical color word used throughout the
// document model, plus the per-format textual color syntaxes (ASS &H..
// literals, CSS-style #rgb/#rrggbb/rgb()/named colors used by SAMI/TTML) and
// the YCbCr conversions needed by the image-subtitle codecs (PGS/DVB
// palettes).
package color

import (
	"fmt"
	"strconv"
	"strings"
)

// ABGR is the canonical 32-bit color word 0xAABBGGRR.
type ABGR uint32

// RGBA returns the (r, g, b, a) byte components.
func (c ABGR) RGBA() (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// Pack builds an ABGR word from components.
func Pack(r, g, b, a uint8) ABGR {
	return ABGR(uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r))
}

// Blend linearly interpolates between a and b (including alpha) at t in
// [0,1]. t is not clamped; callers passing out-of-range t extrapolate.
func Blend(a, b ABGR, t float64) ABGR {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	lerp := func(x, y uint8) uint8 {
		v := float64(x) + (float64(y)-float64(x))*t
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return Pack(lerp(ar, br), lerp(ag, bg), lerp(ab, bb), lerp(aa, ba))
}

// Lighten blends c toward white by t.
func Lighten(c ABGR, t float64) ABGR { return Blend(c, Pack(255, 255, 255, 255), t) }

// Darken blends c toward black by t.
func Darken(c ABGR, t float64) ABGR { return Blend(c, Pack(0, 0, 0, 255), t) }

// ParseASS parses "&HAABBGGRR&" or "&HBBGGRR&" (alpha defaults to 0,
// i.e. opaque in ASS's inverted-alpha convention) or a bare hex literal.
func ParseASS(s string) (ABGR, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "&H")
	s = strings.TrimPrefix(s, "&h")
	s = strings.TrimSuffix(s, "&")
	if s == "" {
		return 0, fmt.Errorf("color: empty ASS color")
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("color: invalid ASS color %q: %w", s, err)
	}
	switch len(s) {
	case 6:
		return Pack(uint8(v), uint8(v>>8), uint8(v>>16), 0), nil
	case 8:
		return Pack(uint8(v), uint8(v>>8), uint8(v>>16), uint8(v>>24)), nil
	default:
		// Tolerate shorter/longer hex by masking to the low 32 bits; alpha
		// comes from bits 24-31, which are zero for fewer than 7 digits.
		return Pack(uint8(v), uint8(v>>8), uint8(v>>16), uint8(v>>24)), nil
	}
}

// FormatASS formats an ABGR as "&HAABBGGRR&".
func FormatASS(c ABGR) string {
	r, g, b, a := c.RGBA()
	return fmt.Sprintf("&H%02X%02X%02X%02X&", a, b, g, r)
}

// ParseASSAlpha parses a bare "&HAA&" alpha literal, returning 0-255.
func ParseASSAlpha(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "&H")
	s = strings.TrimPrefix(s, "&h")
	s = strings.TrimSuffix(s, "&")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("color: invalid ASS alpha %q: %w", s, err)
	}
	return uint8(v), nil
}

var namedColors = map[string]ABGR{
	"black":   Pack(0, 0, 0, 255),
	"silver":  Pack(192, 192, 192, 255),
	"gray":    Pack(128, 128, 128, 255),
	"grey":    Pack(128, 128, 128, 255),
	"white":   Pack(255, 255, 255, 255),
	"maroon":  Pack(128, 0, 0, 255),
	"red":     Pack(255, 0, 0, 255),
	"purple":  Pack(128, 0, 128, 255),
	"fuchsia": Pack(255, 0, 255, 255),
	"magenta": Pack(255, 0, 255, 255),
	"green":   Pack(0, 128, 0, 255),
	"lime":    Pack(0, 255, 0, 255),
	"olive":   Pack(128, 128, 0, 255),
	"yellow":  Pack(255, 255, 0, 255),
	"navy":    Pack(0, 0, 128, 255),
	"blue":    Pack(0, 0, 255, 255),
	"teal":    Pack(0, 128, 128, 255),
	"cyan":    Pack(0, 255, 255, 255),
	"aqua":    Pack(0, 255, 255, 255),
	"orange":  Pack(255, 165, 0, 255),
	"pink":    Pack(255, 192, 203, 255),
	"brown":   Pack(165, 42, 42, 255),
	"transparent": Pack(0, 0, 0, 0),
}

// ParseCSS parses a CSS-style color as used by SAMI/TTML: "#RGB",
// "#RRGGBB", "rgb(r,g,b)", or a fixed named-color table.
func ParseCSS(s string) (ABGR, error) {
	s = strings.TrimSpace(s)
	low := strings.ToLower(s)
	if c, ok := namedColors[low]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 3:
			r, err1 := strconv.ParseUint(hex[0:1], 16, 8)
			g, err2 := strconv.ParseUint(hex[1:2], 16, 8)
			b, err3 := strconv.ParseUint(hex[2:3], 16, 8)
			if err1 != nil || err2 != nil || err3 != nil {
				return 0, fmt.Errorf("color: invalid CSS color %q", s)
			}
			return Pack(uint8(r*17), uint8(g*17), uint8(b*17), 255), nil
		case 6:
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return 0, fmt.Errorf("color: invalid CSS color %q", s)
			}
			return Pack(uint8(v>>16), uint8(v>>8), uint8(v), 255), nil
		default:
			return 0, fmt.Errorf("color: invalid CSS color %q", s)
		}
	}
	if strings.HasPrefix(low, "rgb(") && strings.HasSuffix(low, ")") {
		inner := low[4 : len(low)-1]
		parts := strings.Split(inner, ",")
		if len(parts) != 3 {
			return 0, fmt.Errorf("color: invalid CSS color %q", s)
		}
		var vals [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return 0, fmt.Errorf("color: invalid CSS color %q", s)
			}
			vals[i] = uint8(n)
		}
		return Pack(vals[0], vals[1], vals[2], 255), nil
	}
	return 0, fmt.Errorf("color: unrecognized CSS color %q", s)
}

// FormatCSSHex formats an ABGR as "#rrggbb" (alpha dropped, CSS hex has no
// alpha channel in the 6-digit form).
func FormatCSSHex(c ABGR) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// YCbCrToABGR converts a BT.601 YCbCr+alpha triple (as used by PGS/DVB
// palettes) to an ABGR word.
func YCbCrToABGR(y, cb, cr, a uint8) ABGR {
	yf := float64(y)
	cbf := float64(cb) - 128
	crf := float64(cr) - 128

	r := yf + 1.402*crf
	g := yf - 0.344136*cbf - 0.714136*crf
	b := yf + 1.772*cbf

	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v + 0.5)
	}
	return Pack(clamp(r), clamp(g), clamp(b), a)
}

// ABGRToYCbCr converts an ABGR word to a BT.601 YCbCr+alpha triple.
func ABGRToYCbCr(c ABGR) (y, cb, cr, a uint8) {
	r, g, b, a := c.RGBA()
	rf, gf, bf := float64(r), float64(g), float64(b)

	yf := 0.299*rf + 0.587*gf + 0.114*bf
	cbf := -0.168736*rf - 0.331264*gf + 0.5*bf + 128
	crf := 0.5*rf - 0.418688*gf - 0.081312*bf + 128

	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v + 0.5)
	}
	return clamp(yf), clamp(cbf), clamp(crf), a
}
