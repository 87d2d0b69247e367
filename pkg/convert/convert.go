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

// Package convert implements the cross-format conversion engine: given a
// normalized Document and a target FormatID, it downgrades each event's
// styling and effects to what the target can actually carry, optionally
// reporting every feature it had to discard, then hands the result to the
// target's own serializer.
package convert

import (
	"fmt"

	"github.com/wiedymi/subforge-sub002/pkg/codec/ass"
	"github.com/wiedymi/subforge-sub002/pkg/codec/cap"
	"github.com/wiedymi/subforge-sub002/pkg/codec/dvb"
	"github.com/wiedymi/subforge-sub002/pkg/codec/ebustl"
	"github.com/wiedymi/subforge-sub002/pkg/codec/lrc"
	"github.com/wiedymi/subforge-sub002/pkg/codec/microdvd"
	"github.com/wiedymi/subforge-sub002/pkg/codec/pac"
	"github.com/wiedymi/subforge-sub002/pkg/codec/pgs"
	"github.com/wiedymi/subforge-sub002/pkg/codec/qt"
	"github.com/wiedymi/subforge-sub002/pkg/codec/realtext"
	"github.com/wiedymi/subforge-sub002/pkg/codec/sami"
	"github.com/wiedymi/subforge-sub002/pkg/codec/sbv"
	"github.com/wiedymi/subforge-sub002/pkg/codec/scc"
	"github.com/wiedymi/subforge-sub002/pkg/codec/sprucestl"
	"github.com/wiedymi/subforge-sub002/pkg/codec/srt"
	"github.com/wiedymi/subforge-sub002/pkg/codec/teletext"
	"github.com/wiedymi/subforge-sub002/pkg/codec/ttml"
	"github.com/wiedymi/subforge-sub002/pkg/codec/vobsub"
	"github.com/wiedymi/subforge-sub002/pkg/codec/vtt"
	"github.com/wiedymi/subforge-sub002/pkg/ops"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// FormatID names one of the ~20 supported subtitle formats.
type FormatID string

// Supported formats, matching spec.md §6's Xxx enumeration.
const (
	FormatASS       FormatID = "ass"
	FormatSSA       FormatID = "ssa"
	FormatSRT       FormatID = "srt"
	FormatVTT       FormatID = "vtt"
	FormatSBV       FormatID = "sbv"
	FormatLRC       FormatID = "lrc"
	FormatMicroDVD  FormatID = "microdvd"
	FormatSAMI      FormatID = "sami"
	FormatRealText  FormatID = "realtext"
	FormatQT        FormatID = "qt"
	FormatTTML      FormatID = "ttml"
	FormatDFXP      FormatID = "dfxp"
	FormatSMPTETT   FormatID = "smptett"
	FormatSCC       FormatID = "scc"
	FormatCAP       FormatID = "cap"
	FormatSpruceSTL FormatID = "sprucestl"
	FormatEBUSTL    FormatID = "ebustl"
	FormatPAC       FormatID = "pac"
	FormatPGS       FormatID = "pgs"
	FormatDVB       FormatID = "dvb"
	FormatVobSub    FormatID = "vobsub"
	FormatTeletext  FormatID = "teletext"
)

// UnsupportedPolicy selects how a discarded, non-karaoke effect is handled.
type UnsupportedPolicy int

// Unsupported-effect policies.
const (
	UnsupportedDrop UnsupportedPolicy = iota
	UnsupportedComment
)

// KaraokePolicy selects how karaoke effects are handled for targets that
// can't carry them natively.
type KaraokePolicy int

// Karaoke policies.
const (
	KaraokePreserve KaraokePolicy = iota
	KaraokeExplode
	KaraokeStrip
)

// PositioningPolicy selects whether absolute/override positioning survives
// the conversion.
type PositioningPolicy int

// Positioning policies.
const (
	PositioningPreserve PositioningPolicy = iota
	PositioningStrip
)

// Options configures one Convert call.
type Options struct {
	To          FormatID
	Unsupported UnsupportedPolicy
	Karaoke     KaraokePolicy
	Positioning PositioningPolicy
	ReportLoss  bool
	Serialize   subtitle.SerializeOptions
}

// LostFeature records one discarded style property or effect.
type LostFeature struct {
	EventIndex  int
	Feature     string
	Description string
}

// VobSubOutput is the two-buffer output Convert produces for FormatVobSub,
// since that format alone serializes to an idx+sub pair rather than one
// buffer (see pkg/codec/vobsub).
type VobSubOutput struct {
	Idx string
	Sub []byte
}

// Result is the outcome of a Convert call. Output's dynamic type is string
// for every text format, []byte for every binary format, and VobSubOutput
// for FormatVobSub.
type Result struct {
	Output       any
	LostFeatures []LostFeature
}

// featureSet is the per-target support matrix consulted by downgrade.
type featureSet struct {
	full bool // ASS/SSA: every InlineStyle key and Effect kind survives, skip downgrade.

	bold, italic, underline, strikeout bool
	primaryColor                       bool
	position                           bool
	alignment                          bool

	effects map[subtitle.EffectKind]bool
}

var featureSets = map[FormatID]featureSet{
	FormatASS: {full: true},
	FormatSSA: {full: true},

	FormatSRT: {bold: true, italic: true, underline: true, strikeout: true, primaryColor: true},
	FormatVTT: {bold: true, italic: true, underline: true, position: true},

	FormatSAMI:     {bold: true, italic: true, underline: true, primaryColor: true},
	FormatRealText: {bold: true, italic: true, underline: true, primaryColor: true},
	FormatTTML:     {bold: true, italic: true, underline: true, primaryColor: true},
	FormatDFXP:     {bold: true, italic: true, underline: true, primaryColor: true},
	FormatSMPTETT:  {bold: true, italic: true, underline: true, primaryColor: true},
	FormatQT:       {bold: true, italic: true, underline: true, primaryColor: true},
	FormatMicroDVD: {bold: true, italic: true, underline: true, primaryColor: true},

	FormatSBV: {},
	FormatLRC: {effects: map[subtitle.EffectKind]bool{subtitle.EffectKaraoke: true}},

	FormatSCC:       {italic: true, underline: true},
	FormatPAC:       {italic: true, underline: true},
	FormatCAP:       {italic: true, underline: true},
	FormatSpruceSTL: {},
	FormatEBUSTL:    {},

	FormatPGS:      {effects: map[subtitle.EffectKind]bool{subtitle.EffectImage: true}},
	FormatDVB:      {effects: map[subtitle.EffectKind]bool{subtitle.EffectImage: true}},
	FormatVobSub:   {effects: map[subtitle.EffectKind]bool{subtitle.EffectImage: true, subtitle.EffectVobSub: true}},
	FormatTeletext: {},
}

// serializeFn adapts every codec's SerializeWithOptions to a uniform shape.
type serializeFn func(*subtitle.Document, subtitle.SerializeOptions) any

var serializers = map[FormatID]serializeFn{
	FormatASS:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return ass.SerializeWithOptions(d, o) },
	FormatSSA:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return ass.SerializeWithOptions(d, o) },
	FormatSRT:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return srt.SerializeWithOptions(d, o) },
	FormatVTT:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return vtt.SerializeWithOptions(d, o) },
	FormatSBV:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return sbv.SerializeWithOptions(d, o) },
	FormatLRC:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return lrc.SerializeWithOptions(d, o) },
	FormatMicroDVD:  func(d *subtitle.Document, o subtitle.SerializeOptions) any { return microdvd.SerializeWithOptions(d, o) },
	FormatSAMI:      func(d *subtitle.Document, o subtitle.SerializeOptions) any { return sami.SerializeWithOptions(d, o) },
	FormatRealText:  func(d *subtitle.Document, o subtitle.SerializeOptions) any { return realtext.SerializeWithOptions(d, o) },
	FormatQT:        func(d *subtitle.Document, o subtitle.SerializeOptions) any { return qt.SerializeWithOptions(d, o) },
	FormatTTML:      func(d *subtitle.Document, o subtitle.SerializeOptions) any { return ttml.SerializeWithOptions(d, o) },
	FormatDFXP:      func(d *subtitle.Document, o subtitle.SerializeOptions) any { return ttml.SerializeWithOptions(d, o) },
	FormatSMPTETT:   func(d *subtitle.Document, o subtitle.SerializeOptions) any { return ttml.SerializeWithOptions(d, o) },
	FormatSCC:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return scc.SerializeWithOptions(d, o) },
	FormatCAP:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return cap.SerializeWithOptions(d, o) },
	FormatSpruceSTL: func(d *subtitle.Document, o subtitle.SerializeOptions) any { return sprucestl.SerializeWithOptions(d, o) },
	FormatEBUSTL:    func(d *subtitle.Document, o subtitle.SerializeOptions) any { return ebustl.SerializeWithOptions(d, o) },
	FormatPAC:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return pac.SerializeWithOptions(d, o) },
	FormatPGS:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return pgs.SerializeWithOptions(d, o) },
	FormatDVB:       func(d *subtitle.Document, o subtitle.SerializeOptions) any { return dvb.SerializeWithOptions(d, o) },
	FormatTeletext:  func(d *subtitle.Document, o subtitle.SerializeOptions) any { return teletext.SerializeWithOptions(d, o) },
	FormatVobSub: func(d *subtitle.Document, o subtitle.SerializeOptions) any {
		idx, sub := vobsub.SerializeWithOptions(d, o)
		return VobSubOutput{Idx: idx, Sub: sub}
	},
}

// Convert downgrades doc's styling/effects to what opts.To can carry, then
// serializes using that format's writer. doc is never mutated; a clone is
// taken whenever downgrading is needed.
func Convert(doc *subtitle.Document, opts Options) (Result, error) {
	fs, ok := featureSets[opts.To]
	if !ok {
		return Result{}, fmt.Errorf("convert: unknown target format %q", opts.To)
	}
	serialize, ok := serializers[opts.To]
	if !ok {
		return Result{}, fmt.Errorf("convert: no serializer registered for %q", opts.To)
	}

	working := doc
	var lost []LostFeature
	if !fs.full {
		working = doc.Clone()
		lost = downgrade(working, fs, opts)
	}

	return Result{Output: serialize(working, opts.Serialize), LostFeatures: lost}, nil
}

// downgrade mutates working in place: explodes/strips karaoke per policy,
// then strips every InlineStyle key and Effect kind fs doesn't support
// (and, independently, positioning if opts.Positioning is strip),
// recording a LostFeature per discarded property when opts.ReportLoss.
func downgrade(working *subtitle.Document, fs featureSet, opts Options) []LostFeature {
	var lost []LostFeature
	note := func(i int, feature, desc string) {
		if opts.ReportLoss {
			lost = append(lost, LostFeature{EventIndex: i, Feature: feature, Description: desc})
		}
	}

	if opts.Karaoke == KaraokeExplode {
		original := working.Events
		working.Events = nil
		for i, e := range original {
			if e.Dirty && hasKaraoke(e.Segments) {
				for _, ne := range ops.ExplodeKaraoke(e) {
					working.AddEvent(ne)
				}
				note(i, "karaoke", "exploded into one event per syllable")
				continue
			}
			working.Events = append(working.Events, e)
		}
	}

	for i, e := range working.Events {
		if !e.Dirty {
			continue
		}
		for j := range e.Segments {
			seg := &e.Segments[j]
			seg.Effects = downgradeEffects(seg.Effects, fs, opts, i, note)
			if seg.Style == nil {
				continue
			}
			downgradeStyle(seg.Style, fs, opts, i, note)
		}
	}
	return lost
}

func hasKaraoke(segs []subtitle.TextSegment) bool {
	for _, s := range segs {
		for _, eff := range s.Effects {
			if eff.Kind == subtitle.EffectKaraoke {
				return true
			}
		}
	}
	return false
}

func downgradeEffects(effects []subtitle.Effect, fs featureSet, opts Options, eventIdx int, note func(int, string, string)) []subtitle.Effect {
	var kept []subtitle.Effect
	for _, eff := range effects {
		if eff.Kind == subtitle.EffectKaraoke {
			switch opts.Karaoke {
			case KaraokeStrip:
				note(eventIdx, "karaoke", "karaoke timing discarded")
				continue
			case KaraokePreserve:
				if fs.effects[subtitle.EffectKaraoke] {
					kept = append(kept, eff)
					continue
				}
			default: // KaraokeExplode already handled at the event level.
				continue
			}
		}
		if fs.effects[eff.Kind] {
			kept = append(kept, eff)
			continue
		}
		note(eventIdx, effectName(eff.Kind), "effect not supported by target format")
		if opts.Unsupported == UnsupportedComment {
			kept = append(kept, subtitle.Effect{Kind: subtitle.EffectUnknown, Name: effectName(eff.Kind)})
		}
	}
	return kept
}

func downgradeStyle(s *subtitle.InlineStyle, fs featureSet, opts Options, eventIdx int, note func(int, string, string)) {
	strip := func(has bool, feature string, clear func()) {
		if has && !styleSupported(fs, feature) {
			note(eventIdx, feature, "style property not supported by target format")
			clear()
		}
	}
	strip(s.Bold != nil, "bold", func() { s.Bold = nil })
	strip(s.Italic != nil, "italic", func() { s.Italic = nil })
	strip(s.Underline != nil, "underline", func() { s.Underline = nil })
	strip(s.Strikeout != nil, "strikeout", func() { s.Strikeout = nil })
	strip(s.PrimaryColor != nil, "primaryColor", func() { s.PrimaryColor = nil })
	strip(s.Alignment != nil, "alignment", func() { s.Alignment = nil })

	if !styleSupported(fs, "primaryColor") {
		s.SecondaryColor = nil
		s.OutlineColor = nil
		s.BackColor = nil
	}
	if !fs.full {
		if s.FontName != nil {
			note(eventIdx, "font", "font name not supported by target format")
			s.FontName = nil
		}
		if s.FontSize != nil {
			note(eventIdx, "size", "font size not supported by target format")
			s.FontSize = nil
		}
	}

	positionLost := func() string {
		x, y := 0.0, 0.0
		if s.Position != nil {
			x, y = s.Position.X, s.Position.Y
		}
		return fmt.Sprintf("\\pos(%g,%g)", x, y)
	}
	if opts.Positioning == PositioningStrip {
		if s.HasPosition {
			note(eventIdx, "positioning", positionLost())
		}
		s.Position = nil
		s.HasPosition = false
		s.OriginH = nil
		s.OriginV = nil
	} else if s.HasPosition && !fs.position {
		note(eventIdx, "positioning", positionLost())
		s.Position = nil
		s.HasPosition = false
		s.OriginH = nil
		s.OriginV = nil
	}
}

func styleSupported(fs featureSet, feature string) bool {
	switch feature {
	case "bold":
		return fs.bold
	case "italic":
		return fs.italic
	case "underline":
		return fs.underline
	case "strikeout":
		return fs.strikeout
	case "primaryColor":
		return fs.primaryColor
	case "alignment":
		return fs.alignment
	default:
		return false
	}
}

func effectName(k subtitle.EffectKind) string {
	names := map[subtitle.EffectKind]string{
		subtitle.EffectKaraoke:      "karaoke",
		subtitle.EffectBlur:        "blur",
		subtitle.EffectBorder:      "border",
		subtitle.EffectShadow:      "shadow",
		subtitle.EffectScale:       "scale",
		subtitle.EffectRotate:      "rotate",
		subtitle.EffectShear:       "shear",
		subtitle.EffectSpacing:     "spacing",
		subtitle.EffectFade:        "fade",
		subtitle.EffectFadeComplex: "fadeComplex",
		subtitle.EffectMove:        "move",
		subtitle.EffectClip:        "clip",
		subtitle.EffectDrawing:     "drawing",
		subtitle.EffectAnimate:     "animate",
		subtitle.EffectReset:       "reset",
		subtitle.EffectImage:       "image",
		subtitle.EffectVobSub:      "vobsub",
		subtitle.EffectPGS:         "pgs",
		subtitle.EffectUnknown:     "unknown",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "effect"
}
