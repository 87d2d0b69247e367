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

// EffectKind discriminates the closed set of Effect variants. Serializers
// switch on Kind rather than using virtual dispatch, per DESIGN NOTES in
// spec.md §9: "a switch on the discriminator suffices".
type EffectKind int

// Effect variants.
const (
	EffectKaraoke EffectKind = iota
	EffectBlur
	EffectBorder
	EffectShadow
	EffectScale
	EffectRotate
	EffectShear
	EffectSpacing
	EffectFade
	EffectFadeComplex
	EffectMove
	EffectClip
	EffectDrawing
	EffectAnimate
	EffectReset
	EffectImage
	EffectVobSub
	EffectPGS
	EffectUnknown
)

// KaraokeMode selects how a karaoke syllable fills in.
type KaraokeMode int

// Karaoke fill modes.
const (
	KaraokeFill KaraokeMode = iota
	KaraokeOutline
	KaraokeSwap
)

// Effect is a tagged union; exactly the fields relevant to Kind are
// meaningful. Each variant carries its parameters in dedicated fields
// rather than an interface{} payload, so format serializers can switch on
// Kind without a type assertion.
type Effect struct {
	Kind EffectKind

	// EffectKaraoke
	KaraokeDurationMs int
	KaraokeMode       KaraokeMode

	// EffectBlur / EffectBorder / EffectShadow / EffectSpacing: a single
	// scalar width/radius.
	Scalar float64

	// EffectScale
	ScaleX, ScaleY float64

	// EffectRotate / EffectShear
	X, Y, Z float64

	// EffectFade: fade in/out durations in ms.
	FadeInMs, FadeOutMs int

	// EffectFadeComplex: a1/a2/a3 alpha levels, t1..t4 times in ms.
	A1, A2, A3     int
	T1, T2, T3, T4 int

	// EffectMove: from (X1,Y1) to (X2,Y2), optionally timed [TimeStartMs,
	// TimeEndMs); HasTime is false when the move has no timing clause.
	X1, Y1, X2, Y2           float64
	TimeStartMs, TimeEndMs   int
	HasTime                  bool

	// EffectClip / EffectDrawing: opaque payload (clip rectangle text or
	// drawing command string).
	Raw string

	// EffectAnimate: nested segments produced by parsing the transition's
	// inner tag list (ASS \t(...)).
	Children []TextSegment
	// AnimateT1Ms/AnimateT2Ms/AnimateAccel: optional \t(t1,t2,accel,...) args.
	AnimateT1Ms, AnimateT2Ms int
	AnimateAccel             float64
	AnimateHasTime           bool

	// EffectReset: style name to reset to, or "" for the enclosing style.
	StyleName string

	// EffectImage: reference to the owning Event.Image; no extra payload.

	// EffectVobSub / EffectPGS: sidecar data lives on Event, this variant
	// just marks that the event carries an image-subtitle payload of that
	// origin.

	// EffectUnknown: the raw ASS tag name and its unparsed argument text.
	Name string
}

// Clone returns a deep copy of the effect, including nested Children.
func (e Effect) Clone() Effect {
	c := e
	if e.Children != nil {
		c.Children = make([]TextSegment, len(e.Children))
		for i, seg := range e.Children {
			c.Children[i] = seg.Clone()
		}
	}
	return c
}
