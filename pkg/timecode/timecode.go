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

// Package timecode parses and formats the timestamp grammars used by the
// subtitle formats in the subforge codec set. Every parser here scans bytes
// directly instead of compiling a regexp, since these run on the hot path of
// every text-format parser.
package timecode

import (
	"fmt"
	"math"
)

// ErrInvalid is returned (wrapped) when a timecode does not match its
// format's grammar.
type ErrInvalid struct {
	Format string
	Raw    string
}

func (e *ErrInvalid) Error() string {
	return fmt.Sprintf("timecode: invalid %s timestamp %q", e.Format, e.Raw)
}

func invalid(format, raw string) error {
	return &ErrInvalid{Format: format, Raw: raw}
}

func digit(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}

// parseFixedUint parses exactly n digits starting at s[pos] and returns the
// value plus the position right after the digits.
func parseFixedUint(s string, pos, n int) (int, int, bool) {
	if pos+n > len(s) {
		return 0, pos, false
	}
	v := 0
	for i := 0; i < n; i++ {
		d, ok := digit(s[pos+i])
		if !ok {
			return 0, pos, false
		}
		v = v*10 + d
	}
	return v, pos + n, true
}

// parseVarUint parses one or more digits starting at pos, stopping at the
// first non-digit.
func parseVarUint(s string, pos int) (int, int, bool) {
	start := pos
	v := 0
	for pos < len(s) {
		d, ok := digit(s[pos])
		if !ok {
			break
		}
		v = v*10 + d
		pos++
	}
	if pos == start {
		return 0, pos, false
	}
	return v, pos, true
}

func expect(s string, pos int, c byte) (int, bool) {
	if pos >= len(s) || s[pos] != c {
		return pos, false
	}
	return pos + 1, true
}

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// ParseSRT parses "HH:MM:SS,mmm" (exactly 12 characters, comma separator).
func ParseSRT(s string) (int, error) {
	if len(s) != 12 {
		return 0, invalid("srt", s)
	}
	h, pos, ok := parseFixedUint(s, 0, 2)
	if !ok {
		return 0, invalid("srt", s)
	}
	if pos, ok = expect(s, pos, ':'); !ok {
		return 0, invalid("srt", s)
	}
	m, pos, ok := parseFixedUint(s, pos, 2)
	if !ok {
		return 0, invalid("srt", s)
	}
	if pos, ok = expect(s, pos, ':'); !ok {
		return 0, invalid("srt", s)
	}
	sec, pos, ok := parseFixedUint(s, pos, 2)
	if !ok {
		return 0, invalid("srt", s)
	}
	if pos, ok = expect(s, pos, ','); !ok {
		return 0, invalid("srt", s)
	}
	ms, _, ok := parseFixedUint(s, pos, 3)
	if !ok {
		return 0, invalid("srt", s)
	}
	return h*msPerHour + m*msPerMinute + sec*msPerSecond + ms, nil
}

// FormatSRT formats milliseconds as "HH:MM:SS,mmm".
func FormatSRT(ms int) string {
	h, m, s, frac := split(ms)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, frac)
}

// ParseWebVTT parses "HH:MM:SS.mmm" or "MM:SS.mmm".
func ParseWebVTT(s string) (int, error) {
	dot := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 || len(s)-dot-1 != 3 {
		return 0, invalid("webvtt", s)
	}
	ms, _, ok := parseFixedUint(s, dot+1, 3)
	if !ok {
		return 0, invalid("webvtt", s)
	}
	head := s[:dot]
	parts := splitColon(head)
	var h, m, sec int
	switch len(parts) {
	case 2:
		mv, ok1 := atoiAll(parts[0])
		sv, ok2 := atoiAll(parts[1])
		if !ok1 || !ok2 {
			return 0, invalid("webvtt", s)
		}
		m, sec = mv, sv
	case 3:
		hv, ok1 := atoiAll(parts[0])
		mv, ok2 := atoiAll(parts[1])
		sv, ok3 := atoiAll(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return 0, invalid("webvtt", s)
		}
		h, m, sec = hv, mv, sv
	default:
		return 0, invalid("webvtt", s)
	}
	return h*msPerHour + m*msPerMinute + sec*msPerSecond + ms, nil
}

// FormatWebVTT formats milliseconds as "HH:MM:SS.mmm".
func FormatWebVTT(ms int) string {
	h, m, s, frac := split(ms)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, frac)
}

// ParseSBV parses "H:MM:SS.mmm".
func ParseSBV(s string) (int, error) {
	return ParseWebVTT(s)
}

// FormatSBV formats milliseconds as "H:MM:SS.mmm" (hour not zero-padded).
func FormatSBV(ms int) string {
	h, m, s, frac := split(ms)
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, frac)
}

// ParseASS parses "H:MM:SS.cc" (1+ hour digits, 2 centisecond digits), also
// tolerating a 3-digit fractional-second field.
func ParseASS(s string) (int, error) {
	dot := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return 0, invalid("ass", s)
	}
	fracStr := s[dot+1:]
	var frac, scale int
	switch len(fracStr) {
	case 2:
		v, ok := atoiAll(fracStr)
		if !ok {
			return 0, invalid("ass", s)
		}
		frac, scale = v, 10
	case 3:
		v, ok := atoiAll(fracStr)
		if !ok {
			return 0, invalid("ass", s)
		}
		frac, scale = v, 1
	default:
		return 0, invalid("ass", s)
	}
	parts := splitColon(s[:dot])
	if len(parts) != 3 {
		return 0, invalid("ass", s)
	}
	h, ok1 := atoiAll(parts[0])
	m, ok2 := atoiAll(parts[1])
	sec, ok3 := atoiAll(parts[2])
	if !ok1 || !ok2 || !ok3 {
		return 0, invalid("ass", s)
	}
	return h*msPerHour + m*msPerMinute + sec*msPerSecond + frac*scale, nil
}

// FormatASS formats milliseconds as "H:MM:SS.cc".
func FormatASS(ms int) string {
	h, m, s, frac := split(ms)
	cs := frac / 10
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// ParseLRC parses the body of an "[MM:SS.cc]" or "[MM:SS.mmm]" / enhanced
// "<MM:SS.cc>" tag, without the surrounding bracket/angle characters.
func ParseLRC(s string) (int, error) {
	dot := -1
	for i, c := range s {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return 0, invalid("lrc", s)
	}
	fracStr := s[dot+1:]
	var frac, scale int
	switch len(fracStr) {
	case 2:
		v, ok := atoiAll(fracStr)
		if !ok {
			return 0, invalid("lrc", s)
		}
		frac, scale = v, 10
	case 3:
		v, ok := atoiAll(fracStr)
		if !ok {
			return 0, invalid("lrc", s)
		}
		frac, scale = v, 1
	default:
		return 0, invalid("lrc", s)
	}
	parts := splitColon(s[:dot])
	if len(parts) != 2 {
		return 0, invalid("lrc", s)
	}
	m, ok1 := atoiAll(parts[0])
	sec, ok2 := atoiAll(parts[1])
	if !ok1 || !ok2 {
		return 0, invalid("lrc", s)
	}
	return m*msPerMinute + sec*msPerSecond + frac*scale, nil
}

// FormatLRC formats milliseconds as "MM:SS.cc".
func FormatLRC(ms int) string {
	h, m, s, frac := split(ms)
	m += h * 60
	cs := frac / 10
	// Minutes are not clamped to 2 digits only; LRC allows >99 with extra digits.
	return fmt.Sprintf("%02d:%02d.%02d", m, s, cs)
}

// MicroDVDToMs converts a frame number to milliseconds given an fps.
func MicroDVDToMs(frame int, fps float64) int {
	if fps <= 0 {
		fps = 25
	}
	return int(math.Round(float64(frame) / fps * 1000))
}

// MsToMicroDVD converts milliseconds to a frame number given an fps.
func MsToMicroDVD(ms int, fps float64) int {
	if fps <= 0 {
		fps = 25
	}
	return int(math.Round(float64(ms) / 1000 * fps))
}

// ParseFrameTimecode parses "HH:MM:SS:FF" (colon-separated frames),
// converting to milliseconds with the given fps.
func ParseFrameTimecode(s string, fps float64) (int, error) {
	parts := splitColon(s)
	if len(parts) != 4 {
		return 0, invalid("frame", s)
	}
	h, ok1 := atoiAll(parts[0])
	m, ok2 := atoiAll(parts[1])
	sec, ok3 := atoiAll(parts[2])
	f, ok4 := atoiAll(parts[3])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, invalid("frame", s)
	}
	if fps <= 0 {
		fps = 25
	}
	base := h*msPerHour + m*msPerMinute + sec*msPerSecond
	return base + int(math.Round(float64(f)/fps*1000)), nil
}

// FormatFrameTimecode formats milliseconds as "HH:MM:SS:FF" at the given fps.
func FormatFrameTimecode(ms int, fps float64) string {
	if fps <= 0 {
		fps = 25
	}
	h, m, s, frac := split(ms)
	f := int(math.Round(float64(frac) / 1000 * fps))
	return fmt.Sprintf("%02d:%02d:%02d:%02d", h, m, s, f)
}

// ParseSCC parses "HH:MM:SS;FF" or "HH:MM:SS:FF" drop-frame/non-drop-frame
// 29.97fps SMPTE timecode into milliseconds using the strict SMPTE
// drop-frame formula (spec.md Open Question #3: prefer the strict formula
// over a floor-based approximation).
func ParseSCC(s string) (int, bool, error) {
	if len(s) != 11 {
		return 0, false, invalid("scc", s)
	}
	h, pos, ok := parseFixedUint(s, 0, 2)
	if !ok {
		return 0, false, invalid("scc", s)
	}
	if pos, ok = expect(s, pos, ':'); !ok {
		return 0, false, invalid("scc", s)
	}
	m, pos, ok := parseFixedUint(s, pos, 2)
	if !ok {
		return 0, false, invalid("scc", s)
	}
	if pos, ok = expect(s, pos, ':'); !ok {
		return 0, false, invalid("scc", s)
	}
	sec, pos, ok := parseFixedUint(s, pos, 2)
	if !ok {
		return 0, false, invalid("scc", s)
	}
	sep := s[pos]
	dropFrame := sep == ';'
	if sep != ';' && sep != ':' {
		return 0, false, invalid("scc", s)
	}
	pos++
	f, _, ok := parseFixedUint(s, pos, 2)
	if !ok {
		return 0, false, invalid("scc", s)
	}
	totalFrames := dropFrameToFrameCount(h, m, sec, f, dropFrame)
	ms := int(math.Round(float64(totalFrames) * 1001.0 / 30.0))
	return ms, dropFrame, nil
}

// dropFrameToFrameCount converts an SMPTE 29.97 drop-frame (or non-drop)
// timecode to an absolute frame count using the strict SMPTE formula:
// two frame numbers (0 and 1) are dropped at the start of each minute,
// except minutes divisible by ten.
func dropFrameToFrameCount(h, m, s, f int, dropFrame bool) int {
	totalMinutes := 60*h + m
	frameNum := (h*3600+m*60+s)*30 + f
	if dropFrame {
		dropped := 2 * (totalMinutes - totalMinutes/10)
		frameNum -= dropped
	}
	return frameNum
}

// FormatSCC formats milliseconds as a drop-frame "HH:MM:SS;FF" timecode, or
// as a non-drop "HH:MM:SS:FF" timecode when dropFrame is false.
func FormatSCC(ms int, dropFrame bool) string {
	totalFrames := int(math.Round(float64(ms) * 30.0 / 1001.0))
	if dropFrame {
		// Invert the strict formula: add back 2 frames per minute except
		// every 10th, by iterating minute boundaries.
		frame := totalFrames
		minute := 0
		for {
			framesPerMinute := 30 * 60
			if minute%10 != 0 {
				framesPerMinute -= 2
			}
			if frame < framesPerMinute {
				break
			}
			frame -= framesPerMinute
			minute++
		}
		totalFrames += 2 * (minute - minute/10)
	}
	framesPerSec := 30
	f := totalFrames % framesPerSec
	totalSeconds := totalFrames / framesPerSec
	s := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	m := totalMinutes % 60
	h := totalMinutes / 60
	sep := byte(':')
	if dropFrame {
		sep = ';'
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%02d", h, m, s, sep, f)
}

// ParseVobSubIdx parses "HH:MM:SS:mmm" (colon before the millisecond field).
func ParseVobSubIdx(s string) (int, error) {
	parts := splitColon(s)
	if len(parts) != 4 {
		return 0, invalid("vobsub", s)
	}
	h, ok1 := atoiAll(parts[0])
	m, ok2 := atoiAll(parts[1])
	sec, ok3 := atoiAll(parts[2])
	ms, ok4 := atoiAll(parts[3])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, invalid("vobsub", s)
	}
	return h*msPerHour + m*msPerMinute + sec*msPerSecond + ms, nil
}

// FormatVobSubIdx formats milliseconds as "HH:MM:SS:mmm".
func FormatVobSubIdx(ms int) string {
	h, m, s, frac := split(ms)
	return fmt.Sprintf("%02d:%02d:%02d:%03d", h, m, s, frac)
}

// ParseRealText parses "HH:MM:SS.cc" (centiseconds).
func ParseRealText(s string) (int, error) {
	dot := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 || len(s)-dot-1 != 2 {
		return 0, invalid("realtext", s)
	}
	cs, _, ok := parseFixedUint(s, dot+1, 2)
	if !ok {
		return 0, invalid("realtext", s)
	}
	parts := splitColon(s[:dot])
	if len(parts) != 3 {
		return 0, invalid("realtext", s)
	}
	h, ok1 := atoiAll(parts[0])
	m, ok2 := atoiAll(parts[1])
	sec, ok3 := atoiAll(parts[2])
	if !ok1 || !ok2 || !ok3 {
		return 0, invalid("realtext", s)
	}
	return h*msPerHour + m*msPerMinute + sec*msPerSecond + cs*10, nil
}

// FormatRealText formats milliseconds as "HH:MM:SS.cc".
func FormatRealText(ms int) string {
	h, m, s, frac := split(ms)
	return fmt.Sprintf("%02d:%02d:%02d.%02d", h, m, s, frac/10)
}

func split(ms int) (h, m, s, frac int) {
	if ms < 0 {
		ms = 0
	}
	h = ms / msPerHour
	ms -= h * msPerHour
	m = ms / msPerMinute
	ms -= m * msPerMinute
	s = ms / msPerSecond
	frac = ms - s*msPerSecond
	return
}

func splitColon(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func atoiAll(s string) (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	v := 0
	for i := 0; i < len(s); i++ {
		d, ok := digit(s[i])
		if !ok {
			return 0, false
		}
		v = v*10 + d
	}
	return v, true
}
