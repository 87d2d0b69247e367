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

// Package cea608 decodes and encodes the CEA-608 byte-pair alphabet used by
// SCC captions: the standard ASCII subset plus the format's "special" and
// extended national-character codes, and the PAC/control-code space.
package cea608

// stdChars maps CEA-608's non-ASCII "standard character" substitutions.
// Bytes not listed here (0x20-0x7F minus these) map to themselves, matching
// ASCII, per the CEA-608 basic character set's deliberate near-ASCII design.
var stdChars = map[byte]rune{
	0x27: '’',
	0x2A: 'á',
	0x5C: 'é',
	0x5E: 'í',
	0x5F: 'ó',
	0x60: 'ú',
	0x7B: 'ç',
	0x7C: '÷',
	0x7D: 'Ñ',
	0x7E: 'ñ',
	0x7F: '█',
}

var stdCharsReverse = reverseMap(stdChars)

// specialChars maps the second byte of a 0x11 0x3X "special character"
// pair to its glyph.
var specialChars = map[byte]rune{
	0x30: '®', 0x31: '°', 0x32: '½', 0x33: '¿',
	0x34: '™', 0x35: '¢', 0x36: '£', 0x37: '♪',
	0x38: 'à', 0x39: ' ', 0x3A: 'è', 0x3B: 'â',
	0x3C: 'ê', 0x3D: 'î', 0x3E: 'ô', 0x3F: 'û',
}

var specialCharsReverse = reverseMap(specialChars)

func reverseMap(m map[byte]rune) map[rune]byte {
	out := make(map[rune]byte, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// DecodeChar decodes one standard-character byte (0x20-0x7F) to its glyph.
func DecodeChar(b byte) rune {
	if r, ok := stdChars[b]; ok {
		return r
	}
	return rune(b)
}

// EncodeChar encodes a glyph back to its standard-character byte, false if
// the glyph has no CEA-608 standard-character representation.
func EncodeChar(r rune) (byte, bool) {
	if b, ok := stdCharsReverse[r]; ok {
		return b, true
	}
	if r >= 0x20 && r < 0x80 {
		return byte(r), true
	}
	return 0, false
}

// DecodeSpecialChar decodes the second byte of a 0x11 0x30-0x3F pair.
func DecodeSpecialChar(b byte) (rune, bool) {
	r, ok := specialChars[b]
	return r, ok
}

// EncodeSpecialChar encodes a glyph to a 0x11 0x30-0x3F second byte.
func EncodeSpecialChar(r rune) (byte, bool) {
	b, ok := specialCharsReverse[r]
	return b, ok
}

// ControlCode identifies a CEA-608 two-byte control code (PAC, mid-row
// style, or miscellaneous command); byte pairs outside this table but in
// the 0x10-0x1F first-byte range are preamble address codes, decoded
// separately by DecodePAC.
type ControlCode int

// Miscellaneous control codes (channel 1, second byte of a 0x14/0x1C pair).
const (
	ControlUnknown ControlCode = iota
	ControlResumeCaptionLoading
	ControlBackspace
	ControlDeleteToEndOfRow
	ControlRollUp2
	ControlRollUp3
	ControlRollUp4
	ControlFlashOn
	ControlResumeDirectCaptioning
	ControlTextRestart
	ControlResumeTextDisplay
	ControlEraseDisplayedMemory
	ControlCarriageReturn
	ControlEraseNonDisplayedMemory
	ControlEndOfCaption
)

var miscControlCodes = map[byte]ControlCode{
	0x20: ControlResumeCaptionLoading,
	0x21: ControlBackspace,
	0x24: ControlDeleteToEndOfRow,
	0x25: ControlRollUp2,
	0x26: ControlRollUp3,
	0x27: ControlRollUp4,
	0x28: ControlFlashOn,
	0x29: ControlResumeDirectCaptioning,
	0x2C: ControlEraseDisplayedMemory,
	0x2D: ControlCarriageReturn,
	0x2E: ControlEraseNonDisplayedMemory,
	0x2F: ControlEndOfCaption,
}

// DecodeMiscControl decodes the second byte of a 0x14/0x1C control pair.
func DecodeMiscControl(b byte) ControlCode {
	if c, ok := miscControlCodes[b&0x7F]; ok {
		return c
	}
	return ControlUnknown
}

var miscControlCodesReverse = reverseControlMap(miscControlCodes)

func reverseControlMap(m map[byte]ControlCode) map[ControlCode]byte {
	out := make(map[ControlCode]byte, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// EncodeMiscControl encodes a ControlCode to the second byte of a 0x14/0x1C
// pair, false if it has no miscellaneous-control representation (e.g. it's
// a PAC row, handled by EncodePAC instead).
func EncodeMiscControl(c ControlCode) (byte, bool) {
	b, ok := miscControlCodesReverse[c]
	return b, ok
}

// PAC is a decoded Preamble Address Code: the row it addresses (1-15) plus
// its indent/style payload.
type PAC struct {
	Row       int
	Indent    int
	Color     string
	Underline bool
	Italic    bool
}

// pacRowTable maps the first PAC byte (0x10-0x17, channel 1) to its base
// row pair; the second byte's high bit selects between the pair's two rows.
var pacRowTable = map[byte][2]int{
	0x11: {1, 2}, 0x12: {3, 4}, 0x15: {5, 6}, 0x16: {7, 8},
	0x17: {9, 10}, 0x10: {11, 11}, 0x13: {12, 13}, 0x14: {14, 15},
}

// pacColors gives the foreground color for PAC attribute values 0-6 (7 is
// "white, italic" and handled via the Italic flag instead).
var pacColors = []string{"white", "green", "blue", "cyan", "red", "yellow", "magenta"}

// DecodePAC decodes a two-byte Preamble Address Code pair (first byte
// already known to be in the 0x10-0x17 PAC range).
func DecodePAC(b1, b2 byte) (PAC, bool) {
	rows, ok := pacRowTable[b1]
	if !ok {
		return PAC{}, false
	}
	b2 &= 0x7F
	if b2 < 0x40 || b2 > 0x7F {
		return PAC{}, false
	}
	row := rows[0]
	if b2 >= 0x60 {
		row = rows[1]
		b2 -= 0x20
	}
	attr := (b2 - 0x40) >> 1
	pac := PAC{Row: row}
	switch {
	case attr <= 6:
		pac.Color = pacColors[attr]
	case attr == 7:
		pac.Italic = true
	default:
		pac.Indent = int(attr-8) * 4
	}
	if b2&0x01 != 0 {
		pac.Underline = true
	}
	return pac, true
}

// pacRowByteTable maps a row number to the PAC first byte and whether it
// occupies the row-table's high half, the inverse of pacRowTable.
var pacRowByteTable = buildPacRowByteTable()

type pacRowLocation struct {
	b1   byte
	high bool
}

func buildPacRowByteTable() map[int]pacRowLocation {
	out := make(map[int]pacRowLocation, 15)
	for b1, rows := range pacRowTable {
		if _, ok := out[rows[0]]; !ok {
			out[rows[0]] = pacRowLocation{b1: b1, high: false}
		}
		if _, ok := out[rows[1]]; !ok {
			out[rows[1]] = pacRowLocation{b1: b1, high: rows[1] != rows[0]}
		}
	}
	return out
}

var pacColorsReverse = func() map[string]byte {
	out := make(map[string]byte, len(pacColors))
	for i, c := range pacColors {
		out[c] = byte(i)
	}
	return out
}()

// EncodePAC encodes a PAC back to its two-byte pair, false if its Row is
// outside the 1-15 range DecodePAC can address.
func EncodePAC(pac PAC) (b1, b2 byte, ok bool) {
	loc, ok := pacRowByteTable[pac.Row]
	if !ok {
		return 0, 0, false
	}
	var attr byte
	switch {
	case pac.Italic:
		attr = 7
	case pac.Indent > 0:
		attr = 8 + byte(pac.Indent/4)
	default:
		attr = pacColorsReverse[pac.Color]
	}
	b2 = 0x40 + (attr << 1)
	if pac.Underline {
		b2 |= 0x01
	}
	if loc.high {
		b2 += 0x20
	}
	return loc.b1, b2, true
}
