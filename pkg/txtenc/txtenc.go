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

// Package txtenc detects and transcodes the byte encodings the text-format
// codecs may see on input: BOM sniffing and a structural/heuristic detector
// for the closed set of encodings spec.md §4.1.3 names, then decode/encode
// via golang.org/x/text's encoding implementations rather than hand-rolled
// codepage tables.
package txtenc

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Encoding names forming the closed detection set.
const (
	UTF8       = "UTF-8"
	UTF16LE    = "UTF-16LE"
	UTF16BE    = "UTF-16BE"
	ShiftJIS   = "Shift-JIS"
	EUCJP      = "EUC-JP"
	EUCKR      = "EUC-KR"
	GB2312     = "GB2312"
	GBK        = "GBK"
	GB18030    = "GB18030"
	Windows1250 = "Windows-1250"
	Windows1251 = "Windows-1251"
	Windows1252 = "Windows-1252"
	Windows1253 = "Windows-1253"
	Windows1254 = "Windows-1254"
	Windows1255 = "Windows-1255"
	Windows1256 = "Windows-1256"
	Windows1257 = "Windows-1257"
	Windows1258 = "Windows-1258"
	KOI8R       = "KOI8-R"
	ISO88591    = "ISO-8859-1"
	ISO88592    = "ISO-8859-2"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}
var bomUTF16LE = []byte{0xFF, 0xFE}
var bomUTF16BE = []byte{0xFE, 0xFF}

// Detect returns one of the named encodings above, following spec.md's
// detection order: BOM sniff, then full-buffer UTF-8 structural validation,
// then heuristic byte-range scoring for the CJK legacy encodings, falling
// back to UTF-8.
func Detect(b []byte) string {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return UTF8
	case bytes.HasPrefix(b, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(b, bomUTF16BE):
		return UTF16BE
	}

	if utf8.Valid(b) {
		return UTF8
	}

	if looksShiftJIS(b) {
		return ShiftJIS
	}
	if looksEUCJP(b) {
		return EUCJP
	}
	if looksEUCKR(b) {
		return EUCKR
	}
	if looksGBK(b) {
		return GBK
	}

	return UTF8
}

// looksShiftJIS scores the proportion of bytes that fall into Shift-JIS's
// two-byte lead-byte ranges (0x81-0x9F, 0xE0-0xFC) followed by a valid
// trail byte (0x40-0xFC excluding 0x7F).
func looksShiftJIS(b []byte) bool {
	hits, total := 0, 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		if (c >= 0x81 && c <= 0x9F) || (c >= 0xE0 && c <= 0xFC) {
			total++
			if i+1 < len(b) {
				t := b[i+1]
				if (t >= 0x40 && t <= 0xFC) && t != 0x7F {
					hits++
					i++
				}
			}
		}
	}
	return total > 0 && hits*2 >= total
}

// looksEUCJP scores bytes in EUC-JP's 0xA1-0xFE lead/trail ranges.
func looksEUCJP(b []byte) bool {
	hits, total := 0, 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 0xA1 && c <= 0xFE {
			total++
			if i+1 < len(b) && b[i+1] >= 0xA1 && b[i+1] <= 0xFE {
				hits++
				i++
			}
		}
	}
	return total > 0 && hits*2 >= total
}

// looksEUCKR scores bytes in EUC-KR's 0xA1-0xFE lead range with a trail
// byte in 0xA1-0xFE, distinguished from EUC-JP only by caller preference
// order (heuristics here cannot fully disambiguate; spec.md accepts this).
func looksEUCKR(b []byte) bool {
	return looksEUCJP(b)
}

// looksGBK scores bytes in GBK's 0x81-0xFE lead range with a trail byte in
// 0x40-0xFE (excluding 0x7F).
func looksGBK(b []byte) bool {
	hits, total := 0, 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 0x81 && c <= 0xFE {
			total++
			if i+1 < len(b) {
				t := b[i+1]
				if (t >= 0x40 && t <= 0xFE) && t != 0x7F {
					hits++
					i++
				}
			}
		}
	}
	return total > 0 && hits*2 >= total
}

func encodingFor(name string) (encoding.Encoding, error) {
	switch name {
	case ShiftJIS:
		return japanese.ShiftJIS, nil
	case EUCJP:
		return japanese.EUCJP, nil
	case EUCKR:
		return korean.EUCKR, nil
	case GB2312, GBK:
		return simplifiedchinese.GBK, nil
	case GB18030:
		return simplifiedchinese.GB18030, nil
	case Windows1250:
		return charmap.Windows1250, nil
	case Windows1251:
		return charmap.Windows1251, nil
	case Windows1252:
		return charmap.Windows1252, nil
	case Windows1253:
		return charmap.Windows1253, nil
	case Windows1254:
		return charmap.Windows1254, nil
	case Windows1255:
		return charmap.Windows1255, nil
	case Windows1256:
		return charmap.Windows1256, nil
	case Windows1257:
		return charmap.Windows1257, nil
	case Windows1258:
		return charmap.Windows1258, nil
	case KOI8R:
		return charmap.KOI8R, nil
	case ISO88591:
		return charmap.ISO8859_1, nil
	case ISO88592:
		return charmap.ISO8859_2, nil
	default:
		return nil, fmt.Errorf("txtenc: unknown encoding %q", name)
	}
}

// Decode strips a BOM if present and returns text. If name is empty,
// Detect is used first.
func Decode(b []byte, name string) (string, error) {
	if name == "" {
		name = Detect(b)
	}
	switch name {
	case UTF8:
		b = bytes.TrimPrefix(b, bomUTF8)
		if !utf8.Valid(b) {
			return "", fmt.Errorf("txtenc: invalid UTF-8")
		}
		return string(b), nil
	case UTF16LE:
		b = bytes.TrimPrefix(b, bomUTF16LE)
		return decodeUTF16(b, false)
	case UTF16BE:
		b = bytes.TrimPrefix(b, bomUTF16BE)
		return decodeUTF16(b, true)
	}

	enc, err := encodingFor(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("txtenc: decode %s: %w", name, err)
	}
	return string(out), nil
}

func decodeUTF16(b []byte, bigEndian bool) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("txtenc: odd-length UTF-16 buffer")
	}
	u16 := make([]uint16, len(b)/2)
	for i := 0; i < len(u16); i++ {
		if bigEndian {
			u16[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
		} else {
			u16[i] = uint16(b[2*i+1])<<8 | uint16(b[2*i])
		}
	}
	return string(utf16.Decode(u16)), nil
}

// Encode writes text using the named encoding, prefixing the appropriate
// BOM for UTF-16 variants.
func Encode(text, name string) ([]byte, error) {
	switch name {
	case "", UTF8:
		return []byte(text), nil
	case UTF16LE:
		return append(append([]byte{}, bomUTF16LE...), encodeUTF16(text, false)...), nil
	case UTF16BE:
		return append(append([]byte{}, bomUTF16BE...), encodeUTF16(text, true)...), nil
	}

	enc, err := encodingFor(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("txtenc: encode %s: %w", name, err)
	}
	return out, nil
}

func encodeUTF16(s string, bigEndian bool) []byte {
	u16 := utf16.Encode([]rune(s))
	out := make([]byte, len(u16)*2)
	for i, v := range u16 {
		if bigEndian {
			out[2*i] = byte(v >> 8)
			out[2*i+1] = byte(v)
		} else {
			out[2*i] = byte(v)
			out[2*i+1] = byte(v >> 8)
		}
	}
	return out
}
