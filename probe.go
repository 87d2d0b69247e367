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

package subforge

import (
	"bytes"
	"regexp"

	"github.com/wiedymi/subforge-sub002/pkg/convert"
)

// Probe makes a best-effort guess at a byte buffer's subtitle format: magic
// bytes for the binary formats, a handful of line-shape regexes for the
// text ones. Per spec.md §1 this is a convenience only — callers still
// pass the format explicitly to Parse — so a wrong or zero-confidence guess
// is never itself an error.
func Probe(data []byte) (FormatID, float64) {
	if len(data) == 0 {
		return "", 0
	}

	if id, conf, ok := probeBinary(data); ok {
		return id, conf
	}
	return probeText(data)
}

func probeBinary(data []byte) (FormatID, float64, bool) {
	switch {
	case len(data) >= 2 && data[0] == 0x50 && data[1] == 0x47:
		return convert.FormatPGS, 0.8, true
	case len(data) >= 1 && data[0] == 0x0F:
		return convert.FormatDVB, 0.6, true
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0x00, 0x00, 0x01}):
		return convert.FormatPAC, 0.4, true
	case len(data) >= 1024 && looksLikeGSI(data[:1024]):
		return convert.FormatEBUSTL, 0.85, true
	}
	return "", 0, false
}

// looksLikeGSI checks the GSI block's disk format code field (bytes 3-13,
// space-padded) against the STL25/STL30 values rather than full parsing.
func looksLikeGSI(gsi []byte) bool {
	if len(gsi) < 12 {
		return false
	}
	df := string(bytes.TrimRight(gsi[3:14], " "))
	switch df {
	case "STL25.01", "STL30.01", "STL25.02", "STL30.02":
		return true
	}
	return false
}

var (
	reVTTHeader      = regexp.MustCompile(`^\xEF\xBB\xBF?WEBVTT`)
	reSRTCue         = regexp.MustCompile(`(?m)^\d+\s*\r?\n\d{2}:\d{2}:\d{2}[,.]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[,.]\d{3}`)
	reVTTCue         = regexp.MustCompile(`(?m)^\d{2}:\d{2}:\d{2}\.\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}\.\d{3}`)
	reASSSection     = regexp.MustCompile(`(?i)\[script info\]`)
	reV4PlusStyles   = regexp.MustCompile(`(?i)\[v4\+ styles\]`)
	reSAMITag        = regexp.MustCompile(`(?i)<sami>`)
	reTTMLTag        = regexp.MustCompile(`(?i)<tt[ :>]`)
	reRealTextWindow = regexp.MustCompile(`(?i)<window`)
	reQTHeader       = regexp.MustCompile(`\{QTtext\}|\{timeScale:\d+\}`)
	reQTTimestamp    = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\.\d{2}\]`)
	reMicroDVD       = regexp.MustCompile(`(?m)^\{\d+\}\{\d+\}`)
	reLRCTag         = regexp.MustCompile(`(?m)^\[\d{2}:\d{2}\.\d{2}\]`)
	reSBVCue         = regexp.MustCompile(`(?m)^\d:\d{2}:\d{2}\.\d{3},\d:\d{2}:\d{2}\.\d{3}`)
	reSpruceCue      = regexp.MustCompile(`(?m)^\d{2}:\d{2}:\d{2}:\d{2}\s*,\s*\d{2}:\d{2}:\d{2}:\d{2}\s*,`)
	reSCCHeader      = regexp.MustCompile(`^Scenarist_SCC V1\.0`)
)

func probeText(data []byte) (FormatID, float64) {
	s := string(data)

	switch {
	case reVTTHeader.Match(data):
		return convert.FormatVTT, 0.95
	case reSCCHeader.MatchString(s):
		return convert.FormatSCC, 0.95
	case reV4PlusStyles.MatchString(s):
		return convert.FormatASS, 0.9
	case reASSSection.MatchString(s):
		return convert.FormatSSA, 0.8
	case reSAMITag.MatchString(s):
		return convert.FormatSAMI, 0.9
	case reTTMLTag.MatchString(s):
		return convert.FormatTTML, 0.75
	case reRealTextWindow.MatchString(s):
		return convert.FormatRealText, 0.7
	case reQTHeader.MatchString(s) || reQTTimestamp.MatchString(s):
		return convert.FormatQT, 0.6
	case reMicroDVD.MatchString(s):
		return convert.FormatMicroDVD, 0.8
	case reLRCTag.MatchString(s):
		return convert.FormatLRC, 0.8
	case reSpruceCue.MatchString(s):
		return convert.FormatSpruceSTL, 0.75
	case reSBVCue.MatchString(s):
		return convert.FormatSBV, 0.7
	case reSRTCue.MatchString(s):
		return convert.FormatSRT, 0.85
	case reVTTCue.MatchString(s):
		return convert.FormatVTT, 0.6
	}
	return "", 0
}
