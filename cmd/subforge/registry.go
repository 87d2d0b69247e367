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

package main

import (
	"fmt"

	subforge "github.com/wiedymi/subforge-sub002"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// formatEntry adapts one subforge codec's parseXxxResult/toXxx pair to the
// byte-in/byte-out shape the CLI works with. VobSub (idx+sub pair) and
// Teletext (external page timing) don't fit this shape and are not in this
// table, so the CLI does not handle them.
type formatEntry struct {
	parseResult func(raw []byte) *subforge.ParseResult
	serialize   func(doc *subforge.Document) []byte
}

func strResult(f func(string, subforge.ParseOptions) *subforge.ParseResult) func([]byte) *subforge.ParseResult {
	return func(raw []byte) *subforge.ParseResult { return f(string(raw), subtitle.DefaultParseOptions()) }
}

func binResult(f func([]byte, subforge.ParseOptions) *subforge.ParseResult) func([]byte) *subforge.ParseResult {
	return func(raw []byte) *subforge.ParseResult { return f(raw, subtitle.DefaultParseOptions()) }
}

func strSerialize(f func(*subforge.Document) string) func(*subforge.Document) []byte {
	return func(doc *subforge.Document) []byte { return []byte(f(doc)) }
}

var registry = map[string]formatEntry{
	"ass":       {strResult(subforge.ParseASSResult), strSerialize(subforge.ToASS)},
	"ssa":       {strResult(subforge.ParseSSAResult), strSerialize(subforge.ToSSA)},
	"srt":       {strResult(subforge.ParseSRTResult), strSerialize(subforge.ToSRT)},
	"vtt":       {strResult(subforge.ParseVTTResult), strSerialize(subforge.ToVTT)},
	"sbv":       {strResult(subforge.ParseSBVResult), strSerialize(subforge.ToSBV)},
	"lrc":       {strResult(subforge.ParseLRCResult), strSerialize(subforge.ToLRC)},
	"microdvd":  {strResult(subforge.ParseMicroDVDResult), strSerialize(subforge.ToMicroDVD)},
	"sami":      {strResult(subforge.ParseSAMIResult), strSerialize(subforge.ToSAMI)},
	"realtext":  {strResult(subforge.ParseRealTextResult), strSerialize(subforge.ToRealText)},
	"qt":        {strResult(subforge.ParseQTResult), strSerialize(subforge.ToQT)},
	"ttml":      {strResult(subforge.ParseTTMLResult), strSerialize(subforge.ToTTML)},
	"dfxp":      {strResult(subforge.ParseDFXPResult), strSerialize(subforge.ToDFXP)},
	"smptett":   {strResult(subforge.ParseSMPTETTResult), strSerialize(subforge.ToSMPTETT)},
	"scc":       {strResult(subforge.ParseSCCResult), strSerialize(subforge.ToSCC)},
	"cap":       {strResult(subforge.ParseCAPResult), strSerialize(subforge.ToCAP)},
	"sprucestl": {strResult(subforge.ParseSpruceSTLResult), strSerialize(subforge.ToSpruceSTL)},
	"ebustl":    {binResult(subforge.ParseEBUSTLResult), subforge.ToEBUSTL},
	"pac":       {binResult(subforge.ParsePACResult), subforge.ToPAC},
	"pgs":       {binResult(subforge.ParsePGSResult), subforge.ToPGS},
	"dvb":       {binResult(subforge.ParseDVBResult), subforge.ToDVB},
}

func lookupFormat(name string) (formatEntry, error) {
	e, ok := registry[name]
	if !ok {
		return formatEntry{}, fmt.Errorf("unknown or unsupported-in-CLI format %q (vobsub and teletext are not available in the CLI)", name)
	}
	return e, nil
}
