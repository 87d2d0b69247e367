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

// Package subforge is the public façade over every codec in pkg/codec and
// the conversion engine in pkg/convert: one parseXxx/parseXxxResult/toXxx
// triplet per supported format, plus Probe and the re-exported document
// types. Callers who only need one or two formats can import pkg/codec/xxx
// directly instead; this package exists for callers who want the whole
// format family behind one name.
package subforge

import (
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
	"github.com/wiedymi/subforge-sub002/pkg/convert"
	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Re-exported so callers don't need a second import for the common types.
type (
	Document         = subtitle.Document
	Event            = subtitle.Event
	ParseOptions     = subtitle.ParseOptions
	ParseResult      = subtitle.ParseResult
	SerializeOptions = subtitle.SerializeOptions
	Error            = subtitle.Error
	ErrorCode        = subtitle.ErrorCode
	FormatID         = convert.FormatID
	ConvertOptions   = convert.Options
	ConvertResult    = convert.Result
	LostFeature      = convert.LostFeature
	VobSubOutput     = convert.VobSubOutput
)

// Convert dispatches to pkg/convert.Convert.
func Convert(doc *Document, opts ConvertOptions) (ConvertResult, error) {
	return convert.Convert(doc, opts)
}

// firstErrorOrNil turns a ParseResult into the (Document, error) shape
// spec.md's parseXxx entry points use: nil and the first recoverable error
// when the result did not parse, the document otherwise.
func firstErrorOrNil(res *subtitle.ParseResult) (*subtitle.Document, error) {
	if res.OK {
		return res.Document, nil
	}
	if len(res.Errors) > 0 {
		return nil, res.Errors[0]
	}
	return nil, subtitle.NewError(subtitle.ErrMalformedEvent, 0, 0, "parse failed with no recorded error")
}

// ASS / SSA

func ParseASS(raw string) (*Document, error) { return firstErrorOrNil(ass.Parse(raw)) }
func ParseASSResult(raw string, opts ParseOptions) *ParseResult {
	return ass.ParseWithOptions(raw, opts)
}
func ToASS(doc *Document) string { return ass.Serialize(doc) }
func ToASSWithOptions(doc *Document, opts SerializeOptions) string {
	return ass.SerializeWithOptions(doc, opts)
}

// ParseSSA, ParseSSAResult, ToSSA and ToSSAWithOptions are named aliases:
// ASS and SSA share one grammar and one codec package.
func ParseSSA(raw string) (*Document, error)              { return ParseASS(raw) }
func ParseSSAResult(raw string, opts ParseOptions) *ParseResult { return ParseASSResult(raw, opts) }
func ToSSA(doc *Document) string                           { return ToASS(doc) }
func ToSSAWithOptions(doc *Document, opts SerializeOptions) string {
	return ToASSWithOptions(doc, opts)
}

// SRT

func ParseSRT(raw string) (*Document, error) { return firstErrorOrNil(srt.Parse(raw)) }
func ParseSRTResult(raw string, opts ParseOptions) *ParseResult {
	return srt.ParseWithOptions(raw, opts)
}
func ToSRT(doc *Document) string { return srt.Serialize(doc) }
func ToSRTWithOptions(doc *Document, opts SerializeOptions) string {
	return srt.SerializeWithOptions(doc, opts)
}

// VTT (WebVTT)

func ParseVTT(raw string) (*Document, error) { return firstErrorOrNil(vtt.Parse(raw)) }
func ParseVTTResult(raw string, opts ParseOptions) *ParseResult {
	return vtt.ParseWithOptions(raw, opts)
}
func ToVTT(doc *Document) string { return vtt.Serialize(doc) }
func ToVTTWithOptions(doc *Document, opts SerializeOptions) string {
	return vtt.SerializeWithOptions(doc, opts)
}

// SBV

func ParseSBV(raw string) (*Document, error) { return firstErrorOrNil(sbv.Parse(raw)) }
func ParseSBVResult(raw string, opts ParseOptions) *ParseResult {
	return sbv.ParseWithOptions(raw, opts)
}
func ToSBV(doc *Document) string { return sbv.Serialize(doc) }
func ToSBVWithOptions(doc *Document, opts SerializeOptions) string {
	return sbv.SerializeWithOptions(doc, opts)
}

// LRC

func ParseLRC(raw string) (*Document, error) { return firstErrorOrNil(lrc.Parse(raw)) }
func ParseLRCResult(raw string, opts ParseOptions) *ParseResult {
	return lrc.ParseWithOptions(raw, opts)
}
func ToLRC(doc *Document) string { return lrc.Serialize(doc) }
func ToLRCWithOptions(doc *Document, opts SerializeOptions) string {
	return lrc.SerializeWithOptions(doc, opts)
}

// MicroDVD

func ParseMicroDVD(raw string) (*Document, error) { return firstErrorOrNil(microdvd.Parse(raw)) }
func ParseMicroDVDResult(raw string, opts ParseOptions) *ParseResult {
	return microdvd.ParseWithOptions(raw, opts)
}
func ToMicroDVD(doc *Document) string { return microdvd.Serialize(doc) }
func ToMicroDVDWithOptions(doc *Document, opts SerializeOptions) string {
	return microdvd.SerializeWithOptions(doc, opts)
}

// SAMI

func ParseSAMI(raw string) (*Document, error) { return firstErrorOrNil(sami.Parse(raw)) }
func ParseSAMIResult(raw string, opts ParseOptions) *ParseResult {
	return sami.ParseWithOptions(raw, opts)
}
func ToSAMI(doc *Document) string { return sami.Serialize(doc) }
func ToSAMIWithOptions(doc *Document, opts SerializeOptions) string {
	return sami.SerializeWithOptions(doc, opts)
}

// RealText

func ParseRealText(raw string) (*Document, error) { return firstErrorOrNil(realtext.Parse(raw)) }
func ParseRealTextResult(raw string, opts ParseOptions) *ParseResult {
	return realtext.ParseWithOptions(raw, opts)
}
func ToRealText(doc *Document) string { return realtext.Serialize(doc) }
func ToRealTextWithOptions(doc *Document, opts SerializeOptions) string {
	return realtext.SerializeWithOptions(doc, opts)
}

// QT (Apple QuickTime Text)

func ParseQT(raw string) (*Document, error) { return firstErrorOrNil(qt.Parse(raw)) }
func ParseQTResult(raw string, opts ParseOptions) *ParseResult {
	return qt.ParseWithOptions(raw, opts)
}
func ToQT(doc *Document) string { return qt.Serialize(doc) }
func ToQTWithOptions(doc *Document, opts SerializeOptions) string {
	return qt.SerializeWithOptions(doc, opts)
}

// TTML / DFXP / SMPTE-TT

func ParseTTML(raw string) (*Document, error) { return firstErrorOrNil(ttml.Parse(raw)) }
func ParseTTMLResult(raw string, opts ParseOptions) *ParseResult {
	return ttml.ParseWithOptions(raw, opts)
}
func ToTTML(doc *Document) string { return ttml.Serialize(doc) }
func ToTTMLWithOptions(doc *Document, opts SerializeOptions) string {
	return ttml.SerializeWithOptions(doc, opts)
}

// ParseDFXP, ParseSMPTETT and their ToXxx counterparts alias TTML: all
// three are the same XML timed-text grammar under different names.
func ParseDFXP(raw string) (*Document, error)                      { return ParseTTML(raw) }
func ParseDFXPResult(raw string, opts ParseOptions) *ParseResult   { return ParseTTMLResult(raw, opts) }
func ToDFXP(doc *Document) string                                  { return ToTTML(doc) }
func ToDFXPWithOptions(doc *Document, opts SerializeOptions) string { return ToTTMLWithOptions(doc, opts) }

func ParseSMPTETT(raw string) (*Document, error)                    { return ParseTTML(raw) }
func ParseSMPTETTResult(raw string, opts ParseOptions) *ParseResult { return ParseTTMLResult(raw, opts) }
func ToSMPTETT(doc *Document) string                                { return ToTTML(doc) }
func ToSMPTETTWithOptions(doc *Document, opts SerializeOptions) string {
	return ToTTMLWithOptions(doc, opts)
}

// SCC (Scenarist Closed Caption)

func ParseSCC(raw string) (*Document, error) { return firstErrorOrNil(scc.Parse(raw)) }
func ParseSCCResult(raw string, opts ParseOptions) *ParseResult {
	return scc.ParseWithOptions(raw, opts)
}
func ToSCC(doc *Document) string { return scc.Serialize(doc) }
func ToSCCWithOptions(doc *Document, opts SerializeOptions) string {
	return scc.SerializeWithOptions(doc, opts)
}

// CAP (Cheetah CAP)

func ParseCAP(raw string) (*Document, error) { return firstErrorOrNil(cap.Parse(raw)) }
func ParseCAPResult(raw string, opts ParseOptions) *ParseResult {
	return cap.ParseWithOptions(raw, opts)
}
func ToCAP(doc *Document) string { return cap.Serialize(doc) }
func ToCAPWithOptions(doc *Document, opts SerializeOptions) string {
	return cap.SerializeWithOptions(doc, opts)
}

// Spruce STL (text)

func ParseSpruceSTL(raw string) (*Document, error) { return firstErrorOrNil(sprucestl.Parse(raw)) }
func ParseSpruceSTLResult(raw string, opts ParseOptions) *ParseResult {
	return sprucestl.ParseWithOptions(raw, opts)
}
func ToSpruceSTL(doc *Document) string { return sprucestl.Serialize(doc) }
func ToSpruceSTLWithOptions(doc *Document, opts SerializeOptions) string {
	return sprucestl.SerializeWithOptions(doc, opts)
}

// EBU-STL (binary)

func ParseEBUSTL(raw []byte) (*Document, error) { return firstErrorOrNil(ebustl.Parse(raw)) }
func ParseEBUSTLResult(raw []byte, opts ParseOptions) *ParseResult {
	return ebustl.ParseWithOptions(raw, opts)
}
func ToEBUSTL(doc *Document) []byte { return ebustl.Serialize(doc) }
func ToEBUSTLWithOptions(doc *Document, opts SerializeOptions) []byte {
	return ebustl.SerializeWithOptions(doc, opts)
}

// PAC (binary)

func ParsePAC(raw []byte) (*Document, error) { return firstErrorOrNil(pac.Parse(raw)) }
func ParsePACResult(raw []byte, opts ParseOptions) *ParseResult {
	return pac.ParseWithOptions(raw, opts)
}
func ToPAC(doc *Document) []byte { return pac.Serialize(doc) }
func ToPACWithOptions(doc *Document, opts SerializeOptions) []byte {
	return pac.SerializeWithOptions(doc, opts)
}

// PGS (binary, image subtitle)

func ParsePGS(raw []byte) (*Document, error) { return firstErrorOrNil(pgs.Parse(raw)) }
func ParsePGSResult(raw []byte, opts ParseOptions) *ParseResult {
	return pgs.ParseWithOptions(raw, opts)
}
func ToPGS(doc *Document) []byte { return pgs.Serialize(doc) }
func ToPGSWithOptions(doc *Document, opts SerializeOptions) []byte {
	return pgs.SerializeWithOptions(doc, opts)
}

// DVB subtitling (binary, image subtitle)

func ParseDVB(raw []byte) (*Document, error) { return firstErrorOrNil(dvb.Parse(raw)) }
func ParseDVBResult(raw []byte, opts ParseOptions) *ParseResult {
	return dvb.ParseWithOptions(raw, opts)
}
func ToDVB(doc *Document) []byte { return dvb.Serialize(doc) }
func ToDVBWithOptions(doc *Document, opts SerializeOptions) []byte {
	return dvb.SerializeWithOptions(doc, opts)
}

// VobSub (binary, idx/sub pair, image subtitle)

func ParseVobSub(idx string, sub []byte) (*Document, error) {
	return firstErrorOrNil(vobsub.Parse(idx, sub))
}
func ParseVobSubResult(idx string, sub []byte, opts ParseOptions) *ParseResult {
	return vobsub.ParseWithOptions(idx, sub, opts)
}
func ToVobSub(doc *Document) (idx string, sub []byte) { return vobsub.Serialize(doc) }
func ToVobSubWithOptions(doc *Document, opts SerializeOptions) (string, []byte) {
	return vobsub.SerializeWithOptions(doc, opts)
}

// Teletext (binary; timing is not carried in-band, see pkg/codec/teletext)

func ParseTeletext(raw []byte, pageTimes []int) (*Document, error) {
	return firstErrorOrNil(ParseTeletextResult(raw, teletext.Options{
		ParseOptions: subtitle.DefaultParseOptions(),
		PageTimes:    pageTimes,
	}))
}
func ParseTeletextResult(raw []byte, opts teletext.Options) *ParseResult {
	return teletext.ParseWithOptions(raw, opts)
}
func ToTeletext(doc *Document) []byte { return teletext.Serialize(doc) }
func ToTeletextWithOptions(doc *Document, opts SerializeOptions) []byte {
	return teletext.SerializeWithOptions(doc, opts)
}
