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

// Package sflog is an optional zerolog adapter for hosts embedding
// subforge. The core packages never log — Parse/Serialize return
// errors/warnings on ParseResult, per spec.md §4.3/§7 — this package just
// gives a host a chained Error()/Warn()/Info()/Debug().Msg() builder shape
// backed by a real zerolog.Logger.
package sflog

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/wiedymi/subforge-sub002/pkg/subtitle"
)

// Logger wraps a zerolog.Logger behind a chained Format/File/Msg/Msgf builder shape,
// with Format and File fields relevant to a subtitle pipeline.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing to w. A nil w defaults to os.Stdout.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Event is a single log line under construction, mirroring pkg/log.Event's
// chained builder but carrying subtitle-domain fields instead of
// src/monitor.
type Event struct {
	ev     *zerolog.Event
	format string
	file   string
}

func (l *Logger) newEvent(ev *zerolog.Event) *Event {
	return &Event{ev: ev}
}

// Error starts an error-level event.
func (l *Logger) Error() *Event { return l.newEvent(l.zl.Error()) }

// Warn starts a warning-level event.
func (l *Logger) Warn() *Event { return l.newEvent(l.zl.Warn()) }

// Info starts an info-level event.
func (l *Logger) Info() *Event { return l.newEvent(l.zl.Info()) }

// Debug starts a debug-level event.
func (l *Logger) Debug() *Event { return l.newEvent(l.zl.Debug()) }

// Format sets the event's format field (e.g. "srt", "ass").
func (e *Event) Format(format string) *Event {
	e.format = format
	return e
}

// File sets the event's source file field.
func (e *Event) File(file string) *Event {
	e.file = file
	return e
}

// Msg sends the event with msg added as the message field.
func (e *Event) Msg(msg string) {
	ev := e.ev
	if e.format != "" {
		ev = ev.Str("format", e.format)
	}
	if e.file != "" {
		ev = ev.Str("file", e.file)
	}
	ev.Msg(msg)
}

// Msgf sends the event with a formatted msg added as the message field.
func (e *Event) Msgf(format string, v ...interface{}) {
	e.Msg(fmt.Sprintf(format, v...))
}

// Report formats a ParseResult's errors and warnings as zerolog events:
// one error-level line per entry in result.Errors, one warning-level line
// per entry in result.Warnings. It never inspects result.Document.
func Report(w io.Writer, format string, result *subtitle.ParseResult) {
	l := New(w)
	for _, err := range result.Errors {
		ev := l.Error().Format(format)
		if err.Line > 0 {
			ev.ev = ev.ev.Int("line", err.Line).Int("column", err.Column)
		}
		ev.ev = ev.ev.Str("code", string(err.Code))
		ev.Msg(err.Message)
	}
	for _, warning := range result.Warnings {
		l.Warn().Format(format).Msg(warning.Message)
	}
}
