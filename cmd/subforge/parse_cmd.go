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
	"os"

	"github.com/spf13/cobra"

	"github.com/wiedymi/subforge-sub002/sflog"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a subtitle file and report its event count, errors and warnings",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "source format (srt, ass, vtt, ...); required")
	_ = parseCmd.MarkFlagRequired("format")
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	entry, err := lookupFormat(parseFormat)
	if err != nil {
		return err
	}

	res := entry.parseResult(raw)
	sflog.Report(os.Stderr, parseFormat, res)
	if !res.OK {
		return fmt.Errorf("parse failed: %d error(s)", len(res.Errors))
	}

	fmt.Printf("%s: %d events\n", args[0], len(res.Document.Events))
	if err := res.Document.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v\n", err)
	}
	return nil
}
